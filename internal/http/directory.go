package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avolkov/libtrack/internal/database/directory"
	"github.com/avolkov/libtrack/internal/entities"
)

// DirectoryController serves the legacy author and publisher name pages.
// Both follow the same list/add/edit shape, parameterized over the table.
type DirectoryController struct {
	store    DirectoryStore
	sessions *SessionManager
}

func NewDirectoryController(store DirectoryStore, sessions *SessionManager) *DirectoryController {
	return &DirectoryController{store: store, sessions: sessions}
}

func (ctrl *DirectoryController) AuthorsPage(c *gin.Context) {
	rows, err := ctrl.store.ListAuthors()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading authors: %s", err.Error())
		return
	}
	render(ctrl.sessions, c, http.StatusOK, "authors", gin.H{
		"Authors": rows,
	})
}

func (ctrl *DirectoryController) PublishersPage(c *gin.Context) {
	rows, err := ctrl.store.ListPublishers()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading publishers: %s", err.Error())
		return
	}
	render(ctrl.sessions, c, http.StatusOK, "publishers", gin.H{
		"Publishers": rows,
	})
}

func (ctrl *DirectoryController) AddAuthor(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		addFlash(ctrl.sessions, c, FlashDanger, "Author name is required.")
		c.Redirect(http.StatusSeeOther, "/authors")
		return
	}
	if err := ctrl.store.CreateAuthor(&entities.Author{Name: name}); err != nil {
		flashError(ctrl.sessions, c, err, "Could not add the author: "+err.Error())
		c.Redirect(http.StatusSeeOther, "/authors")
		return
	}
	addFlash(ctrl.sessions, c, FlashSuccess, "Author added successfully.")
	c.Redirect(http.StatusSeeOther, "/authors")
}

func (ctrl *DirectoryController) AddPublisher(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		addFlash(ctrl.sessions, c, FlashDanger, "Publisher name is required.")
		c.Redirect(http.StatusSeeOther, "/publishers")
		return
	}
	if err := ctrl.store.CreatePublisher(&entities.Publisher{Name: name}); err != nil {
		flashError(ctrl.sessions, c, err, "Could not add the publisher: "+err.Error())
		c.Redirect(http.StatusSeeOther, "/publishers")
		return
	}
	addFlash(ctrl.sessions, c, FlashSuccess, "Publisher added successfully.")
	c.Redirect(http.StatusSeeOther, "/publishers")
}

func (ctrl *DirectoryController) EditAuthorPage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	author, err := ctrl.store.GetAuthorByID(id)
	if errors.Is(err, directory.ErrNotFound) {
		addFlash(ctrl.sessions, c, FlashDanger, "Author not found.")
		c.Redirect(http.StatusSeeOther, "/authors")
		return
	}
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading author: %s", err.Error())
		return
	}
	render(ctrl.sessions, c, http.StatusOK, "edit_author", gin.H{
		"Author": author,
	})
}

func (ctrl *DirectoryController) EditPublisherPage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	publisher, err := ctrl.store.GetPublisherByID(id)
	if errors.Is(err, directory.ErrNotFound) {
		addFlash(ctrl.sessions, c, FlashDanger, "Publisher not found.")
		c.Redirect(http.StatusSeeOther, "/publishers")
		return
	}
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading publisher: %s", err.Error())
		return
	}
	render(ctrl.sessions, c, http.StatusOK, "edit_publisher", gin.H{
		"Publisher": publisher,
	})
}

// EditAuthor renames an author entry. The denormalized author_name on
// books is free text and is left untouched.
func (ctrl *DirectoryController) EditAuthor(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	err := ctrl.store.UpdateAuthor(&entities.Author{ID: id, Name: strings.TrimSpace(c.PostForm("name"))})
	if err != nil {
		flashError(ctrl.sessions, c, err, "Could not update the author: "+err.Error())
		c.Redirect(http.StatusSeeOther, "/authors/edit/"+c.Param("id"))
		return
	}
	addFlash(ctrl.sessions, c, FlashSuccess, "Author updated successfully.")
	c.Redirect(http.StatusSeeOther, "/authors")
}

func (ctrl *DirectoryController) EditPublisher(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	err := ctrl.store.UpdatePublisher(&entities.Publisher{ID: id, Name: strings.TrimSpace(c.PostForm("name"))})
	if err != nil {
		flashError(ctrl.sessions, c, err, "Could not update the publisher: "+err.Error())
		c.Redirect(http.StatusSeeOther, "/publishers/edit/"+c.Param("id"))
		return
	}
	addFlash(ctrl.sessions, c, FlashSuccess, "Publisher updated successfully.")
	c.Redirect(http.StatusSeeOther, "/publishers")
}
