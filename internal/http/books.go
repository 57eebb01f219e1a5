package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avolkov/libtrack/internal/database/books"
	"github.com/avolkov/libtrack/internal/entities"
)

type BooksController struct {
	store      BookStore
	categories CategoryStore
	sessions   *SessionManager
}

func NewBooksController(store BookStore, categories CategoryStore, sessions *SessionManager) *BooksController {
	return &BooksController{
		store:      store,
		categories: categories,
		sessions:   sessions,
	}
}

// ListPage renders the inventory, optionally filtered by a title search
// and/or a category.
func (ctrl *BooksController) ListPage(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))
	var categoryID uint
	if raw := c.Query("category_id"); raw != "" {
		if id, err := parseQueryUint(raw); err == nil {
			categoryID = id
		}
	}

	rows, err := ctrl.store.List(search, categoryID)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading books: %s", err.Error())
		return
	}
	cats, err := ctrl.categories.ListWithBookCounts()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading categories: %s", err.Error())
		return
	}

	render(ctrl.sessions, c, http.StatusOK, "books", gin.H{
		"Books":            rows,
		"Categories":       cats,
		"Search":           search,
		"SelectedCategory": categoryID,
	})
}

// AddPage renders the new book form.
func (ctrl *BooksController) AddPage(c *gin.Context) {
	cats, err := ctrl.categories.ListWithBookCounts()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading categories: %s", err.Error())
		return
	}
	render(ctrl.sessions, c, http.StatusOK, "add_book", gin.H{
		"Categories": cats,
	})
}

// Add handles the new book form submission.
func (ctrl *BooksController) Add(c *gin.Context) {
	book := ctrl.bookFromForm(c)
	if book.Title == "" {
		addFlash(ctrl.sessions, c, FlashDanger, "Title is required.")
		c.Redirect(http.StatusSeeOther, "/books/add")
		return
	}

	if err := ctrl.store.Create(book); err != nil {
		flashError(ctrl.sessions, c, err, "Could not add the book: "+err.Error())
		c.Redirect(http.StatusSeeOther, "/books/add")
		return
	}

	addFlash(ctrl.sessions, c, FlashSuccess, "Book added successfully.")
	c.Redirect(http.StatusSeeOther, "/books")
}

// EditPage renders the edit form for a book.
func (ctrl *BooksController) EditPage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := ctrl.store.GetByID(id)
	if errors.Is(err, books.ErrNotFound) {
		addFlash(ctrl.sessions, c, FlashDanger, "Book not found.")
		c.Redirect(http.StatusSeeOther, "/books")
		return
	}
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading book: %s", err.Error())
		return
	}
	cats, err := ctrl.categories.ListWithBookCounts()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading categories: %s", err.Error())
		return
	}

	render(ctrl.sessions, c, http.StatusOK, "edit_book", gin.H{
		"Book":       book,
		"Categories": cats,
	})
}

// Edit handles the edit form submission. Shrinking the copy count below
// the number currently on loan is refused with a specific message.
func (ctrl *BooksController) Edit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book := ctrl.bookFromForm(c)
	book.ID = id

	err := ctrl.store.Update(book)
	switch {
	case errors.Is(err, books.ErrNotFound):
		addFlash(ctrl.sessions, c, FlashDanger, "Book not found.")
		c.Redirect(http.StatusSeeOther, "/books")
		return
	case errors.Is(err, books.ErrQuantityBelowLoans):
		addFlash(ctrl.sessions, c, FlashDanger,
			"Quantity cannot be lower than the number of copies currently on loan.")
		c.Redirect(http.StatusSeeOther, "/books/edit/"+c.Param("id"))
		return
	case err != nil:
		flashError(ctrl.sessions, c, err, "Could not update the book: "+err.Error())
		c.Redirect(http.StatusSeeOther, "/books/edit/"+c.Param("id"))
		return
	}

	addFlash(ctrl.sessions, c, FlashSuccess, "Book updated successfully.")
	c.Redirect(http.StatusSeeOther, "/books")
}

func (ctrl *BooksController) bookFromForm(c *gin.Context) *entities.Book {
	book := &entities.Book{
		Title:    strings.TrimSpace(c.PostForm("title")),
		ISBN:     formOptional(c, "isbn"),
		Quantity: formInt(c, "quantity", 1),
	}
	if author := formOptional(c, "author_name"); author != nil {
		book.AuthorName = *author
	}
	if publisher := formOptional(c, "publisher_name"); publisher != nil {
		book.PublisherName = *publisher
	}
	if categoryID := formUint(c, "category_id"); categoryID != 0 {
		book.CategoryID = &categoryID
	}
	return book
}
