package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avolkov/libtrack/internal/database/categories"
	"github.com/avolkov/libtrack/internal/entities"
)

type CategoriesController struct {
	store    CategoryStore
	sessions *SessionManager
}

func NewCategoriesController(store CategoryStore, sessions *SessionManager) *CategoriesController {
	return &CategoriesController{store: store, sessions: sessions}
}

// ListPage renders all categories with book counts. The add form lives on
// the same page.
func (ctrl *CategoriesController) ListPage(c *gin.Context) {
	rows, err := ctrl.store.ListWithBookCounts()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading categories: %s", err.Error())
		return
	}
	render(ctrl.sessions, c, http.StatusOK, "categories", gin.H{
		"Categories": rows,
	})
}

// Add handles the inline add form submission.
func (ctrl *CategoriesController) Add(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		addFlash(ctrl.sessions, c, FlashDanger, "Category name is required.")
		c.Redirect(http.StatusSeeOther, "/categories")
		return
	}

	if err := ctrl.store.Create(&entities.Category{Name: name}); err != nil {
		flashError(ctrl.sessions, c, err, "Could not add the category: "+err.Error())
		c.Redirect(http.StatusSeeOther, "/categories")
		return
	}

	addFlash(ctrl.sessions, c, FlashSuccess, "Category added successfully.")
	c.Redirect(http.StatusSeeOther, "/categories")
}

// EditPage renders the rename form for a category.
func (ctrl *CategoriesController) EditPage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	category, err := ctrl.store.GetByID(id)
	if errors.Is(err, categories.ErrNotFound) {
		addFlash(ctrl.sessions, c, FlashDanger, "Category not found.")
		c.Redirect(http.StatusSeeOther, "/categories")
		return
	}
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading category: %s", err.Error())
		return
	}

	render(ctrl.sessions, c, http.StatusOK, "edit_category", gin.H{
		"Category": category,
	})
}

// Edit handles the rename form submission.
func (ctrl *CategoriesController) Edit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	category := &entities.Category{ID: id, Name: strings.TrimSpace(c.PostForm("name"))}

	err := ctrl.store.Update(category)
	switch {
	case errors.Is(err, categories.ErrNotFound):
		addFlash(ctrl.sessions, c, FlashDanger, "Category not found.")
	case err != nil:
		flashError(ctrl.sessions, c, err, "Could not update the category: "+err.Error())
		c.Redirect(http.StatusSeeOther, "/categories/edit/"+c.Param("id"))
		return
	default:
		addFlash(ctrl.sessions, c, FlashSuccess, "Category updated successfully.")
	}
	c.Redirect(http.StatusSeeOther, "/categories")
}
