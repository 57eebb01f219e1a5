package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avolkov/libtrack/internal/database/borrowers"
	"github.com/avolkov/libtrack/internal/entities"
)

type BorrowersController struct {
	store    BorrowerStore
	sessions *SessionManager
}

func NewBorrowersController(store BorrowerStore, sessions *SessionManager) *BorrowersController {
	return &BorrowersController{store: store, sessions: sessions}
}

// ListPage renders all borrowers with their active and total loan counts.
func (ctrl *BorrowersController) ListPage(c *gin.Context) {
	rows, err := ctrl.store.ListWithLoanCounts()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading borrowers: %s", err.Error())
		return
	}
	render(ctrl.sessions, c, http.StatusOK, "borrowers", gin.H{
		"Borrowers": rows,
	})
}

// AddPage renders the new borrower form.
func (ctrl *BorrowersController) AddPage(c *gin.Context) {
	render(ctrl.sessions, c, http.StatusOK, "add_borrower", nil)
}

// Add handles the new borrower form submission.
func (ctrl *BorrowersController) Add(c *gin.Context) {
	borrower := ctrl.borrowerFromForm(c)
	if borrower.Name == "" {
		addFlash(ctrl.sessions, c, FlashDanger, "Name is required.")
		c.Redirect(http.StatusSeeOther, "/borrowers/add")
		return
	}

	if err := ctrl.store.Create(borrower); err != nil {
		flashError(ctrl.sessions, c, err, "Could not add the borrower: "+err.Error())
		c.Redirect(http.StatusSeeOther, "/borrowers/add")
		return
	}

	addFlash(ctrl.sessions, c, FlashSuccess, "Borrower added successfully.")
	c.Redirect(http.StatusSeeOther, "/borrowers")
}

// EditPage renders the edit form for a borrower.
func (ctrl *BorrowersController) EditPage(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	borrower, err := ctrl.store.GetByID(id)
	if errors.Is(err, borrowers.ErrNotFound) {
		addFlash(ctrl.sessions, c, FlashDanger, "Borrower not found.")
		c.Redirect(http.StatusSeeOther, "/borrowers")
		return
	}
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading borrower: %s", err.Error())
		return
	}

	render(ctrl.sessions, c, http.StatusOK, "edit_borrower", gin.H{
		"Borrower": borrower,
	})
}

// Edit handles the edit form submission.
func (ctrl *BorrowersController) Edit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	borrower := ctrl.borrowerFromForm(c)
	borrower.ID = id

	err := ctrl.store.Update(borrower)
	switch {
	case errors.Is(err, borrowers.ErrNotFound):
		addFlash(ctrl.sessions, c, FlashDanger, "Borrower not found.")
	case err != nil:
		flashError(ctrl.sessions, c, err, "Could not update the borrower: "+err.Error())
		c.Redirect(http.StatusSeeOther, "/borrowers/edit/"+c.Param("id"))
		return
	default:
		addFlash(ctrl.sessions, c, FlashSuccess, "Borrower updated successfully.")
	}
	c.Redirect(http.StatusSeeOther, "/borrowers")
}

func (ctrl *BorrowersController) borrowerFromForm(c *gin.Context) *entities.Borrower {
	borrower := &entities.Borrower{
		Name:  strings.TrimSpace(c.PostForm("name")),
		Email: formOptional(c, "email"),
	}
	if phone := formOptional(c, "phone"); phone != nil {
		borrower.Phone = *phone
	}
	return borrower
}
