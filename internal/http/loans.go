package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avolkov/libtrack/internal/dates"
	"github.com/avolkov/libtrack/internal/lending"
)

type LoansController struct {
	loans     LoanStore
	books     BookStore
	borrowers BorrowerStore
	lifecycle LoanLifecycle
	sessions  *SessionManager
}

func NewLoansController(loanStore LoanStore, books BookStore, borrowers BorrowerStore, lifecycle LoanLifecycle, sessions *SessionManager) *LoansController {
	return &LoansController{
		loans:     loanStore,
		books:     books,
		borrowers: borrowers,
		lifecycle: lifecycle,
		sessions:  sessions,
	}
}

// ListPage renders the full loan history with overdue badges on the
// active loans.
func (ctrl *LoansController) ListPage(c *gin.Context) {
	rows, err := ctrl.loans.ListDetailed()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading loans: %s", err.Error())
		return
	}
	render(ctrl.sessions, c, http.StatusOK, "loans", gin.H{
		"Loans": annotateOverdue(rows, dates.Today()),
	})
}

// AddPage renders the new loan form. Only books with copies on the shelf
// are offered.
func (ctrl *LoansController) AddPage(c *gin.Context) {
	availableBooks, err := ctrl.books.ListAvailable()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading books: %s", err.Error())
		return
	}
	allBorrowers, err := ctrl.borrowers.ListWithLoanCounts()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading borrowers: %s", err.Error())
		return
	}

	render(ctrl.sessions, c, http.StatusOK, "add_loan", gin.H{
		"Books":     availableBooks,
		"Borrowers": allBorrowers,
	})
}

// Add opens a loan from the form submission. An empty due date falls
// back to the configured lending period.
func (ctrl *LoansController) Add(c *gin.Context) {
	bookID := formUint(c, "book_id")
	borrowerID := formUint(c, "borrower_id")
	if bookID == 0 || borrowerID == 0 {
		addFlash(ctrl.sessions, c, FlashDanger, "Both a book and a borrower are required.")
		c.Redirect(http.StatusSeeOther, "/loans/add")
		return
	}

	var due *dates.Date
	if raw := c.PostForm("due_date"); raw != "" {
		parsed, err := dates.Parse(raw)
		if err != nil {
			addFlash(ctrl.sessions, c, FlashDanger, "Due date must be in YYYY-MM-DD format.")
			c.Redirect(http.StatusSeeOther, "/loans/add")
			return
		}
		due = &parsed
	}

	_, err := ctrl.lifecycle.Open(bookID, borrowerID, due)
	switch {
	case errors.Is(err, lending.ErrBookNotFound):
		addFlash(ctrl.sessions, c, FlashDanger, "Book not found.")
	case errors.Is(err, lending.ErrBorrowerNotFound):
		addFlash(ctrl.sessions, c, FlashDanger, "Borrower not found.")
	case errors.Is(err, lending.ErrBookUnavailable):
		addFlash(ctrl.sessions, c, FlashDanger, "No available copies of this book.")
	case err != nil:
		flashError(ctrl.sessions, c, err, "Could not create the loan: "+err.Error())
	default:
		addFlash(ctrl.sessions, c, FlashSuccess, "Loan created successfully.")
		c.Redirect(http.StatusSeeOther, "/loans")
		return
	}
	c.Redirect(http.StatusSeeOther, "/loans/add")
}

// Return closes a loan and puts the copy back on the shelf.
func (ctrl *LoansController) Return(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := ctrl.lifecycle.Close(id)
	switch {
	case errors.Is(err, lending.ErrLoanNotFound):
		addFlash(ctrl.sessions, c, FlashDanger, "Loan not found.")
	case errors.Is(err, lending.ErrAlreadyReturned):
		addFlash(ctrl.sessions, c, FlashInfo, "This loan was already returned.")
	case err != nil:
		flashError(ctrl.sessions, c, err, "Could not return the loan: "+err.Error())
	default:
		addFlash(ctrl.sessions, c, FlashSuccess, "Book returned successfully.")
	}
	c.Redirect(http.StatusSeeOther, "/loans")
}
