package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avolkov/libtrack/internal/database/loans"
	"github.com/avolkov/libtrack/internal/dates"
	"github.com/avolkov/libtrack/internal/entities"
	"github.com/avolkov/libtrack/internal/lending"
)

const recentLoansLimit = 5

// loanView is a loan row annotated with its overdue flag for rendering.
type loanView struct {
	loans.Row
	Overdue bool
}

func annotateOverdue(rows []loans.Row, today dates.Date) []loanView {
	views := make([]loanView, 0, len(rows))
	for _, row := range rows {
		loan := entities.Loan{DueDate: row.DueDate, ReturnDate: row.ReturnDate}
		views = append(views, loanView{
			Row:     row,
			Overdue: lending.IsOverdue(&loan, today),
		})
	}
	return views
}

type DashboardController struct {
	books     BookStore
	borrowers BorrowerStore
	loans     LoanStore
	lifecycle LoanLifecycle
	sessions  *SessionManager
}

func NewDashboardController(books BookStore, borrowers BorrowerStore, loanStore LoanStore, lifecycle LoanLifecycle, sessions *SessionManager) *DashboardController {
	return &DashboardController{
		books:     books,
		borrowers: borrowers,
		loans:     loanStore,
		lifecycle: lifecycle,
		sessions:  sessions,
	}
}

// Page renders the dashboard: inventory totals and the most recently
// opened active loans.
func (ctrl *DashboardController) Page(c *gin.Context) {
	totalBooks, err := ctrl.books.TotalCount()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading dashboard: %s", err.Error())
		return
	}
	availableCopies, err := ctrl.books.AvailableSum()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading dashboard: %s", err.Error())
		return
	}
	totalBorrowers, err := ctrl.borrowers.TotalCount()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading dashboard: %s", err.Error())
		return
	}
	activeLoans, err := ctrl.loans.TotalActiveCount()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading dashboard: %s", err.Error())
		return
	}

	today := dates.Today()
	overdueLoans, err := ctrl.lifecycle.OverdueCount(today)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading dashboard: %s", err.Error())
		return
	}
	recent, err := ctrl.loans.RecentActive(recentLoansLimit)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading dashboard: %s", err.Error())
		return
	}

	render(ctrl.sessions, c, http.StatusOK, "index", gin.H{
		"TotalBooks":      totalBooks,
		"AvailableCopies": availableCopies,
		"TotalBorrowers":  totalBorrowers,
		"ActiveLoans":     activeLoans,
		"OverdueLoans":    overdueLoans,
		"RecentLoans":     annotateOverdue(recent, today),
	})
}
