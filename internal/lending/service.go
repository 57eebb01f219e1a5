// Package lending implements the loan lifecycle: opening loans against
// available copies, processing returns, and computing overdue status.
//
// The service is the sole writer of Loan.ReturnDate and the sole mutator of
// Book.Available during loan open/close. Every mutation runs inside a scoped
// transaction so that the availability check and the copy-count adjustment
// are one atomic unit.
//
// # Interface Implementation
//
//	var _ http.LoanLifecycle = (*Service)(nil)
package lending

import (
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/avolkov/libtrack/internal/database"
	"github.com/avolkov/libtrack/internal/dates"
	"github.com/avolkov/libtrack/internal/entities"
)

// Service manages the loan lifecycle.
type Service struct {
	db         *database.Database
	periodDays int
}

// NewService creates a lifecycle manager. periodDays is the default lending
// period applied when a loan is opened without an explicit due date.
func NewService(db *database.Database, periodDays int) *Service {
	return &Service{db: db, periodDays: periodDays}
}

// Open creates a loan for a book and borrower and takes one copy off the
// shelf. When due is nil the due date defaults to today plus the configured
// lending period.
//
// The availability check and the decrement are a single guarded UPDATE, so
// two concurrent opens against the last copy cannot both succeed: the loser
// matches zero rows and gets ErrBookUnavailable.
func (s *Service) Open(bookID, borrowerID uint, due *dates.Date) (uint, error) {
	var loanID uint
	err := s.db.InTransaction(func(tx *gorm.DB) error {
		var borrower entities.Borrower
		if err := tx.First(&borrower, borrowerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBorrowerNotFound
			}
			return err
		}

		var book entities.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return err
		}

		res := tx.Model(&entities.Book{}).
			Where("id = ? AND available > 0", bookID).
			UpdateColumn("available", gorm.Expr("available - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrBookUnavailable
		}

		today := dates.Today()
		dueDate := today.AddDays(s.periodDays)
		if due != nil && !due.IsZero() {
			dueDate = *due
		}

		loan := entities.Loan{
			BookID:     bookID,
			BorrowerID: borrowerID,
			LoanDate:   today,
			DueDate:    dueDate,
			Status:     entities.LoanStatusActive,
		}
		if err := tx.Create(&loan).Error; err != nil {
			return err
		}
		loanID = loan.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Info().
		Uint("loan_id", loanID).
		Uint("book_id", bookID).
		Uint("borrower_id", borrowerID).
		Msg("loan opened")
	return loanID, nil
}

// Close marks a loan returned and puts the copy back on the shelf. Closing
// an already-closed loan fails with ErrAlreadyReturned and changes nothing.
// The increment is capped at the book's total quantity, so availability
// stays within bounds even if the copy counts were edited by hand.
func (s *Service) Close(loanID uint) error {
	err := s.db.InTransaction(func(tx *gorm.DB) error {
		var loan entities.Loan
		if err := tx.First(&loan, loanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLoanNotFound
			}
			return err
		}
		if loan.ReturnDate != nil {
			return ErrAlreadyReturned
		}

		today := dates.Today()
		err := tx.Model(&entities.Loan{}).
			Where("id = ?", loanID).
			Updates(map[string]any{
				"return_date": today.String(),
				"status":      entities.LoanStatusReturned,
			}).Error
		if err != nil {
			return err
		}

		return tx.Model(&entities.Book{}).
			Where("id = ?", loan.BookID).
			UpdateColumn("available", gorm.Expr("MIN(available + 1, quantity)")).Error
	})
	if err != nil {
		return err
	}

	log.Info().Uint("loan_id", loanID).Msg("loan returned")
	return nil
}

// IsOverdue is the shared overdue predicate: a loan is overdue iff it is
// unreturned and its due date is strictly before today. Every display and
// aggregate goes through this function so they cannot disagree.
func IsOverdue(loan *entities.Loan, today dates.Date) bool {
	if loan.ReturnDate != nil || loan.DueDate.IsZero() {
		return false
	}
	return loan.DueDate.Before(today)
}

// OverdueCount counts overdue loans as of today. It applies IsOverdue to
// the active loans rather than re-stating the date comparison in SQL, so
// the aggregate always agrees with per-loan display.
func (s *Service) OverdueCount(today dates.Date) (int64, error) {
	var loans []entities.Loan
	err := s.db.DB.Where("return_date IS NULL").Find(&loans).Error
	if err != nil {
		return 0, err
	}
	var count int64
	for i := range loans {
		if IsOverdue(&loans[i], today) {
			count++
		}
	}
	return count, nil
}

// ActiveLoanCount returns the number of unreturned loans referencing the
// given book or borrower.
func (s *Service) ActiveLoanCount(kind entities.Kind, id uint) (int64, error) {
	var column string
	switch kind {
	case entities.KindBook:
		column = "book_id"
	case entities.KindBorrower:
		column = "borrower_id"
	default:
		return 0, errors.New("active loan count: unsupported entity kind " + string(kind))
	}

	var count int64
	err := s.db.DB.Model(&entities.Loan{}).
		Where(column+" = ? AND return_date IS NULL", id).
		Count(&count).Error
	return count, err
}
