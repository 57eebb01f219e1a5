// Package loans provides the loan query operations used by listings and
// dashboard aggregates. Loan mutation lives in the lifecycle manager
// (internal/lending), which is the sole writer of return dates.
//
// # Interface Implementation
//
//	var _ http.LoanStore = (*Repository)(nil)
package loans

import (
	"errors"

	"gorm.io/gorm"

	"github.com/avolkov/libtrack/internal/database"
	"github.com/avolkov/libtrack/internal/dates"
	"github.com/avolkov/libtrack/internal/entities"
)

// ErrNotFound is returned when the referenced loan does not exist.
var ErrNotFound = errors.New("loan not found")

// Repository handles loan read operations.
type Repository struct {
	db *database.Database
}

// NewRepository creates a new loans repository.
func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db}
}

// Row is a loan joined with book title and borrower name for display.
type Row struct {
	ID           uint        `json:"id"`
	BookID       uint        `json:"book_id"`
	BorrowerID   uint        `json:"borrower_id"`
	LoanDate     dates.Date  `json:"loan_date"`
	DueDate      dates.Date  `json:"due_date"`
	ReturnDate   *dates.Date `json:"return_date,omitempty"`
	Status       entities.LoanStatus `json:"status"`
	BookTitle    string      `json:"book_title"`
	BorrowerName string      `json:"borrower_name"`
}

// Active reports whether the loan has not been returned yet. The value
// receiver keeps the method callable from templates iterating row slices.
func (r Row) Active() bool {
	return r.ReturnDate == nil
}

// ListDetailed retrieves all loans with book and borrower details,
// newest first.
func (r *Repository) ListDetailed() ([]Row, error) {
	var rows []Row
	err := r.db.DB.Raw(`
		SELECT l.*, b.title AS book_title, br.name AS borrower_name
		FROM loans l
		JOIN books b ON l.book_id = b.id
		JOIN borrowers br ON l.borrower_id = br.id
		ORDER BY l.loan_date DESC, l.id DESC
	`).Scan(&rows).Error
	return rows, err
}

// RecentActive retrieves the most recently opened unreturned loans.
func (r *Repository) RecentActive(limit int) ([]Row, error) {
	var rows []Row
	err := r.db.DB.Raw(`
		SELECT l.*, b.title AS book_title, br.name AS borrower_name
		FROM loans l
		JOIN books b ON l.book_id = b.id
		JOIN borrowers br ON l.borrower_id = br.id
		WHERE l.return_date IS NULL
		ORDER BY l.loan_date DESC, l.id DESC
		LIMIT ?
	`, limit).Scan(&rows).Error
	return rows, err
}

// ListActive retrieves every unreturned loan.
func (r *Repository) ListActive() ([]entities.Loan, error) {
	var loans []entities.Loan
	err := r.db.DB.Where("return_date IS NULL").Find(&loans).Error
	return loans, err
}

// GetByID retrieves a loan by ID.
func (r *Repository) GetByID(id uint) (*entities.Loan, error) {
	var loan entities.Loan
	err := r.db.DB.First(&loan, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// TotalActiveCount returns the number of unreturned loans.
func (r *Repository) TotalActiveCount() (int64, error) {
	var count int64
	err := r.db.DB.Model(&entities.Loan{}).
		Where("return_date IS NULL").
		Count(&count).Error
	return count, err
}

// CountForBook returns the number of loans, any status, referencing a book.
func (r *Repository) CountForBook(bookID uint) (int64, error) {
	var count int64
	err := r.db.DB.Model(&entities.Loan{}).
		Where("book_id = ?", bookID).
		Count(&count).Error
	return count, err
}

// CountForBorrower returns the number of loans, any status, referencing
// a borrower.
func (r *Repository) CountForBorrower(borrowerID uint) (int64, error) {
	var count int64
	err := r.db.DB.Model(&entities.Loan{}).
		Where("borrower_id = ?", borrowerID).
		Count(&count).Error
	return count, err
}

// ActiveCountForBook returns the number of unreturned loans for a book.
func (r *Repository) ActiveCountForBook(bookID uint) (int64, error) {
	var count int64
	err := r.db.DB.Model(&entities.Loan{}).
		Where("book_id = ? AND return_date IS NULL", bookID).
		Count(&count).Error
	return count, err
}

// ActiveCountForBorrower returns the number of unreturned loans for
// a borrower.
func (r *Repository) ActiveCountForBorrower(borrowerID uint) (int64, error) {
	var count int64
	err := r.db.DB.Model(&entities.Loan{}).
		Where("borrower_id = ? AND return_date IS NULL", borrowerID).
		Count(&count).Error
	return count, err
}
