// Package borrowers provides database operations for borrower management.
//
// # Interface Implementation
//
//	var _ http.BorrowerStore = (*Repository)(nil)
package borrowers

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gorm.io/gorm"

	"github.com/avolkov/libtrack/internal/database"
	"github.com/avolkov/libtrack/internal/entities"
)

// ErrNotFound is returned when the referenced borrower does not exist.
var ErrNotFound = errors.New("borrower not found")

// Repository handles all borrower database operations.
type Repository struct {
	db *database.Database
}

// NewRepository creates a new borrowers repository.
func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db}
}

// Row is a borrower annotated with loan counts for listing pages.
// ActiveLoans is derived from loans with no return date, never stored.
type Row struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Email       *string   `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	JoinedDate  time.Time `json:"joined_date"`
	ActiveLoans int64     `json:"active_loans"`
	TotalLoans  int64     `json:"total_loans"`
}

func validate(b *entities.Borrower) error {
	return validation.ValidateStruct(b,
		validation.Field(&b.Name, validation.Required, validation.Length(1, 256)),
		validation.Field(&b.Email, is.EmailFormat),
	)
}

// ListWithLoanCounts retrieves all borrowers with their active and total
// loan counts.
func (r *Repository) ListWithLoanCounts() ([]Row, error) {
	var rows []Row
	err := r.db.DB.Raw(`
		SELECT b.*,
		       COALESCE(SUM(CASE WHEN l.id IS NOT NULL AND l.return_date IS NULL THEN 1 ELSE 0 END), 0) AS active_loans,
		       COUNT(l.id) AS total_loans
		FROM borrowers b
		LEFT JOIN loans l ON b.id = l.borrower_id
		GROUP BY b.id
		ORDER BY b.name
	`).Scan(&rows).Error
	return rows, err
}

// GetByID retrieves a borrower by ID.
func (r *Repository) GetByID(id uint) (*entities.Borrower, error) {
	var borrower entities.Borrower
	err := r.db.DB.First(&borrower, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &borrower, nil
}

// Create inserts a new borrower.
func (r *Repository) Create(borrower *entities.Borrower) error {
	if err := validate(borrower); err != nil {
		return err
	}
	return r.db.DB.Create(borrower).Error
}

// Update saves borrower attributes.
func (r *Repository) Update(borrower *entities.Borrower) error {
	if err := validate(borrower); err != nil {
		return err
	}
	return r.db.DB.Model(&entities.Borrower{ID: borrower.ID}).
		Select("name", "email", "phone").
		Updates(borrower).Error
}

// TotalCount returns the number of registered borrowers.
func (r *Repository) TotalCount() (int64, error) {
	var count int64
	err := r.db.DB.Model(&entities.Borrower{}).Count(&count).Error
	return count, err
}
