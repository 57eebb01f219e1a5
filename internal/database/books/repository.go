// Package books provides database operations for the book inventory.
//
// # Interface Implementation
//
//	var _ http.BookStore = (*Repository)(nil)
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetByID(123)
package books

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"

	"github.com/avolkov/libtrack/internal/database"
	"github.com/avolkov/libtrack/internal/entities"
)

// ErrQuantityBelowLoans is returned when an update would reduce the total
// copy count below the number of copies currently out on loan.
var ErrQuantityBelowLoans = errors.New("quantity is below the active loan count")

// ErrNotFound is returned when the referenced book does not exist.
var ErrNotFound = errors.New("book not found")

// Repository handles all book database operations.
type Repository struct {
	db *database.Database
}

// NewRepository creates a new books repository.
func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db}
}

// Row is a book annotated with its category name for listing pages.
type Row struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	ISBN          *string   `json:"isbn,omitempty"`
	CategoryID    *uint     `json:"category_id,omitempty"`
	CategoryName  string    `json:"category_name,omitempty"`
	AuthorName    string    `json:"author_name,omitempty"`
	PublisherName string    `json:"publisher_name,omitempty"`
	Quantity      int       `json:"quantity"`
	Available     int       `json:"available"`
	AddedDate     time.Time `json:"added_date"`
}

func validate(b *entities.Book) error {
	return validation.ValidateStruct(b,
		validation.Field(&b.Title, validation.Required, validation.Length(1, 512)),
		validation.Field(&b.Quantity, validation.Min(0)),
		validation.Field(&b.Available, validation.Min(0), validation.Max(b.Quantity)),
	)
}

// List retrieves books with their category names, optionally filtered by a
// title substring and/or a category.
func (r *Repository) List(search string, categoryID uint) ([]Row, error) {
	query := r.db.DB.Table("books").
		Select("books.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON books.category_id = categories.id")

	if search != "" {
		query = query.Where("books.title LIKE ?", "%"+search+"%")
	}
	if categoryID != 0 {
		query = query.Where("books.category_id = ?", categoryID)
	}

	var rows []Row
	err := query.Order("books.title").Scan(&rows).Error
	return rows, err
}

// ListAvailable retrieves books with at least one copy on the shelf.
func (r *Repository) ListAvailable() ([]Row, error) {
	var rows []Row
	err := r.db.DB.Table("books").
		Select("books.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON books.category_id = categories.id").
		Where("books.available > 0").
		Order("books.title").
		Scan(&rows).Error
	return rows, err
}

// GetByID retrieves a book with its category preloaded.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.DB.Preload("Category").First(&book, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// Create inserts a new book. Every copy starts on the shelf.
func (r *Repository) Create(book *entities.Book) error {
	book.Available = book.Quantity
	if err := validate(book); err != nil {
		return err
	}
	return r.db.DB.Create(book).Error
}

// Update saves book attributes and recomputes availability from the new
// quantity and the current active loan count, all in one transaction.
// Reducing quantity below the active loan count is rejected: it would force
// Available negative and break the 0 <= available <= quantity invariant.
func (r *Repository) Update(book *entities.Book) error {
	return r.db.InTransaction(func(tx *gorm.DB) error {
		var existing entities.Book
		if err := tx.First(&existing, book.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var activeLoans int64
		err := tx.Model(&entities.Loan{}).
			Where("book_id = ? AND return_date IS NULL", book.ID).
			Count(&activeLoans).Error
		if err != nil {
			return err
		}
		if int64(book.Quantity) < activeLoans {
			return ErrQuantityBelowLoans
		}

		book.Available = book.Quantity - int(activeLoans)
		if err := validate(book); err != nil {
			return err
		}
		return tx.Model(&entities.Book{ID: book.ID}).
			Select("title", "isbn", "category_id", "author_name", "publisher_name", "quantity", "available").
			Updates(book).Error
	})
}

// TotalCount returns the number of book titles.
func (r *Repository) TotalCount() (int64, error) {
	var count int64
	err := r.db.DB.Model(&entities.Book{}).Count(&count).Error
	return count, err
}

// AvailableSum returns the number of copies currently on the shelf
// across all titles.
func (r *Repository) AvailableSum() (int64, error) {
	var total int64
	err := r.db.DB.Model(&entities.Book{}).
		Select("COALESCE(SUM(available), 0)").
		Scan(&total).Error
	return total, err
}
