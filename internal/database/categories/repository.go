// Package categories provides database operations for book categories.
//
// # Interface Implementation
//
//	var _ http.CategoryStore = (*Repository)(nil)
package categories

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"

	"github.com/avolkov/libtrack/internal/database"
	"github.com/avolkov/libtrack/internal/entities"
)

// ErrNotFound is returned when the referenced category does not exist.
var ErrNotFound = errors.New("category not found")

// Repository handles all category database operations.
type Repository struct {
	db *database.Database
}

// NewRepository creates a new categories repository.
func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db}
}

// Row is a category annotated with the number of books referencing it.
type Row struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	BookCount int64  `json:"book_count"`
}

func validate(c *entities.Category) error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, 100)),
	)
}

// ListWithBookCounts retrieves all categories with their book counts.
func (r *Repository) ListWithBookCounts() ([]Row, error) {
	var rows []Row
	err := r.db.DB.Raw(`
		SELECT c.id, c.name, COUNT(b.id) AS book_count
		FROM categories c
		LEFT JOIN books b ON c.id = b.category_id
		GROUP BY c.id, c.name
		ORDER BY c.name
	`).Scan(&rows).Error
	return rows, err
}

// GetByID retrieves a category by ID.
func (r *Repository) GetByID(id uint) (*entities.Category, error) {
	var category entities.Category
	err := r.db.DB.First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Create inserts a new category.
func (r *Repository) Create(category *entities.Category) error {
	if err := validate(category); err != nil {
		return err
	}
	return r.db.DB.Create(category).Error
}

// Update renames a category.
func (r *Repository) Update(category *entities.Category) error {
	if err := validate(category); err != nil {
		return err
	}
	return r.db.DB.Model(&entities.Category{ID: category.ID}).
		Update("name", category.Name).Error
}
