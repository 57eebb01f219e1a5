// Package directory manages the legacy author and publisher name tables.
//
// These tables predate the denormalized author_name/publisher_name columns
// on books and are no longer linked by foreign key; books reference them by
// exact name match. They are kept for backward compatibility with existing
// database files.
package directory

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"

	"github.com/avolkov/libtrack/internal/database"
	"github.com/avolkov/libtrack/internal/entities"
)

// ErrNotFound is returned when the referenced directory entry does not exist.
var ErrNotFound = errors.New("directory entry not found")

// Repository handles the author and publisher name directories.
type Repository struct {
	db *database.Database
}

// NewRepository creates a new directory repository.
func NewRepository(db *database.Database) *Repository {
	return &Repository{db: db}
}

// Row is a directory entry annotated with the number of books whose
// denormalized name column matches it.
type Row struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	BookCount int64  `json:"book_count"`
}

func validateName(name string) error {
	return validation.Validate(name, validation.Required, validation.Length(1, 256))
}

// ListAuthors retrieves all authors with counts of books naming them.
func (r *Repository) ListAuthors() ([]Row, error) {
	var rows []Row
	err := r.db.DB.Raw(`
		SELECT a.id, a.name, COUNT(b.id) AS book_count
		FROM authors a
		LEFT JOIN books b ON a.name = b.author_name
		GROUP BY a.id, a.name
		ORDER BY a.name
	`).Scan(&rows).Error
	return rows, err
}

// ListPublishers retrieves all publishers with counts of books naming them.
func (r *Repository) ListPublishers() ([]Row, error) {
	var rows []Row
	err := r.db.DB.Raw(`
		SELECT p.id, p.name, COUNT(b.id) AS book_count
		FROM publishers p
		LEFT JOIN books b ON p.name = b.publisher_name
		GROUP BY p.id, p.name
		ORDER BY p.name
	`).Scan(&rows).Error
	return rows, err
}

// GetAuthorByID retrieves an author by ID.
func (r *Repository) GetAuthorByID(id uint) (*entities.Author, error) {
	var author entities.Author
	err := r.db.DB.First(&author, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &author, nil
}

// GetPublisherByID retrieves a publisher by ID.
func (r *Repository) GetPublisherByID(id uint) (*entities.Publisher, error) {
	var publisher entities.Publisher
	err := r.db.DB.First(&publisher, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &publisher, nil
}

// CreateAuthor inserts a new author name.
func (r *Repository) CreateAuthor(author *entities.Author) error {
	if err := validateName(author.Name); err != nil {
		return err
	}
	return r.db.DB.Create(author).Error
}

// CreatePublisher inserts a new publisher name.
func (r *Repository) CreatePublisher(publisher *entities.Publisher) error {
	if err := validateName(publisher.Name); err != nil {
		return err
	}
	return r.db.DB.Create(publisher).Error
}

// UpdateAuthor renames an author.
func (r *Repository) UpdateAuthor(author *entities.Author) error {
	if err := validateName(author.Name); err != nil {
		return err
	}
	return r.db.DB.Model(&entities.Author{ID: author.ID}).
		Update("name", author.Name).Error
}

// UpdatePublisher renames a publisher.
func (r *Repository) UpdatePublisher(publisher *entities.Publisher) error {
	if err := validateName(publisher.Name); err != nil {
		return err
	}
	return r.db.DB.Model(&entities.Publisher{ID: publisher.ID}).
		Update("name", publisher.Name).Error
}
