package http

import (
	"github.com/avolkov/libtrack/internal/database/books"
	"github.com/avolkov/libtrack/internal/database/borrowers"
	"github.com/avolkov/libtrack/internal/database/categories"
	"github.com/avolkov/libtrack/internal/database/directory"
	"github.com/avolkov/libtrack/internal/database/loans"
	"github.com/avolkov/libtrack/internal/dates"
	"github.com/avolkov/libtrack/internal/entities"
	"github.com/avolkov/libtrack/internal/integrity"
)

// This file consolidates the store interface definitions used by the HTTP
// controllers. Each controller depends only on the methods it needs; the
// concrete implementations live under internal/database and internal/lending.

// BookStore provides book inventory access.
type BookStore interface {
	List(search string, categoryID uint) ([]books.Row, error)
	ListAvailable() ([]books.Row, error)
	GetByID(id uint) (*entities.Book, error)
	Create(book *entities.Book) error
	Update(book *entities.Book) error
	TotalCount() (int64, error)
	AvailableSum() (int64, error)
}

// BorrowerStore provides borrower access.
type BorrowerStore interface {
	ListWithLoanCounts() ([]borrowers.Row, error)
	GetByID(id uint) (*entities.Borrower, error)
	Create(borrower *entities.Borrower) error
	Update(borrower *entities.Borrower) error
	TotalCount() (int64, error)
}

// CategoryStore provides category access.
type CategoryStore interface {
	ListWithBookCounts() ([]categories.Row, error)
	GetByID(id uint) (*entities.Category, error)
	Create(category *entities.Category) error
	Update(category *entities.Category) error
}

// DirectoryStore provides access to the author and publisher name tables.
type DirectoryStore interface {
	ListAuthors() ([]directory.Row, error)
	ListPublishers() ([]directory.Row, error)
	GetAuthorByID(id uint) (*entities.Author, error)
	GetPublisherByID(id uint) (*entities.Publisher, error)
	CreateAuthor(author *entities.Author) error
	CreatePublisher(publisher *entities.Publisher) error
	UpdateAuthor(author *entities.Author) error
	UpdatePublisher(publisher *entities.Publisher) error
}

// LoanStore provides loan queries.
type LoanStore interface {
	ListDetailed() ([]loans.Row, error)
	RecentActive(limit int) ([]loans.Row, error)
	TotalActiveCount() (int64, error)
}

// LoanLifecycle opens and closes loans and answers overdue queries.
type LoanLifecycle interface {
	Open(bookID, borrowerID uint, due *dates.Date) (uint, error)
	Close(loanID uint) error
	OverdueCount(today dates.Date) (int64, error)
}

// DeletionGuard decides whether entities can be deleted and deletes them.
type DeletionGuard interface {
	CheckDeletable(kind entities.Kind, id uint) (*integrity.Block, error)
	Delete(kind entities.Kind, id uint) error
}
