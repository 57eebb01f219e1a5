package entities

import (
	"time"

	"github.com/avolkov/libtrack/internal/dates"
)

// Kind identifies an entity family for operations that work across
// entity types, such as the integrity guard's pre-delete checks.
type Kind string

const (
	KindBook      Kind = "book"
	KindBorrower  Kind = "borrower"
	KindCategory  Kind = "category"
	KindAuthor    Kind = "author"
	KindPublisher Kind = "publisher"
)

type LoanStatus string

const (
	LoanStatusActive   LoanStatus = "active"
	LoanStatusReturned LoanStatus = "returned"
)

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
}

type Book struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Title      string    `gorm:"size:512;not null" json:"title"`
	ISBN       *string   `gorm:"uniqueIndex;size:20" json:"isbn,omitempty"`
	CategoryID *uint     `gorm:"index" json:"category_id,omitempty"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`

	// Author and publisher are deliberately denormalized free text; the
	// authors/publishers tables are legacy name directories joined by name.
	AuthorName    string `gorm:"index;size:256" json:"author_name,omitempty"`
	PublisherName string `gorm:"index;size:256" json:"publisher_name,omitempty"`

	// Quantity is the total number of copies; Available is how many are
	// currently on the shelf. Invariant: 0 <= Available <= Quantity.
	// Available is mutated only by the loan lifecycle manager and by the
	// books repository when the quantity changes.
	Quantity  int       `gorm:"default:1" json:"quantity"`
	Available int       `gorm:"default:1" json:"available"`
	AddedDate time.Time `gorm:"autoCreateTime" json:"added_date"`
}

type Borrower struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:256;not null" json:"name"`
	Email      *string   `gorm:"uniqueIndex;size:255" json:"email,omitempty"`
	Phone      string    `gorm:"size:50" json:"phone,omitempty"`
	JoinedDate time.Time `gorm:"autoCreateTime" json:"joined_date"`
}

// Loan is a lending transaction. A loan with no return date is active.
// ReturnDate is owned by the loan lifecycle manager; the Status column is
// kept in lockstep with it for compatibility with the historical schema.
type Loan struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	BookID     uint        `gorm:"index;not null" json:"book_id"`
	Book       Book        `gorm:"foreignKey:BookID" json:"-"`
	BorrowerID uint        `gorm:"index;not null" json:"borrower_id"`
	Borrower   Borrower    `gorm:"foreignKey:BorrowerID" json:"-"`
	LoanDate   dates.Date  `gorm:"type:text" json:"loan_date"`
	DueDate    dates.Date  `gorm:"type:text" json:"due_date"`
	ReturnDate *dates.Date `gorm:"type:text" json:"return_date,omitempty"`
	Status     LoanStatus  `gorm:"size:16;default:'active'" json:"status"`
}

// Active reports whether the loan has not been returned yet.
func (l *Loan) Active() bool {
	return l.ReturnDate == nil
}

// Author is a legacy name-directory row. Books reference authors by the
// denormalized AuthorName text, not by key.
type Author struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:256;not null" json:"name"`
}

// Publisher is a legacy name-directory row, matched by name like Author.
type Publisher struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:256;not null" json:"name"`
}
