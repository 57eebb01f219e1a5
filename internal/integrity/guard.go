// Package integrity guards deletions against dangling references. The
// schema declares no ON DELETE behavior, so every delete is checked for
// dependent rows first and refused while any exist.
//
// # Interface Implementation
//
//	var _ http.DeletionGuard = (*Guard)(nil)
package integrity

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/avolkov/libtrack/internal/database"
	"github.com/avolkov/libtrack/internal/entities"
)

var (
	// ErrNotFound is returned when the entity to delete does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrHasDependentLoans blocks deleting a book or borrower that loans
	// still reference. Loan history counts: returned loans keep their
	// book_id and borrower_id pointing at live rows.
	ErrHasDependentLoans = errors.New("loan records reference this entry")

	// ErrCategoryInUse blocks deleting a category that books belong to.
	ErrCategoryInUse = errors.New("books are assigned to this category")

	// ErrNameInUse blocks deleting an author or publisher whose name is
	// carried by existing books.
	ErrNameInUse = errors.New("books carry this name")
)

// Block describes why a deletion is refused: which dependent rows exist
// and how many of them.
type Block struct {
	Dependency string
	Count      int64
}

// BlockedError is the error a refused Delete returns. It unwraps to the
// kind-specific sentinel so callers can match with errors.Is, and carries
// the Block for user-facing messages.
type BlockedError struct {
	Block
	sentinel error
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("%d %s record(s) block deletion", e.Count, e.Dependency)
}

func (e *BlockedError) Unwrap() error { return e.sentinel }

// Guard decides whether entities can be deleted and performs the
// deletions it permits.
type Guard struct {
	db *database.Database
}

// NewGuard creates a deletion guard.
func NewGuard(db *database.Database) *Guard {
	return &Guard{db: db}
}

// CheckDeletable reports whether the entity may be deleted. It returns
// ErrNotFound when the entity does not exist, a non-nil Block when
// dependent rows forbid the delete, and (nil, nil) when the delete may
// proceed.
//
// The answer is advisory. Delete re-runs the same check inside its
// transaction, so a loan opened between check and delete still blocks.
func (g *Guard) CheckDeletable(kind entities.Kind, id uint) (*Block, error) {
	return g.check(g.db.DB, kind, id)
}

// Delete removes the entity after verifying no dependent rows exist.
// The check and the DELETE run in one transaction. A blocked delete is
// reported with ErrHasDependentLoans, ErrCategoryInUse or ErrNameInUse,
// and the row count that caused the refusal in the error text.
func (g *Guard) Delete(kind entities.Kind, id uint) error {
	return g.db.InTransaction(func(tx *gorm.DB) error {
		block, err := g.check(tx, kind, id)
		if err != nil {
			return err
		}
		if block != nil {
			return &BlockedError{Block: *block, sentinel: sentinelFor(kind)}
		}
		return tx.Delete(modelFor(kind), id).Error
	})
}

func sentinelFor(kind entities.Kind) error {
	switch kind {
	case entities.KindBook, entities.KindBorrower:
		return ErrHasDependentLoans
	case entities.KindCategory:
		return ErrCategoryInUse
	default:
		return ErrNameInUse
	}
}

func modelFor(kind entities.Kind) any {
	switch kind {
	case entities.KindBook:
		return &entities.Book{}
	case entities.KindBorrower:
		return &entities.Borrower{}
	case entities.KindCategory:
		return &entities.Category{}
	case entities.KindAuthor:
		return &entities.Author{}
	case entities.KindPublisher:
		return &entities.Publisher{}
	default:
		return nil
	}
}

func (g *Guard) check(tx *gorm.DB, kind entities.Kind, id uint) (*Block, error) {
	model := modelFor(kind)
	if model == nil {
		return nil, fmt.Errorf("unsupported entity kind %q", kind)
	}

	err := tx.First(model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	switch kind {
	case entities.KindBook:
		return blockOnCount(tx.Model(&entities.Loan{}).
			Where("book_id = ?", id), "loan")

	case entities.KindBorrower:
		// Active loans are the more actionable refusal, so report
		// them first; settled history still blocks afterwards.
		block, err := blockOnCount(tx.Model(&entities.Loan{}).
			Where("borrower_id = ? AND return_date IS NULL", id), "active loan")
		if block != nil || err != nil {
			return block, err
		}
		return blockOnCount(tx.Model(&entities.Loan{}).
			Where("borrower_id = ?", id), "loan history")

	case entities.KindCategory:
		return blockOnCount(tx.Model(&entities.Book{}).
			Where("category_id = ?", id), "book")

	case entities.KindAuthor:
		author := model.(*entities.Author)
		return blockOnCount(tx.Model(&entities.Book{}).
			Where("author_name = ?", author.Name), "book")

	case entities.KindPublisher:
		publisher := model.(*entities.Publisher)
		return blockOnCount(tx.Model(&entities.Book{}).
			Where("publisher_name = ?", publisher.Name), "book")
	}
	return nil, nil
}

func blockOnCount(query *gorm.DB, dependency string) (*Block, error) {
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return &Block{Dependency: dependency, Count: count}, nil
	}
	return nil, nil
}
