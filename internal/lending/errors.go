package lending

import "errors"

var (
	// ErrBookNotFound is returned when the referenced book does not exist.
	ErrBookNotFound = errors.New("book not found")

	// ErrBorrowerNotFound is returned when the referenced borrower does
	// not exist.
	ErrBorrowerNotFound = errors.New("borrower not found")

	// ErrBookUnavailable is returned when a loan is opened on a book with
	// no copies on the shelf.
	ErrBookUnavailable = errors.New("no available copies of this book")

	// ErrLoanNotFound is returned when the referenced loan does not exist.
	ErrLoanNotFound = errors.New("loan not found")

	// ErrAlreadyReturned is returned when a return is attempted on a loan
	// whose return date is already set. A second return must be rejected,
	// not silently accepted, or availability would be double-incremented.
	ErrAlreadyReturned = errors.New("loan already returned")
)
