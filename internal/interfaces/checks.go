package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/avolkov/libtrack/internal/database/books"
	"github.com/avolkov/libtrack/internal/database/borrowers"
	"github.com/avolkov/libtrack/internal/database/categories"
	"github.com/avolkov/libtrack/internal/database/directory"
	"github.com/avolkov/libtrack/internal/database/loans"
	"github.com/avolkov/libtrack/internal/http"
	"github.com/avolkov/libtrack/internal/integrity"
	"github.com/avolkov/libtrack/internal/lending"
)

// Data access layer
var _ http.BookStore = (*books.Repository)(nil)
var _ http.BorrowerStore = (*borrowers.Repository)(nil)
var _ http.CategoryStore = (*categories.Repository)(nil)
var _ http.DirectoryStore = (*directory.Repository)(nil)
var _ http.LoanStore = (*loans.Repository)(nil)

// Domain services
var _ http.LoanLifecycle = (*lending.Service)(nil)
var _ http.DeletionGuard = (*integrity.Guard)(nil)
