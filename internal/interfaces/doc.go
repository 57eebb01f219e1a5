// Package interfaces documents the core abstractions used throughout the
// application and verifies their implementations at compile time.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - BookStore: Book inventory access (internal/http/stores.go)
//   - BorrowerStore: Borrower access (internal/http/stores.go)
//   - CategoryStore: Category access (internal/http/stores.go)
//   - DirectoryStore: Author/publisher name tables (internal/http/stores.go)
//   - LoanStore: Loan queries (internal/http/stores.go)
//
// ## Domain Service Interfaces
//
//   - LoanLifecycle: Loan open/close and overdue queries (internal/http/stores.go)
//   - DeletionGuard: Reference-checked deletion (internal/http/stores.go)
//
// # Adding a New Database Domain
//
// To add a new data domain:
//
//  1. Create sub-package: internal/database/<domain>/
//
//  2. Define repository:
//
//     type Repository struct { db *database.Database }
//
//     func NewRepository(db *database.Database) *Repository
//
//  3. Implement interface methods
//
//  4. Add a compile-time check in checks.go:
//
//     var _ http.DomainStore = (*Repository)(nil)
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they
// satisfy their interfaces. This catches missing methods at compile time
// rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
