package http

import (
	"github.com/avolkov/libtrack/internal/database"
)

// RouterConfig contains all dependencies and configuration needed to
// create the HTTP router. This replaces a long parameter list in
// NewRouter for better maintainability.
type RouterConfig struct {
	// Core dependencies
	Database  *database.Database
	Books     BookStore
	Borrowers BorrowerStore
	Categories CategoryStore
	Directory DirectoryStore
	Loans     LoanStore
	Lifecycle LoanLifecycle
	Guard     DeletionGuard

	// Sessions and CSRF. Both are optional; tests run without them.
	SessionManager *SessionManager
	CSRFSecret     []byte
	SecureCookies  bool

	// UI paths
	TemplatesPath string
	StaticPath    string

	// Application info
	Version string
}
