package http

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.CustomRecovery(func(c *gin.Context, err any) {
		log.Error().
			Interface("panic", err).
			Str("path", c.Request.URL.Path).
			Msg("handler panicked")
		c.HTML(http.StatusInternalServerError, "500", gin.H{})
	}))
	router.Use(RequestIDMiddleware())
	router.Use(LoggingMiddleware())
	router.Use(SecurityHeadersMiddleware())

	// CSRF must run before session load so the session middleware sees
	// the CSRF-annotated request.
	if len(cfg.CSRFSecret) > 0 {
		router.Use(CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	funcMap := template.FuncMap{
		"subtract": func(a, b int) int {
			return a - b
		},
		"deref": func(p *uint) uint {
			if p == nil {
				return 0
			}
			return *p
		},
	}

	tmpl := template.Must(template.New("").Funcs(funcMap).ParseGlob(cfg.TemplatesPath + "/*.html"))
	router.SetHTMLTemplate(tmpl)

	if cfg.StaticPath != "" {
		router.Static("/static", cfg.StaticPath)
	}

	health := NewHealthController(cfg.Database, cfg.Version)
	dashboard := NewDashboardController(cfg.Books, cfg.Borrowers, cfg.Loans, cfg.Lifecycle, cfg.SessionManager)
	books := NewBooksController(cfg.Books, cfg.Categories, cfg.SessionManager)
	borrowers := NewBorrowersController(cfg.Borrowers, cfg.SessionManager)
	categories := NewCategoriesController(cfg.Categories, cfg.SessionManager)
	directory := NewDirectoryController(cfg.Directory, cfg.SessionManager)
	loans := NewLoansController(cfg.Loans, cfg.Books, cfg.Borrowers, cfg.Lifecycle, cfg.SessionManager)
	deletes := NewDeleteController(cfg.Guard, cfg.SessionManager)

	router.GET("/health", health.Status)
	router.GET("/", dashboard.Page)

	router.GET("/books", books.ListPage)
	router.GET("/books/add", books.AddPage)
	router.POST("/books/add", books.Add)
	router.GET("/books/edit/:id", books.EditPage)
	router.POST("/books/edit/:id", books.Edit)
	router.POST("/books/delete/:id", deletes.Book)

	router.GET("/borrowers", borrowers.ListPage)
	router.GET("/borrowers/add", borrowers.AddPage)
	router.POST("/borrowers/add", borrowers.Add)
	router.GET("/borrowers/edit/:id", borrowers.EditPage)
	router.POST("/borrowers/edit/:id", borrowers.Edit)
	router.POST("/borrowers/delete/:id", deletes.Borrower)

	router.GET("/categories", categories.ListPage)
	router.POST("/categories/add", categories.Add)
	router.GET("/categories/edit/:id", categories.EditPage)
	router.POST("/categories/edit/:id", categories.Edit)
	router.POST("/categories/delete/:id", deletes.Category)

	router.GET("/authors", directory.AuthorsPage)
	router.POST("/authors/add", directory.AddAuthor)
	router.GET("/authors/edit/:id", directory.EditAuthorPage)
	router.POST("/authors/edit/:id", directory.EditAuthor)
	router.POST("/authors/delete/:id", deletes.Author)

	router.GET("/publishers", directory.PublishersPage)
	router.POST("/publishers/add", directory.AddPublisher)
	router.GET("/publishers/edit/:id", directory.EditPublisherPage)
	router.POST("/publishers/edit/:id", directory.EditPublisher)
	router.POST("/publishers/delete/:id", deletes.Publisher)

	router.GET("/loans", loans.ListPage)
	router.GET("/loans/add", loans.AddPage)
	router.POST("/loans/add", loans.Add)
	router.POST("/loans/return/:id", loans.Return)

	return router
}
