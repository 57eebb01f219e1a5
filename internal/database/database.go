// Package database owns the single SQLite connection shared by the whole
// process. It configures the file for concurrent reads under a single writer
// (WAL journaling, busy timeout, foreign keys), migrates the schema, and
// exposes the scoped-transaction primitive the lifecycle manager and the
// integrity guard rely on for their check-then-act operations.
package database

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/avolkov/libtrack/internal/entities"
)

var defaultCategories = []string{
	"Fiction",
	"Non-Fiction",
	"Science",
	"History",
	"Biography",
}

type Database struct {
	DB    *gorm.DB
	retry RetryPolicy
}

// NewDatabase opens (creating if needed) the database file, applies the
// connection pragmas, migrates all entities and seeds default categories.
// The returned instance is initialized once at process start, passed to
// repositories by reference, and closed at shutdown.
func NewDatabase(dbPath string, retry RetryPolicy) (*Database, error) {
	dsn := fmt.Sprintf(
		"%s?_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=%d",
		dbPath, retry.BusyTimeoutMillis(),
	)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access underlying connection: %w", err)
	}
	// One persistent connection: SQLite serializes writers anyway, and a
	// single handle keeps the WAL pragmas applied to every statement.
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&entities.Category{},
		&entities.Author{},
		&entities.Publisher{},
		&entities.Book{},
		&entities.Borrower{},
		&entities.Loan{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	database := &Database{DB: db, retry: retry}

	if err := database.seedCategories(); err != nil {
		return nil, fmt.Errorf("failed to seed categories: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("database initialized")

	return database, nil
}

// SQLDB exposes the underlying *sql.DB, e.g. for the session store.
func (d *Database) SQLDB() (*sql.DB, error) {
	return d.DB.DB()
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// seedCategories inserts the default category set when the table is empty.
func (d *Database) seedCategories() error {
	var count int64
	if err := d.DB.Model(&entities.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, name := range defaultCategories {
		if err := d.DB.Create(&entities.Category{Name: name}).Error; err != nil {
			return fmt.Errorf("failed to create category %s: %w", name, err)
		}
	}
	log.Info().Int("count", len(defaultCategories)).Msg("seeded default categories")
	return nil
}

// EnsureIndexes creates the lookup indexes used by the loan and book joins.
// Idempotent; run as part of startup maintenance.
func (d *Database) EnsureIndexes() error {
	stmts := []string{
		"CREATE INDEX IF NOT EXISTS idx_loans_book_id ON loans (book_id)",
		"CREATE INDEX IF NOT EXISTS idx_loans_borrower_id ON loans (borrower_id)",
		"CREATE INDEX IF NOT EXISTS idx_books_category_id ON books (category_id)",
		"CREATE INDEX IF NOT EXISTS idx_books_author_name ON books (author_name)",
		"CREATE INDEX IF NOT EXISTS idx_books_publisher_name ON books (publisher_name)",
	}
	for _, stmt := range stmts {
		if err := d.DB.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
