package database

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avolkov/libtrack/internal/entities"
)

func setupTestDB(t *testing.T) (*Database, func()) {
	dbPath := "./test_database_" + t.Name() + ".db"

	policy := DefaultRetryPolicy()
	policy.MaxAttempts = 3
	policy.InitialDelay = time.Millisecond

	db, err := NewDatabase(dbPath, policy)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	}

	return db, cleanup
}

func TestNewDatabase_SeedsDefaultCategories(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	var categories []entities.Category
	require.NoError(t, db.DB.Find(&categories).Error)
	assert.Len(t, categories, 5)

	names := make(map[string]bool)
	for _, c := range categories {
		names[c.Name] = true
	}
	assert.True(t, names["Fiction"])
	assert.True(t, names["Biography"])
}

func TestNewDatabase_SeedIsIdempotent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	// Re-running the seed against a populated table must not duplicate rows.
	require.NoError(t, db.seedCategories())

	var count int64
	require.NoError(t, db.DB.Model(&entities.Category{}).Count(&count).Error)
	assert.EqualValues(t, 5, count)
}

func TestNewDatabase_WALJournalMode(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	var mode string
	require.NoError(t, db.DB.Raw("PRAGMA journal_mode;").Scan(&mode).Error)
	assert.Equal(t, "wal", mode)
}

func TestEnsureIndexes_Idempotent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, db.EnsureIndexes())
	require.NoError(t, db.EnsureIndexes())
}

func TestInTransaction_RollsBackOnError(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	boom := errors.New("boom")
	err := db.InTransaction(func(tx *gorm.DB) error {
		if err := tx.Create(&entities.Borrower{Name: "Transient"}).Error; err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.DB.Model(&entities.Borrower{}).Count(&count).Error)
	assert.Zero(t, count, "failed transaction must not leave partial writes")
}

func TestInTransaction_LogicalErrorsNotRetried(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	calls := 0
	err := db.InTransaction(func(tx *gorm.DB) error {
		calls++
		return errors.New("already returned")
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrStorageBusy)
	assert.Equal(t, 1, calls)
}

func TestInTransaction_BusyExhaustsRetryBudget(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	calls := 0
	err := db.InTransaction(func(tx *gorm.DB) error {
		calls++
		return sqlite3.Error{Code: sqlite3.ErrBusy}
	})
	require.ErrorIs(t, err, ErrStorageBusy)
	assert.Equal(t, 3, calls)
}

func TestIsBusy(t *testing.T) {
	assert.True(t, isBusy(sqlite3.Error{Code: sqlite3.ErrBusy}))
	assert.True(t, isBusy(sqlite3.Error{Code: sqlite3.ErrLocked}))
	assert.True(t, isBusy(errors.New("database is locked")))
	assert.False(t, isBusy(errors.New("UNIQUE constraint failed")))
}
