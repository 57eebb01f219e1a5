package loans

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/libtrack/internal/database"
	"github.com/avolkov/libtrack/internal/dates"
	"github.com/avolkov/libtrack/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *database.Database, func()) {
	dbPath := "./test_loans_" + t.Name() + ".db"

	policy := database.DefaultRetryPolicy()
	policy.InitialDelay = time.Millisecond

	db, err := database.NewDatabase(dbPath, policy)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	}

	return NewRepository(db), db, cleanup
}

func seedLoans(t *testing.T, db *database.Database) (book entities.Book, borrower entities.Borrower) {
	book = entities.Book{Title: "The Hobbit", Quantity: 5, Available: 3}
	require.NoError(t, db.DB.Create(&book).Error)
	borrower = entities.Borrower{Name: "Alice Johnson"}
	require.NoError(t, db.DB.Create(&borrower).Error)

	rd := dates.New(2024, time.March, 10)
	fixtures := []entities.Loan{
		{
			BookID: book.ID, BorrowerID: borrower.ID,
			LoanDate: dates.New(2024, time.March, 1), DueDate: dates.New(2024, time.March, 15),
			Status: entities.LoanStatusActive,
		},
		{
			BookID: book.ID, BorrowerID: borrower.ID,
			LoanDate: dates.New(2024, time.March, 5), DueDate: dates.New(2024, time.March, 19),
			Status: entities.LoanStatusActive,
		},
		{
			BookID: book.ID, BorrowerID: borrower.ID,
			LoanDate: dates.New(2024, time.February, 20), DueDate: dates.New(2024, time.March, 5),
			ReturnDate: &rd, Status: entities.LoanStatusReturned,
		},
	}
	for i := range fixtures {
		require.NoError(t, db.DB.Create(&fixtures[i]).Error)
	}
	return book, borrower
}

func TestListDetailed_NewestFirst(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	seedLoans(t, db)

	rows, err := repo.ListDetailed()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "2024-03-05", rows[0].LoanDate.String())
	assert.Equal(t, "2024-03-01", rows[1].LoanDate.String())
	assert.Equal(t, "2024-02-20", rows[2].LoanDate.String())
	assert.Equal(t, "The Hobbit", rows[0].BookTitle)
	assert.Equal(t, "Alice Johnson", rows[0].BorrowerName)
	assert.True(t, rows[0].Active())
	assert.False(t, rows[2].Active())
}

func TestRecentActive_SkipsReturned(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	seedLoans(t, db)

	rows, err := repo.RecentActive(5)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Nil(t, row.ReturnDate)
	}

	rows, err = repo.RecentActive(1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-03-05", rows[0].LoanDate.String())
}

func TestCounts(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	book, borrower := seedLoans(t, db)

	total, err := repo.TotalActiveCount()
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	forBook, err := repo.CountForBook(book.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, forBook)

	activeForBook, err := repo.ActiveCountForBook(book.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, activeForBook)

	forBorrower, err := repo.CountForBorrower(borrower.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, forBorrower)

	activeForBorrower, err := repo.ActiveCountForBorrower(borrower.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, activeForBorrower)
}

func TestGetByID(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	seedLoans(t, db)

	var loan entities.Loan
	require.NoError(t, db.DB.First(&loan).Error)

	got, err := repo.GetByID(loan.ID)
	require.NoError(t, err)
	assert.Equal(t, loan.ID, got.ID)

	_, err = repo.GetByID(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}
