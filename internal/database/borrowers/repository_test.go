package borrowers

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
	dbPath := "./test_borrowers_" + t.Name() + ".db"

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

func strptr(s string) *string { return &s }

func TestCreateAndGet(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	borrower := &entities.Borrower{Name: "Alice Johnson", Email: strptr("alice@example.com"), Phone: "555-0100"}
	require.NoError(t, repo.Create(borrower))

	got, err := repo.GetByID(borrower.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice Johnson", got.Name)
	require.NotNil(t, got.Email)
	assert.Equal(t, "alice@example.com", *got.Email)
}

func TestCreate_RequiresName(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	assert.Error(t, repo.Create(&entities.Borrower{}))
}

func TestCreate_RejectsMalformedEmail(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	assert.Error(t, repo.Create(&entities.Borrower{Name: "Bob Smith", Email: strptr("not-an-email")}))
}

func TestGetByID_NotFound(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetByID(9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListWithLoanCounts(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()

	book := entities.Book{Title: "Dune", Quantity: 5, Available: 3}
	require.NoError(t, db.DB.Create(&book).Error)

	active := &entities.Borrower{Name: "Carol Lee"}
	require.NoError(t, repo.Create(active))
	idle := &entities.Borrower{Name: "David Kim"}
	require.NoError(t, repo.Create(idle))

	rd := dates.Today()
	require.NoError(t, db.DB.Create(&entities.Loan{
		BookID: book.ID, BorrowerID: active.ID,
		LoanDate: dates.Today(), DueDate: dates.Today().AddDays(14),
		Status: entities.LoanStatusActive,
	}).Error)
	require.NoError(t, db.DB.Create(&entities.Loan{
		BookID: book.ID, BorrowerID: active.ID,
		LoanDate: dates.Today(), DueDate: dates.Today().AddDays(14),
		ReturnDate: &rd, Status: entities.LoanStatusReturned,
	}).Error)

	rows, err := repo.ListWithLoanCounts()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byName := make(map[string]Row)
	for _, row := range rows {
		byName[row.Name] = row
	}
	assert.EqualValues(t, 1, byName["Carol Lee"].ActiveLoans)
	assert.EqualValues(t, 2, byName["Carol Lee"].TotalLoans)
	assert.EqualValues(t, 0, byName["David Kim"].ActiveLoans)
	assert.EqualValues(t, 0, byName["David Kim"].TotalLoans)
}

func TestUpdate(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	borrower := &entities.Borrower{Name: "Eve Chen"}
	require.NoError(t, repo.Create(borrower))

	borrower.Name = "Eve Chen-Park"
	borrower.Phone = "555-0104"
	require.NoError(t, repo.Update(borrower))

	got, err := repo.GetByID(borrower.ID)
	require.NoError(t, err)
	assert.Equal(t, "Eve Chen-Park", got.Name)
	assert.Equal(t, "555-0104", got.Phone)
}
