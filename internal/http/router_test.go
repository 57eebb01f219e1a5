package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/libtrack/internal/database"
	"github.com/avolkov/libtrack/internal/database/books"
	"github.com/avolkov/libtrack/internal/database/borrowers"
	"github.com/avolkov/libtrack/internal/database/categories"
	"github.com/avolkov/libtrack/internal/database/directory"
	"github.com/avolkov/libtrack/internal/database/loans"
	"github.com/avolkov/libtrack/internal/entities"
	"github.com/avolkov/libtrack/internal/integrity"
	"github.com/avolkov/libtrack/internal/lending"
)

func setupRouter(t *testing.T) (*gin.Engine, *database.Database, func()) {
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_" + t.Name() + ".db"

	policy := database.DefaultRetryPolicy()
	policy.InitialDelay = time.Millisecond

	db, err := database.NewDatabase(dbPath, policy)
	require.NoError(t, err)

	router := NewRouter(RouterConfig{
		Database:      db,
		Books:         books.NewRepository(db),
		Borrowers:     borrowers.NewRepository(db),
		Categories:    categories.NewRepository(db),
		Directory:     directory.NewRepository(db),
		Loans:         loans.NewRepository(db),
		Lifecycle:     lending.NewService(db, 14),
		Guard:         integrity.NewGuard(db),
		TemplatesPath: "../../templates",
		Version:       "test",
	})

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
		os.Remove(dbPath + "-wal")
		os.Remove(dbPath + "-shm")
	}

	return router, db, cleanup
}

func doGET(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func doPOST(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	router, _, cleanup := setupRouter(t)
	defer cleanup()

	w := doGET(router, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status": "healthy"`)
	assert.Contains(t, w.Body.String(), `"database": "ok"`)
}

func TestRequestIDHeader(t *testing.T) {
	router, _, cleanup := setupRouter(t)
	defer cleanup()

	w := doGET(router, "/health")
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	router.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
}

func TestDashboardPage(t *testing.T) {
	router, db, cleanup := setupRouter(t)
	defer cleanup()

	require.NoError(t, db.DB.Create(&entities.Book{Title: "Dune", Quantity: 2, Available: 2}).Error)
	require.NoError(t, db.DB.Create(&entities.Borrower{Name: "Alice Johnson"}).Error)

	w := doGET(router, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dashboard")
}

func TestBooksAddAndList(t *testing.T) {
	router, _, cleanup := setupRouter(t)
	defer cleanup()

	w := doPOST(router, "/books/add", url.Values{
		"title":    {"The Left Hand of Darkness"},
		"isbn":     {"9780441478125"},
		"quantity": {"2"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/books", w.Header().Get("Location"))

	w = doGET(router, "/books")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "The Left Hand of Darkness")
}

func TestBooksAddWithoutTitleRedirectsBack(t *testing.T) {
	router, db, cleanup := setupRouter(t)
	defer cleanup()

	w := doPOST(router, "/books/add", url.Values{"quantity": {"1"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/books/add", w.Header().Get("Location"))

	var count int64
	require.NoError(t, db.DB.Model(&entities.Book{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestBooksSearchFilter(t *testing.T) {
	router, db, cleanup := setupRouter(t)
	defer cleanup()

	require.NoError(t, db.DB.Create(&entities.Book{Title: "Dune", Quantity: 1, Available: 1}).Error)
	require.NoError(t, db.DB.Create(&entities.Book{Title: "Cosmos", Quantity: 1, Available: 1}).Error)

	w := doGET(router, "/books?search=Dune")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dune")
	assert.NotContains(t, w.Body.String(), "Cosmos")
}

func TestLoanLifecycleThroughForms(t *testing.T) {
	router, db, cleanup := setupRouter(t)
	defer cleanup()

	book := entities.Book{Title: "Sapiens", Quantity: 1, Available: 1}
	require.NoError(t, db.DB.Create(&book).Error)
	borrower := entities.Borrower{Name: "Bob Smith"}
	require.NoError(t, db.DB.Create(&borrower).Error)

	w := doPOST(router, "/loans/add", url.Values{
		"book_id":     {strconv.Itoa(int(book.ID))},
		"borrower_id": {strconv.Itoa(int(borrower.ID))},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/loans", w.Header().Get("Location"))

	var got entities.Book
	require.NoError(t, db.DB.First(&got, book.ID).Error)
	assert.Equal(t, 0, got.Available)

	var loan entities.Loan
	require.NoError(t, db.DB.Where("book_id = ?", book.ID).First(&loan).Error)

	w = doGET(router, "/loans")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sapiens")
	assert.Contains(t, w.Body.String(), "Bob Smith")

	w = doPOST(router, "/loans/return/"+strconv.Itoa(int(loan.ID)), url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)

	require.NoError(t, db.DB.First(&got, book.ID).Error)
	assert.Equal(t, 1, got.Available)
}

func TestLoanAddExhaustedBookRedirectsBack(t *testing.T) {
	router, db, cleanup := setupRouter(t)
	defer cleanup()

	book := entities.Book{Title: "Beloved", Quantity: 1, Available: 0}
	require.NoError(t, db.DB.Create(&book).Error)
	borrower := entities.Borrower{Name: "Carol Lee"}
	require.NoError(t, db.DB.Create(&borrower).Error)

	w := doPOST(router, "/loans/add", url.Values{
		"book_id":     {strconv.Itoa(int(book.ID))},
		"borrower_id": {strconv.Itoa(int(borrower.ID))},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/loans/add", w.Header().Get("Location"))

	var count int64
	require.NoError(t, db.DB.Model(&entities.Loan{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteBookBlockedByLoan(t *testing.T) {
	router, db, cleanup := setupRouter(t)
	defer cleanup()

	book := entities.Book{Title: "1984", Quantity: 1, Available: 1}
	require.NoError(t, db.DB.Create(&book).Error)
	borrower := entities.Borrower{Name: "David Kim"}
	require.NoError(t, db.DB.Create(&borrower).Error)

	w := doPOST(router, "/loans/add", url.Values{
		"book_id":     {strconv.Itoa(int(book.ID))},
		"borrower_id": {strconv.Itoa(int(borrower.ID))},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = doPOST(router, "/books/delete/"+strconv.Itoa(int(book.ID)), url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)

	var count int64
	require.NoError(t, db.DB.Model(&entities.Book{}).Count(&count).Error)
	assert.EqualValues(t, 1, count, "book with loans must survive the delete")
}

func TestDeleteUnreferencedBook(t *testing.T) {
	router, db, cleanup := setupRouter(t)
	defer cleanup()

	book := entities.Book{Title: "Cosmos", Quantity: 1, Available: 1}
	require.NoError(t, db.DB.Create(&book).Error)

	w := doPOST(router, "/books/delete/"+strconv.Itoa(int(book.ID)), url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)

	var count int64
	require.NoError(t, db.DB.Model(&entities.Book{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCategoriesPageListsSeeded(t *testing.T) {
	router, _, cleanup := setupRouter(t)
	defer cleanup()

	w := doGET(router, "/categories")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Fiction")
	assert.Contains(t, w.Body.String(), "Biography")
}

func TestBorrowersAddAndEdit(t *testing.T) {
	router, db, cleanup := setupRouter(t)
	defer cleanup()

	w := doPOST(router, "/borrowers/add", url.Values{
		"name":  {"Eve Chen"},
		"email": {"eve@example.com"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)

	var borrower entities.Borrower
	require.NoError(t, db.DB.Where("name = ?", "Eve Chen").First(&borrower).Error)

	w = doPOST(router, "/borrowers/edit/"+strconv.Itoa(int(borrower.ID)), url.Values{
		"name":  {"Eve Chen-Park"},
		"email": {"eve@example.com"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)

	require.NoError(t, db.DB.First(&borrower, borrower.ID).Error)
	assert.Equal(t, "Eve Chen-Park", borrower.Name)
}

func TestAuthorDirectoryPages(t *testing.T) {
	router, db, cleanup := setupRouter(t)
	defer cleanup()

	w := doPOST(router, "/authors/add", url.Values{"name": {"Ursula K. Le Guin"}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	w = doGET(router, "/authors")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Ursula K. Le Guin")

	var author entities.Author
	require.NoError(t, db.DB.Where("name = ?", "Ursula K. Le Guin").First(&author).Error)

	require.NoError(t, db.DB.Create(&entities.Book{
		Title: "The Dispossessed", AuthorName: "Ursula K. Le Guin", Quantity: 1, Available: 1,
	}).Error)

	w = doPOST(router, "/authors/delete/"+strconv.Itoa(int(author.ID)), url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)

	var count int64
	require.NoError(t, db.DB.Model(&entities.Author{}).Where("id = ?", author.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "author with matching books must survive the delete")
}
