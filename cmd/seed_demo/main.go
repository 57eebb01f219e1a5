// Command seed_demo populates a database with sample data for local
// development and demos.
// Usage: go run cmd/seed_demo/main.go [-db path/to/library.db]
package main

import (
	"flag"
	"log"
	"math/rand"

	"github.com/avolkov/libtrack/internal/config"
	"github.com/avolkov/libtrack/internal/database"
	"github.com/avolkov/libtrack/internal/database/books"
	"github.com/avolkov/libtrack/internal/database/borrowers"
	"github.com/avolkov/libtrack/internal/database/directory"
	"github.com/avolkov/libtrack/internal/entities"
	"github.com/avolkov/libtrack/internal/lending"
)

var authorNames = []string{
	"Jane Austen", "Mark Twain", "Isaac Asimov", "Agatha Christie", "George Orwell",
	"J.K. Rowling", "J.R.R. Tolkien", "Haruki Murakami", "Toni Morrison", "Yuval Noah Harari",
}

var publisherNames = []string{
	"Penguin Random House", "HarperCollins", "Simon & Schuster", "Hachette", "Macmillan",
}

var sampleBooks = []struct {
	Title string
	ISBN  string
}{
	{"Pride and Prejudice", "1111111111"},
	{"Adventures of Huckleberry Finn", "2222222222"},
	{"Foundation", "3333333333"},
	{"Murder on the Orient Express", "4444444444"},
	{"1984", "5555555555"},
	{"Harry Potter and the Sorcerer's Stone", "6666666666"},
	{"The Hobbit", "7777777777"},
	{"Norwegian Wood", "8888888888"},
	{"Beloved", "9999999999"},
	{"Sapiens", "1010101010"},
	{"Sample Science", "1112223334"},
	{"Sample Fiction A", "1112223335"},
	{"Sample Fiction B", "1112223336"},
	{"Sample Non-Fiction", "1112223337"},
	{"Sample Children", "1112223338"},
	{"Sample Mystery", "1112223339"},
	{"Sample History", "1112223340"},
	{"Sample Biography", "1112223341"},
	{"Sample Tech", "1112223342"},
	{"Sample Travel", "1112223343"},
}

var sampleBorrowers = []struct {
	Name  string
	Email string
	Phone string
}{
	{"Alice Johnson", "alice@example.com", "555-0100"},
	{"Bob Smith", "bob@example.com", "555-0101"},
	{"Carol Lee", "carol@example.com", "555-0102"},
	{"David Kim", "david@example.com", "555-0103"},
	{"Eve Chen", "eve@example.com", "555-0104"},
	{"Frank Wright", "frank@example.com", "555-0105"},
	{"Grace Park", "grace@example.com", "555-0106"},
	{"Hank Rivera", "hank@example.com", "555-0107"},
	{"Ivy Gomez", "ivy@example.com", "555-0108"},
	{"Jack Black", "jack@example.com", "555-0109"},
}

func main() {
	dbPath := flag.String("db", config.DefaultDatabasePath, "path to the database file")
	flag.Parse()

	log.Printf("Seeding demo data into %s...", *dbPath)

	db, err := database.NewDatabase(*dbPath, database.DefaultRetryPolicy())
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	dirRepo := directory.NewRepository(db)
	for _, name := range authorNames {
		if err := dirRepo.CreateAuthor(&entities.Author{Name: name}); err != nil {
			log.Printf("Failed to add author %s: %v", name, err)
		}
	}
	for _, name := range publisherNames {
		if err := dirRepo.CreatePublisher(&entities.Publisher{Name: name}); err != nil {
			log.Printf("Failed to add publisher %s: %v", name, err)
		}
	}

	var cats []entities.Category
	if err := db.DB.Find(&cats).Error; err != nil || len(cats) == 0 {
		log.Fatalf("Failed to load categories: %v", err)
	}

	bookRepo := books.NewRepository(db)
	bookIDs := make([]uint, 0, len(sampleBooks))
	for _, sample := range sampleBooks {
		isbn := sample.ISBN
		categoryID := cats[rand.Intn(len(cats))].ID
		book := &entities.Book{
			Title:         sample.Title,
			ISBN:          &isbn,
			CategoryID:    &categoryID,
			AuthorName:    authorNames[rand.Intn(len(authorNames))],
			PublisherName: publisherNames[rand.Intn(len(publisherNames))],
			Quantity:      rand.Intn(5) + 1,
		}
		if err := bookRepo.Create(book); err != nil {
			log.Printf("Failed to add book %s: %v", sample.Title, err)
			continue
		}
		bookIDs = append(bookIDs, book.ID)
	}

	borrowerRepo := borrowers.NewRepository(db)
	borrowerIDs := make([]uint, 0, len(sampleBorrowers))
	for _, sample := range sampleBorrowers {
		email := sample.Email
		borrower := &entities.Borrower{
			Name:  sample.Name,
			Email: &email,
			Phone: sample.Phone,
		}
		if err := borrowerRepo.Create(borrower); err != nil {
			log.Printf("Failed to add borrower %s: %v", sample.Name, err)
			continue
		}
		borrowerIDs = append(borrowerIDs, borrower.ID)
	}

	// Open a handful of loans against available copies, then return the
	// first few so the history has both active and settled entries.
	lifecycle := lending.NewService(db, config.DefaultLoanPeriodDays)
	loanIDs := make([]uint, 0, 8)
	for i := 0; i < 8 && len(bookIDs) > 0 && len(borrowerIDs) > 0; i++ {
		bookID := bookIDs[rand.Intn(len(bookIDs))]
		borrowerID := borrowerIDs[rand.Intn(len(borrowerIDs))]
		loanID, err := lifecycle.Open(bookID, borrowerID, nil)
		if err != nil {
			continue
		}
		loanIDs = append(loanIDs, loanID)
	}
	for i := 0; i < 3 && i < len(loanIDs); i++ {
		if err := lifecycle.Close(loanIDs[i]); err != nil {
			log.Printf("Failed to return loan %d: %v", loanIDs[i], err)
		}
	}

	var bookCount, borrowerCount, loanCount int64
	db.DB.Model(&entities.Book{}).Count(&bookCount)
	db.DB.Model(&entities.Borrower{}).Count(&borrowerCount)
	db.DB.Model(&entities.Loan{}).Count(&loanCount)
	log.Printf("Seeded %d books, %d borrowers, %d loans", bookCount, borrowerCount, loanCount)
}
