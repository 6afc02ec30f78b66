package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mrlokans/library/internal/apperr"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/borrowers"
	"github.com/mrlokans/library/internal/entities"
)

// publicDomainBooks supplies titles and authors for seeded books.
var publicDomainBooks = [][2]string{
	{"Pride and Prejudice", "Jane Austen"},
	{"Moby-Dick", "Herman Melville"},
	{"Frankenstein", "Mary Shelley"},
	{"Dracula", "Bram Stoker"},
	{"Great Expectations", "Charles Dickens"},
	{"The Odyssey", "Homer"},
	{"War and Peace", "Leo Tolstoy"},
	{"Crime and Punishment", "Fyodor Dostoevsky"},
	{"The Time Machine", "H. G. Wells"},
	{"Walden", "Henry David Thoreau"},
	{"Middlemarch", "George Eliot"},
	{"Jane Eyre", "Charlotte Bronte"},
	{"Wuthering Heights", "Emily Bronte"},
	{"The Scarlet Letter", "Nathaniel Hawthorne"},
	{"Heart of Darkness", "Joseph Conrad"},
	{"The Picture of Dorian Gray", "Oscar Wilde"},
	{"Anna Karenina", "Leo Tolstoy"},
	{"Little Women", "Louisa May Alcott"},
	{"Treasure Island", "Robert Louis Stevenson"},
	{"The Origin of Species", "Charles Darwin"},
}

var (
	firstNames = []string{"Ada", "Grace", "Alan", "Edsger", "Barbara", "Donald", "Margaret", "Dennis", "Frances", "Niklaus"}
	lastNames  = []string{"Lovelace", "Hopper", "Turing", "Dijkstra", "Liskov", "Knuth", "Hamilton", "Ritchie", "Allen", "Wirth"}
)

// SeedResult counts the rows a seed run inserted and skipped.
type SeedResult struct {
	BooksCreated     int
	BooksSkipped     int
	BorrowersCreated int
	BorrowersSkipped int
}

// BookCreator inserts books.
type BookCreator interface {
	Create(ctx context.Context, book *entities.Book) error
}

// BorrowerCreator inserts borrowers.
type BorrowerCreator interface {
	Create(ctx context.Context, borrower *entities.Borrower) error
}

// Seed inserts count demo books and count demo borrowers. The generated
// ISBNs and emails are deterministic, so rows left by an earlier run are
// skipped instead of duplicated.
func Seed(ctx context.Context, bookStore BookCreator, borrowerStore BorrowerCreator, count int) (SeedResult, error) {
	var result SeedResult

	for i := 0; i < count; i++ {
		if err := bookStore.Create(ctx, demoBook(i)); err != nil {
			if !errors.Is(err, apperr.ErrConstraintViolation) {
				return result, fmt.Errorf("seed book %d: %w", i+1, err)
			}
			result.BooksSkipped++
			continue
		}
		result.BooksCreated++
	}

	for i := 0; i < count; i++ {
		if err := borrowerStore.Create(ctx, demoBorrower(i)); err != nil {
			if !errors.Is(err, apperr.ErrConstraintViolation) {
				return result, fmt.Errorf("seed borrower %d: %w", i+1, err)
			}
			result.BorrowersSkipped++
			continue
		}
		result.BorrowersCreated++
	}

	return result, nil
}

func demoBook(i int) *entities.Book {
	entry := publicDomainBooks[i%len(publicDomainBooks)]
	title := entry[0]
	if round := i / len(publicDomainBooks); round > 0 {
		title = fmt.Sprintf("%s (Vol. %d)", title, round+1)
	}
	return &entities.Book{
		Title:             title,
		Author:            entry[1],
		ISBN:              DemoISBN(i),
		AvailableQuantity: 1 + (i*7)%10,
		ShelfLocation:     fmt.Sprintf("%c%d", 'A'+rune(i%6), 1+i/6),
	}
}

func demoBorrower(i int) *entities.Borrower {
	first := firstNames[i%len(firstNames)]
	last := lastNames[(i/len(firstNames)+i)%len(lastNames)]
	return &entities.Borrower{
		Name:  first + " " + last,
		Email: fmt.Sprintf("%s.%s.%d@example.com", strings.ToLower(first), strings.ToLower(last), i+1),
	}
}

// DemoISBN returns a valid ISBN-13 in the 979-0 range for the n-th demo book.
func DemoISBN(n int) string {
	body := fmt.Sprintf("9790%08d", n+1)
	sum := 0
	for i, r := range body {
		digit := int(r - '0')
		if i%2 == 1 {
			digit *= 3
		}
		sum += digit
	}
	return fmt.Sprintf("%s%d", body, (10-sum%10)%10)
}

// SeedCommand inserts demo books and borrowers.
type SeedCommand struct {
	DatabasePath string
	Count        int
}

func NewSeedCommand() *SeedCommand {
	return &SeedCommand{}
}

func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", "", "Path to the SQLite database (defaults to DATABASE_PATH)")
	fs.IntVar(&cmd.Count, "count", 20, "Number of books and of borrowers to create")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Insert demo books and borrowers. Running it again skips existing rows.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Count <= 0 {
		return fmt.Errorf("-count must be positive")
	}
	return nil
}

func (cmd *SeedCommand) Run() error {
	cfg := config.NewConfig()
	if cmd.DatabasePath != "" {
		cfg.Database.Driver = config.DatabaseDriverSQLite
		cfg.Database.Path = cmd.DatabasePath
	}

	db, err := database.NewDatabase(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	result, err := Seed(context.Background(), books.NewRepository(db.DB), borrowers.NewRepository(db.DB), cmd.Count)
	if err != nil {
		return err
	}

	fmt.Printf("Books:     %d created, %d already present\n", result.BooksCreated, result.BooksSkipped)
	fmt.Printf("Borrowers: %d created, %d already present\n", result.BorrowersCreated, result.BorrowersSkipped)
	return nil
}
