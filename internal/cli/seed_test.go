package cli

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/borrowers"
)

func openTestDatabase(t *testing.T, path string) *database.Database {
	t.Helper()
	db, err := database.NewDatabase(config.Database{
		Driver:   config.DatabaseDriverSQLite,
		Path:     path,
		LogLevel: "silent",
	})
	require.NoError(t, err)
	return db
}

func TestSeed(t *testing.T) {
	db := openTestDatabase(t, filepath.Join(t.TempDir(), "seed.db"))
	t.Cleanup(func() { _ = db.Close() })

	bookRepo := books.NewRepository(db.DB)
	borrowerRepo := borrowers.NewRepository(db.DB)
	ctx := context.Background()

	result, err := Seed(ctx, bookRepo, borrowerRepo, 25)
	require.NoError(t, err)
	assert.Equal(t, SeedResult{BooksCreated: 25, BorrowersCreated: 25}, result)

	t.Run("second run skips existing rows", func(t *testing.T) {
		result, err := Seed(ctx, bookRepo, borrowerRepo, 25)
		require.NoError(t, err)
		assert.Equal(t, SeedResult{BooksSkipped: 25, BorrowersSkipped: 25}, result)
	})

	t.Run("larger run only adds the new rows", func(t *testing.T) {
		result, err := Seed(ctx, bookRepo, borrowerRepo, 30)
		require.NoError(t, err)
		assert.Equal(t, SeedResult{BooksCreated: 5, BooksSkipped: 25, BorrowersCreated: 5, BorrowersSkipped: 25}, result)

		_, total, err := bookRepo.List(ctx, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(30), total)
	})
}

func TestDemoBook(t *testing.T) {
	first := demoBook(0)
	assert.Equal(t, "Pride and Prejudice", first.Title)
	assert.Equal(t, "A1", first.ShelfLocation)
	assert.Equal(t, 1, first.AvailableQuantity)

	repeated := demoBook(len(publicDomainBooks))
	assert.Equal(t, "Pride and Prejudice (Vol. 2)", repeated.Title)
	assert.NotEqual(t, first.ISBN, repeated.ISBN)

	for i := 0; i < 50; i++ {
		book := demoBook(i)
		assert.GreaterOrEqual(t, book.AvailableQuantity, 1)
		assert.LessOrEqual(t, book.AvailableQuantity, 10)
	}
}

func TestDemoBorrower_UniqueEmails(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		borrower := demoBorrower(i)
		assert.False(t, seen[borrower.Email], "duplicate email %s", borrower.Email)
		assert.True(t, strings.HasSuffix(borrower.Email, "@example.com"))
		seen[borrower.Email] = true
	}
}

func TestDemoISBN(t *testing.T) {
	assert.Equal(t, "9790000000018", DemoISBN(0))

	for n := 0; n < 200; n++ {
		isbn := DemoISBN(n)
		require.Len(t, isbn, 13)

		sum := 0
		for i, r := range isbn {
			digit := int(r - '0')
			if i%2 == 1 {
				digit *= 3
			}
			sum += digit
		}
		assert.Zero(t, sum%10, isbn)
	}
}

func TestSeedCommand_ParseFlags(t *testing.T) {
	cmd := NewSeedCommand()
	require.NoError(t, cmd.ParseFlags([]string{"-db", "demo.db"}))
	assert.Equal(t, "demo.db", cmd.DatabasePath)
	assert.Equal(t, 20, cmd.Count)

	cmd = NewSeedCommand()
	assert.Error(t, cmd.ParseFlags([]string{"-count", "0"}))
}
