package reports

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/clock"
	"github.com/mrlokans/library/internal/entities"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestCSVExporter_Write(t *testing.T) {
	now := time.Date(2025, 8, 27, 10, 0, 0, 0, time.UTC)
	dir := filepath.Join(t.TempDir(), "nested", "reports")
	exporter := NewCSVExporter(dir, clock.NewFixed(now))

	t.Run("writes header and rows", func(t *testing.T) {
		borrowed := time.Date(2025, 8, 1, 9, 30, 0, 0, time.UTC)
		returned := time.Date(2025, 8, 5, 17, 0, 0, 0, time.UTC)
		rows := []entities.ReportRow{
			{BorrowerName: "Ada Lovelace", BorrowerEmail: "ada@example.com", BookTitle: "Dune", BorrowDate: borrowed, ReturnDate: &returned},
			{BorrowerName: "Alan Turing", BorrowerEmail: "alan@example.com", BookTitle: "Emma, Volume 1", BorrowDate: borrowed},
		}

		path, err := exporter.Write(rows)
		require.NoError(t, err)
		assert.Equal(t, dir, filepath.Dir(path))
		assert.Regexp(t, regexp.MustCompile(`^borrowings-\d+-[0-9a-f]{8}\.csv$`), filepath.Base(path))
		assert.Contains(t, filepath.Base(path), "1756288800000")

		records := readCSV(t, path)
		require.Len(t, records, 3)
		assert.Equal(t, Header, records[0])
		assert.Equal(t, []string{"Ada Lovelace", "ada@example.com", "Dune", "2025-08-01T09:30:00Z", "2025-08-05T17:00:00Z"}, records[1])
		assert.Equal(t, []string{"Alan Turing", "alan@example.com", "Emma, Volume 1", "2025-08-01T09:30:00Z", ""}, records[2])
	})

	t.Run("empty report keeps header", func(t *testing.T) {
		path, err := exporter.Write(nil)
		require.NoError(t, err)

		records := readCSV(t, path)
		require.Len(t, records, 1)
		assert.Equal(t, Header, records[0])
	})

	t.Run("same instant yields distinct files", func(t *testing.T) {
		first, err := exporter.Write(nil)
		require.NoError(t, err)
		second, err := exporter.Write(nil)
		require.NoError(t, err)
		assert.NotEqual(t, first, second)
	})
}

func TestCleanupOlderThan(t *testing.T) {
	dir := t.TempDir()
	old := time.Now().Add(-48 * time.Hour)

	write := func(name string, mod time.Time) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
		require.NoError(t, os.Chtimes(path, mod, mod))
		return path
	}

	oldReport := write("borrowings-1-aaaaaaaa.csv", old)
	freshReport := write("borrowings-2-bbbbbbbb.csv", time.Now())
	unrelated := write("notes.csv", old)

	removed, err := CleanupOlderThan(dir, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	assert.NoFileExists(t, oldReport)
	assert.FileExists(t, freshReport)
	assert.FileExists(t, unrelated)

	t.Run("missing directory", func(t *testing.T) {
		removed, err := CleanupOlderThan(filepath.Join(dir, "missing"), time.Now())
		require.NoError(t, err)
		assert.Zero(t, removed)
	})

	t.Run("cleaner uses retention", func(t *testing.T) {
		write("borrowings-3-cccccccc.csv", old)
		removed, err := NewCleaner(dir).DeleteOlderThan(24 * time.Hour)
		require.NoError(t, err)
		assert.Equal(t, 1, removed)
	})
}
