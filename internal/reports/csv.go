// Package reports writes borrowing reports to disk and prunes old ones.
package reports

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/library/internal/clock"
	"github.com/mrlokans/library/internal/entities"
)

const filePrefix = "borrowings-"

// Header is the fixed column layout of a borrowings report.
var Header = []string{"Borrower", "Email", "Book", "Borrowed At", "Returned At"}

// CSVExporter writes report rows as CSV files into Dir.
type CSVExporter struct {
	Dir   string
	clock clock.Clock
}

func NewCSVExporter(dir string, clk clock.Clock) *CSVExporter {
	return &CSVExporter{Dir: dir, clock: clk}
}

// Write creates a new report file and returns its path. The header row is
// written even when rows is empty.
func (e *CSVExporter) Write(rows []entities.ReportRow) (string, error) {
	if err := os.MkdirAll(e.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	path := filepath.Join(e.Dir, e.fileName())
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}

	if err := writeRows(file, rows); err != nil {
		file.Close()
		os.Remove(path)
		return "", err
	}
	if err := file.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to close report file: %w", err)
	}
	return path, nil
}

func (e *CSVExporter) fileName() string {
	millis := e.clock.Now().UnixMilli()
	return fmt.Sprintf("%s%d-%s.csv", filePrefix, millis, uuid.NewString()[:8])
}

func writeRows(file *os.File, rows []entities.ReportRow) error {
	w := csv.NewWriter(file)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("failed to write report header: %w", err)
	}

	for _, row := range rows {
		returnedAt := ""
		if row.ReturnDate != nil {
			returnedAt = formatTime(*row.ReturnDate)
		}
		record := []string{
			row.BorrowerName,
			row.BorrowerEmail,
			row.BookTitle,
			formatTime(row.BorrowDate),
			returnedAt,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write report row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush report: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
