package reports

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CleanupOlderThan removes report files in dir last modified before cutoff.
// Files that do not look like borrowings reports are left alone. A missing
// directory is not an error.
func CleanupOlderThan(dir string, cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read reports directory: %w", err)
	}

	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || filepath.Ext(name) != ".csv" {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			log.Printf("Skipping report %s: %v", name, err)
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return removed, fmt.Errorf("failed to remove report %s: %w", name, err)
		}
		removed++
	}
	return removed, nil
}

// Cleaner removes reports from a fixed directory.
type Cleaner struct {
	Dir string
}

func NewCleaner(dir string) *Cleaner {
	return &Cleaner{Dir: dir}
}

// DeleteOlderThan removes reports older than retention.
func (c *Cleaner) DeleteOlderThan(retention time.Duration) (int, error) {
	return CleanupOlderThan(c.Dir, time.Now().Add(-retention))
}
