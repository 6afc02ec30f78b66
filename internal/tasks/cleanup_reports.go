package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// CleanupReportsTaskName is the queue name of CleanupReportsTask.
const CleanupReportsTaskName = "cleanup_reports"

// ReportCleaner removes report files older than a retention period.
type ReportCleaner interface {
	DeleteOlderThan(retention time.Duration) (int, error)
}

// CleanupReportsTask removes exported report files past their retention.
type CleanupReportsTask struct {
	Retention time.Duration `json:"retention"`
}

// Config returns the queue configuration for report cleanup tasks.
func (t CleanupReportsTask) Config() backlite.QueueConfig {
	return maintenanceQueueConfig(CleanupReportsTaskName)
}

// maintenanceQueueConfig is shared by the retention cleanup queues.
func maintenanceQueueConfig(name string) backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        name,
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration: 24 * time.Hour,
			Data:     &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupReportsProcessor creates a processor function for CleanupReportsTask.
// A zero retention keeps every report.
func CleanupReportsProcessor(cleaner ReportCleaner) backlite.QueueProcessor[CleanupReportsTask] {
	return func(ctx context.Context, task CleanupReportsTask) error {
		if cleaner == nil {
			return fmt.Errorf("report cleaner not configured")
		}
		if task.Retention <= 0 {
			log.Printf("[TASK] Report retention disabled, nothing to clean up")
			return nil
		}

		removed, err := cleaner.DeleteOlderThan(task.Retention)
		if err != nil {
			return fmt.Errorf("cleanup reports: %w", err)
		}

		log.Printf("[TASK] Removed %d reports older than %v", removed, task.Retention)
		return nil
	}
}

// NewCleanupReportsQueue creates a backlite queue for report cleanup tasks.
func NewCleanupReportsQueue(cleaner ReportCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupReportsProcessor(cleaner))
}
