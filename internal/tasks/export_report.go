package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// ReportExporter writes the borrowings report for a window.
type ReportExporter interface {
	ExportReportWindow(ctx context.Context, trigger string, start, end time.Time) (string, error)
}

// ExportReportTaskName is the queue name of ExportReportTask.
const ExportReportTaskName = "export_report"

// triggerScheduled matches circulation.TriggerScheduled.
const triggerScheduled = "scheduled"

// ExportReportTask exports the borrowings report for [Start, End].
type ExportReportTask struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Trigger string    `json:"trigger"`
}

// Config returns the queue configuration for report export tasks.
func (t ExportReportTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        ExportReportTaskName,
		MaxAttempts: 3,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   7 * 24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ExportReportProcessor creates a processor function for ExportReportTask.
func ExportReportProcessor(exporter ReportExporter) backlite.QueueProcessor[ExportReportTask] {
	return func(ctx context.Context, task ExportReportTask) error {
		if exporter == nil {
			return fmt.Errorf("report exporter not configured")
		}

		trigger := task.Trigger
		if trigger == "" {
			trigger = triggerScheduled
		}

		path, err := exporter.ExportReportWindow(ctx, trigger, task.Start, task.End)
		if err != nil {
			return fmt.Errorf("export report: %w", err)
		}

		log.Printf("[TASK] Exported report for %s..%s to %s",
			task.Start.Format(time.RFC3339), task.End.Format(time.RFC3339), path)
		return nil
	}
}

// NewExportReportQueue creates a backlite queue for report export tasks.
func NewExportReportQueue(exporter ReportExporter) backlite.Queue {
	return backlite.NewQueue(ExportReportProcessor(exporter))
}
