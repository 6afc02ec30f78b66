package tasks

import (
	"time"

	"github.com/mikestefanello/backlite"
)

// Enqueuer saves tasks to the queue.
type Enqueuer interface {
	Enqueue(tasks ...backlite.Task) ([]string, error)
}

// Jobs enqueues the periodic work the scheduler triggers.
type Jobs struct {
	queue              Enqueuer
	reportRetention    time.Duration
	auditRetentionDays int
}

func NewJobs(queue Enqueuer, reportRetention time.Duration, auditRetentionDays int) *Jobs {
	return &Jobs{
		queue:              queue,
		reportRetention:    reportRetention,
		auditRetentionDays: auditRetentionDays,
	}
}

// EnqueueReport queues a scheduled export of [start, end].
func (j *Jobs) EnqueueReport(start, end time.Time) error {
	_, err := j.queue.Enqueue(ExportReportTask{Start: start, End: end, Trigger: triggerScheduled})
	return err
}

// EnqueueMaintenance queues report and audit retention cleanup.
func (j *Jobs) EnqueueMaintenance() error {
	_, err := j.queue.Enqueue(MaintenanceTasks(j.reportRetention, j.auditRetentionDays)...)
	return err
}

// MaintenanceTasks returns the retention cleanup tasks.
func MaintenanceTasks(reportRetention time.Duration, auditRetentionDays int) []backlite.Task {
	return []backlite.Task{
		CleanupReportsTask{Retention: reportRetention},
		CleanupAuditEventsTask{RetentionDays: auditRetentionDays},
	}
}
