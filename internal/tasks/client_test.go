package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/config"
)

func TestDBPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "library-tasks.db"), DBPath(filepath.Join("data", "library.db")))
	assert.Equal(t, "library-tasks", DBPath("library"))
}

func TestNewClient(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	require.NotNil(t, client)

	_, err = os.Stat(filepath.Join(tmpDir, "test-tasks.db"))
	assert.NoError(t, err, "tasks database should be created")

	err = client.Close()
	assert.NoError(t, err)
}

func TestClientStartStop(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.Start(ctx)
	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	success := client.Stop(stopCtx)
	assert.True(t, success, "stop should succeed gracefully")
}

func TestClientStopWithoutStart(t *testing.T) {
	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), DefaultConfig())
	require.NoError(t, err)
	defer client.Close()

	assert.True(t, client.Stop(context.Background()))
}

type fakeExporter struct {
	mu       sync.Mutex
	calls    []ExportReportTask
	err      error
	exported chan struct{}
}

func (f *fakeExporter) ExportReportWindow(_ context.Context, trigger string, start, end time.Time) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, ExportReportTask{Start: start, End: end, Trigger: trigger})
	f.mu.Unlock()
	if f.exported != nil {
		f.exported <- struct{}{}
	}
	if f.err != nil {
		return "", f.err
	}
	return "/reports/borrowings-1-abcdef12.csv", nil
}

func TestExportReportTaskRunsThroughQueue(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(filepath.Join(t.TempDir(), "test.db"), cfg)
	require.NoError(t, err)
	defer client.Close()

	exporter := &fakeExporter{exported: make(chan struct{}, 1)}
	client.Register(NewExportReportQueue(exporter))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	start := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	ids, err := client.Enqueue(ExportReportTask{Start: start, End: end, Trigger: "scheduled"})
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	select {
	case <-exporter.exported:
	case <-time.After(5 * time.Second):
		t.Fatal("export task was not executed within timeout")
	}

	exporter.mu.Lock()
	defer exporter.mu.Unlock()
	require.Len(t, exporter.calls, 1)
	assert.True(t, exporter.calls[0].Start.Equal(start))
	assert.True(t, exporter.calls[0].End.Equal(end))
	assert.Equal(t, "scheduled", exporter.calls[0].Trigger)
}

func TestExportReportProcessor(t *testing.T) {
	start := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	t.Run("defaults trigger", func(t *testing.T) {
		exporter := &fakeExporter{}
		err := ExportReportProcessor(exporter)(context.Background(), ExportReportTask{Start: start, End: start})
		require.NoError(t, err)
		assert.Equal(t, "scheduled", exporter.calls[0].Trigger)
	})

	t.Run("propagates failure for retry", func(t *testing.T) {
		exporter := &fakeExporter{err: errors.New("disk full")}
		err := ExportReportProcessor(exporter)(context.Background(), ExportReportTask{Start: start, End: start})
		assert.ErrorContains(t, err, "disk full")
	})

	t.Run("missing exporter", func(t *testing.T) {
		err := ExportReportProcessor(nil)(context.Background(), ExportReportTask{})
		assert.Error(t, err)
	})
}

type fakeAuditCleaner struct {
	retention time.Duration
}

func (f *fakeAuditCleaner) DeleteOldEvents(_ context.Context, retention time.Duration) (int64, error) {
	f.retention = retention
	return 3, nil
}

func TestCleanupAuditEventsProcessor(t *testing.T) {
	t.Run("uses task retention", func(t *testing.T) {
		cleaner := &fakeAuditCleaner{}
		err := CleanupAuditEventsProcessor(cleaner)(context.Background(), CleanupAuditEventsTask{RetentionDays: 7})
		require.NoError(t, err)
		assert.Equal(t, 7*24*time.Hour, cleaner.retention)
	})

	t.Run("defaults to 30 days", func(t *testing.T) {
		cleaner := &fakeAuditCleaner{}
		err := CleanupAuditEventsProcessor(cleaner)(context.Background(), CleanupAuditEventsTask{})
		require.NoError(t, err)
		assert.Equal(t, 30*24*time.Hour, cleaner.retention)
	})
}

type fakeReportCleaner struct {
	calls int
}

func (f *fakeReportCleaner) DeleteOlderThan(time.Duration) (int, error) {
	f.calls++
	return 2, nil
}

func TestCleanupReportsProcessor(t *testing.T) {
	cleaner := &fakeReportCleaner{}
	process := CleanupReportsProcessor(cleaner)

	require.NoError(t, process(context.Background(), CleanupReportsTask{Retention: 0}))
	assert.Zero(t, cleaner.calls, "zero retention keeps reports")

	require.NoError(t, process(context.Background(), CleanupReportsTask{Retention: time.Hour}))
	assert.Equal(t, 1, cleaner.calls)

	assert.Error(t, CleanupReportsProcessor(nil)(context.Background(), CleanupReportsTask{Retention: time.Hour}))
}

func TestTaskConfigs(t *testing.T) {
	cases := []struct {
		task backlite.Task
		name string
	}{
		{ExportReportTask{}, "export_report"},
		{CleanupReportsTask{}, "cleanup_reports"},
		{CleanupAuditEventsTask{}, "cleanup_audit_events"},
	}
	for _, tc := range cases {
		cfg := tc.task.Config()
		assert.Equal(t, tc.name, cfg.Name)
		assert.Equal(t, 3, cfg.MaxAttempts)
		assert.NotNil(t, cfg.Retention)
	}
}

func TestMaintenanceTasks(t *testing.T) {
	tasks := MaintenanceTasks(48*time.Hour, 14)
	require.Len(t, tasks, 2)
	assert.Equal(t, CleanupReportsTask{Retention: 48 * time.Hour}, tasks[0])
	assert.Equal(t, CleanupAuditEventsTask{RetentionDays: 14}, tasks[1])
}

func TestConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := DefaultConfig()
		assert.Equal(t, 2, cfg.Workers)
		assert.Equal(t, 15*time.Minute, cfg.ReleaseAfter)
		assert.Equal(t, time.Hour, cfg.CleanupInterval)
	})

	t.Run("from application config", func(t *testing.T) {
		cfg := FromConfig(config.Tasks{Workers: 4, ReleaseAfter: time.Minute})
		assert.Equal(t, 4, cfg.Workers)
		assert.Equal(t, time.Minute, cfg.ReleaseAfter)
		assert.Equal(t, time.Hour, cfg.CleanupInterval)
	})
}

type recordingQueue struct {
	tasks []backlite.Task
	err   error
}

func (q *recordingQueue) Enqueue(tasks ...backlite.Task) ([]string, error) {
	if q.err != nil {
		return nil, q.err
	}
	q.tasks = append(q.tasks, tasks...)
	return make([]string, len(tasks)), nil
}

func TestJobs(t *testing.T) {
	start := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)

	t.Run("report is scheduled", func(t *testing.T) {
		queue := &recordingQueue{}
		require.NoError(t, NewJobs(queue, time.Hour, 7).EnqueueReport(start, end))
		assert.Equal(t, []backlite.Task{ExportReportTask{Start: start, End: end, Trigger: "scheduled"}}, queue.tasks)
	})

	t.Run("maintenance enqueues both cleanups", func(t *testing.T) {
		queue := &recordingQueue{}
		require.NoError(t, NewJobs(queue, time.Hour, 7).EnqueueMaintenance())
		assert.Equal(t, MaintenanceTasks(time.Hour, 7), queue.tasks)
	})

	t.Run("queue errors are returned", func(t *testing.T) {
		queue := &recordingQueue{err: errors.New("database is locked")}
		assert.Error(t, NewJobs(queue, time.Hour, 7).EnqueueReport(start, end))
	})
}

func TestCleanupAuditEventsTask_Retention(t *testing.T) {
	assert.Equal(t, 30*24*time.Hour, CleanupAuditEventsTask{RetentionDays: -1}.Retention())
	assert.Equal(t, 24*time.Hour, CleanupAuditEventsTask{RetentionDays: 1}.Retention())
}
