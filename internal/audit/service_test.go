package audit

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	auditRepo "github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/entities"
)

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	path := filepath.Join(t.TempDir(), "audit.db")
	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	repo := auditRepo.NewRepository(db)
	svc := NewService(repo)

	return svc, db
}

func TestService_Log(t *testing.T) {
	svc, db := setupTestService(t)

	event := &entities.AuditEvent{
		EventType:   entities.AuditEventCheckout,
		Action:      "book_checkout",
		Description: "Test checkout event",
		Status:      entities.AuditStatusSuccess,
	}

	err := svc.Log(context.Background(), event)
	require.NoError(t, err)

	var saved entities.AuditEvent
	err = db.First(&saved, event.ID).Error
	require.NoError(t, err)
	assert.Equal(t, "book_checkout", saved.Action)
}

func TestService_LogCheckout(t *testing.T) {
	svc, db := setupTestService(t)

	t.Run("successful checkout", func(t *testing.T) {
		svc.LogCheckout(2, 1, &entities.Borrowing{ID: 9}, nil)
		svc.Wait()

		var event entities.AuditEvent
		err := db.Where("event_type = ? AND status = ?", entities.AuditEventCheckout, entities.AuditStatusSuccess).First(&event).Error
		require.NoError(t, err)
		require.NotNil(t, event.EntityID)
		assert.Equal(t, uint(9), *event.EntityID)
		assert.Equal(t, "borrowing", event.EntityType)
		require.NotNil(t, event.BookID)
		require.NotNil(t, event.BorrowerID)
		assert.Equal(t, uint(2), *event.BookID)
		assert.Equal(t, uint(1), *event.BorrowerID)
		assert.Contains(t, event.Metadata, `"book_id":2`)
		assert.Contains(t, event.Metadata, `"borrower_id":1`)
	})

	t.Run("failed checkout", func(t *testing.T) {
		svc.LogCheckout(2, 1, nil, errors.New("Book currently not available for borrowing"))
		svc.Wait()

		var event entities.AuditEvent
		err := db.Where("event_type = ? AND status = ?", entities.AuditEventCheckout, entities.AuditStatusFailed).First(&event).Error
		require.NoError(t, err)
		assert.Nil(t, event.EntityID)
		assert.Contains(t, event.ErrorMsg, "not available")
	})
}

func TestService_LogReturn(t *testing.T) {
	svc, db := setupTestService(t)

	svc.LogReturn(2, 1, &entities.Borrowing{ID: 4, Status: entities.BorrowingStatusOverdue}, nil)
	svc.Wait()

	var event entities.AuditEvent
	require.NoError(t, db.Where("event_type = ?", entities.AuditEventReturn).First(&event).Error)
	assert.Equal(t, "book_return", event.Action)
	assert.Contains(t, event.Metadata, `"status":"overdue"`)
}

func TestService_LogReportExport(t *testing.T) {
	svc, db := setupTestService(t)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	svc.LogReportExport("scheduled", start, end, "/tmp/reports/borrowings-1.csv", 12, nil)
	svc.Wait()

	var event entities.AuditEvent
	require.NoError(t, db.Where("event_type = ?", entities.AuditEventReportExport).First(&event).Error)
	assert.Equal(t, "scheduled_report_export", event.Action)
	assert.Equal(t, "report", event.EntityType)
	assert.Contains(t, event.Description, "Exported 12 borrowings")
	assert.Contains(t, event.Metadata, "borrowings-1.csv")
}

func TestService_DeleteOldEvents(t *testing.T) {
	svc, _ := setupTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Log(ctx, &entities.AuditEvent{
		EventType: entities.AuditEventCheckout,
		CreatedAt: time.Now().UTC().Add(-48 * time.Hour),
	}))
	require.NoError(t, svc.Log(ctx, &entities.AuditEvent{EventType: entities.AuditEventReturn}))

	deleted, err := svc.DeleteOldEvents(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	events, total, err := svc.GetEvents(ctx, "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, entities.AuditEventReturn, events[0].EventType)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	long := strings.Repeat("x", 20)
	assert.Equal(t, "xxxxxxx...", truncate(long, 10))
}
