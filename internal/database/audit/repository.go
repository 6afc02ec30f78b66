package audit

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
)

const defaultPageSize = 50

// Repository persists circulation audit events.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LogEvent inserts an event, stamping CreatedAt when unset.
func (r *Repository) LogEvent(ctx context.Context, event *entities.AuditEvent) error {
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	return database.Conn(ctx, r.db).Create(event).Error
}

// GetEvents pages events newest first. An empty eventType matches every type.
func (r *Repository) GetEvents(ctx context.Context, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	query := database.Conn(ctx, r.db).Model(&entities.AuditEvent{})
	if eventType != "" {
		query = query.Where("event_type = ?", eventType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = defaultPageSize
	}
	offset = max(offset, 0)

	var events []entities.AuditEvent
	err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&events).Error
	return events, total, err
}

// GetEventsForBorrower returns a borrower's checkout and return history,
// oldest first, failed attempts included.
func (r *Repository) GetEventsForBorrower(ctx context.Context, borrowerID uint) ([]entities.AuditEvent, error) {
	var events []entities.AuditEvent
	err := database.Conn(ctx, r.db).
		Where("borrower_id = ?", borrowerID).
		Order("created_at ASC, id ASC").
		Find(&events).Error
	return events, err
}

// DeleteOldEvents removes events created before olderThan and returns how
// many were deleted.
func (r *Repository) DeleteOldEvents(ctx context.Context, olderThan time.Time) (int64, error) {
	result := database.Conn(ctx, r.db).
		Where("created_at < ?", olderThan).
		Delete(&entities.AuditEvent{})
	return result.RowsAffected, result.Error
}
