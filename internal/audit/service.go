package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/entities"
)

// Service provides high-level audit logging for the circulation workflow.
type Service struct {
	repo    *audit.Repository
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	return s.repo.LogEvent(ctx, event)
}

// LogAsync records an audit event in the background (non-blocking).
// The write is detached from any request context.
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(context.Background(), event); err != nil {
			log.Printf("Failed to log audit event: %v", err)
		}
	}()
}

// Wait blocks until every event queued with LogAsync has been written.
func (s *Service) Wait() {
	s.pending.Wait()
}

// LogCheckout records a checkout attempt for the book and borrower.
func (s *Service) LogCheckout(bookID, borrowerID uint, borrowing *entities.Borrowing, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventCheckout,
		Action:      "book_checkout",
		Description: fmt.Sprintf("Borrower %d checked out book %d", borrowerID, bookID),
		EntityType:  "borrowing",
		BookID:      &bookID,
		BorrowerID:  &borrowerID,
		Status:      entities.AuditStatusSuccess,
		Metadata:    metadata(map[string]any{"book_id": bookID, "borrower_id": borrowerID}),
	}
	if borrowing != nil {
		id := borrowing.ID
		event.EntityID = &id
	}
	markFailed(event, err)

	s.LogAsync(event)
}

// LogReturn records a return attempt, including the status the record was
// closed with.
func (s *Service) LogReturn(bookID, borrowerID uint, borrowing *entities.Borrowing, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventReturn,
		Action:      "book_return",
		Description: fmt.Sprintf("Borrower %d returned book %d", borrowerID, bookID),
		EntityType:  "borrowing",
		BookID:      &bookID,
		BorrowerID:  &borrowerID,
		Status:      entities.AuditStatusSuccess,
	}

	md := map[string]any{"book_id": bookID, "borrower_id": borrowerID}
	if borrowing != nil {
		id := borrowing.ID
		event.EntityID = &id
		md["status"] = borrowing.Status
	}
	event.Metadata = metadata(md)
	markFailed(event, err)

	s.LogAsync(event)
}

// LogReportExport records a report export. trigger names what started it,
// e.g. "api", "cli" or "scheduled".
func (s *Service) LogReportExport(trigger string, start, end time.Time, path string, rows int, err error) {
	event := &entities.AuditEvent{
		EventType:   entities.AuditEventReportExport,
		Action:      trigger + "_report_export",
		Description: fmt.Sprintf("Exported %d borrowings from %s to %s", rows, start.Format(time.RFC3339), end.Format(time.RFC3339)),
		EntityType:  "report",
		Status:      entities.AuditStatusSuccess,
		Metadata:    metadata(map[string]any{"path": path, "rows": rows}),
	}
	markFailed(event, err)

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(ctx context.Context, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(ctx, eventType, limit, offset)
}

// GetEventsForBorrower returns a borrower's audit history, oldest first.
func (s *Service) GetEventsForBorrower(ctx context.Context, borrowerID uint) ([]entities.AuditEvent, error) {
	return s.repo.GetEventsForBorrower(ctx, borrowerID)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention)
	return s.repo.DeleteOldEvents(ctx, cutoff)
}

func metadata(values map[string]any) string {
	b, err := json.Marshal(values)
	if err != nil {
		return ""
	}
	return string(b)
}

func markFailed(event *entities.AuditEvent, err error) {
	if err == nil {
		return
	}
	event.Status = entities.AuditStatusFailed
	event.ErrorMsg = truncate(err.Error(), 500)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
