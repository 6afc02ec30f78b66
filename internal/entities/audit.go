package entities

import "time"

// AuditEventType groups audit events by the workflow step that produced them.
type AuditEventType string

const (
	AuditEventCheckout     AuditEventType = "checkout"
	AuditEventReturn       AuditEventType = "return"
	AuditEventReportExport AuditEventType = "report_export"
)

// AuditStatus is the outcome of the audited operation.
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailed  AuditStatus = "failed"
)

// AuditEvent is one recorded circulation outcome. Failed attempts are kept
// too, so BookID and BorrowerID may reference rows that never existed.
type AuditEvent struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	EventType   AuditEventType `gorm:"index;size:50;not null" json:"eventType"`
	Action      string         `gorm:"size:100" json:"action"` // book_checkout, book_return, <trigger>_report_export
	Description string         `gorm:"size:500" json:"description"`
	EntityType  string         `gorm:"size:50;index:idx_audit_entity" json:"entityType"` // borrowing or report
	EntityID    *uint          `gorm:"index:idx_audit_entity" json:"entityId,omitempty"`
	BookID      *uint          `gorm:"index" json:"bookId,omitempty"`
	BorrowerID  *uint          `gorm:"index" json:"borrowerId,omitempty"`
	Metadata    string         `gorm:"type:text" json:"metadata,omitempty"` // JSON object
	Status      AuditStatus    `gorm:"size:20;not null" json:"status"`
	ErrorMsg    string         `gorm:"size:500" json:"error,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"createdAt"`
}

func (AuditEvent) TableName() string {
	return "audit_events"
}
