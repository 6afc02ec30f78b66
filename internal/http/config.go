package http

import "time"

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Books       BookStore
	Borrowers   BorrowerStore
	Circulation Circulation
	Database    Pinger

	// Directory reports are written to, checked by /health
	ReportsDir string

	// Audit trail (optional)
	AuditEvents AuditReader

	// Per-client rate limiting (optional)
	RateLimiter *RateLimiter

	// Task queue (optional)
	TaskQueue          TaskQueue
	ReportRetention    time.Duration
	AuditRetentionDays int

	// Application info
	Version string
}
