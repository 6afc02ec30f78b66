package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/circulation"
	"github.com/mrlokans/library/internal/cli"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/borrowers"
	"github.com/mrlokans/library/internal/database/borrowings"
	"github.com/mrlokans/library/internal/http"
	"github.com/mrlokans/library/internal/reports"
	"github.com/mrlokans/library/internal/scheduler"
	"github.com/mrlokans/library/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// Book Store implementations
var _ circulation.BookStore = (*books.Repository)(nil)
var _ http.BookStore = (*books.Repository)(nil)
var _ cli.BookCreator = (*books.Repository)(nil)

// Borrower Store implementations
var _ circulation.BorrowerStore = (*borrowers.Repository)(nil)
var _ http.BorrowerStore = (*borrowers.Repository)(nil)
var _ cli.BorrowerCreator = (*borrowers.Repository)(nil)

// Borrowing Store implementations
var _ circulation.BorrowingStore = (*borrowings.Repository)(nil)

// Pinger implementations
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Workflow
// =============================================================================

// Circulation implementations
var _ http.Circulation = (*circulation.Service)(nil)
var _ tasks.ReportExporter = (*circulation.Service)(nil)

// ReportWriter implementations
var _ circulation.ReportWriter = (*reports.CSVExporter)(nil)

// =============================================================================
// Audit Trail
// =============================================================================

var _ circulation.Auditor = (*audit.Service)(nil)
var _ http.AuditReader = (*audit.Service)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)

// =============================================================================
// Background Tasks
// =============================================================================

var _ http.TaskQueue = (*tasks.Client)(nil)
var _ tasks.Enqueuer = (*tasks.Client)(nil)
var _ scheduler.Jobs = (*tasks.Jobs)(nil)
var _ tasks.ReportCleaner = (*reports.Cleaner)(nil)
