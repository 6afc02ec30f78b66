// Package interfaces documents the core abstractions used throughout the application.
//
// Interfaces are declared by the package that consumes them, next to the code
// that calls them. This package only holds the compile-time checks that bind
// the concrete types to those declarations.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - circulation.BookStore: locked reads and quantity updates (internal/circulation/service.go)
//   - circulation.BorrowerStore: borrower existence checks (internal/circulation/service.go)
//   - circulation.BorrowingStore: loan records and the transaction boundary (internal/circulation/service.go)
//   - http.BookStore, http.BorrowerStore: catalogue CRUD (internal/http/stores.go)
//   - cli.BookCreator, cli.BorrowerCreator: demo data inserts (internal/cli/seed.go)
//
// ## Workflow Interfaces
//
//   - http.Circulation: checkout, return and listings (internal/http/stores.go)
//   - circulation.ReportWriter: CSV serialization (internal/circulation/service.go)
//   - circulation.Auditor: non-blocking outcome logging (internal/circulation/service.go)
//
// ## Background Work Interfaces
//
//   - http.TaskQueue: enqueue and inspect backlite tasks (internal/http/stores.go)
//   - scheduler.Jobs: work triggered by cron schedules (internal/scheduler/scheduler.go)
//   - tasks.ReportExporter, tasks.ReportCleaner, tasks.AuditEventCleaner: task handlers' dependencies (internal/tasks/)
//
// # Transactions
//
// Repositories never open transactions themselves. BorrowingStore.WithTx
// stores the transaction in the context, and every repository method resolves
// its handle through database.Conn(ctx, db). A method called inside the
// callback joins the transaction; the same method called outside it runs on
// the plain connection.
//
// # Adding a New Report Format
//
//  1. Implement circulation.ReportWriter in internal/reports/
//
//     type JSONExporter struct {
//         dir string
//     }
//
//     func (e *JSONExporter) Write(rows []entities.ReportRow) (string, error)
//
//  2. Add a compile-time check to checks.go
//
//  3. Pass it to circulation.NewService in entrypoint.go
//
// # Adding a New Background Task
//
//  1. Define the task type in internal/tasks/ with a Config() method returning
//     its backlite.QueueConfig
//
//  2. Create the queue with backlite.NewQueue and register it in entrypoint.go
//
//  3. List the task type in the tasks controller if it may be run over HTTP
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
