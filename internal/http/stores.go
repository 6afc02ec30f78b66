package http

import (
	"context"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/library/internal/entities"
)

// This file consolidates the store and service interfaces used by the
// HTTP controllers. Each controller depends only on the methods it calls.

// BookStore provides CRUD access to the book catalogue.
type BookStore interface {
	List(ctx context.Context, limit, offset int) ([]entities.Book, int64, error)
	GetByID(ctx context.Context, id uint) (*entities.Book, error)
	Create(ctx context.Context, book *entities.Book) error
	Update(ctx context.Context, id uint, fields map[string]any) (*entities.Book, error)
	Delete(ctx context.Context, id uint) (*entities.Book, error)
}

// BorrowerStore provides CRUD access to borrowers.
type BorrowerStore interface {
	List(ctx context.Context, limit, offset int) ([]entities.Borrower, int64, error)
	GetByID(ctx context.Context, id uint) (*entities.Borrower, error)
	Create(ctx context.Context, borrower *entities.Borrower) error
	Update(ctx context.Context, id uint, fields map[string]any) (*entities.Borrower, error)
	Delete(ctx context.Context, id uint) (*entities.Borrower, error)
}

// Circulation runs the borrowing workflow.
type Circulation interface {
	Checkout(ctx context.Context, bookID, borrowerID uint, dueDate time.Time) (*entities.Borrowing, error)
	Return(ctx context.Context, bookID, borrowerID uint) (*entities.Borrowing, error)
	ListActiveBorrowings(ctx context.Context, borrowerID uint) ([]entities.ActiveBorrowing, error)
	ListOverdue(ctx context.Context) ([]entities.OverdueBorrowing, error)
	ExportReport(ctx context.Context, start, end string) (string, error)
}

// AuditReader lists recorded audit events.
type AuditReader interface {
	GetEvents(ctx context.Context, eventType entities.AuditEventType, limit, offset int) ([]entities.AuditEvent, int64, error)
	GetEventsForBorrower(ctx context.Context, borrowerID uint) ([]entities.AuditEvent, error)
}

// TaskQueue enqueues background tasks and reports their status.
type TaskQueue interface {
	Enqueue(tasks ...backlite.Task) ([]string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// Pinger checks connectivity of the database.
type Pinger interface {
	Ping() error
}
