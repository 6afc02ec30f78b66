// Package circulation implements the borrowing workflow: checkout, return,
// the active and overdue views, and the borrowings report.
//
// A borrowing starts in borrowed status and is closed exactly once, on
// return, as returned (on or before its due date) or overdue (after it).
// Overdue is never assigned in the background; ListOverdue filters by due
// date at read time.
package circulation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mrlokans/library/internal/apperr"
	"github.com/mrlokans/library/internal/clock"
	"github.com/mrlokans/library/internal/entities"
)

// Messages returned to callers for workflow failures.
const (
	MsgBookOrBorrowerNotFound = "Book or Borrower not found"
	MsgBookUnavailable        = "Book currently not available for borrowing"
	MsgBookNotFound           = "Book not found"
	MsgBorrowingNotFound      = "Borrowing record not found"
	MsgDueDateNotInFuture     = "due date must be later than current date."
)

// BookStore is the slice of the Book Store the workflow needs.
type BookStore interface {
	GetForUpdate(ctx context.Context, id uint) (*entities.Book, error)
	UpdateQuantity(ctx context.Context, id uint, quantity int) (*entities.Book, error)
}

// BorrowerStore is the slice of the Borrower Store the workflow needs.
type BorrowerStore interface {
	GetByID(ctx context.Context, id uint) (*entities.Borrower, error)
}

// BorrowingStore persists borrowing records and provides the unit of work
// the other stores join through the context.
type BorrowingStore interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	Create(ctx context.Context, borrowing *entities.Borrowing) error
	CountActive(ctx context.Context, bookID uint) (int64, error)
	FindOpen(ctx context.Context, bookID, borrowerID uint) (*entities.Borrowing, error)
	Close(ctx context.Context, borrowing *entities.Borrowing, status entities.BorrowingStatus, returnedAt time.Time) error
	ListActiveByBorrower(ctx context.Context, borrowerID uint) ([]entities.ActiveBorrowing, error)
	ListOverdue(ctx context.Context, now time.Time) ([]entities.OverdueBorrowing, error)
	ListBorrowedBetween(ctx context.Context, start, end time.Time) ([]entities.ReportRow, error)
}

// ReportWriter serializes report rows and returns where they were written.
type ReportWriter interface {
	Write(rows []entities.ReportRow) (string, error)
}

// Auditor records workflow outcomes. Implementations must not block.
type Auditor interface {
	LogCheckout(bookID, borrowerID uint, borrowing *entities.Borrowing, err error)
	LogReturn(bookID, borrowerID uint, borrowing *entities.Borrowing, err error)
	LogReportExport(trigger string, start, end time.Time, path string, rows int, err error)
}

// Service runs the borrowing workflow.
type Service struct {
	books      BookStore
	borrowers  BorrowerStore
	borrowings BorrowingStore
	reports    ReportWriter
	clock      clock.Clock
	auditor    Auditor
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithAuditor records every checkout, return and export with a.
func WithAuditor(a Auditor) Option {
	return func(s *Service) { s.auditor = a }
}

// WithClock replaces the system clock.
func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

func NewService(books BookStore, borrowers BorrowerStore, borrowings BorrowingStore, reports ReportWriter, opts ...Option) *Service {
	s := &Service{
		books:      books,
		borrowers:  borrowers,
		borrowings: borrowings,
		reports:    reports,
		clock:      clock.NewSystem(),
		auditor:    noopAuditor{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Checkout lends a copy of the book to the borrower until dueDate.
//
// The book row is locked for the whole transaction, so concurrent checkouts
// of the same book are serialized and the last copy is lent at most once.
func (s *Service) Checkout(ctx context.Context, bookID, borrowerID uint, dueDate time.Time) (*entities.Borrowing, error) {
	now := s.clock.Now()
	if !dueDate.After(now) {
		return nil, apperr.Validation(MsgDueDateNotInFuture)
	}

	var borrowing *entities.Borrowing
	err := s.borrowings.WithTx(ctx, func(ctx context.Context) error {
		book, err := s.books.GetForUpdate(ctx, bookID)
		if err != nil {
			return notFoundAs(err, MsgBookOrBorrowerNotFound)
		}
		if _, err := s.borrowers.GetByID(ctx, borrowerID); err != nil {
			return notFoundAs(err, MsgBookOrBorrowerNotFound)
		}

		active, err := s.borrowings.CountActive(ctx, bookID)
		if err != nil {
			return err
		}
		if active >= int64(book.AvailableQuantity) {
			return apperr.Conflict(MsgBookUnavailable)
		}

		if _, err := s.books.UpdateQuantity(ctx, bookID, book.AvailableQuantity-1); err != nil {
			return err
		}

		borrowing = &entities.Borrowing{
			BookID:     bookID,
			BorrowerID: borrowerID,
			Status:     entities.BorrowingStatusBorrowed,
			BorrowDate: now,
			DueDate:    dueDate.UTC(),
		}
		return s.borrowings.Create(ctx, borrowing)
	})
	if err != nil {
		s.auditor.LogCheckout(bookID, borrowerID, nil, err)
		return nil, err
	}

	s.auditor.LogCheckout(bookID, borrowerID, borrowing, nil)
	return borrowing, nil
}

// Return closes the borrower's oldest open borrowing of the book and puts
// the copy back. A second return of the same loan fails with NotFound.
func (s *Service) Return(ctx context.Context, bookID, borrowerID uint) (*entities.Borrowing, error) {
	var borrowing *entities.Borrowing
	err := s.borrowings.WithTx(ctx, func(ctx context.Context) error {
		now := s.clock.Now()

		book, err := s.books.GetForUpdate(ctx, bookID)
		if err != nil {
			return notFoundAs(err, MsgBookNotFound)
		}

		open, err := s.borrowings.FindOpen(ctx, bookID, borrowerID)
		if err != nil {
			return notFoundAs(err, MsgBorrowingNotFound)
		}

		if err := s.borrowings.Close(ctx, open, Classify(open.DueDate, now), now); err != nil {
			return err
		}
		if _, err := s.books.UpdateQuantity(ctx, bookID, book.AvailableQuantity+1); err != nil {
			return err
		}

		borrowing = open
		return nil
	})
	if err != nil {
		s.auditor.LogReturn(bookID, borrowerID, nil, err)
		return nil, err
	}

	s.auditor.LogReturn(bookID, borrowerID, borrowing, nil)
	return borrowing, nil
}

// Classify returns the terminal status of a loan returned at returnedAt.
func Classify(dueDate, returnedAt time.Time) entities.BorrowingStatus {
	if returnedAt.After(dueDate) {
		return entities.BorrowingStatusOverdue
	}
	return entities.BorrowingStatusReturned
}

// ListActiveBorrowings returns the books the borrower currently holds.
func (s *Service) ListActiveBorrowings(ctx context.Context, borrowerID uint) ([]entities.ActiveBorrowing, error) {
	rows, err := s.borrowings.ListActiveByBorrower(ctx, borrowerID)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []entities.ActiveBorrowing{}
	}
	return rows, nil
}

// ListOverdue returns unreturned or late-returned loans whose due date has passed.
func (s *Service) ListOverdue(ctx context.Context) ([]entities.OverdueBorrowing, error) {
	rows, err := s.borrowings.ListOverdue(ctx, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []entities.OverdueBorrowing{}
	}
	return rows, nil
}

// ExportReport parses the window and writes the borrowings report for it.
func (s *Service) ExportReport(ctx context.Context, start, end string) (string, error) {
	from, to, err := ParseReportWindow(start, end)
	if err != nil {
		return "", err
	}
	return s.ExportReportWindow(ctx, TriggerAPI, from, to)
}

// ExportReportWindow writes a report of loans borrowed inside [start, end].
// trigger identifies the caller in the audit trail.
func (s *Service) ExportReportWindow(ctx context.Context, trigger string, start, end time.Time) (string, error) {
	if start.After(end) {
		return "", apperr.Validation("start date must not be after end date")
	}

	rows, err := s.borrowings.ListBorrowedBetween(ctx, start, end)
	if err != nil {
		s.auditor.LogReportExport(trigger, start, end, "", 0, err)
		return "", err
	}

	path, err := s.reports.Write(rows)
	if err != nil {
		err = fmt.Errorf("write report: %w", err)
		s.auditor.LogReportExport(trigger, start, end, "", len(rows), err)
		return "", err
	}

	log.Printf("Exported %d borrowings to %s", len(rows), path)
	s.auditor.LogReportExport(trigger, start, end, path, len(rows), nil)
	return path, nil
}

// notFoundAs replaces the message of a NotFound error. Other errors pass through.
func notFoundAs(err error, message string) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return apperr.NotFound(message)
	}
	return err
}

type noopAuditor struct{}

func (noopAuditor) LogCheckout(uint, uint, *entities.Borrowing, error) {}
func (noopAuditor) LogReturn(uint, uint, *entities.Borrowing, error) {}
func (noopAuditor) LogReportExport(string, time.Time, time.Time, string, int, error) {}
