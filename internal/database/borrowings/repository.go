// Package borrowings stores borrowing records and runs the joined queries
// behind the borrower, overdue and report views.
//
// Reads that need book or borrower columns use explicit joins into flat
// view structs; the relation fields on entities.Borrowing only carry the
// foreign keys.
package borrowings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/library/internal/apperr"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
)

// Repository handles borrowing record persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new borrowings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx runs fn in a transaction shared by every store called with the
// context it receives.
func (r *Repository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return database.WithTx(ctx, r.db, fn)
}

// Create inserts a borrowing record.
func (r *Repository) Create(ctx context.Context, borrowing *entities.Borrowing) error {
	if err := database.Conn(ctx, r.db).Create(borrowing).Error; err != nil {
		if database.IsForeignKeyViolation(err) {
			return apperr.NotFound("Book or Borrower not found")
		}
		return fmt.Errorf("create borrowing: %w", err)
	}
	return nil
}

// GetByID retrieves a borrowing record by ID.
func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.Borrowing, error) {
	var borrowing entities.Borrowing
	if err := database.Conn(ctx, r.db).First(&borrowing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Borrowing record not found")
		}
		return nil, fmt.Errorf("get borrowing: %w", err)
	}
	return &borrowing, nil
}

// CountActive counts the records of a book still in borrowed status.
func (r *Repository) CountActive(ctx context.Context, bookID uint) (int64, error) {
	var count int64
	err := database.Conn(ctx, r.db).Model(&entities.Borrowing{}).
		Where("book_id = ? AND status = ?", bookID, entities.BorrowingStatusBorrowed).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count active borrowings: %w", err)
	}
	return count, nil
}

// FindOpen returns the oldest borrowed record for the pair and locks it
// for the surrounding transaction.
func (r *Repository) FindOpen(ctx context.Context, bookID, borrowerID uint) (*entities.Borrowing, error) {
	var borrowing entities.Borrowing
	err := database.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Where("book_id = ? AND borrower_id = ? AND status = ?", bookID, borrowerID, entities.BorrowingStatusBorrowed).
		Order("borrow_date ASC, id ASC").
		First(&borrowing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Borrowing record not found")
		}
		return nil, fmt.Errorf("find open borrowing: %w", err)
	}
	return &borrowing, nil
}

// Close moves an open record into a terminal status. The update only
// matches rows still in borrowed status, so a record is closed at most once.
func (r *Repository) Close(ctx context.Context, borrowing *entities.Borrowing, status entities.BorrowingStatus, returnedAt time.Time) error {
	if !status.IsTerminal() {
		return apperr.Validation(fmt.Sprintf("cannot close borrowing with status %q", status))
	}

	result := database.Conn(ctx, r.db).Model(&entities.Borrowing{}).
		Where("id = ? AND status = ?", borrowing.ID, entities.BorrowingStatusBorrowed).
		Updates(map[string]any{
			"status":      status,
			"return_date": returnedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("close borrowing: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("Borrowing record not found")
	}

	borrowing.Status = status
	borrowing.ReturnDate = &returnedAt
	return nil
}

// ListActiveByBorrower returns the books a borrower currently holds.
func (r *Repository) ListActiveByBorrower(ctx context.Context, borrowerID uint) ([]entities.ActiveBorrowing, error) {
	var rows []entities.ActiveBorrowing
	err := database.Conn(ctx, r.db).
		Table("borrowings").
		Select(`borrowings.id AS borrowing_id,
			borrowings.book_id,
			borrowings.borrow_date,
			borrowings.due_date,
			books.title,
			books.author,
			books.isbn,
			books.shelf_location`).
		Joins("JOIN books ON books.id = borrowings.book_id").
		Where("borrowings.borrower_id = ? AND borrowings.status = ?", borrowerID, entities.BorrowingStatusBorrowed).
		Order("borrowings.borrow_date ASC, borrowings.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list active borrowings: %w", err)
	}
	return rows, nil
}

// ListOverdue returns records in borrowed or overdue status whose due date
// is before now, with book and borrower details.
func (r *Repository) ListOverdue(ctx context.Context, now time.Time) ([]entities.OverdueBorrowing, error) {
	var rows []entities.OverdueBorrowing
	err := database.Conn(ctx, r.db).
		Table("borrowings").
		Select(`borrowings.id,
			borrowings.book_id,
			borrowings.borrower_id,
			borrowings.status,
			borrowings.borrow_date,
			borrowings.due_date,
			borrowings.return_date,
			books.title,
			books.author,
			books.isbn,
			books.shelf_location,
			borrowers.name AS borrower_name,
			borrowers.email AS borrower_email`).
		Joins("JOIN books ON books.id = borrowings.book_id").
		Joins("JOIN borrowers ON borrowers.id = borrowings.borrower_id").
		Where("borrowings.status IN ? AND borrowings.due_date < ?",
			[]entities.BorrowingStatus{entities.BorrowingStatusBorrowed, entities.BorrowingStatusOverdue}, now.UTC()).
		Order("borrowings.due_date ASC, borrowings.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list overdue borrowings: %w", err)
	}
	return rows, nil
}

// ListBorrowedBetween returns report rows for records whose borrow date
// falls inside [start, end].
func (r *Repository) ListBorrowedBetween(ctx context.Context, start, end time.Time) ([]entities.ReportRow, error) {
	var rows []entities.ReportRow
	err := database.Conn(ctx, r.db).
		Table("borrowings").
		Select(`borrowers.name AS borrower_name,
			borrowers.email AS borrower_email,
			books.title AS book_title,
			borrowings.borrow_date,
			borrowings.return_date`).
		Joins("JOIN books ON books.id = borrowings.book_id").
		Joins("JOIN borrowers ON borrowers.id = borrowings.borrower_id").
		Where("borrowings.borrow_date >= ? AND borrowings.borrow_date <= ?", start.UTC(), end.UTC()).
		Order("borrowings.borrow_date ASC, borrowings.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list borrowings for report: %w", err)
	}
	return rows, nil
}
