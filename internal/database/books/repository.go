// Package books provides the Book Store: CRUD over the book catalogue plus
// the quantity updates the circulation workflow performs.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetByID(ctx, 123)
package books

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/library/internal/apperr"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns a page of books ordered by ID, along with the total count.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]entities.Book, int64, error) {
	var books []entities.Book
	var total int64

	conn := database.Conn(ctx, r.db)
	if err := conn.Model(&entities.Book{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	err := conn.Order("id ASC").Limit(limit).Offset(offset).Find(&books).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	return books, total, nil
}

// GetByID retrieves a book by its ID.
func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.Book, error) {
	var book entities.Book
	err := database.Conn(ctx, r.db).First(&book, id).Error
	if err != nil {
		return nil, translate(err, "get book")
	}
	return &book, nil
}

// GetForUpdate retrieves a book and locks its row until the surrounding
// transaction ends. On SQLite the lock clause is dropped and the
// immediate transaction already holds the database write lock.
func (r *Repository) GetForUpdate(ctx context.Context, id uint) (*entities.Book, error) {
	var book entities.Book
	err := database.Conn(ctx, r.db).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		First(&book, id).Error
	if err != nil {
		return nil, translate(err, "get book for update")
	}
	return &book, nil
}

// Create inserts a new book. A duplicate ISBN is a constraint violation.
func (r *Repository) Create(ctx context.Context, book *entities.Book) error {
	if err := database.Conn(ctx, r.db).Create(book).Error; err != nil {
		return translate(err, "create book")
	}
	return nil
}

// Update applies the given column values and returns the updated book.
func (r *Repository) Update(ctx context.Context, id uint, fields map[string]any) (*entities.Book, error) {
	book, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return book, nil
	}

	if err := database.Conn(ctx, r.db).Model(book).Updates(fields).Error; err != nil {
		return nil, translate(err, "update book")
	}
	return r.GetByID(ctx, id)
}

// UpdateQuantity sets the available quantity of a book.
func (r *Repository) UpdateQuantity(ctx context.Context, id uint, quantity int) (*entities.Book, error) {
	if quantity < 0 {
		return nil, apperr.Validation("available quantity cannot be negative")
	}

	result := database.Conn(ctx, r.db).Model(&entities.Book{}).
		Where("id = ?", id).
		Update("available_quantity", quantity)
	if result.Error != nil {
		return nil, translate(result.Error, "update book quantity")
	}
	if result.RowsAffected == 0 {
		return nil, apperr.NotFound("Book not found")
	}
	return r.GetByID(ctx, id)
}

// Delete removes a book and, through the foreign key, its borrowings.
func (r *Repository) Delete(ctx context.Context, id uint) (*entities.Book, error) {
	book, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := database.Conn(ctx, r.db).Delete(&entities.Book{}, id).Error; err != nil {
		return nil, translate(err, "delete book")
	}
	return book, nil
}

func translate(err error, op string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound("Book not found")
	case database.IsUniqueViolation(err):
		return apperr.ConstraintViolation("A book with this ISBN already exists", err)
	case database.IsConstraintViolation(err):
		return apperr.ConstraintViolation("Book violates a data constraint", err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
