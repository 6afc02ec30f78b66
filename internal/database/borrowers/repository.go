// Package borrowers provides the Borrower Store.
//
// Borrowers are soft deleted: a deleted borrower disappears from reads but
// its borrowing history keeps pointing at the row.
package borrowers

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/library/internal/apperr"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/entities"
)

// Repository handles all borrower database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new borrowers repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns a page of borrowers ordered by ID, along with the total count.
func (r *Repository) List(ctx context.Context, limit, offset int) ([]entities.Borrower, int64, error) {
	var borrowers []entities.Borrower
	var total int64

	conn := database.Conn(ctx, r.db)
	if err := conn.Model(&entities.Borrower{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count borrowers: %w", err)
	}

	err := conn.Order("id ASC").Limit(limit).Offset(offset).Find(&borrowers).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list borrowers: %w", err)
	}
	return borrowers, total, nil
}

// GetByID retrieves a borrower by ID.
func (r *Repository) GetByID(ctx context.Context, id uint) (*entities.Borrower, error) {
	var borrower entities.Borrower
	if err := database.Conn(ctx, r.db).First(&borrower, id).Error; err != nil {
		return nil, translate(err, "get borrower")
	}
	return &borrower, nil
}

// Create inserts a new borrower. A duplicate email is a constraint violation.
func (r *Repository) Create(ctx context.Context, borrower *entities.Borrower) error {
	if err := database.Conn(ctx, r.db).Create(borrower).Error; err != nil {
		return translate(err, "create borrower")
	}
	return nil
}

// Update applies the given column values and returns the updated borrower.
func (r *Repository) Update(ctx context.Context, id uint, fields map[string]any) (*entities.Borrower, error) {
	borrower, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return borrower, nil
	}

	if err := database.Conn(ctx, r.db).Model(borrower).Updates(fields).Error; err != nil {
		return nil, translate(err, "update borrower")
	}
	return r.GetByID(ctx, id)
}

// Delete soft deletes a borrower.
func (r *Repository) Delete(ctx context.Context, id uint) (*entities.Borrower, error) {
	borrower, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := database.Conn(ctx, r.db).Delete(&entities.Borrower{}, id).Error; err != nil {
		return nil, translate(err, "delete borrower")
	}
	return borrower, nil
}

func translate(err error, op string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound("Borrower not found")
	case database.IsUniqueViolation(err):
		return apperr.ConstraintViolation("A borrower with this email already exists", err)
	case database.IsConstraintViolation(err):
		return apperr.ConstraintViolation("Borrower violates a data constraint", err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
