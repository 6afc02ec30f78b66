package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"not found", NotFound("Book not found"), ErrNotFound},
		{"conflict", Conflict("Book currently not available for borrowing"), ErrConflict},
		{"validation", Validation("bad dates"), ErrValidation},
		{"constraint", ConstraintViolation("isbn must be unique", errors.New("UNIQUE constraint failed")), ErrConstraintViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, tt.kind)

			wrapped := fmt.Errorf("checkout: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.kind)

			for _, other := range []error{ErrNotFound, ErrConflict, ErrValidation, ErrConstraintViolation} {
				if other != tt.kind {
					assert.NotErrorIs(t, tt.err, other)
				}
			}
		})
	}
}

func TestConstraintViolation_UnwrapsDriverError(t *testing.T) {
	driverErr := errors.New("UNIQUE constraint failed: books.isbn")
	err := ConstraintViolation("isbn must be unique", driverErr)

	assert.ErrorIs(t, err, driverErr)
	assert.Contains(t, err.Error(), "isbn must be unique")
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Book not found", Message(fmt.Errorf("wrap: %w", NotFound("Book not found")), "fallback"))
	assert.Equal(t, "fallback", Message(errors.New("boom"), "fallback"))
}
