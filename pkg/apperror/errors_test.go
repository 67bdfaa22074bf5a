package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapErrorToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error", Conflict("Complaint with same title already exists"), http.StatusConflict},
		{"wrapped app error", fmt.Errorf("create: %w", NotFound("Complaint not found")), http.StatusNotFound},
		{"validation", NewValidation("nik: must be 16 characters"), http.StatusUnprocessableEntity},
		{"gorm not found", gorm.ErrRecordNotFound, http.StatusNotFound},
		{"sentinel forbidden", fmt.Errorf("x: %w", ErrForbidden), http.StatusForbidden},
		{"rate limit", ErrRateLimitExceeded, http.StatusTooManyRequests},
		{"duplicate key", &pgconn.PgError{Code: "23505", ConstraintName: "idx_categories_name", TableName: "categories"}, http.StatusBadRequest},
		{"unknown", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapErrorToStatus(tt.err))
		})
	}
}

func TestUniqueViolationField(t *testing.T) {
	field, ok := UniqueViolation(&pgconn.PgError{Code: "23505", ConstraintName: "idx_categories_name", TableName: "categories"})
	assert.True(t, ok)
	assert.Equal(t, "name", field)

	field, ok = UniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key", TableName: "users"}))
	assert.True(t, ok)
	assert.Equal(t, "email", field)

	_, ok = UniqueViolation(&pgconn.PgError{Code: "23503"})
	assert.False(t, ok)
}

func TestAppErrorMessage(t *testing.T) {
	err := Forbidden("You are not the owner of this complaint")
	assert.Equal(t, "You are not the owner of this complaint", err.Error())
	assert.ErrorIs(t, err, ErrForbidden)
}
