package apperror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrBadRequest        = errors.New("bad request")
	ErrConflict          = errors.New("conflict")
	ErrInvalidInput      = errors.New("invalid input")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// AppError is a business rule violation carrying the HTTP status it maps to
// and the message shown to the client.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message, ErrNotFound)
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message, ErrForbidden)
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message, ErrUnauthorized)
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message, ErrBadRequest)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, message, ErrConflict)
}

func TooManyRequests(message string) *AppError {
	return New(http.StatusTooManyRequests, message, ErrRateLimitExceeded)
}

// ValidationError holds field level failures formatted as "<field>: <message>".
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Errors, "; ")
}

func NewValidation(messages ...string) *ValidationError {
	return &ValidationError{Errors: messages}
}

// UniqueViolation reports whether err is a duplicate key error raised by the
// database and, when possible, which column caused it.
func UniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fieldFromConstraint(pgErr.ConstraintName, pgErr.TableName), true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return "", true
	}
	return "", false
}

// fieldFromConstraint turns "idx_users_email" or "users_email_key" into "email".
func fieldFromConstraint(constraint, table string) string {
	name := strings.TrimPrefix(constraint, "idx_")
	name = strings.TrimSuffix(name, "_key")
	if table != "" {
		name = strings.TrimPrefix(name, table+"_")
	}
	return name
}

// MapErrorToStatus maps common errors to HTTP status codes
func MapErrorToStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return http.StatusUnprocessableEntity
	}
	if _, ok := UniqueViolation(err); ok {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrConflict) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrRateLimitExceeded) {
		return http.StatusTooManyRequests
	}
	// Default to internal server error
	return http.StatusInternalServerError
}
