package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrInvalidAmount indicates a transaction amount that is zero, out of range,
// or carries more fractional digits than the currency allows.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConstraint indicates a referential or uniqueness rule was broken
// (e.g. deleting a category that transactions still reference).
var ErrConstraint = errors.New("constraint violation")

// ErrForbidden indicates the caller is not allowed to read or mutate the resource.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrConflict indicates the resource is in a state that does not permit the operation.
var ErrConflict = errors.New("conflict")

// ErrStorageUnavailable indicates a transient infrastructure fault at the storage
// boundary. Mutations carry idempotency keys, so callers may retry safely.
var ErrStorageUnavailable = errors.New("storage unavailable")

// AppError wraps an underlying error with a status code and message for the HTTP layer.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
