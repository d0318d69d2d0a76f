package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the caller is known but lacks the capability for the action.
var ErrForbidden = errors.New("forbidden")

// ErrConflict indicates that the resource is not in a state that allows the action.
var ErrConflict = errors.New("conflict")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// Journal engine errors. Each one wraps a general kind above so callers can match
// either the precise failure or its category.
var (
	ErrUnbalancedEntry         = fmt.Errorf("%w: journal entry debits and credits do not balance", ErrValidation)
	ErrInsufficientDetailLines = fmt.Errorf("%w: journal entry requires at least two detail lines", ErrValidation)
	ErrNonPostableAccount      = fmt.Errorf("%w: account does not accept entries", ErrValidation)
	ErrInvalidStateTransition  = fmt.Errorf("%w: invalid journal entry state transition", ErrConflict)
	ErrEntryNotFound           = fmt.Errorf("%w: journal entry not found", ErrNotFound)
	ErrPeriodClosed            = fmt.Errorf("%w: accounting period is closed", ErrConflict)
)

// AppError carries an HTTP-ish status code alongside the underlying cause.
// Repositories use it for infrastructure failures.
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

// NewAppError builds an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns an error wrapping ErrNotFound with context.
func NewNotFoundError(msg string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, msg)
}
