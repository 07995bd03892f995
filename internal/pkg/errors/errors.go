package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrDatabaseError      = errors.New("database error")
	ErrCacheError         = errors.New("cache error")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Error struct {
	Err     error
	Message string
	Code    string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(text string) error {
	return errors.New(text)
}

func Wrap(err error, message string) *Error {
	return &Error{
		Err:     err,
		Message: message,
		Code:    "INTERNAL_ERROR",
	}
}

// WrapDB marks an unexpected database failure. errors.Is reports
// ErrDatabaseError for the result while keeping the driver error in the chain.
func WrapDB(err error, message string) *Error {
	return &Error{
		Err:     fmt.Errorf("%w: %w", ErrDatabaseError, err),
		Message: message,
		Code:    "DATABASE_ERROR",
	}
}
