package apperrors

import (
	"errors"
	"fmt"
)

// ErrDuplicateSubmission is the business-rule rejection for a second
// submission attempt by the same student for the same quiz.
var ErrDuplicateSubmission = errors.New("Quiz already submitted by this student")

type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string { return e.Detail }

func NewValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Detail: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string { return e.Resource + " not found" }

func NewNotFound(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

// StorageError wraps a persistence failure. Handlers report it as a 500
// with a generic message; the wrapped detail is only exposed outside
// production environments.
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string { return "storage failure: " + e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }

func NewStorage(err error) *StorageError { return &StorageError{Err: err} }
