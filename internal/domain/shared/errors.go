// Package shared contains the error taxonomy used by every domain and
// infrastructure package. This package has zero external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base error kinds, matched with errors.Is().
var (
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")

	// Validation kinds
	ErrValidation    = errors.New("validation error")
	ErrInvalidInput  = errors.New("invalid input")
	ErrEmptyValue    = errors.New("value cannot be empty")
	ErrInvalidFormat = errors.New("invalid format")

	// ErrEmptyOperation marks a request that had nothing to act on, such as
	// marking or exporting an empty roster. It is a notice, not a failure.
	ErrEmptyOperation = errors.New("nothing to do")

	// Storage kinds
	ErrCorrupted   = errors.New("stored data is corrupted")
	ErrStorage     = errors.New("storage error")
	ErrUnavailable = errors.New("service unavailable")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g. "attendance", "storage"
	Op      string // operation that failed, e.g. "AddStudent"
	Kind    error  // base kind for errors.Is()
	Message string // human-readable message
	Err     error  // underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error, or the kind when there is none.
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is matches both the kind and the wrapped error.
func (e *DomainError) Is(target error) bool {
	if t, ok := target.(*DomainError); ok {
		return e == t || (e.Domain == t.Domain && e.Op == t.Op && e.Message == t.Message)
	}
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Attendance domain errors
var (
	ErrEmptyName       = NewDomainError("attendance", "AddStudent", ErrEmptyValue, "please enter a student name")
	ErrEmptyRollNo     = NewDomainError("attendance", "AddStudent", ErrEmptyValue, "please enter a roll number")
	ErrDuplicateName   = NewDomainError("attendance", "AddStudent", ErrAlreadyExists, "this student name already exists")
	ErrDuplicateRollNo = NewDomainError("attendance", "AddStudent", ErrAlreadyExists, "this roll number already exists")
	ErrInvalidDate     = NewDomainError("attendance", "SetCurrentDate", ErrInvalidFormat, "date must be a valid YYYY-MM-DD calendar date")
	ErrInvalidStatus   = NewDomainError("attendance", "Mark", ErrInvalidInput, "status must be present or absent")
	ErrStudentNotFound = NewDomainError("attendance", "Find", ErrNotFound, "student not found")
	ErrNoStudents      = NewDomainError("attendance", "Mark", ErrEmptyOperation, "no students to mark")
	ErrNothingToExport = NewDomainError("report", "Export", ErrEmptyOperation, "no data to export")
)

// Storage errors
var (
	ErrKeyNotFound      = NewDomainError("storage", "Get", ErrNotFound, "key not found")
	ErrStorageCorrupted = NewDomainError("storage", "Load", ErrCorrupted, "saved attendance data could not be parsed")
	ErrPersistFailed    = NewDomainError("storage", "Save", ErrStorage, "failed to save attendance data")
)

// IsNotFound checks if the error is a "not found" error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if the error is an "already exists" error.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrEmptyValue) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsEmptyOperation checks if the error only reports that there was nothing
// to act on.
func IsEmptyOperation(err error) bool {
	return errors.Is(err, ErrEmptyOperation)
}
