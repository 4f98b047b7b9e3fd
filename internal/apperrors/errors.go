package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrConflict indicates the request collides with existing state (duplicate voucher, inactive owner, ...).
var ErrConflict = errors.New("conflict")

// ErrStorage indicates an attachment/blob storage failure.
var ErrStorage = errors.New("storage error")

// ErrIntegrity indicates an unexpected data integrity failure. Always fatal to the request.
var ErrIntegrity = errors.New("integrity failure")

// FieldError is a single field-level validation message.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries field-level messages for the caller.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// Add appends a field error and returns the receiver.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ConflictError reports a request that cannot be applied against current state.
type ConflictError struct {
	Field  string
	Reason string
}

// NewConflictError creates a ConflictError.
func NewConflictError(field, reason string) *ConflictError {
	return &ConflictError{Field: field, Reason: reason}
}

func (e *ConflictError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrConflict.Error(), e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrConflict.Error(), e.Field, e.Reason)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// StorageError wraps a blob storage failure.
type StorageError struct {
	Op  string
	Err error
}

// NewStorageError creates a StorageError for the given operation.
func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorage.Error(), e.Op, e.Err)
}

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

func (e *StorageError) Unwrap() error { return e.Err }

// IntegrityFailure reports a state the posting engine should never observe.
type IntegrityFailure struct {
	Detail string
	Err    error
}

// NewIntegrityFailure creates an IntegrityFailure.
func NewIntegrityFailure(detail string, err error) *IntegrityFailure {
	return &IntegrityFailure{Detail: detail, Err: err}
}

func (e *IntegrityFailure) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", ErrIntegrity.Error(), e.Detail)
	}
	return fmt.Sprintf("%s: %s: %v", ErrIntegrity.Error(), e.Detail, e.Err)
}

func (e *IntegrityFailure) Is(target error) bool { return target == ErrIntegrity }

func (e *IntegrityFailure) Unwrap() error { return e.Err }

// FieldErrors returns the field messages of a ValidationError anywhere in err's chain.
func FieldErrors(err error) []FieldError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}
