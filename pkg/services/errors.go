// Package services provides standardized error types for service layer operations.
package services

import (
	"errors"
	"fmt"

	"github.com/dukex/workflow-dto/pkg/authoring"
	"github.com/dukex/workflow-dto/pkg/builder"
	"github.com/dukex/workflow-dto/pkg/condition"
	"github.com/dukex/workflow-dto/pkg/persistence"
)

// Business Logic Errors - These indicate client errors (4xx responses).
var (
	// Validation Errors (400 Bad Request).
	ErrInvalidRequest = errors.New("invalid request")
	ErrSpecNameEmpty  = errors.New("spec name cannot be empty")
)

// Error codes carried by ServiceError.
const (
	CodeInvalidSpec    = "INVALID_SPEC"
	CodeInvalidOptions = "INVALID_OPTIONS"
	CodeCompileFailed  = "COMPILE_FAILED"
	CodeNotFound       = "NOT_FOUND"
	CodeConflict       = "CONFLICT"
	CodeInternal       = "INTERNAL"
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error is a validation error that should return HTTP 400.
// Every compile failure of a well-formed request is the author's error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrSpecNameEmpty) ||
		authoring.IsInvalidSpec(err) ||
		errors.Is(err, authoring.ErrUnsupportedFormat) ||
		errors.Is(err, builder.ErrNilSpec) ||
		errors.Is(err, builder.ErrInvalidOptions) ||
		errors.Is(err, builder.ErrMissingTransitionTarget) ||
		errors.Is(err, builder.ErrStateNameCollision) ||
		errors.Is(err, builder.ErrInvalidAction) ||
		condition.IsUnsupportedOperator(err) ||
		condition.IsInvalidValueType(err) ||
		condition.IsMissingRangeBounds(err) ||
		condition.IsUnknownConditionType(err) ||
		errors.Is(err, condition.ErrMissingValue) ||
		errors.Is(err, persistence.ErrInvalidName)
}

// IsNotFoundError checks if an error should return HTTP 404.
func IsNotFoundError(err error) bool {
	return persistence.IsSpecNotFound(err)
}

// IsConflictError checks if an error is a conflict that should return HTTP 409.
func IsConflictError(err error) bool {
	return persistence.IsDTOAlreadyExists(err) || persistence.IsOutputIsSpec(err)
}

// classify wraps err in a ServiceError whose Code matches the error class.
func classify(op string, err error) *ServiceError {
	code := CodeInternal

	switch {
	case errors.Is(err, builder.ErrInvalidOptions):
		code = CodeInvalidOptions
	case authoring.IsInvalidSpec(err), errors.Is(err, authoring.ErrUnsupportedFormat):
		code = CodeInvalidSpec
	case IsValidationError(err):
		code = CodeCompileFailed
	case IsNotFoundError(err):
		code = CodeNotFound
	case IsConflictError(err):
		code = CodeConflict
	}

	return &ServiceError{Op: op, Code: code, Err: err}
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
