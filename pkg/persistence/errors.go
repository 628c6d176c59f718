// Package persistence provides standardized error types for persistence operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrSpecNotFound indicates an authoring spec was not found by the given name.
	ErrSpecNotFound = errors.New("authoring spec not found")

	// ErrDTONotFound indicates no compiled DTO is stored under the given name.
	ErrDTONotFound = errors.New("workflow dto not found")

	// ErrDTOAlreadyExists indicates a compiled DTO already exists and overwriting was not allowed.
	ErrDTOAlreadyExists = errors.New("workflow dto already exists")

	// ErrOutputIsSpec indicates a DTO would be written over an authoring spec file.
	ErrOutputIsSpec = errors.New("dto output would replace an authoring spec")

	// ErrInvalidName indicates a name that would escape the repository root.
	ErrInvalidName = errors.New("invalid document name")
)

// DocumentError wraps repository errors with the operation and document involved.
type DocumentError struct {
	Op      string // Operation being performed (e.g., "LoadSpec", "SaveDTO")
	Name    string // Document name
	Err     error  // Underlying error
	Message string // Additional context message
}

func (e *DocumentError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s operation failed for %s: %s (%v)", e.Op, e.Name, e.Message, e.Err)
	}

	return fmt.Sprintf("%s operation failed for %s: %v", e.Op, e.Name, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for document errors.
func (e *DocumentError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewDocumentError creates a new document error with context.
func NewDocumentError(op, name string, err error) *DocumentError {
	return &DocumentError{
		Op:   op,
		Name: name,
		Err:  err,
	}
}

// IsSpecNotFound checks if an error indicates an authoring spec was not found.
func IsSpecNotFound(err error) bool {
	return errors.Is(err, ErrSpecNotFound)
}

// IsOutputIsSpec checks if an error indicates a DTO target that is an authoring spec file.
func IsOutputIsSpec(err error) bool {
	return errors.Is(err, ErrOutputIsSpec)
}

// IsDTOAlreadyExists checks if an error indicates the output DTO already exists.
func IsDTOAlreadyExists(err error) bool {
	return errors.Is(err, ErrDTOAlreadyExists)
}
