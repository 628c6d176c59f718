package condition

import (
	"errors"
	"fmt"

	"github.com/dukex/workflow-dto/pkg/mapping"
	"github.com/dukex/workflow-dto/pkg/models"
)

var (
	// ErrUnsupportedOperator indicates an operatorType with no entry in the operation table.
	ErrUnsupportedOperator = mapping.ErrUnsupportedOperator

	// ErrInvalidValueType indicates a logical field reference with an unrecognized value_type.
	ErrInvalidValueType = mapping.ErrInvalidValueType

	// ErrUnknownConditionType indicates a node that is neither a group nor a simple condition.
	ErrUnknownConditionType = models.ErrUnknownConditionType

	// ErrMissingRangeBounds indicates a BETWEEN-class operation without value_from or value_to.
	ErrMissingRangeBounds = errors.New("missing range bounds")

	// ErrMissingValue indicates a single-value operation without a value.
	ErrMissingValue = errors.New("missing condition value")
)

// ConditionError locates a compilation failure inside a condition tree. Path lists child
// indexes from the root, e.g. "$.conditions[1].conditions[0]"; the root itself is "$".
type ConditionError struct {
	Path string
	Err  error
}

func (e *ConditionError) Error() string {
	return fmt.Sprintf("condition %s: %v", e.Path, e.Err)
}

func (e *ConditionError) Unwrap() error {
	return e.Err
}

func (e *ConditionError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsUnsupportedOperator checks if an error was caused by an unknown operator phrase.
func IsUnsupportedOperator(err error) bool {
	return errors.Is(err, ErrUnsupportedOperator)
}

// IsInvalidValueType checks if an error was caused by an unrecognized value_type.
func IsInvalidValueType(err error) bool {
	return errors.Is(err, ErrInvalidValueType)
}

// IsMissingRangeBounds checks if an error was caused by an incomplete range.
func IsMissingRangeBounds(err error) bool {
	return errors.Is(err, ErrMissingRangeBounds)
}

// IsUnknownConditionType checks if an error was caused by an unknown node type.
func IsUnknownConditionType(err error) bool {
	return errors.Is(err, ErrUnknownConditionType)
}
