package builder

import (
	"errors"
	"fmt"
)

var (
	// ErrNilSpec indicates Build was called without an authoring spec.
	ErrNilSpec = errors.New("authoring spec is nil")

	// ErrInvalidOptions indicates the builder options failed validation.
	ErrInvalidOptions = errors.New("invalid builder options")

	// ErrMissingTransitionTarget indicates a transition whose target state cannot be resolved.
	ErrMissingTransitionTarget = errors.New("missing transition target")

	// ErrStateNameCollision indicates a declared state that clashes with a synthesized one.
	ErrStateNameCollision = errors.New("state name collides with synthesized state")

	// ErrInvalidAction indicates an action block whose config cannot be decoded.
	ErrInvalidAction = errors.New("invalid transition action")

	// ErrInvariantViolation indicates the compiled DTO failed its final consistency check.
	ErrInvariantViolation = errors.New("compiled workflow violates an invariant")
)

// BuildError locates a failure in the authoring spec. Transition is empty for state-level
// failures.
type BuildError struct {
	State      string
	Transition string
	Err        error
}

func (e *BuildError) Error() string {
	if e.Transition == "" {
		return fmt.Sprintf("state %q: %v", e.State, e.Err)
	}

	return fmt.Sprintf("state %q transition %q: %v", e.State, e.Transition, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

func (e *BuildError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsMissingTransitionTarget checks if an error was caused by an unresolvable target state.
func IsMissingTransitionTarget(err error) bool {
	return errors.Is(err, ErrMissingTransitionTarget)
}

// IsStateNameCollision checks if an error was caused by a synthesized state name clash.
func IsStateNameCollision(err error) bool {
	return errors.Is(err, ErrStateNameCollision)
}
