// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"fmt"
	"time"

	"github.com/dukex/workflow-dto/pkg/idgen"
	"github.com/dukex/workflow-dto/pkg/models"
)

// CreateTestSpec creates an AuthoringSpec with a single "start" state moving to "end".
// Overrides are applied in order on top of the default.
func CreateTestSpec(overrides ...func(*models.AuthoringSpec)) *models.AuthoringSpec {
	spec := models.NewAuthoringSpec()
	spec.Description = "Test workflow"

	spec.States.Set("start", CreateTestState(
		WithTransition("advance", models.TransitionDef{Next: "end", Description: "Move on"}),
	))
	spec.States.Set("end", models.StateDef{Description: "Terminal state"})

	for _, override := range overrides {
		override(spec)
	}

	return spec
}

// EmptySpec removes every state from the spec.
func EmptySpec() func(*models.AuthoringSpec) {
	return func(s *models.AuthoringSpec) {
		s.States = models.NewAuthoringSpec().States
	}
}

// WithState adds or replaces a state, keeping the position of an existing one.
func WithState(name string, state models.StateDef) func(*models.AuthoringSpec) {
	return func(s *models.AuthoringSpec) {
		s.States.Set(name, state)
	}
}

// WithDescription sets the workflow description.
func WithDescription(description string) func(*models.AuthoringSpec) {
	return func(s *models.AuthoringSpec) {
		s.Description = description
	}
}

// CreateTestState creates a StateDef with the given state overrides applied.
func CreateTestState(overrides ...func(*models.StateDef)) models.StateDef {
	state := models.StateDef{Transitions: models.NewTransitions()}

	for _, override := range overrides {
		override(&state)
	}

	return state
}

// WithTransition appends a transition to the state.
func WithTransition(name string, transition models.TransitionDef) func(*models.StateDef) {
	return func(s *models.StateDef) {
		if s.Transitions == nil {
			s.Transitions = models.NewTransitions()
		}

		s.Transitions.Set(name, transition)
	}
}

// WithErrorRoute appends an error_codes entry to the state.
func WithErrorRoute(errorCode, nextState string) func(*models.StateDef) {
	return func(s *models.StateDef) {
		s.ErrorCodes = append(s.ErrorCodes, models.ErrorRoute{ErrorCode: errorCode, NextState: nextState})
	}
}

// WithStateDescription sets the state description.
func WithStateDescription(description string) func(*models.StateDef) {
	return func(s *models.StateDef) {
		s.Description = description
	}
}

// PublishedAction returns an action whose config publishes function as a platform process.
func PublishedAction(name, function string) *models.ActionDef {
	return &models.ActionDef{
		Name: name,
		Config: map[string]any{
			"type":     "function",
			"function": map[string]any{"name": function, "description": "Runs " + function},
			"publish":  true,
		},
	}
}

// SequentialIDs returns a generator yielding "id-1", "id-2", ...
func SequentialIDs() idgen.Generator {
	n := 0

	return func() string {
		n++

		return fmt.Sprintf("id-%d", n)
	}
}

// FixedClock returns a clock frozen at t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time {
		return t
	}
}
