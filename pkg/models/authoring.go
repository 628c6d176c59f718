package models

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// AuthoringSpec is the simplified workflow description written by a human or an assistant.
// States and transitions keep their document order, which drives compilation order.
type AuthoringSpec struct {
	Description string                                   `json:"description,omitempty" yaml:"description,omitempty"`
	States      *orderedmap.OrderedMap[string, StateDef] `json:"states"                yaml:"states"`
}

// StateDef describes one named state of the authoring workflow.
type StateDef struct {
	Description string                                        `json:"description,omitempty" yaml:"description,omitempty"`
	Transitions *orderedmap.OrderedMap[string, TransitionDef] `json:"transitions,omitempty" yaml:"transitions,omitempty"`
	ErrorCodes  []ErrorRoute                                  `json:"error_codes,omitempty" yaml:"error_codes,omitempty"`
}

// TransitionDef describes one outgoing edge of a state.
type TransitionDef struct {
	Next        string         `json:"next"                  yaml:"next"`
	Manual      bool           `json:"manual,omitempty"      yaml:"manual,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Condition   *ConditionNode `json:"condition,omitempty"   yaml:"condition,omitempty"`
	Action      *ActionDef     `json:"action,omitempty"      yaml:"action,omitempty"`
}

// ErrorRoute sends an entity parked in "locked_chat_{state}" to NextState when ErrorCode is raised.
type ErrorRoute struct {
	ErrorCode string `json:"error_code" yaml:"error_code"`
	NextState string `json:"next_state" yaml:"next_state"`
}

// ActionDef is a processor invocation attached to a transition. Config is free-form and is
// decoded into ActionConfig by the builder.
type ActionDef struct {
	Name   string         `json:"name"             yaml:"name"`
	Config map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
}

// ActionConfig holds the action settings the compiler understands.
type ActionConfig struct {
	Type              string         `mapstructure:"type"`
	Function          ActionFunction `mapstructure:"function"`
	Publish           bool           `mapstructure:"publish"`
	SyncProcess       bool           `mapstructure:"sync_process"`
	AttachEntity      *bool          `mapstructure:"attach_entity"`
	ResponseTimeoutMs *int           `mapstructure:"calculation_response_timeout_ms"`
	RetryPolicy       string         `mapstructure:"retry_policy"`
}

// ActionFunction names the remote function a processor runs.
type ActionFunction struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
}

// NewAuthoringSpec returns an empty spec ready to receive states.
func NewAuthoringSpec() *AuthoringSpec {
	return &AuthoringSpec{States: orderedmap.New[string, StateDef]()}
}

// NewTransitions returns an empty, ordered transition map.
func NewTransitions() *orderedmap.OrderedMap[string, TransitionDef] {
	return orderedmap.New[string, TransitionDef]()
}

// StateNames returns state names in document order.
func (s *AuthoringSpec) StateNames() []string {
	if s == nil || s.States == nil {
		return nil
	}

	names := make([]string, 0, s.States.Len())
	for pair := s.States.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}

	return names
}

// State returns the named state definition.
func (s *AuthoringSpec) State(name string) (StateDef, bool) {
	if s == nil || s.States == nil {
		return StateDef{}, false
	}

	return s.States.Get(name)
}

// HasState reports whether name is declared.
func (s *AuthoringSpec) HasState(name string) bool {
	_, ok := s.State(name)

	return ok
}

// TransitionNames returns transition names in document order.
func (d StateDef) TransitionNames() []string {
	if d.Transitions == nil {
		return nil
	}

	names := make([]string, 0, d.Transitions.Len())
	for pair := d.Transitions.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}

	return names
}

// Transition returns the named transition definition.
func (d StateDef) Transition(name string) (TransitionDef, bool) {
	if d.Transitions == nil {
		return TransitionDef{}, false
	}

	return d.Transitions.Get(name)
}

// CloneTransitions returns a shallow copy of the transition map so callers may add entries
// without touching the caller-owned definition.
func (d StateDef) CloneTransitions() *orderedmap.OrderedMap[string, TransitionDef] {
	out := NewTransitions()
	if d.Transitions == nil {
		return out
	}

	for pair := d.Transitions.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, pair.Value)
	}

	return out
}
