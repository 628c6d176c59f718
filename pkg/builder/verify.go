package builder

import (
	"fmt"

	"github.com/dukex/workflow-dto/pkg/models"
)

// Verify checks the cross-references of a compiled DTO. Build runs it before returning, and it
// may be used on DTOs read back from disk.
func Verify(dto *models.FullWorkflowContainerDto) error {
	if dto == nil {
		return fmt.Errorf("%w: dto is nil", ErrInvariantViolation)
	}

	if len(dto.Workflow) != 1 {
		return fmt.Errorf("%w: expected 1 workflow record, got %d", ErrInvariantViolation, len(dto.Workflow))
	}

	workflow := dto.Workflow[0]
	ids := make(map[string]string)

	claim := func(kind, id string) error {
		if id == "" {
			return fmt.Errorf("%w: %s with empty id", ErrInvariantViolation, kind)
		}

		if other, ok := ids[id]; ok {
			return fmt.Errorf("%w: id %q used by both %s and %s", ErrInvariantViolation, id, other, kind)
		}

		ids[id] = kind

		return nil
	}

	if err := claim("workflow", workflow.ID); err != nil {
		return err
	}

	states := make(map[string]bool, len(dto.States))
	names := make(map[string]bool, len(dto.States))

	for _, s := range dto.States {
		if err := claim("state "+s.Name, s.ID); err != nil {
			return err
		}

		if names[s.Name] {
			return fmt.Errorf("%w: duplicate state name %q", ErrInvariantViolation, s.Name)
		}

		names[s.Name] = true
		states[s.ID] = true
	}

	if !states[models.NoneStateID] {
		return fmt.Errorf("%w: missing %q state", ErrInvariantViolation, models.NoneStateID)
	}

	if len(workflow.StateIDs) != len(dto.States) {
		return fmt.Errorf("%w: workflow lists %d states, dto has %d", ErrInvariantViolation, len(workflow.StateIDs), len(dto.States))
	}

	for _, id := range workflow.StateIDs {
		if !states[id] {
			return fmt.Errorf("%w: workflow lists unknown state %q", ErrInvariantViolation, id)
		}
	}

	criteria := make(map[string]bool, len(dto.Criterias))
	for _, c := range dto.Criterias {
		if err := claim("criteria "+c.Name, c.ID); err != nil {
			return err
		}

		criteria[c.ID] = true
	}

	for _, id := range workflow.CriteriaIDs {
		if !criteria[id] {
			return fmt.Errorf("%w: workflow references unknown criteria %q", ErrInvariantViolation, id)
		}
	}

	processes := make(map[string]bool, len(dto.Processes))
	for _, p := range dto.Processes {
		if p.ID == nil {
			return fmt.Errorf("%w: process %q has no id", ErrInvariantViolation, p.Name)
		}

		if err := claim("process "+p.Name, p.ID.PersistedID); err != nil {
			return err
		}

		processes[p.ID.PersistedID] = true
	}

	for _, p := range dto.ProcessParams {
		if err := claim("process param "+p.Name, p.ID); err != nil {
			return err
		}
	}

	transitions := make(map[string]bool, len(dto.Transitions))
	for _, t := range dto.Transitions {
		if err := claim("transition "+t.Name, t.ID); err != nil {
			return err
		}

		transitions[t.ID] = true

		if !states[t.StartStateID] || !states[t.EndStateID] {
			return fmt.Errorf("%w: transition %q connects unknown states %q -> %q",
				ErrInvariantViolation, t.Name, t.StartStateID, t.EndStateID)
		}

		for _, id := range t.CriteriaIDs {
			if !criteria[id] {
				return fmt.Errorf("%w: transition %q references unknown criteria %q", ErrInvariantViolation, t.Name, id)
			}
		}

		for _, p := range t.EndProcessesIDs {
			if p == nil || !processes[p.PersistedID] {
				return fmt.Errorf("%w: transition %q references an unknown process", ErrInvariantViolation, t.Name)
			}
		}
	}

	for _, id := range workflow.TransitionIDs {
		if !transitions[id] {
			return fmt.Errorf("%w: workflow lists unknown transition %q", ErrInvariantViolation, id)
		}
	}

	return nil
}
