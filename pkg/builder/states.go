package builder

import (
	"fmt"

	"github.com/dukex/workflow-dto/pkg/models"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Names of the transitions injected in AI mode.
const (
	TransitionManualRetry = "manual_retry"
	TransitionFail        = "fail"
	TransitionRollback    = "rollback"

	FailWorkflowFunction = "fail_workflow"
	ProcessEventAction   = "process_event"
)

// LockedChatState names the state an entity is parked in after state fails.
func LockedChatState(state string) string {
	return "locked_chat_" + state
}

// checkSyntheticNames records every locked_chat state the build will create and rejects
// declared states that would shadow one.
func (c *compilation) checkSyntheticNames() error {
	for _, name := range c.spec.StateNames() {
		def, _ := c.spec.State(name)
		if !c.b.opts.AI && len(def.ErrorCodes) == 0 {
			continue
		}

		locked := LockedChatState(name)
		if c.spec.HasState(locked) {
			return &BuildError{State: locked, Err: fmt.Errorf("%w: %q is synthesized for state %q", ErrStateNameCollision, locked, name)}
		}

		c.synthetic[locked] = true
	}

	return nil
}

// addStates is phase 4.
func (c *compilation) addStates() error {
	for _, name := range c.spec.StateNames() {
		def, _ := c.spec.State(name)

		from := c.state(name, def.Description)
		transitions := c.transitionsFor(name, def)

		for pair := transitions.Oldest(); pair != nil; pair = pair.Next() {
			if err := c.addTransition(name, from, pair.Key, pair.Value); err != nil {
				return &BuildError{State: name, Transition: pair.Key, Err: err}
			}
		}

		for _, route := range def.ErrorCodes {
			if err := c.addErrorRoute(name, route); err != nil {
				return &BuildError{State: name, Transition: TransitionRollback, Err: err}
			}
		}
	}

	return nil
}

// transitionsFor returns the transitions to compile for a state. In AI mode this is an
// augmented copy carrying manual_retry and fail unless the author declared them.
func (c *compilation) transitionsFor(name string, def models.StateDef) *orderedmap.OrderedMap[string, models.TransitionDef] {
	if !c.b.opts.AI {
		if def.Transitions == nil {
			return models.NewTransitions()
		}

		return def.Transitions
	}

	transitions := def.CloneTransitions()

	if _, ok := transitions.Get(TransitionManualRetry); !ok {
		transitions.Set(TransitionManualRetry, models.TransitionDef{
			Next:        name,
			Manual:      true,
			Description: "Retry the current step",
		})
	}

	if _, ok := transitions.Get(TransitionFail); !ok {
		transitions.Set(TransitionFail, models.TransitionDef{
			Next:        LockedChatState(name),
			Description: "Lock the chat after a failed step",
			Action: &models.ActionDef{
				Name: ProcessEventAction,
				Config: map[string]any{
					"type": "function",
					"function": map[string]any{
						"name":        FailWorkflowFunction,
						"description": "Marks the workflow as failed",
					},
					"publish": true,
				},
			},
		})
	}

	return transitions
}

func (c *compilation) addTransition(stateName string, from *models.StateRecord, name string, def models.TransitionDef) error {
	if err := c.checkTarget(def.Next); err != nil {
		return err
	}

	criteriaIDs, err := c.transitionCriteria(stateName, name, def)
	if err != nil {
		return err
	}

	processIDs, err := c.transitionProcesses(def)
	if err != nil {
		return err
	}

	to := c.state(def.Next, "")

	c.appendTransition(name, def.Description, from, to, criteriaIDs, processIDs, !def.Manual)

	return nil
}

// transitionCriteria compiles an inline condition or applies default routing: "fail" waits for
// has_failed, other automated transitions wait for has_succeeded, manual ones are ungated.
func (c *compilation) transitionCriteria(stateName, name string, def models.TransitionDef) ([]string, error) {
	switch {
	case def.Condition != nil:
		criteria, err := c.addCriteria(
			fmt.Sprintf("%s_%s_criteria", stateName, name),
			def.Description,
			*def.Condition,
		)
		if err != nil {
			return nil, err
		}

		return []string{criteria.ID}, nil
	case name == TransitionFail:
		return []string{c.criteriaIDs[CriteriaHasFailed]}, nil
	case !def.Manual:
		return []string{c.criteriaIDs[CriteriaHasSucceeded]}, nil
	default:
		return []string{}, nil
	}
}

// addErrorRoute wires locked_chat_{state} back to route.NextState with a manual rollback.
func (c *compilation) addErrorRoute(stateName string, route models.ErrorRoute) error {
	if err := c.checkTarget(route.NextState); err != nil {
		return err
	}

	from := c.state(LockedChatState(stateName), "")
	to := c.state(route.NextState, "")

	criteriaIDs := []string{}
	if id, ok := c.criteriaIDs[route.ErrorCode]; ok {
		criteriaIDs = append(criteriaIDs, id)
	} else {
		c.b.logger.Debug("No base criteria for error code, rollback is ungated",
			"state", stateName,
			"error_code", route.ErrorCode,
		)
	}

	c.appendTransition(TransitionRollback, "Roll back after "+route.ErrorCode, from, to, criteriaIDs, nil, false)

	return nil
}

func (c *compilation) appendTransition(
	name, description string,
	from, to *models.StateRecord,
	criteriaIDs []string,
	processIDs []*models.ProcessIDDto,
	automated bool,
) {
	if processIDs == nil {
		processIDs = []*models.ProcessIDDto{}
	}

	transition := &models.TransitionRecord{
		Persisted:       true,
		Owner:           c.b.opts.DefaultOwner,
		ID:              c.b.newID(),
		Name:            name,
		EntityClassName: models.EntityClassName,
		CreationDate:    c.b.timestamp(),
		Description:     description,
		StartStateID:    from.ID,
		EndStateID:      to.ID,
		WorkflowID:      c.workflow.ID,
		CriteriaIDs:     criteriaIDs,
		EndProcessesIDs: processIDs,
		Active:          true,
		Automated:       automated,
		LogActivity:     false,
	}

	c.dto.Transitions = append(c.dto.Transitions, transition)
	c.workflow.TransitionIDs = append(c.workflow.TransitionIDs, transition.ID)
}

// checkTarget accepts declared states, "none" and the locked_chat states this build creates.
func (c *compilation) checkTarget(next string) error {
	switch {
	case next == "":
		return fmt.Errorf("%w: next state is empty", ErrMissingTransitionTarget)
	case isNoneState(next), c.spec.HasState(next), c.synthetic[next]:
		return nil
	default:
		return fmt.Errorf("%w: state %q is not declared", ErrMissingTransitionTarget, next)
	}
}
