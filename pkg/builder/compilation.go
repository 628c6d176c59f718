package builder

import (
	"fmt"
	"strings"

	"github.com/dukex/workflow-dto/pkg/condition"
	"github.com/dukex/workflow-dto/pkg/models"
)

// Base criteria names. Error routes look their error code up among these.
const (
	CriteriaHasFailed             = "has_failed"
	CriteriaHasSucceeded          = "has_succeeded"
	CriteriaWrongGeneratedContent = "wrong_generated_content"
)

// compilation is the mutable state of a single Build call.
type compilation struct {
	b    *DTOBuilder
	spec *models.AuthoringSpec

	dto      *models.FullWorkflowContainerDto
	workflow *models.WorkflowRecord

	states      map[string]*models.StateRecord
	criteriaIDs map[string]string
	processes   map[string]*models.ProcessRecord
	synthetic   map[string]bool
}

func newCompilation(b *DTOBuilder, spec *models.AuthoringSpec) *compilation {
	return &compilation{
		b:    b,
		spec: spec,
		dto: &models.FullWorkflowContainerDto{
			Workflow:      []*models.WorkflowRecord{},
			Transitions:   []*models.TransitionRecord{},
			Criterias:     []*models.CriteriaRecord{},
			Processes:     []*models.ProcessRecord{},
			States:        []*models.StateRecord{},
			ProcessParams: []*models.ProcessParamRecord{},
		},
		states:      make(map[string]*models.StateRecord),
		criteriaIDs: make(map[string]string),
		processes:   make(map[string]*models.ProcessRecord),
		synthetic:   make(map[string]bool),
	}
}

// addWorkflow is phase 1.
func (c *compilation) addWorkflow() {
	c.workflow = &models.WorkflowRecord{
		Persisted:            true,
		Owner:                c.b.opts.DefaultOwner,
		ID:                   c.b.newID(),
		Name:                 c.b.WorkflowQualifiedName(),
		EntityClassName:      models.EntityClassName,
		CreationDate:         c.b.timestamp(),
		Description:          c.spec.Description,
		EntityShortClassName: models.EntityShortClassName,
		TransitionIDs:        []string{},
		CriteriaIDs:          []string{},
		StateIDs:             []string{models.NoneStateID},
		Active:               true,
		UseDecisionTree:      false,
		DecisionTrees:        []any{},
		MetaData:             map[string]string{"documentLink": ""},
	}

	c.dto.Workflow = append(c.dto.Workflow, c.workflow)
}

// addWorkflowGuard is phase 2: only entities bound to this workflow enter it.
func (c *compilation) addWorkflowGuard() error {
	name := c.b.opts.WorkflowName

	criteria, err := c.addCriteria(
		name+"_workflow_criteria",
		"Matches entities whose workflow_name is "+name,
		models.Simple("equals (disregard case)", "$.workflow_name", "strings", name),
	)
	if err != nil {
		return fmt.Errorf("workflow criteria: %w", err)
	}

	c.workflow.CriteriaIDs = append(c.workflow.CriteriaIDs, criteria.ID)

	return nil
}

// addBaseCriteria is phase 3.
func (c *compilation) addBaseCriteria() error {
	base := []struct {
		name        string
		description string
		node        models.ConditionNode
	}{
		{
			name:        CriteriaHasFailed,
			description: "The last processing step failed",
			node:        models.Simple("equals", "$.failed", "booleans", true),
		},
		{
			name:        CriteriaHasSucceeded,
			description: "The last processing step succeeded",
			node:        models.Simple("equals", "$.failed", "booleans", false),
		},
		{
			name:        CriteriaWrongGeneratedContent,
			description: "The generated content was rejected",
			node:        models.Simple("equals (disregard case)", "$.error_code", "strings", CriteriaWrongGeneratedContent),
		},
	}

	for _, bc := range base {
		criteria, err := c.addCriteria(bc.name, bc.description, bc.node)
		if err != nil {
			return fmt.Errorf("base criteria %s: %w", bc.name, err)
		}

		c.criteriaIDs[bc.name] = criteria.ID
	}

	return nil
}

// addCriteria compiles node and appends a criteria record. Top-level leaves are wrapped in an
// AND group since the engine evaluates criteria from a group root.
func (c *compilation) addCriteria(name, description string, node models.ConditionNode) (*models.CriteriaRecord, error) {
	if node.Simple != nil {
		node = models.Group(models.GroupOperatorAnd, node)
	}

	compiled, err := condition.Convert(node)
	if err != nil {
		return nil, err
	}

	now := c.b.timestamp()
	criteria := &models.CriteriaRecord{
		Persisted:       true,
		Owner:           c.b.opts.DefaultOwner,
		ID:              c.b.newID(),
		Name:            name,
		EntityClassName: models.EntityClassName,
		CreationDate:    now,
		Description:     description,
		LastUpdateTime:  now,
		LastUpdateUser:  c.b.opts.DefaultUser,
		Condition:       compiled,
		AliasDefs:       []any{},
		Parameters:      []any{},
		CriteriaChecker: models.CriteriaChecker,
		User:            c.b.opts.DefaultUser,
	}

	c.dto.Criterias = append(c.dto.Criterias, criteria)

	return criteria, nil
}

// state returns the record for name, creating it on first reference. Names equal to "none"
// in any case share the fixed id NoneStateID and a single record.
func (c *compilation) state(name, description string) *models.StateRecord {
	key := name
	if isNoneState(name) {
		key = models.NoneStateName
	}

	if existing, ok := c.states[key]; ok {
		if existing.Description == "" {
			existing.Description = description
		}

		return existing
	}

	id := models.NoneStateID
	if key != models.NoneStateName {
		id = c.b.newID()
	}

	record := &models.StateRecord{
		Persisted:       true,
		Owner:           c.b.opts.DefaultOwner,
		ID:              id,
		Name:            name,
		EntityClassName: models.EntityClassName,
		CreationDate:    c.b.timestamp(),
		Description:     description,
	}

	c.states[key] = record
	c.dto.States = append(c.dto.States, record)

	return record
}

// finalizeStates is phase 5: the "none" state always exists and every state id is listed on
// the workflow record exactly once.
func (c *compilation) finalizeStates() {
	c.state(models.NoneStateName, "")

	listed := make(map[string]bool, len(c.workflow.StateIDs))
	for _, id := range c.workflow.StateIDs {
		listed[id] = true
	}

	for _, s := range c.dto.States {
		if !listed[s.ID] {
			c.workflow.StateIDs = append(c.workflow.StateIDs, s.ID)
			listed[s.ID] = true
		}
	}
}

func isNoneState(name string) bool {
	return strings.EqualFold(name, models.NoneStateName)
}
