package models

import (
	"encoding/json"

	"github.com/dukex/workflow-dto/pkg/mapping"
)

// Platform constants stamped on every compiled record.
const (
	EntityClassName      = "com.cyoda.tdb.model.treenode.TreeNodeEntity"
	EntityShortClassName = "TreeNodeEntity"
	CriteriaChecker      = "ConditionCriteriaChecker"
	ProcessorClassName   = "net.cyoda.saas.externalize.processor.ExternalizedProcessor"
	ProcessIDBean        = "com.cyoda.core.model.stateMachine.dto.ProcessIdDto"

	// NoneStateID is the fixed identifier of the implicit initial state "none".
	NoneStateID   = "noneState"
	NoneStateName = "none"
)

// FullWorkflowContainerDto is the compiled, fully cross-referenced workflow consumed by the
// platform's workflow engine.
type FullWorkflowContainerDto struct {
	Workflow      []*WorkflowRecord     `json:"workflow"`
	Transitions   []*TransitionRecord   `json:"transitions"`
	Criterias     []*CriteriaRecord     `json:"criterias"`
	Processes     []*ProcessRecord      `json:"processes"`
	States        []*StateRecord        `json:"states"`
	ProcessParams []*ProcessParamRecord `json:"processParams"`
}

// WorkflowRecord is the single workflow metadata record of a build.
type WorkflowRecord struct {
	Persisted            bool              `json:"persisted"`
	Owner                string            `json:"owner"`
	ID                   string            `json:"id"`
	Name                 string            `json:"name"`
	EntityClassName      string            `json:"entityClassName"`
	CreationDate         string            `json:"creationDate"`
	Description          string            `json:"description"`
	EntityShortClassName string            `json:"entityShortClassName"`
	TransitionIDs        []string          `json:"transitionIds"`
	CriteriaIDs          []string          `json:"criteriaIds"`
	StateIDs             []string          `json:"stateIds"`
	Active               bool              `json:"active"`
	UseDecisionTree      bool              `json:"useDecisionTree"`
	DecisionTrees        []any             `json:"decisionTrees"`
	MetaData             map[string]string `json:"metaData"`
}

// StateRecord is a named workflow state.
type StateRecord struct {
	Persisted       bool   `json:"persisted"`
	Owner           string `json:"owner"`
	ID              string `json:"id"`
	Name            string `json:"name"`
	EntityClassName string `json:"entityClassName"`
	CreationDate    string `json:"creationDate"`
	Description     string `json:"description"`
}

// TransitionRecord is a directed edge between two states, gated by zero or more criteria.
type TransitionRecord struct {
	Persisted       bool            `json:"persisted"`
	Owner           string          `json:"owner"`
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	EntityClassName string          `json:"entityClassName"`
	CreationDate    string          `json:"creationDate"`
	Description     string          `json:"description"`
	StartStateID    string          `json:"startStateId"`
	EndStateID      string          `json:"endStateId"`
	WorkflowID      string          `json:"workflowId"`
	CriteriaIDs     []string        `json:"criteriaIds"`
	EndProcessesIDs []*ProcessIDDto `json:"endProcessesIds"`
	Active          bool            `json:"active"`
	Automated       bool            `json:"automated"`
	LogActivity     bool            `json:"logActivity"`
}

// CriteriaRecord is a named, compiled boolean condition.
type CriteriaRecord struct {
	Persisted       bool              `json:"persisted"`
	Owner           string            `json:"owner"`
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	EntityClassName string            `json:"entityClassName"`
	CreationDate    string            `json:"creationDate"`
	Description     string            `json:"description"`
	LastUpdateTime  string            `json:"lastUpdateTime"`
	LastUpdateUser  string            `json:"lastUpdateUser"`
	Condition       PlatformCondition `json:"condition"`
	AliasDefs       []any             `json:"aliasDefs"`
	Parameters      []any             `json:"parameters"`
	CriteriaChecker string            `json:"criteriaChecker"`
	User            string            `json:"user"`
}

// ProcessIDDto identifies a process from a transition's endProcessesIds.
type ProcessIDDto struct {
	Bean        string `json:"@bean"`
	Persisted   bool   `json:"persisted"`
	PersistedID string `json:"persistedId"`
	RuntimeID   int    `json:"runtimeId"`
}

// ProcessRecord is an externalized processor run when a transition completes.
type ProcessRecord struct {
	Persisted                 bool                  `json:"persisted"`
	Owner                     string                `json:"owner"`
	CalculationNodesTags      string                `json:"calculationNodesTags"`
	ID                        *ProcessIDDto         `json:"id"`
	Name                      string                `json:"name"`
	EntityClassName           string                `json:"entityClassName"`
	CreationDate              string                `json:"creationDate"`
	Description               string                `json:"description"`
	ProcessorClassName        string                `json:"processorClassName"`
	Parameters                []*ProcessParamRecord `json:"parameters"`
	Fields                    []any                 `json:"fields"`
	SyncProcess               bool                  `json:"syncProcess"`
	NewTransactionForAsync    bool                  `json:"newTransactionForAsync"`
	NoneTransactionalForAsync bool                  `json:"noneTransactionalForAsync"`
	IsTemplate                bool                  `json:"isTemplate"`
	CriteriaIDs               []string              `json:"criteriaIds"`
	User                      string                `json:"user"`
}

// ProcessParamValueType is the platform type tag of a process parameter.
type ProcessParamValueType string

const (
	ProcessParamString  ProcessParamValueType = "STRING"
	ProcessParamInteger ProcessParamValueType = "INTEGER"
	ProcessParamBoolean ProcessParamValueType = "BOOLEAN"
)

// ProcessParamRecord is one configuration parameter of a process.
type ProcessParamRecord struct {
	Persisted    bool                  `json:"persisted"`
	Owner        string                `json:"owner"`
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	CreationDate string                `json:"creationDate"`
	ValueType    ProcessParamValueType `json:"valueType"`
	Value        TypedValue            `json:"value"`
}

// TypedValue wraps a literal with the platform type the engine must deserialize it as.
type TypedValue struct {
	Type  string `json:"@type"`
	Value any    `json:"value"`
}

// PlatformCondition is a node of a compiled condition tree.
type PlatformCondition interface {
	isPlatformCondition()
}

// PlatformGroupCondition combines child conditions with AND or OR.
type PlatformGroupCondition struct {
	Bean       string              `json:"@bean"`
	Operator   string              `json:"operator"`
	Conditions []PlatformCondition `json:"conditions"`
}

// PlatformLeafCondition compares one resolved field. Range operations carry From/To, all
// others carry Value.
type PlatformLeafCondition struct {
	Bean       string
	FieldName  string
	Operation  mapping.Operation
	RangeField string
	Value      any
	From       any
	To         any
}

func (PlatformGroupCondition) isPlatformCondition() {}

func (PlatformLeafCondition) isPlatformCondition() {}

// MarshalJSON emits either value or from/to depending on the operation.
func (c PlatformLeafCondition) MarshalJSON() ([]byte, error) {
	if c.Operation.IsRange() {
		return json.Marshal(struct {
			Bean       string            `json:"@bean"`
			FieldName  string            `json:"fieldName"`
			Operation  mapping.Operation `json:"operation"`
			RangeField string            `json:"rangeField"`
			From       any               `json:"from"`
			To         any               `json:"to"`
		}{c.Bean, c.FieldName, c.Operation, c.RangeField, c.From, c.To})
	}

	return json.Marshal(struct {
		Bean       string            `json:"@bean"`
		FieldName  string            `json:"fieldName"`
		Operation  mapping.Operation `json:"operation"`
		RangeField string            `json:"rangeField"`
		Value      any               `json:"value"`
	}{c.Bean, c.FieldName, c.Operation, c.RangeField, c.Value})
}

// StateByID returns the state record with the given id.
func (d *FullWorkflowContainerDto) StateByID(id string) *StateRecord {
	for _, s := range d.States {
		if s.ID == id {
			return s
		}
	}

	return nil
}

// StateByName returns the state record with the given name.
func (d *FullWorkflowContainerDto) StateByName(name string) *StateRecord {
	for _, s := range d.States {
		if s.Name == name {
			return s
		}
	}

	return nil
}

// CriteriaByName returns the criteria record with the given name.
func (d *FullWorkflowContainerDto) CriteriaByName(name string) *CriteriaRecord {
	for _, c := range d.Criterias {
		if c.Name == name {
			return c
		}
	}

	return nil
}

// TransitionsFrom returns transitions leaving the state with the given id, in emission order.
func (d *FullWorkflowContainerDto) TransitionsFrom(stateID string) []*TransitionRecord {
	var out []*TransitionRecord

	for _, t := range d.Transitions {
		if t.StartStateID == stateID {
			out = append(out, t)
		}
	}

	return out
}
