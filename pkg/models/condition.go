package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownConditionType indicates a condition node whose type is neither group nor simple.
	ErrUnknownConditionType = errors.New("unknown condition type")

	// ErrInvalidGroupOperator indicates a group condition whose operator is neither AND nor OR.
	ErrInvalidGroupOperator = errors.New("invalid group operator")
)

// Condition node type tags.
const (
	ConditionTypeGroup  = "group"
	ConditionTypeSimple = "simple"
)

// Group operators.
const (
	GroupOperatorAnd = "AND"
	GroupOperatorOr  = "OR"
)

// ConditionNode is a tagged union: exactly one of Group or Simple is set on a parsed node.
type ConditionNode struct {
	Group  *GroupCondition
	Simple *SimpleCondition
}

// GroupCondition combines child conditions with AND or OR.
type GroupCondition struct {
	Operator   string
	Conditions []ConditionNode
}

// SimpleCondition compares one entity field against a literal value or a value range.
type SimpleCondition struct {
	OperatorType string
	JSONPath     string
	ValueType    string

	Value    any
	HasValue bool

	ValueFrom    any
	HasValueFrom bool
	ValueTo      any
	HasValueTo   bool
}

// Group builds a group node.
func Group(operator string, children ...ConditionNode) ConditionNode {
	return ConditionNode{Group: &GroupCondition{Operator: operator, Conditions: children}}
}

// Simple builds a single-value leaf node.
func Simple(operatorType, jsonPath, valueType string, value any) ConditionNode {
	return ConditionNode{Simple: &SimpleCondition{
		OperatorType: operatorType,
		JSONPath:     jsonPath,
		ValueType:    valueType,
		Value:        value,
		HasValue:     true,
	}}
}

// Range builds a from/to leaf node.
func Range(operatorType, jsonPath, valueType string, from, to any) ConditionNode {
	return ConditionNode{Simple: &SimpleCondition{
		OperatorType: operatorType,
		JSONPath:     jsonPath,
		ValueType:    valueType,
		ValueFrom:    from,
		HasValueFrom: true,
		ValueTo:      to,
		HasValueTo:   true,
	}}
}

// Type returns the node's type tag, or "" for a zero node.
func (n ConditionNode) Type() string {
	switch {
	case n.Group != nil:
		return ConditionTypeGroup
	case n.Simple != nil:
		return ConditionTypeSimple
	default:
		return ""
	}
}

type rawCondition struct {
	Type         string          `json:"type"`
	Operator     string          `json:"operator"`
	Conditions   []ConditionNode `json:"conditions"`
	OperatorType string          `json:"operatorType"`
	JSONPath     string          `json:"jsonPath"`
	ValueType    string          `json:"value_type"`
}

// UnmarshalJSON parses and validates the node's type tag.
func (n *ConditionNode) UnmarshalJSON(data []byte) error {
	var raw rawCondition
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	switch raw.Type {
	case ConditionTypeGroup:
		group, err := newGroup(raw.Operator, raw.Conditions)
		if err != nil {
			return err
		}

		*n = ConditionNode{Group: group}

		return nil
	case ConditionTypeSimple:
		simple := &SimpleCondition{
			OperatorType: raw.OperatorType,
			JSONPath:     raw.JSONPath,
			ValueType:    raw.ValueType,
		}

		var err error
		if simple.Value, simple.HasValue, err = jsonField(fields, "value"); err != nil {
			return err
		}

		if simple.ValueFrom, simple.HasValueFrom, err = jsonField(fields, "value_from"); err != nil {
			return err
		}

		if simple.ValueTo, simple.HasValueTo, err = jsonField(fields, "value_to"); err != nil {
			return err
		}

		*n = ConditionNode{Simple: simple}

		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownConditionType, raw.Type)
	}
}

// jsonField decodes an optional literal, keeping numbers as json.Number so integers survive
// re-encoding unchanged.
func jsonField(fields map[string]json.RawMessage, key string) (any, bool, error) {
	raw, ok := fields[key]
	if !ok {
		return nil, false, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, false, fmt.Errorf("failed to decode %s: %w", key, err)
	}

	return value, true, nil
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML authoring documents.
func (n *ConditionNode) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Type         string          `yaml:"type"`
		Operator     string          `yaml:"operator"`
		Conditions   []ConditionNode `yaml:"conditions"`
		OperatorType string          `yaml:"operatorType"`
		JSONPath     string          `yaml:"jsonPath"`
		ValueType    string          `yaml:"value_type"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	var fields map[string]yaml.Node
	if err := node.Decode(&fields); err != nil {
		return err
	}

	switch raw.Type {
	case ConditionTypeGroup:
		group, err := newGroup(raw.Operator, raw.Conditions)
		if err != nil {
			return err
		}

		*n = ConditionNode{Group: group}

		return nil
	case ConditionTypeSimple:
		simple := &SimpleCondition{
			OperatorType: raw.OperatorType,
			JSONPath:     raw.JSONPath,
			ValueType:    raw.ValueType,
		}

		var err error
		if simple.Value, simple.HasValue, err = yamlField(fields, "value"); err != nil {
			return err
		}

		if simple.ValueFrom, simple.HasValueFrom, err = yamlField(fields, "value_from"); err != nil {
			return err
		}

		if simple.ValueTo, simple.HasValueTo, err = yamlField(fields, "value_to"); err != nil {
			return err
		}

		*n = ConditionNode{Simple: simple}

		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownConditionType, raw.Type)
	}
}

func yamlField(fields map[string]yaml.Node, key string) (any, bool, error) {
	node, ok := fields[key]
	if !ok {
		return nil, false, nil
	}

	var value any
	if err := node.Decode(&value); err != nil {
		return nil, false, fmt.Errorf("failed to decode %s: %w", key, err)
	}

	return value, true, nil
}

func newGroup(operator string, children []ConditionNode) (*GroupCondition, error) {
	op := strings.ToUpper(strings.TrimSpace(operator))
	if op != GroupOperatorAnd && op != GroupOperatorOr {
		return nil, fmt.Errorf("%w: %q", ErrInvalidGroupOperator, operator)
	}

	if children == nil {
		children = []ConditionNode{}
	}

	return &GroupCondition{Operator: op, Conditions: children}, nil
}

// MarshalJSON writes the node back in authoring format.
func (n ConditionNode) MarshalJSON() ([]byte, error) {
	switch {
	case n.Group != nil:
		return json.Marshal(struct {
			Type       string          `json:"type"`
			Operator   string          `json:"operator"`
			Conditions []ConditionNode `json:"conditions"`
		}{ConditionTypeGroup, n.Group.Operator, n.Group.Conditions})
	case n.Simple != nil:
		out := map[string]any{
			"type":         ConditionTypeSimple,
			"operatorType": n.Simple.OperatorType,
			"jsonPath":     n.Simple.JSONPath,
		}
		if n.Simple.ValueType != "" {
			out["value_type"] = n.Simple.ValueType
		}

		if n.Simple.HasValue {
			out["value"] = n.Simple.Value
		}

		if n.Simple.HasValueFrom {
			out["value_from"] = n.Simple.ValueFrom
		}

		if n.Simple.HasValueTo {
			out["value_to"] = n.Simple.ValueTo
		}

		return json.Marshal(out)
	default:
		return nil, fmt.Errorf("%w: empty node", ErrUnknownConditionType)
	}
}
