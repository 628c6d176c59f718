// Package condition compiles authoring-format condition trees into the platform's
// bean-tagged condition trees.
package condition

import (
	"fmt"

	"github.com/dukex/workflow-dto/pkg/mapping"
	"github.com/dukex/workflow-dto/pkg/models"
)

// RangeFieldMarker is stamped on every compiled leaf.
const RangeFieldMarker = "false"

const rootPath = "$"

// Convert compiles node recursively. It has no side effects and generates no identifiers.
// Failures are returned as *ConditionError naming the offending node.
func Convert(node models.ConditionNode) (models.PlatformCondition, error) {
	return convert(node, rootPath)
}

func convert(node models.ConditionNode, path string) (models.PlatformCondition, error) {
	switch {
	case node.Group != nil:
		return convertGroup(node.Group, path)
	case node.Simple != nil:
		return convertSimple(node.Simple, path)
	default:
		return nil, &ConditionError{Path: path, Err: fmt.Errorf("%w: empty node", ErrUnknownConditionType)}
	}
}

func convertGroup(group *models.GroupCondition, path string) (models.PlatformCondition, error) {
	children := make([]models.PlatformCondition, 0, len(group.Conditions))

	for i, child := range group.Conditions {
		compiled, err := convert(child, fmt.Sprintf("%s.conditions[%d]", path, i))
		if err != nil {
			return nil, err
		}

		children = append(children, compiled)
	}

	return models.PlatformGroupCondition{
		Bean:       mapping.GroupConditionBean,
		Operator:   group.Operator,
		Conditions: children,
	}, nil
}

func convertSimple(simple *models.SimpleCondition, path string) (models.PlatformCondition, error) {
	op, err := mapping.ParseOperation(simple.OperatorType)
	if err != nil {
		return nil, &ConditionError{Path: path, Err: err}
	}

	fieldName, err := ResolveField(simple.JSONPath, simple.ValueType)
	if err != nil {
		return nil, &ConditionError{Path: path, Err: err}
	}

	leaf := models.PlatformLeafCondition{
		Bean:       op.Bean(),
		FieldName:  fieldName,
		Operation:  op,
		RangeField: RangeFieldMarker,
	}

	switch {
	case op.IsRange():
		if !simple.HasValueFrom || !simple.HasValueTo {
			return nil, &ConditionError{
				Path: path,
				Err:  fmt.Errorf("%w: %s requires value_from and value_to", ErrMissingRangeBounds, op),
			}
		}

		leaf.From = BuildBetweenValue(simple.JSONPath, simple.ValueFrom, simple.ValueType)
		leaf.To = BuildBetweenValue(simple.JSONPath, simple.ValueTo, simple.ValueType)
	case isNullCheck(op):
		leaf.Value = simple.Value
	default:
		if !simple.HasValue {
			return nil, &ConditionError{
				Path: path,
				Err:  fmt.Errorf("%w: %s requires value", ErrMissingValue, op),
			}
		}

		leaf.Value = simple.Value
	}

	return leaf, nil
}

// isNullCheck reports operations that compare against nothing.
func isNullCheck(op mapping.Operation) bool {
	return op == mapping.OperationIsNull || op == mapping.OperationNotNull
}
