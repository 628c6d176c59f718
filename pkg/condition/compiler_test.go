package condition

import (
	"encoding/json"
	"testing"

	"github.com/dukex/workflow-dto/pkg/mapping"
	"github.com/dukex/workflow-dto/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseNode(t *testing.T, raw string) models.ConditionNode {
	t.Helper()

	var node models.ConditionNode
	require.NoError(t, json.Unmarshal([]byte(raw), &node))

	return node
}

func TestConvert_SimpleCondition(t *testing.T) {
	node := parseNode(t, `{
		"type": "simple",
		"operatorType": "equals (disregard case)",
		"jsonPath": "$.status",
		"value_type": "strings",
		"value": "approved"
	}`)

	got, err := Convert(node)
	require.NoError(t, err)

	leaf, ok := got.(models.PlatformLeafCondition)
	require.True(t, ok)
	assert.Equal(t, "com.cyoda.core.conditions.nonqueryable.IEquals", leaf.Bean)
	assert.Equal(t, mapping.OperationIEquals, leaf.Operation)
	assert.Equal(t, FieldStoragePrefix+"strings.[$.status]", leaf.FieldName)
	assert.Equal(t, "false", leaf.RangeField)
	assert.Equal(t, "approved", leaf.Value)
}

func TestConvert_BetweenRawType(t *testing.T) {
	node := parseNode(t, `{
		"type": "simple",
		"operatorType": "between (inclusive)",
		"jsonPath": "$.amount",
		"value_type": "ints",
		"value_from": 1,
		"value_to": 10
	}`)

	got, err := Convert(node)
	require.NoError(t, err)

	data, err := json.Marshal(got)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, "BETWEEN", out["operation"])
	assert.InDelta(t, 1, out["from"], 0)
	assert.InDelta(t, 10, out["to"], 0)
	assert.NotContains(t, out, "value")
	assert.Equal(t, "false", out["rangeField"])
}

func TestConvert_BetweenTypedBounds(t *testing.T) {
	node := models.Range("between (inclusive, match case)", "$.createdAt", "localDateTimes",
		"2024-01-01T00:00:00", "2024-12-31T23:59:59")

	got, err := Convert(node)
	require.NoError(t, err)

	leaf := got.(models.PlatformLeafCondition)
	assert.Equal(t, mapping.OperationBetweenInclusive, leaf.Operation)
	assert.Equal(t, models.TypedValue{Type: "java.time.LocalDateTime", Value: "2024-01-01T00:00:00"}, leaf.From)
	assert.Equal(t, models.TypedValue{Type: "java.time.LocalDateTime", Value: "2024-12-31T23:59:59"}, leaf.To)
}

func TestConvert_GroupPreservesOrder(t *testing.T) {
	node := parseNode(t, `{
		"type": "group",
		"operator": "or",
		"conditions": [
			{"type": "simple", "operatorType": "is null", "jsonPath": "$.a", "value_type": "strings"},
			{"type": "group", "operator": "AND", "conditions": [
				{"type": "simple", "operatorType": "greater than", "jsonPath": "$.b", "value_type": "longs", "value": 5},
				{"type": "simple", "operatorType": "equals", "jsonPath": "state", "value": "done"}
			]}
		]
	}`)

	got, err := Convert(node)
	require.NoError(t, err)

	group, ok := got.(models.PlatformGroupCondition)
	require.True(t, ok)
	assert.Equal(t, mapping.GroupConditionBean, group.Bean)
	assert.Equal(t, "OR", group.Operator)
	require.Len(t, group.Conditions, 2)

	first := group.Conditions[0].(models.PlatformLeafCondition)
	assert.Equal(t, mapping.OperationIsNull, first.Operation)
	assert.Nil(t, first.Value)

	inner := group.Conditions[1].(models.PlatformGroupCondition)
	assert.Equal(t, "AND", inner.Operator)
	require.Len(t, inner.Conditions, 2)

	gt := inner.Conditions[0].(models.PlatformLeafCondition)
	assert.Equal(t, mapping.OperationGreaterThan, gt.Operation)
	assert.Equal(t, json.Number("5"), gt.Value)

	literal := inner.Conditions[1].(models.PlatformLeafCondition)
	assert.Equal(t, "state", literal.FieldName)
	assert.Equal(t, mapping.OperationEquals, literal.Operation)
}

func TestConvert_Errors(t *testing.T) {
	tests := []struct {
		name     string
		node     models.ConditionNode
		wantErr  error
		wantPath string
	}{
		{
			name:     "unsupported operator",
			node:     models.Simple("frobnicate", "$.x", "ints", 1),
			wantErr:  ErrUnsupportedOperator,
			wantPath: "$",
		},
		{
			name:     "invalid value type",
			node:     models.Simple("equals", "$.x", "integers", 1),
			wantErr:  ErrInvalidValueType,
			wantPath: "$",
		},
		{
			name:     "missing value type on logical path",
			node:     models.Simple("equals", "$.x", "", 1),
			wantErr:  ErrInvalidValueType,
			wantPath: "$",
		},
		{
			name: "missing upper bound",
			node: models.ConditionNode{Simple: &models.SimpleCondition{
				OperatorType: "between (inclusive)",
				JSONPath:     "$.x",
				ValueType:    "ints",
				ValueFrom:    1,
				HasValueFrom: true,
			}},
			wantErr:  ErrMissingRangeBounds,
			wantPath: "$",
		},
		{
			name: "missing value",
			node: models.ConditionNode{Simple: &models.SimpleCondition{
				OperatorType: "equals",
				JSONPath:     "$.x",
				ValueType:    "ints",
			}},
			wantErr:  ErrMissingValue,
			wantPath: "$",
		},
		{
			name: "nested failure names its path",
			node: models.Group("AND",
				models.Simple("equals", "$.ok", "strings", "a"),
				models.Group("OR", models.Simple("nope", "$.x", "strings", "b")),
			),
			wantErr:  ErrUnsupportedOperator,
			wantPath: "$.conditions[1].conditions[0]",
		},
		{
			name:     "empty node",
			node:     models.ConditionNode{},
			wantErr:  ErrUnknownConditionType,
			wantPath: "$",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.node)
			require.Error(t, err)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.wantErr)

			var condErr *ConditionError
			require.ErrorAs(t, err, &condErr)
			assert.Equal(t, tt.wantPath, condErr.Path)
		})
	}
}

func TestConvert_UnsupportedOperatorFromJSON(t *testing.T) {
	node := parseNode(t, `{"type": "simple", "operatorType": "frobnicate", "jsonPath": "$.x", "value": 1}`)

	got, err := Convert(node)
	require.Error(t, err)
	assert.True(t, IsUnsupportedOperator(err))
	assert.Nil(t, got)
}

func TestConditionNode_UnknownTypeFailsAtParse(t *testing.T) {
	var node models.ConditionNode
	err := json.Unmarshal([]byte(`{"type": "regex", "pattern": ".*"}`), &node)
	require.Error(t, err)
	assert.True(t, IsUnknownConditionType(err))
}

func TestPlatformLeafCondition_SingleValueKeepsNull(t *testing.T) {
	leaf := models.PlatformLeafCondition{
		Bean:       mapping.OperationNotNull.Bean(),
		FieldName:  "state",
		Operation:  mapping.OperationNotNull,
		RangeField: RangeFieldMarker,
	}

	data, err := json.Marshal(leaf)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"@bean": "com.cyoda.core.conditions.nonqueryable.NotNull",
		"fieldName": "state",
		"operation": "NOT_NULL",
		"rangeField": "false",
		"value": null
	}`, string(data))
}
