// Package mapping holds the static lookup tables that translate authoring-format operator
// phrases and value-type tags into the target platform's enums, bean classes and Java types.
package mapping

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedOperator indicates an operator phrase with no entry in the operation table.
var ErrUnsupportedOperator = errors.New("unsupported operator")

// Operation is the platform's canonical comparison operation name.
type Operation string

const (
	OperationIEquals          Operation = "IEQUALS"
	OperationINotEqual        Operation = "INOT_EQUAL"
	OperationBetween          Operation = "BETWEEN"
	OperationBetweenInclusive Operation = "BETWEEN_INCLUSIVE"
	OperationContains         Operation = "CONTAINS"
	OperationIStartsWith      Operation = "ISTARTS_WITH"
	OperationIEndsWith        Operation = "IENDS_WITH"
	OperationINotContains     Operation = "INOT_CONTAINS"
	OperationINotStartsWith   Operation = "INOT_STARTS_WITH"
	OperationNotEndsWith      Operation = "NOT_ENDS_WITH"
	OperationINotEndsWith     Operation = "INOT_ENDS_WITH"
	OperationEquals           Operation = "EQUALS"
	OperationNotEqual         Operation = "NOT_EQUAL"
	OperationLessThan         Operation = "LESS_THAN"
	OperationGreaterThan      Operation = "GREATER_THAN"
	OperationLessOrEqual      Operation = "LESS_OR_EQUAL"
	OperationGreaterOrEqual   Operation = "GREATER_OR_EQUAL"
	OperationIsNull           Operation = "IS_NULL"
	OperationNotNull          Operation = "NOT_NULL"
)

// GroupConditionBean is the bean class of AND/OR condition groups.
const GroupConditionBean = "com.cyoda.core.conditions.GroupCondition"

const (
	nonQueryable = "com.cyoda.core.conditions.nonqueryable."
	queryable    = "com.cyoda.core.conditions.queryable."
)

type operationEntry struct {
	op     Operation
	phrase string
	bean   string
}

// operationTable is the source of truth; phrases are unique once lower-cased.
var operationTable = []operationEntry{
	{OperationIEquals, "equals (disregard case)", nonQueryable + "IEquals"},
	{OperationINotEqual, "not equal (disregard case)", nonQueryable + "INotEquals"},
	{OperationBetween, "between (inclusive)", queryable + "Between"},
	{OperationBetweenInclusive, "between (inclusive, match case)", queryable + "BetweenInclusive"},
	{OperationContains, "contains", nonQueryable + "IContains"},
	{OperationIStartsWith, "starts with", nonQueryable + "IStartsWith"},
	{OperationIEndsWith, "ends with", nonQueryable + "IEndsWith"},
	{OperationINotContains, "does not contain", nonQueryable + "INotContains"},
	{OperationINotStartsWith, "does not start with", nonQueryable + "INotStartsWith"},
	{OperationNotEndsWith, "does not end with", nonQueryable + "NotEndsWith"},
	{OperationINotEndsWith, "does not end with (disregard case)", nonQueryable + "INotEndsWith"},
	{OperationEquals, "equals", queryable + "Equals"},
	{OperationNotEqual, "not equal", nonQueryable + "NotEquals"},
	{OperationLessThan, "less than", queryable + "LessThan"},
	{OperationGreaterThan, "greater than", queryable + "GreaterThan"},
	{OperationLessOrEqual, "less than or equal to", queryable + "LessThanEquals"},
	{OperationGreaterOrEqual, "greater than or equal to", queryable + "GreaterThanEquals"},
	{OperationIsNull, "is null", nonQueryable + "IsNull"},
	{OperationNotNull, "is not null", nonQueryable + "NotNull"},
}

var (
	byPhrase    = make(map[string]operationEntry, len(operationTable))
	byOperation = make(map[Operation]operationEntry, len(operationTable))
)

func init() {
	for _, e := range operationTable {
		byPhrase[strings.ToLower(e.phrase)] = e
		byOperation[e.op] = e
	}
}

// ParseOperation resolves a human-readable operator phrase, ignoring case and surrounding
// whitespace. The canonical operation name itself (e.g. "IEQUALS") is accepted as well.
func ParseOperation(phrase string) (Operation, error) {
	key := strings.TrimSpace(phrase)

	if e, ok := byPhrase[strings.ToLower(key)]; ok {
		return e.op, nil
	}

	if e, ok := byOperation[Operation(strings.ToUpper(key))]; ok {
		return e.op, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnsupportedOperator, phrase)
}

// Bean returns the platform class that interprets the operation.
func (o Operation) Bean() string {
	return byOperation[o].bean
}

// Phrase returns the canonical authoring phrase of the operation.
func (o Operation) Phrase() string {
	return byOperation[o].phrase
}

// IsRange reports whether the operation compares against a from/to pair instead of one value.
func (o Operation) IsRange() bool {
	return o == OperationBetween || o == OperationBetweenInclusive
}

// Valid reports whether o is one of the table's operations.
func (o Operation) Valid() bool {
	_, ok := byOperation[o]

	return ok
}

// OperationInfo describes one row of the operation table.
type OperationInfo struct {
	Phrase    string    `json:"phrase"`
	Operation Operation `json:"operation"`
	Bean      string    `json:"bean"`
	Range     bool      `json:"range"`
}

// Operations lists the operation table in declaration order.
func Operations() []OperationInfo {
	out := make([]OperationInfo, 0, len(operationTable))
	for _, e := range operationTable {
		out = append(out, OperationInfo{
			Phrase:    e.phrase,
			Operation: e.op,
			Bean:      e.bean,
			Range:     e.op.IsRange(),
		})
	}

	return out
}
