package condition

import (
	"fmt"
	"strings"

	"github.com/dukex/workflow-dto/pkg/log"
	"github.com/dukex/workflow-dto/pkg/mapping"
	"github.com/dukex/workflow-dto/pkg/models"
)

// LogicalPathPrefix marks a reference into the entity's dynamic property bag.
const LogicalPathPrefix = "$."

// FieldStoragePrefix is the internal node-value-map traversal every logical reference is
// rewritten under.
const FieldStoragePrefix = "members.[0]@com#cyoda#tdb#model#treenode#NodeInfo.value@com#cyoda#tdb#model#treenode#PersistedValueMaps."

// ResolveField rewrites a logical reference ("$.foo") into its storage path
// "{FieldStoragePrefix}{valueType}.[$.foo]". Any other path is a literal or metadata field
// name and is returned unchanged.
func ResolveField(jsonPath, valueType string) (string, error) {
	if !strings.HasPrefix(jsonPath, LogicalPathPrefix) {
		return jsonPath, nil
	}

	vt, err := mapping.ParseValueType(valueType)
	if err != nil {
		return "", fmt.Errorf("field %q: %w", jsonPath, err)
	}

	return FieldStoragePrefix + string(vt) + ".[" + jsonPath + "]", nil
}

// BuildBetweenValue prepares one bound of a range condition. Raw types pass through; other
// values are wrapped in a TypedValue whose type comes from the metadata field table first and
// the value-type table second. When neither resolves, the value passes through unwrapped.
func BuildBetweenValue(fieldName string, value any, valueType string) any {
	vt := mapping.ValueType(valueType)
	if mapping.IsRawType(vt) {
		return value
	}

	javaType, ok := mapping.MetaFieldType(fieldName)
	if !ok {
		javaType, ok = mapping.JavaType(vt)
	}

	if !ok {
		log.WithModule("condition").Warn("No platform type for range bound, passing value through",
			"field", fieldName,
			"value_type", valueType,
		)

		return value
	}

	return models.TypedValue{Type: javaType, Value: value}
}
