package mapping

import (
	"errors"
	"fmt"
)

// ErrInvalidValueType indicates a value-type tag outside the recognized set.
var ErrInvalidValueType = errors.New("invalid value type")

// ValueType is the bucket a dynamic entity field is stored under.
type ValueType string

const (
	ValueTypeStrings        ValueType = "strings"
	ValueTypeUUIDs          ValueType = "uuids"
	ValueTypeTimeUUIDs      ValueType = "timeUuids"
	ValueTypeLocalDateTimes ValueType = "localDateTimes"
	ValueTypeLocalDates     ValueType = "localDates"
	ValueTypeLocalTimes     ValueType = "localTimes"
	ValueTypeZonedDateTimes ValueType = "zonedDateTimes"
	ValueTypeDates          ValueType = "dates"
	ValueTypeYears          ValueType = "years"
	ValueTypeYearMonths     ValueType = "yearMonths"
	ValueTypeChars          ValueType = "chars"
	ValueTypeBytes          ValueType = "bytes"
	ValueTypeInts           ValueType = "ints"
	ValueTypeLongs          ValueType = "longs"
	ValueTypeDoubles        ValueType = "doubles"
	ValueTypeFloats         ValueType = "floats"
	ValueTypeBooleans       ValueType = "booleans"
	ValueTypeShorts         ValueType = "shorts"
	ValueTypeBigDecimals    ValueType = "big_decimals"
	ValueTypeBigIntegers    ValueType = "big_integers"
)

type valueTypeEntry struct {
	javaType string
	raw      bool
}

var valueTypes = map[ValueType]valueTypeEntry{
	ValueTypeStrings:        {javaType: "java.lang.String"},
	ValueTypeUUIDs:          {javaType: "java.util.UUID"},
	ValueTypeTimeUUIDs:      {javaType: "java.util.UUID"},
	ValueTypeLocalDateTimes: {javaType: "java.time.LocalDateTime"},
	ValueTypeLocalDates:     {javaType: "java.time.LocalDate"},
	ValueTypeLocalTimes:     {javaType: "java.time.LocalTime"},
	ValueTypeZonedDateTimes: {javaType: "java.time.ZonedDateTime"},
	ValueTypeDates:          {javaType: "java.util.Date"},
	ValueTypeYears:          {javaType: "java.time.Year"},
	ValueTypeYearMonths:     {javaType: "java.time.YearMonth"},
	ValueTypeChars:          {javaType: "java.lang.Character"},
	ValueTypeBytes:          {javaType: "java.lang.Byte"},
	ValueTypeInts:           {javaType: "java.lang.Integer", raw: true},
	ValueTypeLongs:          {javaType: "java.lang.Long", raw: true},
	ValueTypeDoubles:        {javaType: "java.lang.Double", raw: true},
	ValueTypeFloats:         {javaType: "java.lang.Float", raw: true},
	ValueTypeBooleans:       {javaType: "java.lang.Boolean", raw: true},
	ValueTypeShorts:         {javaType: "java.lang.Short", raw: true},
	ValueTypeBigDecimals:    {javaType: "java.math.BigDecimal", raw: true},
	ValueTypeBigIntegers:    {javaType: "java.math.BigInteger", raw: true},
}

// metaFieldTypes pins the Java type of well-known entity metadata fields.
var metaFieldTypes = map[string]string{
	"id":                 "java.util.UUID",
	"owner":              "java.lang.String",
	"state":              "java.lang.String",
	"creationDate":       "java.util.Date",
	"lastUpdateTime":     "java.util.Date",
	"previousTransition": "java.lang.String",
}

// ParseValueType validates a value-type tag. Tags are case-sensitive.
func ParseValueType(tag string) (ValueType, error) {
	vt := ValueType(tag)
	if !vt.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidValueType, tag)
	}

	return vt, nil
}

// Valid reports whether vt is a recognized value-type tag.
func (vt ValueType) Valid() bool {
	_, ok := valueTypes[vt]

	return ok
}

// IsRawType reports whether literals of vt are emitted without a type envelope.
func IsRawType(vt ValueType) bool {
	return valueTypes[vt].raw
}

// JavaType returns the fully-qualified platform type for vt.
func JavaType(vt ValueType) (string, bool) {
	e, ok := valueTypes[vt]
	if !ok {
		return "", false
	}

	return e.javaType, true
}

// MetaFieldType returns the fixed platform type of a metadata field such as "creationDate".
func MetaFieldType(field string) (string, bool) {
	t, ok := metaFieldTypes[field]

	return t, ok
}
