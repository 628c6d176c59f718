// Package idgen stamps compiled workflow records with identifiers and creation timestamps.
package idgen

import (
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is ISO-8601 with millisecond precision and an explicit +00:00 offset.
// Callers must pass UTC times.
const TimestampLayout = "2006-01-02T15:04:05.000+00:00"

// Generator produces a fresh identifier on every call.
type Generator func() string

// GenerateID returns a time-based (version 1) UUID.
func GenerateID() string {
	id, err := uuid.NewUUID()
	if err != nil {
		// Node or clock unavailable; a random UUID keeps the uniqueness contract.
		return uuid.NewString()
	}

	return id.String()
}

// CurrentTimestamp returns the current UTC time formatted with TimestampLayout.
func CurrentTimestamp() string {
	return FormatTimestamp(time.Now())
}

// FormatTimestamp formats t in UTC with TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
