package cmd

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePersistenceProvider(t *testing.T) {
	tests := map[string]string{
		"postgres://user@localhost/db":   "postgres",
		"postgresql://user@localhost/db": "postgresql",
		"file:///tmp/specs":              "file",
		"./specs":                        "file",
		"mysql://localhost/db":           "file",
		"":                               "file",
	}

	for url, want := range tests {
		t.Run(url, func(t *testing.T) {
			assert.Equal(t, want, ParsePersistenceProvider(url))
		})
	}
}

func TestNewPersistence_File(t *testing.T) {
	dir := t.TempDir()

	p, err := NewPersistence(t.Context(), slog.Default(), "file://"+dir, t.TempDir(), true)
	require.NoError(t, err)
	assert.NoError(t, p.HealthCheck(t.Context()))

	_, err = NewPersistence(t.Context(), slog.Default(), dir, "", true)
	assert.ErrorIs(t, err, ErrOutputDirRequired)
}
