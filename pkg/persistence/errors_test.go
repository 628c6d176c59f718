package persistence_test

import (
	"errors"
	"testing"

	"github.com/dukex/workflow-dto/pkg/persistence"
	"github.com/stretchr/testify/assert"
)

func TestStandardizedErrors(t *testing.T) {
	t.Parallel()

	t.Run("error checking functions work correctly", func(t *testing.T) {
		notFound := persistence.NewDocumentError("LoadSpec", "order", persistence.ErrSpecNotFound)
		exists := persistence.NewDocumentError("SaveDTO", "order", persistence.ErrDTOAlreadyExists)

		assert.True(t, persistence.IsSpecNotFound(notFound))
		assert.False(t, persistence.IsSpecNotFound(exists))
		assert.True(t, persistence.IsDTOAlreadyExists(exists))

		assert.True(t, errors.Is(notFound, persistence.ErrSpecNotFound))
	})

	t.Run("document error contains context", func(t *testing.T) {
		err := persistence.NewDocumentError("LoadSpec", "order", persistence.ErrSpecNotFound)

		assert.Contains(t, err.Error(), "LoadSpec")
		assert.Contains(t, err.Error(), "order")
		assert.Contains(t, err.Error(), "authoring spec not found")
	})

	t.Run("message is included when set", func(t *testing.T) {
		err := &persistence.DocumentError{Op: "SaveDTO", Name: "order", Err: persistence.ErrInvalidName, Message: "bad path"}

		assert.Contains(t, err.Error(), "bad path")
	})
}
