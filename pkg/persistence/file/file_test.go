package file

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dukex/workflow-dto/pkg/authoring"
	"github.com/dukex/workflow-dto/pkg/models"
	"github.com/dukex/workflow-dto/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const basicSpec = `{"states": {"none": {"transitions": {"start": {"next": "done"}}}, "done": {}}}`

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0600))
}

func testDTO() *models.FullWorkflowContainerDto {
	return &models.FullWorkflowContainerDto{
		Workflow:      []*models.WorkflowRecord{{ID: "wf", Name: "Order:1:basic"}},
		Transitions:   []*models.TransitionRecord{},
		Criterias:     []*models.CriteriaRecord{},
		Processes:     []*models.ProcessRecord{},
		States:        []*models.StateRecord{{ID: models.NoneStateID, Name: models.NoneStateName}},
		ProcessParams: []*models.ProcessParamRecord{},
	}
}

func TestNewPersistence(t *testing.T) {
	fp := NewPersistence("file:///tmp/specs", "/tmp/out/").(*Persistence)
	assert.Equal(t, "/tmp/specs", fp.specRoot)
	assert.Equal(t, "/tmp/out", fp.dtoRoot)
	assert.True(t, fp.overwrite)
}

func TestPersistence_Close(t *testing.T) {
	p := NewPersistence("./test-data", "./out")
	assert.NoError(t, p.Close(t.Context()))
}

func TestPersistence_HealthCheck(t *testing.T) {
	dir := t.TempDir()

	assert.NoError(t, NewPersistence(dir, dir).HealthCheck(t.Context()))
	assert.Error(t, NewPersistence(filepath.Join(dir, "missing"), dir).HealthCheck(t.Context()))
}

func TestPersistence_Specs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yaml", "states: {}\n")
	writeFile(t, dir, "a.json", basicSpec)
	writeFile(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0750))

	names, err := NewPersistence(dir, t.TempDir()).Specs(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "b.yaml"}, names)
}

func TestPersistence_LoadSpec(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "basic.json", basicSpec)
	writeFile(t, dir, "broken.json", `{"states": {"a": {"transitions": {"go": {}}}}}`)

	p := NewPersistence(dir, t.TempDir())

	t.Run("decodes a valid spec", func(t *testing.T) {
		spec, err := p.LoadSpec(t.Context(), "basic.json")
		require.NoError(t, err)
		assert.Equal(t, []string{"none", "done"}, spec.StateNames())
	})

	t.Run("missing spec", func(t *testing.T) {
		_, err := p.LoadSpec(t.Context(), "missing.json")
		assert.True(t, persistence.IsSpecNotFound(err))

		var docErr *persistence.DocumentError
		require.ErrorAs(t, err, &docErr)
		assert.Equal(t, "LoadSpec", docErr.Op)
	})

	t.Run("schema violation", func(t *testing.T) {
		_, err := p.LoadSpec(t.Context(), "broken.json")
		assert.True(t, authoring.IsInvalidSpec(err))
	})

	t.Run("path escape", func(t *testing.T) {
		_, err := p.LoadSpec(t.Context(), "../basic.json")
		assert.ErrorIs(t, err, persistence.ErrInvalidName)
	})
}

func TestPersistence_SaveDTO(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "out")
	p := NewPersistence(t.TempDir(), out)

	require.NoError(t, p.SaveDTO(t.Context(), "basic.yaml", testDTO()))

	body, err := os.ReadFile(filepath.Join(out, "basic.json"))
	require.NoError(t, err)

	var decoded models.FullWorkflowContainerDto
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "Order:1:basic", decoded.Workflow[0].Name)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files are left behind")
}

func TestPersistence_SaveDTO_RefusesSpecRoot(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "order.json", basicSpec)

	tests := []struct {
		name    string
		dtoRoot string
	}{
		{name: "same root", dtoRoot: dir},
		{name: "same root with file scheme", dtoRoot: "file://" + dir + "/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPersistence(dir, tt.dtoRoot)

			_, err := p.LoadSpec(t.Context(), "order.json")
			require.NoError(t, err)

			err = p.SaveDTO(t.Context(), "order.json", testDTO())
			assert.True(t, persistence.IsOutputIsSpec(err))

			body, err := os.ReadFile(filepath.Join(dir, "order.json"))
			require.NoError(t, err)
			assert.Equal(t, basicSpec, string(body))

			_, err = p.LoadSpec(t.Context(), "order.json")
			assert.NoError(t, err)
		})
	}
}

func TestPersistence_SaveDTO_NoOverwrite(t *testing.T) {
	out := t.TempDir()
	writeFile(t, out, "basic.json", "{}")

	p := NewPersistence(t.TempDir(), out, WithOverwrite(false))

	err := p.SaveDTO(t.Context(), "basic", testDTO())
	assert.True(t, persistence.IsDTOAlreadyExists(err))

	body, err := os.ReadFile(filepath.Join(out, "basic.json"))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(body))
}

func TestWriteDTO_Formatting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dto.json")
	dto := testDTO()
	dto.Workflow[0].Description = "<none> & more"

	require.NoError(t, WriteDTO(path, dto))

	body, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(body)
	assert.True(t, strings.HasPrefix(text, "{\n    \"workflow\""))
	assert.True(t, strings.HasSuffix(text, "\n"))
	assert.Contains(t, text, "<none> & more")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestWriteDTO_MissingDirectory(t *testing.T) {
	err := WriteDTO(filepath.Join(t.TempDir(), "absent", "dto.json"), testDTO())
	assert.Error(t, err)
}

func TestReadSpec_YAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "flow.yml", "states:\n  b: {}\n  a:\n    transitions:\n      go:\n        next: b\n")

	spec, err := ReadSpec(filepath.Join(dir, "flow.yml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, spec.StateNames())
}

func TestReadSpec_UnsupportedExtension(t *testing.T) {
	_, err := ReadSpec("flow.toml")
	assert.ErrorIs(t, err, authoring.ErrUnsupportedFormat)
}
