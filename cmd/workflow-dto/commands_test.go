package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dukex/workflow-dto/pkg/cmd"
	"github.com/dukex/workflow-dto/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const basicSpec = `{"states": {"none": {"transitions": {"start": {"next": "done"}}}, "done": {}}}`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	root := NewRootCommand()
	root.Writer = &out
	root.ErrWriter = &out

	err := root.Run(t.Context(), append([]string{"workflow-dto", "--log-level", "error"}, args...))

	return out.String(), err
}

func writeSpec(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))

	return path
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeSpec(t, dir, "order.json", basicSpec)
	output := filepath.Join(dir, "order.dto.json")

	_, err := run(t, "convert", "--input", input, "--output", output, "--model-name", "Order", "--ai")
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "}\n"))

	var dto models.FullWorkflowContainerDto
	require.NoError(t, json.Unmarshal(data, &dto))
	assert.Equal(t, "Order:1:order", dto.Workflow[0].Name)
	assert.NotNil(t, dto.StateByName("locked_chat_done"))
}

func TestConvertCommand_Stdout(t *testing.T) {
	input := writeSpec(t, t.TempDir(), "order.yaml", "states:\n  none:\n    transitions:\n      start:\n        next: done\n  done: {}\n")

	out, err := run(t, "convert", "-i", input, "--model-name", "Order", "--model-version", "3", "--workflow-name", "flow")
	require.NoError(t, err)

	var dto models.FullWorkflowContainerDto
	require.NoError(t, json.Unmarshal([]byte(out), &dto))
	assert.Equal(t, "Order:3:flow", dto.Workflow[0].Name)
}

func TestConvertCommand_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
	}{
		{
			name: "missing model name",
			args: []string{"convert", "--input", writeSpec(t, dir, "a.json", basicSpec)},
		},
		{
			name: "missing input file",
			args: []string{"convert", "--input", filepath.Join(dir, "missing.json"), "--model-name", "Order"},
		},
		{
			name: "unknown transition target",
			args: []string{
				"convert", "--model-name", "Order",
				"--input", writeSpec(t, dir, "b.json", `{"states": {"a": {"transitions": {"go": {"next": "b"}}}}}`),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestBatchCommand(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	writeSpec(t, in, "alpha.json", basicSpec)
	writeSpec(t, in, "broken.json", `{"states": {"a": {"transitions": {"go": {"next": "b"}}}}}`)

	stdout, err := run(t, "batch", "--input-dir", in, "--output-dir", out, "--model-name", "Order")
	require.Error(t, err)
	assert.Contains(t, stdout, "converted: 1, failed: 1")

	assert.FileExists(t, filepath.Join(out, "alpha.json"))
	assert.NoFileExists(t, filepath.Join(out, "broken.json"))
}

func TestValidateCommand(t *testing.T) {
	input := writeSpec(t, t.TempDir(), "order.json", basicSpec)

	out, err := run(t, "validate", "--input", input, "--model-name", "Order")
	require.NoError(t, err)
	assert.Contains(t, out, "workflow Order:1:order, 2 states, 1 transitions, 4 criterias, 0 processes")
}

func TestOperationsCommand(t *testing.T) {
	out, err := run(t, "operations")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 20)
	assert.True(t, strings.HasPrefix(lines[0], "PHRASE"))
	assert.Contains(t, lines[1], "IEQUALS")
}

func TestBatchCommand_Sources(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{
			name: "no source",
			args: []string{"batch", "--model-name", "Order"},
			want: errSourceRequired,
		},
		{
			name: "directory without output",
			args: []string{"batch", "--model-name", "Order", "--input-dir", t.TempDir()},
			want: cmd.ErrOutputDirRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
