package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dukex/workflow-dto/pkg/builder"
	"github.com/dukex/workflow-dto/pkg/mocks"
	"github.com/dukex/workflow-dto/pkg/models"
	"github.com/dukex/workflow-dto/pkg/persistence"
	"github.com/dukex/workflow-dto/pkg/persistence/file"
	"github.com/dukex/workflow-dto/pkg/testutil"
	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testOptions() builder.Options {
	return builder.Options{ModelName: "Order", ModelVersion: 1}
}

func TestWorkflowNameFromPath(t *testing.T) {
	tests := map[string]string{
		"order.json":          "order",
		"dir/order.flow.yaml": "order.flow",
		"order":               "order",
	}

	for path, want := range tests {
		t.Run(path, func(t *testing.T) {
			assert.Equal(t, want, WorkflowNameFromPath(path))
		})
	}
}

func TestConverter_HealthCheck(t *testing.T) {
	msg, ok := NewConverter(nil).HealthCheck(t.Context())
	assert.False(t, ok)
	assert.Contains(t, msg, "not initialized")

	p := &mocks.MockPersistence{}
	p.On("HealthCheck", mock.Anything).Return(errors.New("disk gone")).Once()
	p.On("HealthCheck", mock.Anything).Return(nil).Once()

	c := NewConverter(p)

	msg, ok = c.HealthCheck(t.Context())
	assert.False(t, ok)
	assert.Contains(t, msg, "disk gone")

	_, ok = c.HealthCheck(t.Context())
	assert.True(t, ok)
	p.AssertExpectations(t)
}

func TestConverter_Compile(t *testing.T) {
	c := NewConverter(nil, WithBuilderOptions(builder.WithIDGenerator(testutil.SequentialIDs())))

	opts := testOptions()
	opts.WorkflowName = "basic"

	dto, err := c.Compile(t.Context(), testutil.CreateTestSpec(), opts)
	require.NoError(t, err)
	assert.Equal(t, "Order:1:basic", dto.Workflow[0].Name)
	assert.Equal(t, "id-1", dto.Workflow[0].ID)
}

func TestConverter_CompileErrors(t *testing.T) {
	tests := []struct {
		name string
		spec *models.AuthoringSpec
		opts func(*builder.Options)
		code string
	}{
		{
			name: "invalid options",
			spec: testutil.CreateTestSpec(),
			opts: func(o *builder.Options) { o.ModelName = "" },
			code: CodeInvalidOptions,
		},
		{
			name: "missing target",
			spec: testutil.CreateTestSpec(testutil.WithState("start", testutil.CreateTestState(
				testutil.WithTransition("go", models.TransitionDef{Next: "nowhere"}),
			))),
			code: CodeCompileFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			opts.WorkflowName = "basic"

			if tt.opts != nil {
				tt.opts(&opts)
			}

			_, err := NewConverter(nil).Compile(t.Context(), tt.spec, opts)
			require.Error(t, err)
			assert.True(t, IsValidationError(err))

			var svcErr *ServiceError
			require.ErrorAs(t, err, &svcErr)
			assert.Equal(t, tt.code, svcErr.Code)
		})
	}
}

func TestConverter_Convert(t *testing.T) {
	p := &mocks.MockPersistence{}
	p.On("LoadSpec", mock.Anything, "order.json").Return(testutil.CreateTestSpec(), nil)
	p.On("SaveDTO", mock.Anything, "order.json", mock.AnythingOfType("*models.FullWorkflowContainerDto")).Return(nil)

	dto, err := NewConverter(p).Convert(t.Context(), "order.json", testOptions())
	require.NoError(t, err)
	assert.Equal(t, "Order:1:order", dto.Workflow[0].Name)

	p.AssertExpectations(t)
}

func TestConverter_ConvertErrors(t *testing.T) {
	t.Run("empty name", func(t *testing.T) {
		_, err := NewConverter(&mocks.MockPersistence{}).Convert(t.Context(), " ", testOptions())
		assert.ErrorIs(t, err, ErrSpecNameEmpty)
		assert.True(t, IsValidationError(err))
	})

	t.Run("spec not found", func(t *testing.T) {
		p := &mocks.MockPersistence{}
		p.On("LoadSpec", mock.Anything, "missing.json").
			Return(nil, persistence.NewDocumentError("LoadSpec", "missing.json", persistence.ErrSpecNotFound))

		_, err := NewConverter(p).Convert(t.Context(), "missing.json", testOptions())
		assert.True(t, IsNotFoundError(err))

		var svcErr *ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, CodeNotFound, svcErr.Code)
		p.AssertNotCalled(t, "SaveDTO", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("compile failure writes nothing", func(t *testing.T) {
		spec := testutil.CreateTestSpec(testutil.WithState("start", testutil.CreateTestState(
			testutil.WithTransition("go", models.TransitionDef{Next: "nowhere"}),
		)))

		p := &mocks.MockPersistence{}
		p.On("LoadSpec", mock.Anything, "bad.json").Return(spec, nil)

		_, err := NewConverter(p).Convert(t.Context(), "bad.json", testOptions())
		assert.True(t, builder.IsMissingTransitionTarget(err))
		p.AssertNotCalled(t, "SaveDTO", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("save conflict", func(t *testing.T) {
		p := &mocks.MockPersistence{}
		p.On("LoadSpec", mock.Anything, "order.json").Return(testutil.CreateTestSpec(), nil)
		p.On("SaveDTO", mock.Anything, "order.json", mock.Anything).
			Return(persistence.NewDocumentError("SaveDTO", "order.json", persistence.ErrDTOAlreadyExists))

		_, err := NewConverter(p).Convert(t.Context(), "order.json", testOptions())
		assert.True(t, IsConflictError(err))
	})
}

func TestConverter_ConvertBatch(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(in, name), []byte(body), 0600))
	}

	write("alpha.json", `{"states": {"none": {"transitions": {"start": {"next": "done"}}}, "done": {}}}`)
	write("beta.yaml", "states:\n  none:\n    transitions:\n      go:\n        next: nowhere\n")
	write("gamma.yml", "states:\n  draft: {}\n")
	write("delta.json", `{"states": "oops"}`)

	result, err := NewConverter(file.NewPersistence(in, out)).ConvertBatch(t.Context(), testOptions())
	require.Error(t, err)

	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 2)

	assert.Equal(t, []string{"alpha.json", "gamma.yml"}, result.Converted)
	assert.Equal(t, []string{"beta.yaml", "delta.json"}, result.Failed)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)

	written := make([]string, 0, len(entries))
	for _, e := range entries {
		written = append(written, e.Name())
	}

	assert.Equal(t, []string{"alpha.json", "gamma.json"}, written)
}

func TestConverter_ConvertBatch_SameDirectoryKeepsSpecs(t *testing.T) {
	dir := t.TempDir()
	body := `{"states": {"none": {"transitions": {"start": {"next": "done"}}}, "done": {}}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "order.json"), []byte(body), 0600))

	result, err := NewConverter(file.NewPersistence(dir, dir)).ConvertBatch(t.Context(), testOptions())
	require.Error(t, err)
	assert.True(t, IsConflictError(err))
	assert.Equal(t, []string{"order.json"}, result.Failed)

	data, err := os.ReadFile(filepath.Join(dir, "order.json"))
	require.NoError(t, err)
	assert.Equal(t, body, string(data))
}

func TestConverter_ConvertBatch_AllSucceed(t *testing.T) {
	p := &mocks.MockPersistence{}
	p.On("Specs", mock.Anything).Return([]string{"a.json", "b.json"}, nil)
	p.On("LoadSpec", mock.Anything, mock.Anything).Return(testutil.CreateTestSpec(), nil)
	p.On("SaveDTO", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	result, err := NewConverter(p).ConvertBatch(t.Context(), testOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.json", "b.json"}, result.Converted)
	assert.Empty(t, result.Failed)

	p.AssertNumberOfCalls(t, "SaveDTO", 2)
}

func TestConverter_ConvertBatch_Cancelled(t *testing.T) {
	p := &mocks.MockPersistence{}
	p.On("Specs", mock.Anything).Return([]string{"a.json"}, nil)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	result, err := NewConverter(p).ConvertBatch(ctx, testOptions())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, result.Converted)
	p.AssertNotCalled(t, "LoadSpec", mock.Anything, mock.Anything)
}

func TestConverter_ConvertBatch_ListFailure(t *testing.T) {
	p := &mocks.MockPersistence{}
	p.On("Specs", mock.Anything).Return(nil, errors.New("permission denied"))

	result, err := NewConverter(p).ConvertBatch(t.Context(), testOptions())
	assert.Error(t, err)
	assert.Nil(t, result)
}
