package services

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/dukex/workflow-dto/pkg/builder"
	"github.com/dukex/workflow-dto/pkg/log"
	"github.com/dukex/workflow-dto/pkg/metrics"
	"github.com/dukex/workflow-dto/pkg/models"
	"github.com/dukex/workflow-dto/pkg/otelhelper"
	"github.com/dukex/workflow-dto/pkg/persistence"
	"github.com/hashicorp/go-multierror"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Converter compiles authoring specs into workflow DTOs and stores the results.
type Converter struct {
	persistence    persistence.Persistence
	recorder       metrics.Recorder
	tracer         trace.Tracer
	logger         *slog.Logger
	builderOptions []builder.Option
}

// ConverterOption customizes a Converter.
type ConverterOption func(*Converter)

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder metrics.Recorder) ConverterOption {
	return func(c *Converter) {
		c.recorder = recorder
	}
}

// WithTracer sets the tracer used for conversion spans.
func WithTracer(tracer trace.Tracer) ConverterOption {
	return func(c *Converter) {
		c.tracer = tracer
	}
}

// WithLogger sets the converter's logger.
func WithLogger(logger *slog.Logger) ConverterOption {
	return func(c *Converter) {
		c.logger = logger
	}
}

// WithBuilderOptions passes options to every builder the converter creates.
func WithBuilderOptions(options ...builder.Option) ConverterOption {
	return func(c *Converter) {
		c.builderOptions = append(c.builderOptions, options...)
	}
}

// NewConverter creates a converter. persistence may be nil when only Compile is used.
func NewConverter(persistence persistence.Persistence, options ...ConverterOption) *Converter {
	c := &Converter{
		persistence: persistence,
		recorder:    metrics.NoopRecorder{},
		tracer:      otelhelper.NoopTracer(),
		logger:      log.WithModule("converter"),
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// HealthCheck checks the health of the persistence layer.
func (c *Converter) HealthCheck(ctx context.Context) (string, bool) {
	if c.persistence == nil {
		return "Persistence layer not initialized", false
	}

	err := c.persistence.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// WorkflowNameFromPath derives a workflow name from a spec file name: its base without extension.
func WorkflowNameFromPath(path string) string {
	base := filepath.Base(path)

	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Compile builds spec with opts without touching persistence.
func (c *Converter) Compile(ctx context.Context, spec *models.AuthoringSpec, opts builder.Options) (*models.FullWorkflowContainerDto, error) {
	_, span := otelhelper.StartSpan(ctx, c.tracer, "workflow.compile",
		attribute.String(otelhelper.ModelNameKey, opts.ModelName),
		attribute.Int(otelhelper.ModelVersionKey, opts.ModelVersion),
		attribute.String(otelhelper.WorkflowNameKey, opts.WorkflowName),
		attribute.Bool(otelhelper.AIModeKey, opts.AI),
	)
	defer span.End()

	start := time.Now()

	dto, err := c.build(spec, opts)
	if err != nil {
		otelhelper.SetError(span, err)
		c.recorder.RecordConversion(opts.WorkflowName, metrics.StatusFailure, time.Since(start), nil)

		return nil, classify("Compile", err)
	}

	span.SetAttributes(
		attribute.Int(otelhelper.StateCountKey, len(dto.States)),
		attribute.Int(otelhelper.TransitionCountKey, len(dto.Transitions)),
	)
	c.recorder.RecordConversion(opts.WorkflowName, metrics.StatusSuccess, time.Since(start), dto)

	return dto, nil
}

func (c *Converter) build(spec *models.AuthoringSpec, opts builder.Options) (*models.FullWorkflowContainerDto, error) {
	b, err := builder.New(opts, append([]builder.Option{builder.WithLogger(c.logger)}, c.builderOptions...)...)
	if err != nil {
		return nil, err
	}

	return b.Build(spec)
}

// Convert loads the named spec, compiles it and saves the DTO under the same name. An empty
// opts.WorkflowName is derived from the spec name.
func (c *Converter) Convert(ctx context.Context, name string, opts builder.Options) (*models.FullWorkflowContainerDto, error) {
	if strings.TrimSpace(name) == "" {
		return nil, NewValidationError("Convert", CodeInvalidSpec, "spec name is required", ErrSpecNameEmpty)
	}

	if opts.WorkflowName == "" {
		opts.WorkflowName = WorkflowNameFromPath(name)
	}

	ctx, span := otelhelper.StartSpan(ctx, c.tracer, "workflow.convert", attribute.String(otelhelper.SpecNameKey, name))
	defer span.End()

	logger := c.logger.With("spec", name, "workflow", opts.WorkflowName)

	spec, err := c.persistence.LoadSpec(ctx, name)
	if err != nil {
		otelhelper.SetError(span, err)
		logger.Error("Failed to load authoring spec", "error", err)

		return nil, classify("Convert", err)
	}

	dto, err := c.Compile(ctx, spec, opts)
	if err != nil {
		otelhelper.SetError(span, err)
		logger.Error("Failed to compile workflow", "error", err)

		return nil, err
	}

	if err := c.persistence.SaveDTO(ctx, name, dto); err != nil {
		otelhelper.SetError(span, err)
		logger.Error("Failed to save workflow dto", "error", err)

		return nil, classify("Convert", err)
	}

	logger.Info("Converted workflow",
		"states", len(dto.States),
		"transitions", len(dto.Transitions),
		"criterias", len(dto.Criterias),
		"processes", len(dto.Processes),
	)

	return dto, nil
}

// BatchResult lists the spec names a batch converted and the ones it skipped.
type BatchResult struct {
	Converted []string `json:"converted"`
	Failed    []string `json:"failed"`
}

// ConvertBatch converts every spec the persistence lists. Each spec's workflow name is its file
// base name. Failures do not stop the batch; they are returned together as a multierror and
// no DTO is written for a failed spec.
func (c *Converter) ConvertBatch(ctx context.Context, opts builder.Options) (*BatchResult, error) {
	names, err := c.persistence.Specs(ctx)
	if err != nil {
		return nil, classify("ConvertBatch", err)
	}

	ctx, span := otelhelper.StartSpan(ctx, c.tracer, "workflow.convert_batch", attribute.Int(otelhelper.BatchSizeKey, len(names)))
	defer span.End()

	result := &BatchResult{Converted: []string{}, Failed: []string{}}

	var errs *multierror.Error

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			errs = multierror.Append(errs, err)

			break
		}

		specOpts := opts
		specOpts.WorkflowName = WorkflowNameFromPath(name)

		if _, err := c.Convert(ctx, name, specOpts); err != nil {
			result.Failed = append(result.Failed, name)
			errs = multierror.Append(errs, err)

			continue
		}

		result.Converted = append(result.Converted, name)
	}

	c.logger.Info("Batch conversion finished", "converted", len(result.Converted), "failed", len(result.Failed))

	if err := errs.ErrorOrNil(); err != nil {
		otelhelper.SetError(span, err)

		return result, err
	}

	return result, nil
}
