// Package builder compiles an authoring workflow spec into the platform's
// FullWorkflowContainerDto.
//
// A build runs five ordered phases over one in-memory compilation:
//  1. the workflow metadata record,
//  2. the workflow-name guard criteria,
//  3. the base criteria (has_failed, has_succeeded, wrong_generated_content),
//  4. states, transitions, processes and error routes in document order,
//  5. the implicit "none" initial state and the final state-id reconciliation.
//
// A build is all-or-nothing: any failure returns an error and no DTO.
package builder

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dukex/workflow-dto/pkg/idgen"
	"github.com/dukex/workflow-dto/pkg/log"
	"github.com/dukex/workflow-dto/pkg/models"
	"github.com/go-playground/validator/v10"
)

// DefaultOwner is stamped as owner and user when the caller does not override them.
const DefaultOwner = "CYODA"

// Options are the compiler's construction parameters.
type Options struct {
	ModelName           string `json:"model_name"            validate:"required"`
	ModelVersion        int    `json:"model_version"         validate:"min=1"`
	WorkflowName        string `json:"workflow_name"         validate:"required"`
	CalculationNodeTags string `json:"calculation_node_tags"`
	AI                  bool   `json:"ai"`
	DefaultOwner        string `json:"default_owner"         validate:"required"`
	DefaultUser         string `json:"default_user"          validate:"required"`
}

// Option customizes a DTOBuilder.
type Option func(*DTOBuilder)

// WithIDGenerator replaces the identifier source.
func WithIDGenerator(gen idgen.Generator) Option {
	return func(b *DTOBuilder) {
		b.newID = gen
	}
}

// WithClock replaces the time source used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *DTOBuilder) {
		b.now = now
	}
}

// WithLogger replaces the builder's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *DTOBuilder) {
		b.logger = logger
	}
}

// DTOBuilder compiles authoring specs for one (model, version, workflow) triple.
// It holds configuration only; every Build call starts from empty state maps.
type DTOBuilder struct {
	opts   Options
	newID  idgen.Generator
	now    func() time.Time
	logger *slog.Logger
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// New validates opts and returns a builder.
func New(opts Options, options ...Option) (*DTOBuilder, error) {
	if opts.DefaultOwner == "" {
		opts.DefaultOwner = DefaultOwner
	}

	if opts.DefaultUser == "" {
		opts.DefaultUser = DefaultOwner
	}

	if err := validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	b := &DTOBuilder{
		opts:   opts,
		newID:  idgen.GenerateID,
		now:    time.Now,
		logger: log.WithModule("builder"),
	}

	for _, option := range options {
		option(b)
	}

	return b, nil
}

// Options returns the builder's effective options.
func (b *DTOBuilder) Options() Options {
	return b.opts
}

// WorkflowQualifiedName is "{model}:{version}:{workflow}".
func (b *DTOBuilder) WorkflowQualifiedName() string {
	return fmt.Sprintf("%s:%d:%s", b.opts.ModelName, b.opts.ModelVersion, b.opts.WorkflowName)
}

// Build compiles spec. The spec is never modified.
func (b *DTOBuilder) Build(spec *models.AuthoringSpec) (*models.FullWorkflowContainerDto, error) {
	if spec == nil {
		return nil, ErrNilSpec
	}

	c := newCompilation(b, spec)

	logger := b.logger.With("workflow", b.WorkflowQualifiedName())
	logger.Debug("Compiling workflow", "states", len(spec.StateNames()), "ai", b.opts.AI)

	c.addWorkflow()

	if err := c.addWorkflowGuard(); err != nil {
		return nil, err
	}

	if err := c.addBaseCriteria(); err != nil {
		return nil, err
	}

	if err := c.checkSyntheticNames(); err != nil {
		return nil, err
	}

	if err := c.addStates(); err != nil {
		return nil, err
	}

	c.finalizeStates()

	if err := Verify(c.dto); err != nil {
		return nil, err
	}

	logger.Debug("Compiled workflow",
		"states", len(c.dto.States),
		"transitions", len(c.dto.Transitions),
		"criterias", len(c.dto.Criterias),
		"processes", len(c.dto.Processes),
	)

	return c.dto, nil
}

func (b *DTOBuilder) timestamp() string {
	return idgen.FormatTimestamp(b.now())
}
