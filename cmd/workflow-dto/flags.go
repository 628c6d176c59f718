package main

import (
	"context"
	"log/slog"

	"github.com/dukex/workflow-dto/pkg/builder"
	"github.com/dukex/workflow-dto/pkg/metrics"
	"github.com/dukex/workflow-dto/pkg/otelhelper"
	"github.com/dukex/workflow-dto/pkg/persistence"
	"github.com/dukex/workflow-dto/pkg/services"
	cli "github.com/urfave/cli/v3"
)

const serviceName = "workflow-dto"

// builderFlags are shared by every command that compiles specs.
func builderFlags(withWorkflowName bool) []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:     "model-name",
			Usage:    "Entity model name",
			Required: true,
			Sources:  cli.EnvVars("MODEL_NAME"),
		},
		&cli.IntFlag{
			Name:    "model-version",
			Usage:   "Entity model version",
			Value:   1,
			Sources: cli.EnvVars("MODEL_VERSION"),
		},
		&cli.StringFlag{
			Name:    "calculation-node-tags",
			Usage:   "Tags for filtering calculation nodes (separated by ',' or ';')",
			Sources: cli.EnvVars("CALCULATION_NODE_TAGS"),
		},
		&cli.BoolFlag{
			Name:    "ai",
			Usage:   "Add manual_retry and fail transitions to every state",
			Sources: cli.EnvVars("AI_MODE"),
		},
		&cli.StringFlag{
			Name:    "owner",
			Usage:   "Owner stamped on every record",
			Value:   builder.DefaultOwner,
			Sources: cli.EnvVars("DTO_OWNER"),
		},
		&cli.StringFlag{
			Name:    "user",
			Usage:   "User stamped on criteria and processes",
			Value:   builder.DefaultOwner,
			Sources: cli.EnvVars("DTO_USER"),
		},
	}

	if withWorkflowName {
		flags = append(flags, &cli.StringFlag{
			Name:    "workflow-name",
			Usage:   "Workflow name (defaults to the input file name)",
			Sources: cli.EnvVars("WORKFLOW_NAME"),
		})
	}

	return flags
}

func builderOptions(command *cli.Command) builder.Options {
	return builder.Options{
		ModelName:           command.String("model-name"),
		ModelVersion:        command.Int("model-version"),
		WorkflowName:        command.String("workflow-name"),
		CalculationNodeTags: command.String("calculation-node-tags"),
		AI:                  command.Bool("ai"),
		DefaultOwner:        command.String("owner"),
		DefaultUser:         command.String("user"),
	}
}

// newConverter wires tracing and metrics into a converter. The returned func releases the
// tracer provider.
func newConverter(
	ctx context.Context,
	command *cli.Command,
	logger *slog.Logger,
	p persistence.Persistence,
	recorder metrics.Recorder,
) (*services.Converter, func()) {
	options := []services.ConverterOption{services.WithLogger(logger)}
	if recorder != nil {
		options = append(options, services.WithRecorder(recorder))
	}

	cleanup := func() {}

	if command.Bool("tracing") {
		tracer, shutdown, err := otelhelper.NewTracer(ctx, serviceName)
		if err != nil {
			logger.Warn("Tracing disabled", "error", err)
		} else {
			options = append(options, services.WithTracer(tracer))
			cleanup = func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error("Failed to shutdown tracer provider", "error", err)
				}
			}
		}
	}

	return services.NewConverter(p, options...), cleanup
}
