package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/dukex/workflow-dto/pkg/authoring"
	"github.com/dukex/workflow-dto/pkg/cmd"
	"github.com/dukex/workflow-dto/pkg/log"
	"github.com/dukex/workflow-dto/pkg/mapping"
	"github.com/dukex/workflow-dto/pkg/metrics"
	"github.com/dukex/workflow-dto/pkg/persistence/file"
	"github.com/dukex/workflow-dto/pkg/persistence/postgresql"
	"github.com/dukex/workflow-dto/pkg/services"
	"github.com/hashicorp/go-multierror"
	cli "github.com/urfave/cli/v3"
)

const stdoutPath = "-"

var errSourceRequired = errors.New("either --input-dir or --database-url is required")

func databaseURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "database-url",
		Usage:   "PostgreSQL connection URL holding specs and DTOs",
		Sources: cli.EnvVars("DATABASE_URL"),
	}
}

// NewConvertCommand compiles a single authoring file.
func NewConvertCommand() *cli.Command {
	return &cli.Command{
		Name:  "convert",
		Usage: "Compile one authoring spec into a workflow DTO",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Authoring spec file (.json, .yaml, .yml)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "DTO output file, '-' for stdout",
				Value:   stdoutPath,
			},
		}, builderFlags(true)...),
		Action: func(ctx context.Context, command *cli.Command) error {
			logger := log.WithModule("convert")

			converter, cleanup := newConverter(ctx, command, logger, nil, nil)
			defer cleanup()

			input := command.String("input")

			opts := builderOptions(command)
			if opts.WorkflowName == "" {
				opts.WorkflowName = services.WorkflowNameFromPath(input)
			}

			spec, err := file.ReadSpec(input)
			if err != nil {
				return err
			}

			dto, err := converter.Compile(ctx, spec, opts)
			if err != nil {
				return err
			}

			output := command.String("output")
			if output == stdoutPath {
				return dto.Encode(command.Root().Writer)
			}

			if err := file.WriteDTO(output, dto); err != nil {
				return err
			}

			logger.InfoContext(ctx, "Wrote workflow dto", "input", input, "output", output, "states", len(dto.States))

			return nil
		},
	}
}

// NewBatchCommand compiles every spec of a directory or database.
func NewBatchCommand() *cli.Command {
	return &cli.Command{
		Name:  "batch",
		Usage: "Compile every authoring spec in a directory or database",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "input-dir",
				Usage:   "Directory holding authoring specs",
				Sources: cli.EnvVars("SPEC_DIR"),
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Usage:   "Directory receiving one {name}.json DTO per spec",
				Sources: cli.EnvVars("OUTPUT_DIR"),
			},
			databaseURLFlag(),
			&cli.BoolFlag{
				Name:  "overwrite",
				Usage: "Replace existing DTOs",
				Value: true,
			},
		}, builderFlags(false)...),
		Action: func(ctx context.Context, command *cli.Command) error {
			logger := log.WithModule("batch")

			source := command.String("database-url")
			if source == "" {
				source = command.String("input-dir")
			}

			if source == "" {
				return errSourceRequired
			}

			p, err := cmd.NewPersistence(ctx, logger, source, command.String("output-dir"), command.Bool("overwrite"))
			if err != nil {
				return err
			}

			defer func() {
				if err := p.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			converter, cleanup := newConverter(ctx, command, logger, p, nil)
			defer cleanup()

			result, err := converter.ConvertBatch(ctx, builderOptions(command))
			if result != nil {
				_, _ = fmt.Fprintf(command.Root().Writer, "converted: %d, failed: %d\n",
					len(result.Converted), len(result.Failed))
			}

			return err
		},
	}
}

// NewImportCommand stores a directory of authoring files in PostgreSQL.
func NewImportCommand() *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Store every authoring spec of a directory in the database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input-dir",
				Usage:    "Directory holding authoring specs",
				Required: true,
				Sources:  cli.EnvVars("SPEC_DIR"),
			},
			func() cli.Flag {
				flag := databaseURLFlag()
				flag.Required = true

				return flag
			}(),
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			logger := log.WithModule("import")

			store, err := postgresql.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := store.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			imported, err := importSpecs(ctx, store, command.String("input-dir"))

			_, _ = fmt.Fprintf(command.Root().Writer, "imported: %d\n", imported)

			return err
		},
	}
}

func importSpecs(ctx context.Context, store *postgresql.Persistence, dir string) (int, error) {
	names, err := file.NewPersistence(dir, dir).Specs(ctx)
	if err != nil {
		return 0, err
	}

	var (
		errs     *multierror.Error
		imported int
	)

	for _, name := range names {
		path := filepath.Join(dir, name)

		format, err := authoring.FormatFromPath(path)
		if err != nil {
			errs = multierror.Append(errs, err)

			continue
		}

		body, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			errs = multierror.Append(errs, err)

			continue
		}

		if err := store.SaveSpec(ctx, services.WorkflowNameFromPath(name), format, body); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", name, err))

			continue
		}

		imported++
	}

	return imported, errs.ErrorOrNil()
}

// NewValidateCommand compiles a spec without writing anything.
func NewValidateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Check an authoring spec against the schema and compile it as a dry run",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Authoring spec file (.json, .yaml, .yml)",
				Required: true,
			},
		}, builderFlags(true)...),
		Action: func(ctx context.Context, command *cli.Command) error {
			converter, cleanup := newConverter(ctx, command, log.WithModule("validate"), nil, nil)
			defer cleanup()

			input := command.String("input")

			opts := builderOptions(command)
			if opts.WorkflowName == "" {
				opts.WorkflowName = services.WorkflowNameFromPath(input)
			}

			spec, err := file.ReadSpec(input)
			if err != nil {
				return err
			}

			dto, err := converter.Compile(ctx, spec, opts)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(command.Root().Writer,
				"%s is valid: workflow %s, %d states, %d transitions, %d criterias, %d processes\n",
				input, dto.Workflow[0].Name, len(dto.States), len(dto.Transitions), len(dto.Criterias), len(dto.Processes))

			return err
		},
	}
}

// NewOperationsCommand prints the operator phrase table.
func NewOperationsCommand() *cli.Command {
	return &cli.Command{
		Name:  "operations",
		Usage: "List the supported condition operators",
		Action: func(_ context.Context, command *cli.Command) error {
			return printOperations(command.Root().Writer)
		},
	}
}

func printOperations(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintln(tw, "PHRASE\tOPERATION\tBEAN\tRANGE")
	for _, op := range mapping.Operations() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%t\n", op.Phrase, op.Operation, op.Bean, op.Range)
	}

	return tw.Flush()
}

// NewServeCommand runs the HTTP API.
func NewServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the conversion HTTP API",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "spec-dir",
				Usage:   "Spec directory checked by the health endpoint when no database is configured",
				Value:   ".",
				Sources: cli.EnvVars("SPEC_DIR"),
			},
			databaseURLFlag(),
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			logger := log.WithModule("api")

			logger.InfoContext(ctx, "Initializing workflow-dto API")

			source := command.String("database-url")
			if source == "" {
				source = command.String("spec-dir")
			}

			p, err := cmd.NewPersistence(ctx, logger, source, source, false)
			if err != nil {
				return err
			}

			defer func() {
				if err := p.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			recorder := metrics.NewPrometheusRecorder()

			converter, cleanup := newConverter(ctx, command, logger, p, recorder)
			defer cleanup()

			return NewAPI(logger, converter, recorder.Registry()).Start(command.Int("port"))
		},
	}
}
