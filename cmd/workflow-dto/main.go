// Package main provides the workflow-dto command line tool.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/dukex/workflow-dto/pkg/log"
	"github.com/joho/godotenv"
	cli "github.com/urfave/cli/v3"
)

func main() {
	loadDotEnv(os.Getenv("WORKFLOW_DTO_ENV_FILE"))

	if err := NewRootCommand().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// NewRootCommand assembles the CLI.
func NewRootCommand() *cli.Command {
	return &cli.Command{
		Name:                  "workflow-dto",
		Usage:                 "Compile authoring workflow specs into platform workflow DTOs",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log format (text, json)",
				Value:   "text",
				Sources: cli.EnvVars("LOG_FORMAT"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export conversion spans over OTLP/HTTP",
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
		},
		Before: func(ctx context.Context, command *cli.Command) (context.Context, error) {
			log.Setup(command.String("log-level"), command.String("log-format"))

			return ctx, nil
		},
		Commands: []*cli.Command{
			NewConvertCommand(),
			NewBatchCommand(),
			NewImportCommand(),
			NewValidateCommand(),
			NewOperationsCommand(),
			NewServeCommand(),
		},
	}
}

// loadDotEnv loads path, or ./.env when path is empty. A missing file is not an error.
func loadDotEnv(path string) {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			slog.Warn("Env file not found or could not be loaded", "path", path, "error", err)
		}

		return
	}

	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}
}
