// Package cmd holds wiring shared by the command line entry points.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dukex/workflow-dto/pkg/persistence"
	"github.com/dukex/workflow-dto/pkg/persistence/file"
	"github.com/dukex/workflow-dto/pkg/persistence/postgresql"
)

// ErrOutputDirRequired is returned for a file store without a DTO directory.
var ErrOutputDirRequired = errors.New("output directory is required for file persistence")

var supportedPersistenceProviders = []string{"file", "postgres", "postgresql"}

// NewPersistence opens the store named by databaseURL. postgres:// and postgresql:// URLs select
// PostgreSQL; anything else is a spec directory, with DTOs written under outputDir.
func NewPersistence(
	ctx context.Context,
	logger *slog.Logger,
	databaseURL string,
	outputDir string,
	overwrite bool,
) (persistence.Persistence, error) {
	switch ParsePersistenceProvider(databaseURL) {
	case "postgres", "postgresql":
		p, err := postgresql.NewPersistence(ctx, logger, databaseURL, postgresql.WithOverwrite(overwrite))
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL persistence: %w", err)
		}

		return p, nil
	default:
		if outputDir == "" {
			return nil, ErrOutputDirRequired
		}

		return file.NewPersistence(databaseURL, outputDir, file.WithOverwrite(overwrite)), nil
	}
}

// ParsePersistenceProvider returns the URL scheme when it names a supported store, "file" otherwise.
func ParsePersistenceProvider(databaseURL string) string {
	parts := strings.Split(databaseURL, "://")

	if len(parts) < 2 {
		return "file"
	}

	provider := parts[0]
	for _, supported := range supportedPersistenceProviders {
		if provider == supported {
			return provider
		}
	}

	return "file"
}
