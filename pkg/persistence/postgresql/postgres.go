// Package postgresql stores authoring specs and compiled workflow DTOs in PostgreSQL.
package postgresql

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dukex/workflow-dto/pkg/authoring"
	"github.com/dukex/workflow-dto/pkg/models"
	"github.com/dukex/workflow-dto/pkg/persistence"
	"github.com/dukex/workflow-dto/pkg/persistence/sqlbase"
	_ "github.com/lib/pq"
)

// Persistence implements the persistence layer for PostgreSQL.
type Persistence struct {
	db        *sql.DB
	logger    *slog.Logger
	overwrite bool
}

// Option customizes a Persistence.
type Option func(*Persistence)

// WithOverwrite controls whether SaveDTO replaces a stored DTO. Defaults to true.
func WithOverwrite(overwrite bool) Option {
	return func(p *Persistence) {
		p.overwrite = overwrite
	}
}

// NewPersistence connects to databaseURL and migrates the schema.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string, options ...Option) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		_ = database.Close()

		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	postgres := &Persistence{
		db:        database,
		logger:    logger,
		overwrite: true,
	}

	for _, option := range options {
		option(postgres)
	}

	err = sqlbase.NewMigrationManager(logger, database, migrations()).RunMigrations(ctx)
	if err != nil {
		_ = database.Close()

		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return postgres, nil
}

// Close closes the database connection.
func (p *Persistence) Close(_ context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

// HealthCheck verifies the database connection is healthy.
func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// Specs lists stored spec names in ascending order.
func (p *Persistence) Specs(ctx context.Context) ([]string, error) {
	rows, err := p.db.QueryContext(ctx, "SELECT name FROM authoring_specs ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query authoring specs: %w", err)
	}

	defer func() {
		_ = rows.Close()
	}()

	names := make([]string, 0)

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan authoring spec name: %w", err)
		}

		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate authoring specs: %w", err)
	}

	return names, nil
}

// LoadSpec decodes the stored spec called name.
func (p *Persistence) LoadSpec(ctx context.Context, name string) (*models.AuthoringSpec, error) {
	var (
		format string
		body   string
	)

	err := p.db.QueryRowContext(ctx, "SELECT format, body FROM authoring_specs WHERE name = $1", name).
		Scan(&format, &body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewDocumentError("LoadSpec", name, persistence.ErrSpecNotFound)
		}

		return nil, fmt.Errorf("failed to query authoring spec %s: %w", name, err)
	}

	return authoring.Decode([]byte(body), authoring.Format(format))
}

// SaveSpec validates body and stores it under name, replacing any previous version.
func (p *Persistence) SaveSpec(ctx context.Context, name string, format authoring.Format, body []byte) error {
	if name == "" {
		return persistence.NewDocumentError("SaveSpec", name, persistence.ErrInvalidName)
	}

	if _, err := authoring.Decode(body, format); err != nil {
		return err
	}

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO authoring_specs (name, format, body)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET format = EXCLUDED.format, body = EXCLUDED.body, updated_at = NOW()`,
		name, string(format), string(body),
	)
	if err != nil {
		return fmt.Errorf("failed to save authoring spec %s: %w", name, err)
	}

	p.logger.DebugContext(ctx, "Saved authoring spec", "name", name, "format", format)

	return nil
}

// SaveDTO stores dto under the spec name it was compiled from, in its file encoding.
func (p *Persistence) SaveDTO(ctx context.Context, name string, dto *models.FullWorkflowContainerDto) error {
	if name == "" {
		return persistence.NewDocumentError("SaveDTO", name, persistence.ErrInvalidName)
	}

	var buf bytes.Buffer
	if err := dto.Encode(&buf); err != nil {
		return fmt.Errorf("failed to encode workflow dto: %w", err)
	}

	workflowName := ""
	if len(dto.Workflow) > 0 {
		workflowName = dto.Workflow[0].Name
	}

	query := `
		INSERT INTO workflow_dtos (name, workflow_name, body, state_count, transition_count)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO NOTHING`
	if p.overwrite {
		query = `
		INSERT INTO workflow_dtos (name, workflow_name, body, state_count, transition_count)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name) DO UPDATE SET
			workflow_name = EXCLUDED.workflow_name,
			body = EXCLUDED.body,
			state_count = EXCLUDED.state_count,
			transition_count = EXCLUDED.transition_count,
			updated_at = NOW()`
	}

	result, err := p.db.ExecContext(ctx, query, name, workflowName, buf.String(), len(dto.States), len(dto.Transitions))
	if err != nil {
		return fmt.Errorf("failed to save workflow dto %s: %w", name, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to save workflow dto %s: %w", name, err)
	}

	if affected == 0 {
		return persistence.NewDocumentError("SaveDTO", name, persistence.ErrDTOAlreadyExists)
	}

	return nil
}

// DTO returns the stored encoding of the DTO compiled from the spec called name.
func (p *Persistence) DTO(ctx context.Context, name string) ([]byte, error) {
	var body string

	err := p.db.QueryRowContext(ctx, "SELECT body FROM workflow_dtos WHERE name = $1", name).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewDocumentError("DTO", name, persistence.ErrDTONotFound)
		}

		return nil, fmt.Errorf("failed to query workflow dto %s: %w", name, err)
	}

	return []byte(body), nil
}
