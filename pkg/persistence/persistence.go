// Package persistence provides the storage abstraction for authoring specs and compiled DTOs.
package persistence

import (
	"context"

	"github.com/dukex/workflow-dto/pkg/models"
)

// Persistence reads authoring specs and stores compiled workflow DTOs.
type Persistence interface {
	// Specs lists the names of the authoring specs available for conversion.
	Specs(ctx context.Context) ([]string, error)
	LoadSpec(ctx context.Context, name string) (*models.AuthoringSpec, error)
	SaveDTO(ctx context.Context, name string, dto *models.FullWorkflowContainerDto) error
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
