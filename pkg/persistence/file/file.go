// Package file provides file-based persistence for authoring specs and compiled DTOs.
package file

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dukex/workflow-dto/pkg/authoring"
	"github.com/dukex/workflow-dto/pkg/models"
	"github.com/dukex/workflow-dto/pkg/persistence"
)

// Persistence implements the persistence.Persistence interface using the file system.
// Specs are read from specRoot and DTOs are written to dtoRoot as "{name}.json".
type Persistence struct {
	specRoot  string
	dtoRoot   string
	overwrite bool
}

// Option customizes a file Persistence.
type Option func(*Persistence)

// WithOverwrite allows SaveDTO to replace existing output files.
func WithOverwrite(overwrite bool) Option {
	return func(fp *Persistence) {
		fp.overwrite = overwrite
	}
}

// NewPersistence creates a file persistence reading specs from specRoot and writing DTOs to
// dtoRoot. Both accept an optional file:// prefix.
func NewPersistence(specRoot, dtoRoot string, options ...Option) persistence.Persistence {
	fp := &Persistence{
		specRoot:  cleanRoot(specRoot),
		dtoRoot:   cleanRoot(dtoRoot),
		overwrite: true,
	}

	for _, option := range options {
		option(fp)
	}

	return fp
}

func cleanRoot(root string) string {
	return filepath.Clean(strings.Replace(root, "file://", "", 1))
}

// Close performs any necessary cleanup. For file-based persistence, there is nothing to clean up.
func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck checks that the spec root exists.
func (fp *Persistence) HealthCheck(_ context.Context) error {
	info, err := os.Stat(fp.specRoot)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", fp.specRoot)
	}

	return nil
}

// Specs returns the JSON and YAML files directly under the spec root, sorted by name.
func (fp *Persistence) Specs(_ context.Context) ([]string, error) {
	entries, err := fs.ReadDir(os.DirFS(fp.specRoot), ".")
	if err != nil {
		return nil, fmt.Errorf("failed to list authoring specs: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !authoring.IsSupportedPath(entry.Name()) {
			continue
		}

		names = append(names, entry.Name())
	}

	sort.Strings(names)

	return names, nil
}

// LoadSpec reads and decodes the named spec file.
func (fp *Persistence) LoadSpec(_ context.Context, name string) (*models.AuthoringSpec, error) {
	path, err := fp.resolve(fp.specRoot, name)
	if err != nil {
		return nil, persistence.NewDocumentError("LoadSpec", name, err)
	}

	spec, err := ReadSpec(path)
	if err != nil {
		return nil, persistence.NewDocumentError("LoadSpec", name, err)
	}

	return spec, nil
}

// SaveDTO writes dto to "{name}.json" under the DTO root. A name with an extension keeps only
// its base.
func (fp *Persistence) SaveDTO(_ context.Context, name string, dto *models.FullWorkflowContainerDto) error {
	path, err := fp.resolve(fp.dtoRoot, strings.TrimSuffix(name, filepath.Ext(name))+".json")
	if err != nil {
		return persistence.NewDocumentError("SaveDTO", name, err)
	}

	if fp.isSpecPath(path) {
		return persistence.NewDocumentError("SaveDTO", name, persistence.ErrOutputIsSpec)
	}

	if !fp.overwrite {
		if _, err := os.Stat(path); err == nil {
			return persistence.NewDocumentError("SaveDTO", name, persistence.ErrDTOAlreadyExists)
		}
	}

	if err := os.MkdirAll(fp.dtoRoot, 0750); err != nil {
		return persistence.NewDocumentError("SaveDTO", name, fmt.Errorf("failed to create output directory: %w", err))
	}

	if err := WriteDTO(path, dto); err != nil {
		return persistence.NewDocumentError("SaveDTO", name, err)
	}

	return nil
}

// isSpecPath reports whether path is a file Specs would list. DTOs are always ".json", so a DTO
// root equal to the spec root would replace the specs it was compiled from.
func (fp *Persistence) isSpecPath(path string) bool {
	if !authoring.IsSupportedPath(path) {
		return false
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return false
	}

	specRoot, err := filepath.Abs(fp.specRoot)
	if err != nil {
		return false
	}

	return dir == specRoot
}

func (fp *Persistence) resolve(root, name string) (string, error) {
	if name == "" || !filepath.IsLocal(name) {
		return "", fmt.Errorf("%w: %q", persistence.ErrInvalidName, name)
	}

	return filepath.Join(root, name), nil
}
