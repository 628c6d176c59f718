package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dukex/workflow-dto/pkg/authoring"
	"github.com/dukex/workflow-dto/pkg/models"
	"github.com/dukex/workflow-dto/pkg/persistence"
)

// ReadSpec reads an authoring spec from path. The extension selects JSON or YAML decoding.
func ReadSpec(path string) (*models.AuthoringSpec, error) {
	format, err := authoring.FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	body, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", persistence.ErrSpecNotFound, path)
		}

		return nil, fmt.Errorf("failed to read authoring spec %s: %w", path, err)
	}

	return authoring.Decode(body, format)
}

// WriteDTO writes dto to path through a temporary file in the same directory, so readers never
// observe a partially written DTO.
func WriteDTO(path string, dto *models.FullWorkflowContainerDto) (err error) {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = dto.Encode(tmp); err != nil {
		return fmt.Errorf("failed to encode workflow dto: %w", err)
	}

	if err = tmp.Chmod(0600); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to flush workflow dto: %w", err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move workflow dto into place: %w", err)
	}

	return nil
}
