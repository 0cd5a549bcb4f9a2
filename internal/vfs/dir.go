package vfs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Dir serves files from the host file system. Paths are interpreted
// relative to the process working directory, matching the repository
// relative paths used by the snapshot provider.
type Dir struct{}

// Load reads the file at path.
func (Dir) Load(path string) ([]byte, error) {
	data, err := os.ReadFile(filepath.FromSlash(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// Keep the original error in the chain so errors.Is still
			// matches fs.ErrNotExist.
			return nil, fmt.Errorf("loading %s: %w: %w", path, ErrNotFound, err)
		}
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return data, nil
}
