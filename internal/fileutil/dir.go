package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// PrepareParent creates the directory that will hold path, parents
// included, so the file itself can be created next. Mode 0755; a
// parent that already exists is fine.
func PrepareParent(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create parent directory %s: %w", dir, err)
	}
	return nil
}
