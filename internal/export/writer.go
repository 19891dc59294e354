package export

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteArtifact persists a rendered artifact into the exports directory and
// returns its full path. Stands in for the browser download: the file lands
// where the user can pick it up.
func WriteArtifact(exportsDir, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(exportsDir, 0o755); err != nil {
		return "", fmt.Errorf("export: create exports dir: %w", err)
	}
	path := filepath.Join(exportsDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("export: write %s: %w", filename, err)
	}
	return path, nil
}
