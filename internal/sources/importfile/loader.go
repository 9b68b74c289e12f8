// Package importfile loads bookmark bulk-import YAML files and maps their
// entries onto acquisition requests.
package importfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader handles loading and parsing of an import YAML file.
type Loader struct {
	filePath string
}

// NewLoader creates a loader for the given file path.
func NewLoader(filePath string) *Loader {
	return &Loader{
		filePath: filePath,
	}
}

// Load reads and parses the import file.
func (l *Loader) Load() (*File, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read import file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse import yaml: %w", err)
	}

	if len(f.Bookmarks) == 0 {
		return nil, fmt.Errorf("no bookmarks found in import file")
	}
	return &f, nil
}
