package actions

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Loader supplies raw config text for custom action definitions. An absent
// source is not an error: Load returns empty text and the registry simply
// carries no custom overrides.
type Loader interface {
	Load() (string, error)
}

// FileLoader reads the config from a path on disk.
type FileLoader struct {
	Path string
}

func (l FileLoader) Load() (string, error) {
	if l.Path == "" {
		return "", nil
	}
	data, err := os.ReadFile(l.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read action config %s: %w", l.Path, err)
	}
	return string(data), nil
}

// StaticLoader serves fixed text, mainly for tests and embedded configs.
type StaticLoader string

func (l StaticLoader) Load() (string, error) { return string(l), nil }
