// Package loader reads configuration sources into nested maps.
//
// Files are parsed by extension (TOML or YAML) and environment variables with
// a common prefix are mapped onto dotted setting paths. Layers are combined
// with DeepMerge, later layers winning.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Loader produces one configuration layer. A source that does not exist
// yields nil, nil.
type Loader interface {
	Load() (map[string]any, error)
}

// FileSystem is the read access loaders need.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

type osFS struct{}

func (osFS) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

// DefaultFS reads from the host file system.
func DefaultFS() FileSystem { return osFS{} }

// readConfig returns nil, nil for a missing file.
func readConfig(fsys FileSystem, path string) ([]byte, error) {
	data, err := fsys.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("read %s: %w", path, err)
	case data == nil:
		return []byte{}, nil
	}
	return data, nil
}

// Format identifies a configuration file syntax.
type Format string

// Supported formats.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

var formatsByExt = map[string]Format{
	".toml": FormatTOML,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
}

// FormatOf returns the format implied by the file extension.
func FormatOf(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := formatsByExt[ext]; ok {
		return f, nil
	}
	return "", fmt.Errorf("unsupported config format %q", ext)
}

// ForFile returns the loader for path, chosen by extension. A nil fsys
// reads from the host.
func ForFile(fsys FileSystem, path string) (Loader, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	if fsys == nil {
		fsys = DefaultFS()
	}
	if format == FormatYAML {
		return NewYAMLLoaderWithFS(fsys, path), nil
	}
	return NewTOMLLoaderWithFS(fsys, path), nil
}
