package loader

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// includeKey names the top-level TOML key listing files to merge underneath
// the current one.
const includeKey = "@include"

// MaxIncludeDepth bounds nested include chains.
const MaxIncludeDepth = 8

// TOMLLoader reads a TOML file, following include directives.
type TOMLLoader struct {
	fs   FileSystem
	path string
}

// NewTOMLLoaderWithFS returns a loader for path on fsys.
func NewTOMLLoaderWithFS(fsys FileSystem, path string) *TOMLLoader {
	return &TOMLLoader{fs: fsys, path: path}
}

// Load reads the configured file. A missing file yields nil, nil.
func (l *TOMLLoader) Load() (map[string]any, error) {
	return l.LoadWithIncludes(l.path, MaxIncludeDepth)
}

// LoadWithIncludes reads path and merges the files named by its include
// key beneath it. Includes are resolved relative to the including file and
// lose to its own values. depth limits the chain length.
func (l *TOMLLoader) LoadWithIncludes(path string, depth int) (map[string]any, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrIncludeDepth, path)
	}

	data, err := readConfig(l.fs, path)
	if data == nil || err != nil {
		return nil, err
	}
	doc, err := decodeTOML(path, data)
	if err != nil {
		return nil, err
	}

	raw, ok := doc[includeKey]
	if !ok {
		return doc, nil
	}
	delete(doc, includeKey)

	names, err := includeNames(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	base := map[string]any{}
	for _, name := range names {
		if !filepath.IsAbs(name) {
			name = filepath.Join(filepath.Dir(path), name)
		}
		inc, err := l.LoadWithIncludes(name, depth-1)
		if err != nil {
			return nil, fmt.Errorf("include %s: %w", name, err)
		}
		base = DeepMerge(base, inc)
	}
	return DeepMerge(base, doc), nil
}

func decodeTOML(path string, data []byte) (map[string]any, error) {
	var doc map[string]any
	err := toml.Unmarshal(data, &doc)
	if err == nil {
		return doc, nil
	}

	perr := &ParseError{Path: path, Message: err.Error(), Err: err}
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		perr.Line, perr.Column = derr.Position()
	}
	return nil, perr
}

// includeNames accepts a single file name or a list of names.
func includeNames(v any) ([]string, error) {
	if s, ok := v.(string); ok {
		return []string{s}, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: want a string or list of strings, got %T", includeKey, v)
	}
	names := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%s: entry %v is not a string", includeKey, item)
		}
		names = append(names, s)
	}
	return names, nil
}
