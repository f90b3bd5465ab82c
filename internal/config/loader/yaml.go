package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// YAMLLoader reads a YAML file.
type YAMLLoader struct {
	fs   FileSystem
	path string
}

// NewYAMLLoaderWithFS returns a loader for path on fsys.
func NewYAMLLoaderWithFS(fsys FileSystem, path string) *YAMLLoader {
	return &YAMLLoader{fs: fsys, path: path}
}

// Load reads the configured file. A missing file yields nil, nil.
func (l *YAMLLoader) Load() (map[string]any, error) {
	data, err := readConfig(l.fs, l.path)
	if data == nil || err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: l.path, Message: err.Error(), Err: err}
	}
	return normalize(doc), nil
}

// normalize converts the map[any]any values yaml produces for non-string
// keys so DeepMerge sees one map type.
func normalize(m map[string]any) map[string]any {
	for k, v := range m {
		m[k] = normalizeValue(v)
	}
	return m
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return normalize(t)
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeValue(val)
		}
		return out
	case []any:
		for i := range t {
			t[i] = normalizeValue(t[i])
		}
	}
	return v
}
