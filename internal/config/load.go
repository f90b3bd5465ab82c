package config

import (
	"fmt"
	"maps"
	"reflect"
	"slices"

	"github.com/dshills/pagecraft/internal/config/loader"
)

// Source names the layer a setting came from.
type Source string

// Layers in increasing precedence.
const (
	SourceDefault Source = "default"
	SourceFile    Source = "file"
	SourceEnv     Source = "env"
	SourceFlag    Source = "flag"
)

// Options controls Load.
type Options struct {
	// File is the config file. Empty means DefaultFile; a missing file is
	// not an error.
	File string

	// EnvPrefix defaults to loader.EnvPrefix. "-" disables the env layer.
	EnvPrefix string

	// Overrides are dotted settings from the command line.
	Overrides map[string]any

	// FS reads the file. Nil means the OS file system.
	FS loader.FileSystem

	// Env replaces the env layer, mainly in tests.
	Env loader.Loader
}

// Snapshot is the result of one Load.
type Snapshot struct {
	Config Config

	// File is the config file that was read, or "" if none existed.
	File string

	values map[string]any
	origin map[string]Source
}

// Load reads every layer, merges them and decodes and validates the result.
func Load(opts Options) (*Snapshot, error) {
	defaults, err := ToMap(Default())
	if err != nil {
		return nil, &DecodeError{Err: err}
	}

	snap := &Snapshot{origin: make(map[string]Source)}
	merged := map[string]any{}
	apply := func(layer map[string]any, src Source) {
		for _, k := range loader.Keys(layer) {
			snap.origin[k] = src
		}
		merged = loader.DeepMerge(merged, layer)
	}
	apply(defaults, SourceDefault)

	path := opts.File
	if path == "" {
		path = DefaultFile()
	}
	if path != "" {
		l, err := loader.ForFile(opts.FS, path)
		if err != nil {
			return nil, err
		}
		fileLayer, err := l.Load()
		if err != nil {
			return nil, err
		}
		if fileLayer != nil {
			snap.File = path
			apply(fileLayer, SourceFile)
		}
	}

	envLoader := opts.Env
	if envLoader == nil && opts.EnvPrefix != "-" {
		prefix := opts.EnvPrefix
		if prefix == "" {
			prefix = loader.EnvPrefix
		}
		envLoader = loader.NewEnvLoader(prefix)
	}
	if envLoader != nil {
		envLayer, err := envLoader.Load()
		if err != nil {
			return nil, fmt.Errorf("loading environment: %w", err)
		}
		apply(envLayer, SourceEnv)
	}

	if len(opts.Overrides) > 0 {
		flags := map[string]any{}
		for k, v := range opts.Overrides {
			loader.SetByPath(flags, k, v)
		}
		apply(flags, SourceFlag)
	}

	cfg, err := Decode(merged)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Re-encode so values compare equal regardless of the layer's types.
	normalized, err := ToMap(cfg)
	if err != nil {
		return nil, &DecodeError{Err: err}
	}
	snap.Config = cfg
	snap.values = loader.Flatten(normalized)
	return snap, nil
}

// Get returns the effective value of a dotted setting.
func (s *Snapshot) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Origin returns the layer the setting's value came from.
func (s *Snapshot) Origin(key string) Source {
	if src, ok := s.origin[key]; ok {
		return src
	}
	return SourceDefault
}

// Keys returns every known setting path in sorted order.
func (s *Snapshot) Keys() []string {
	return slices.Sorted(maps.Keys(s.values))
}

// Changed returns the sorted setting paths whose values differ between two
// snapshots. A nil old snapshot reports every key.
func Changed(old, next *Snapshot) []string {
	if old == nil {
		return next.Keys()
	}
	var keys []string
	for _, k := range next.Keys() {
		ov, ok := old.values[k]
		if !ok || !reflect.DeepEqual(ov, next.values[k]) {
			keys = append(keys, k)
		}
	}
	return keys
}
