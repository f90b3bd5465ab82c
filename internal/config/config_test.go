package config

import (
	"errors"
	"io/fs"
	"reflect"
	"testing"
	"time"

	"github.com/dshills/pagecraft/internal/config/loader"
)

type memFS map[string]string

func (m memFS) Open(string) (fs.File, error) { return nil, fs.ErrNotExist }

func (m memFS) ReadFile(path string) ([]byte, error) {
	s, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return []byte(s), nil
}

func (m memFS) Stat(string) (fs.FileInfo, error) { return nil, fs.ErrNotExist }

type staticEnv map[string]any

func (e staticEnv) Load() (map[string]any, error) {
	out := map[string]any{}
	for k, v := range e {
		loader.SetByPath(out, k, v)
	}
	return out, nil
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"negative history", func(c *Config) { c.Editor.HistoryLimit = -1 }, "editor.historyLimit"},
		{"text size", func(c *Config) { c.Editor.DefaultTextSize = "huge" }, "editor.defaultTextSize"},
		{"driver", func(c *Config) { c.Storage.Driver = "bolt" }, "storage.driver"},
		{"document", func(c *Config) { c.Storage.Document = "" }, "storage.document"},
		{"level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"timeout", func(c *Config) { c.Script.Timeout = -time.Second }, "script.timeout"},
		{"menu", func(c *Config) { c.Menu.Width = 3 }, "menu.width"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			err := c.Validate()
			if !errors.Is(err, ErrValidationFailed) {
				t.Fatalf("Validate() = %v, want validation error", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Path != tt.path {
				t.Errorf("error path = %v, want %s", err, tt.path)
			}
		})
	}
}

func TestLoadLayers(t *testing.T) {
	fsys := memFS{"/etc/pagecraft.toml": `
[editor]
historyLimit = 40
defaultTextSize = "lg"

[storage]
driver = "sqlite"
path = "/data"
`}

	snap, err := Load(Options{
		File:      "/etc/pagecraft.toml",
		FS:        fsys,
		Env:       staticEnv{"editor.historyLimit": int64(60), "script.timeout": 2 * time.Second},
		Overrides: map[string]any{"logging.level": "debug"},
	})
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}

	c := snap.Config
	if c.Editor.HistoryLimit != 60 {
		t.Errorf("env should override file: historyLimit = %d", c.Editor.HistoryLimit)
	}
	if c.Editor.DefaultTextSize != "lg" || c.Storage.Driver != "sqlite" || c.Storage.Path != "/data" {
		t.Errorf("file values not applied: %+v", c)
	}
	if c.Script.Timeout != 2*time.Second {
		t.Errorf("script.timeout = %v", c.Script.Timeout)
	}
	if c.Logging.Level != "debug" {
		t.Errorf("flag not applied: %q", c.Logging.Level)
	}
	if c.Menu.Width != Default().Menu.Width {
		t.Errorf("default lost: menu.width = %d", c.Menu.Width)
	}
	if snap.File != "/etc/pagecraft.toml" {
		t.Errorf("File = %q", snap.File)
	}

	origins := map[string]Source{
		"editor.historyLimit":    SourceEnv,
		"editor.defaultTextSize": SourceFile,
		"logging.level":          SourceFlag,
		"menu.width":             SourceDefault,
	}
	for key, want := range origins {
		if got := snap.Origin(key); got != want {
			t.Errorf("Origin(%s) = %s, want %s", key, got, want)
		}
	}
	if v, ok := snap.Get("storage.driver"); !ok || v != "sqlite" {
		t.Errorf("Get(storage.driver) = %v, %v", v, ok)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	snap, err := Load(Options{File: "/nowhere.yaml", FS: memFS{}, EnvPrefix: "-"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(snap.Config, Default()) {
		t.Errorf("Config = %+v, want defaults", snap.Config)
	}
	if snap.File != "" {
		t.Errorf("File = %q, want empty", snap.File)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want any
	}{
		{
			name: "parse",
			opts: Options{File: "/c.toml", FS: memFS{"/c.toml": "[editor"}, EnvPrefix: "-"},
			want: new(*loader.ParseError),
		},
		{
			name: "decode",
			opts: Options{File: "/c.yaml", FS: memFS{"/c.yaml": "menu:\n  width: wide\n"}, EnvPrefix: "-"},
			want: new(*DecodeError),
		},
		{
			name: "validate",
			opts: Options{File: "/c.yaml", FS: memFS{"/c.yaml": "storage:\n  driver: bolt\n"}, EnvPrefix: "-"},
			want: new(*ValidationError),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.opts)
			if err == nil || !errors.As(err, tt.want) {
				t.Errorf("Load() = %v, want %T", err, tt.want)
			}
		})
	}

	if _, err := Load(Options{File: "/c.ini", FS: memFS{}}); err == nil {
		t.Error("unsupported extension accepted")
	}
}

func TestChanged(t *testing.T) {
	opts := Options{File: "/c.toml", EnvPrefix: "-"}

	opts.FS = memFS{"/c.toml": "[editor]\nhistoryLimit = 10\n"}
	before, err := Load(opts)
	if err != nil {
		t.Fatal(err)
	}
	opts.FS = memFS{"/c.toml": "[editor]\nhistoryLimit = 20\n[logging]\nlevel = \"warn\"\n"}
	after, err := Load(opts)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"editor.historyLimit", "logging.level"}
	if got := Changed(before, after); !reflect.DeepEqual(got, want) {
		t.Errorf("Changed() = %v, want %v", got, want)
	}
	if got := Changed(after, after); len(got) != 0 {
		t.Errorf("Changed(same) = %v", got)
	}
	if got := Changed(nil, after); len(got) != len(after.Keys()) {
		t.Errorf("Changed(nil) = %d keys, want %d", len(got), len(after.Keys()))
	}
}
