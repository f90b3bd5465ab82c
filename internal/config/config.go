package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dshills/pagecraft/internal/engine/page"
)

// Storage drivers.
const (
	DriverDiskv  = "diskv"
	DriverSQLite = "sqlite"
)

// Log formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config is the typed application configuration.
type Config struct {
	Editor  EditorConfig  `yaml:"editor" json:"editor"`
	Storage StorageConfig `yaml:"storage" json:"storage"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Script  ScriptConfig  `yaml:"script" json:"script"`
	Menu    MenuConfig    `yaml:"menu" json:"menu"`
}

// EditorConfig configures the editing session.
type EditorConfig struct {
	// HistoryLimit caps the undo stack; 0 keeps every entry.
	HistoryLimit int `yaml:"historyLimit" json:"historyLimit"`

	// DefaultTextSize is the text size of new documents.
	DefaultTextSize string `yaml:"defaultTextSize" json:"defaultTextSize"`
}

// StorageConfig selects where documents are kept.
type StorageConfig struct {
	Driver   string `yaml:"driver" json:"driver"`
	Path     string `yaml:"path" json:"path"`
	Document string `yaml:"document" json:"document"`
}

// LoggingConfig configures the application logger.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// ScriptConfig configures Lua scripts.
type ScriptConfig struct {
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// MenuConfig configures the terminal section menu.
type MenuConfig struct {
	Width int `yaml:"width" json:"width"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Editor: EditorConfig{
			HistoryLimit:    500,
			DefaultTextSize: string(page.DefaultTextSize),
		},
		Storage: StorageConfig{
			Driver:   DriverDiskv,
			Path:     DefaultDataDir(),
			Document: "default",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: FormatText,
		},
		Script: ScriptConfig{Timeout: 5 * time.Second},
		Menu:   MenuConfig{Width: 32},
	}
}

// DefaultDataDir returns the directory documents are stored in by default.
func DefaultDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "pagecraft")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "share", "pagecraft")
	}
	return ".pagecraft"
}

// DefaultFile returns the config file read when none is given.
func DefaultFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "pagecraft", "config.toml")
}

var logLevels = []string{"debug", "info", "warn", "warning", "error"}

// Validate checks every setting and returns all problems joined.
func (c Config) Validate() error {
	var errs []error
	add := func(path, msg string, v any) {
		errs = append(errs, &ValidationError{Path: path, Message: msg, Value: v})
	}

	if c.Editor.HistoryLimit < 0 {
		add("editor.historyLimit", "must not be negative", c.Editor.HistoryLimit)
	}
	if !page.TextSize(c.Editor.DefaultTextSize).Valid() {
		add("editor.defaultTextSize", "unknown text size", c.Editor.DefaultTextSize)
	}
	if c.Storage.Driver != DriverDiskv && c.Storage.Driver != DriverSQLite {
		add("storage.driver", "must be diskv or sqlite", c.Storage.Driver)
	}
	if c.Storage.Path == "" {
		add("storage.path", "must not be empty", c.Storage.Path)
	}
	if c.Storage.Document == "" {
		add("storage.document", "must not be empty", c.Storage.Document)
	}
	if !slices.Contains(logLevels, c.Logging.Level) {
		add("logging.level", "unknown level", c.Logging.Level)
	}
	if c.Logging.Format != FormatText && c.Logging.Format != FormatJSON {
		add("logging.format", "must be text or json", c.Logging.Format)
	}
	if c.Script.Timeout < 0 {
		add("script.timeout", "must not be negative", c.Script.Timeout)
	}
	if c.Menu.Width < 10 {
		add("menu.width", "must be at least 10", c.Menu.Width)
	}
	return errors.Join(errs...)
}

// ToMap converts c into the nested map form the loaders produce.
func ToMap(c Config) (map[string]any, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Decode converts merged layers into a Config. Settings absent from m keep
// their default values.
func Decode(m map[string]any) (Config, error) {
	c := Default()
	data, err := yaml.Marshal(m)
	if err != nil {
		return Config{}, &DecodeError{Err: err}
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, &DecodeError{Err: err}
	}
	return c, nil
}
