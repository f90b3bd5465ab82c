package loader

import (
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix is the prefix of the variables read by default.
const EnvPrefix = "PAGECRAFT_"

// envAliases maps short variable names (without prefix) to setting paths
// that do not follow the SECTION_SETTING convention.
var envAliases = map[string]string{
	"LOG_LEVEL":  "logging.level",
	"LOG_FORMAT": "logging.format",
	"DB":         "storage.driver",
	"DATA_DIR":   "storage.path",
	"DOCUMENT":   "storage.document",
}

// EnvLoader maps prefixed environment variables onto setting paths.
// PAGECRAFT_EDITOR_HISTORY_LIMIT becomes editor.historyLimit.
type EnvLoader struct {
	prefix  string
	environ func() []string
}

// NewEnvLoader returns a loader for variables starting with prefix, which
// includes the trailing underscore.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{prefix: prefix, environ: os.Environ}
}

// Load collects every matching variable. Empty values count as set.
func (l *EnvLoader) Load() (map[string]any, error) {
	out := map[string]any{}
	for _, kv := range l.environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		rest, ok := strings.CutPrefix(name, l.prefix)
		if !ok || rest == "" {
			continue
		}
		path, alias := envAliases[rest]
		if !alias {
			path = l.envToPath(name)
		}
		SetByPath(out, path, l.parseValue(value))
	}
	return out, nil
}

// envToPath lowercases the first word after the prefix as the section and
// camel-cases the remaining words as the setting.
func (l *EnvLoader) envToPath(name string) string {
	words := strings.Split(strings.TrimPrefix(name, l.prefix), "_")

	var b strings.Builder
	b.WriteString(strings.ToLower(words[0]))
	for i, w := range words[1:] {
		if w == "" {
			continue
		}
		w = strings.ToLower(w)
		switch i {
		case 0:
			b.WriteByte('.')
			b.WriteString(w)
		default:
			b.WriteString(strings.ToUpper(w[:1]) + w[1:])
		}
	}
	return b.String()
}

// parseValue converts a raw value to the most specific type it parses as:
// bool, integer, float, duration, JSON array or object, else string.
func (l *EnvLoader) parseValue(s string) any {
	if s == "" {
		return s
	}
	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if strings.ContainsRune(s, '.') {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	if s[0] == '[' || s[0] == '{' {
		var v any
		if json.Unmarshal([]byte(s), &v) == nil {
			return v
		}
	}
	return s
}
