package loader

import (
	"errors"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// ErrIncludeDepth is returned when include directives nest too deeply or
// form a cycle.
var ErrIncludeDepth = errors.New("include depth exceeded")

// ParseError locates a syntax error in a configuration file. Line and
// Column are zero when the parser does not report them.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(e.Path)
	if e.Line > 0 {
		b.WriteString(":" + strconv.Itoa(e.Line))
		if e.Column > 0 {
			b.WriteString(":" + strconv.Itoa(e.Column))
		}
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// DeepMerge layers src over dst and returns dst. Nested maps merge key by
// key; any other src value replaces the dst value. Maps taken from src are
// copied so later edits to src do not leak into the result.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = map[string]any{}
	}
	for k, v := range src {
		sub, ok := v.(map[string]any)
		if !ok {
			dst[k] = v
			continue
		}
		base, _ := dst[k].(map[string]any)
		if base == nil {
			base = map[string]any{}
		}
		dst[k] = DeepMerge(base, sub)
	}
	return dst
}

// SetByPath stores value under a dotted path, creating intermediate maps
// and replacing scalars that stand in the way.
func SetByPath(data map[string]any, path string, value any) {
	keys := strings.Split(path, ".")
	last := len(keys) - 1
	node := data
	for _, k := range keys[:last] {
		child, ok := node[k].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[k] = child
		}
		node = child
	}
	node[keys[last]] = value
}

// GetByPath looks up a dotted path.
func GetByPath(data map[string]any, path string) (any, bool) {
	node := data
	keys := strings.Split(path, ".")
	for _, k := range keys[:len(keys)-1] {
		child, ok := node[k].(map[string]any)
		if !ok {
			return nil, false
		}
		node = child
	}
	v, ok := node[keys[len(keys)-1]]
	return v, ok
}

// Flatten maps every leaf of data to its dotted path.
func Flatten(data map[string]any) map[string]any {
	out := map[string]any{}
	var walk func(prefix string, m map[string]any)
	walk = func(prefix string, m map[string]any) {
		for k, v := range m {
			if prefix != "" {
				k = prefix + "." + k
			}
			if sub, ok := v.(map[string]any); ok {
				walk(k, sub)
			} else {
				out[k] = v
			}
		}
	}
	walk("", data)
	return out
}

// Keys returns the sorted dotted paths of the leaves of data.
func Keys(data map[string]any) []string {
	return slices.Sorted(maps.Keys(Flatten(data)))
}
