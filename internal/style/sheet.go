package style

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dshills/pagecraft/internal/engine/page"
)

// Sheet is an in-memory Target. It records the current style of one page
// element and renders it as CSS.
type Sheet struct {
	mu         sync.RWMutex
	properties map[string]string
	classes    map[string]struct{}
	margin     *page.Margin
}

// NewSheet creates an empty sheet.
func NewSheet() *Sheet {
	return &Sheet{
		properties: make(map[string]string),
		classes:    make(map[string]struct{}),
	}
}

// SetProperty sets a style variable.
func (s *Sheet) SetProperty(name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.properties[name] = value
}

// RemoveProperty clears a style variable.
func (s *Sheet) RemoveProperty(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.properties, name)
}

// AddClass adds a class.
func (s *Sheet) AddClass(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classes[name] = struct{}{}
}

// RemoveClass removes classes. Absent classes are ignored.
func (s *Sheet) RemoveClass(names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range names {
		delete(s.classes, n)
	}
}

// SetMargin sets the margin pair.
func (s *Sheet) SetMargin(m page.Margin) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.margin = &m
}

// Property returns a style variable.
func (s *Sheet) Property(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.properties[name]
	return v, ok
}

// HasClass reports whether the class is set.
func (s *Sheet) HasClass(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.classes[name]
	return ok
}

// Classes returns the classes in sorted order.
func (s *Sheet) Classes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, 0, len(s.classes))
	for c := range s.classes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Margin returns the margin pair, if one was set.
func (s *Sheet) Margin() (page.Margin, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.margin == nil {
		return page.Margin{}, false
	}
	return *s.margin, true
}

// CSS renders the sheet as a rule for selector. Declarations are sorted by
// name so the output is stable. Classes are listed in a comment ahead of
// the declarations.
func (s *Sheet) CSS(selector string) string {
	classes := s.Classes()

	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.properties))
	for n := range s.properties {
		names = append(names, n)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "%s {\n", selector)
	if len(classes) > 0 {
		fmt.Fprintf(&b, "  /* classes: %s */\n", strings.Join(classes, " "))
	}
	for _, n := range names {
		fmt.Fprintf(&b, "  %s: %s;\n", n, s.properties[n])
	}
	if s.margin != nil {
		fmt.Fprintf(&b, "  margin: %s %s;\n", cssLength(s.margin.Y), cssLength(s.margin.X))
	}
	b.WriteString("}\n")
	return b.String()
}

// cssLength turns a bare number into pixels and leaves keywords alone.
func cssLength(v string) string {
	if v == "" {
		return "0"
	}
	for _, r := range v {
		if (r < '0' || r > '9') && r != '.' && r != '-' {
			return v
		}
	}
	if v == "0" {
		return v
	}
	return v + "px"
}
