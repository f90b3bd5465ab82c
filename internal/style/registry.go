package style

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry holds the sheet of the page and one sheet per section.
type Registry struct {
	mu       sync.Mutex
	page     *Sheet
	sections map[string]*Sheet
}

// NewRegistry creates a registry with an empty page sheet.
func NewRegistry() *Registry {
	return &Registry{
		page:     NewSheet(),
		sections: make(map[string]*Sheet),
	}
}

// Page returns the page sheet.
func (r *Registry) Page() *Sheet {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.page
}

// Section returns the sheet of a section, creating it on first use.
func (r *Registry) Section(id string) *Sheet {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sections[id]
	if !ok {
		s = NewSheet()
		r.sections[id] = s
	}
	return s
}

// Target returns the page sheet for an empty id, else the section sheet.
func (r *Registry) Target(sectionID string) Target {
	if sectionID == "" {
		return r.Page()
	}
	return r.Section(sectionID)
}

// Remove forgets a section sheet.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sections, id)
}

// Reset drops every section sheet and starts a new page sheet.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.page = NewSheet()
	clear(r.sections)
}

// CSS renders the page rule followed by one rule per section, in id order.
func (r *Registry) CSS() string {
	r.mu.Lock()
	ids := make([]string, 0, len(r.sections))
	for id := range r.sections {
		ids = append(ids, id)
	}
	sheets := make(map[string]*Sheet, len(r.sections))
	for id, s := range r.sections {
		sheets[id] = s
	}
	pageSheet := r.page
	r.mu.Unlock()
	sort.Strings(ids)

	var b strings.Builder
	b.WriteString(pageSheet.CSS(".page"))
	for _, id := range ids {
		b.WriteString(sheets[id].CSS(fmt.Sprintf("#row-%s", id)))
	}
	return b.String()
}
