package page

import (
	"fmt"
	"sync"
)

// Store owns the document of one editing session.
// Reads return deep copies; writes validate before mutating.
type Store struct {
	mu       sync.RWMutex
	header   *Header
	sections []*Section
	footer   *Footer
	config   Config
}

// NewStore creates a store holding an empty document.
func NewStore() *Store {
	return &Store{config: DefaultConfig()}
}

// NewStoreFromDocument creates a store holding a copy of doc.
func NewStoreFromDocument(doc *Document) (*Store, error) {
	s := NewStore()
	if err := s.Load(doc); err != nil {
		return nil, err
	}
	return s, nil
}

// Load replaces the whole document after validating it.
func (s *Store) Load(doc *Document) error {
	if doc == nil {
		doc = NewDocument()
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	c := doc.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.header = c.Header
	s.footer = c.Footer
	s.config = c.Config
	s.sections = c.Sections
	if s.sections == nil {
		s.sections = []*Section{}
	}
	return nil
}

// Document returns a snapshot of the whole document.
func (s *Store) Document() *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := &Document{
		Header:   s.header,
		Sections: s.sections,
		Footer:   s.footer,
		Config:   s.config,
	}
	return doc.Clone()
}

// indexLocked returns the position of the section or -1.
func (s *Store) indexLocked(id string) int {
	for i, sec := range s.sections {
		if sec.ID == id {
			return i
		}
	}
	return -1
}

// Section returns a copy of the section with the given id.
func (s *Store) Section(id string) (*Section, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil, false
	}
	return s.sections[i].Clone(), true
}

// HasSection reports whether a section with the given id exists.
func (s *Store) HasSection(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexLocked(id) >= 0
}

// IndexOf returns the position of the section, or -1 when absent.
func (s *Store) IndexOf(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexLocked(id)
}

// Sections returns a snapshot of the sections in document order.
func (s *Store) Sections() []*Section {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Section, len(s.sections))
	for i, sec := range s.sections {
		out[i] = sec.Clone()
	}
	return out
}

// SectionIDs returns the section identifiers in document order.
func (s *Store) SectionIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, len(s.sections))
	for i, sec := range s.sections {
		ids[i] = sec.ID
	}
	return ids
}

// Len returns the number of sections.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sections)
}

// AddSection appends a section. It fails without mutating the store when the
// id is already taken or the element tree is invalid.
func (s *Store) AddSection(sec *Section) error {
	return s.InsertSection(-1, sec)
}

// InsertSection inserts a section at index. An index outside the current
// range appends.
func (s *Store) InsertSection(index int, sec *Section) error {
	if err := sec.Validate(); err != nil {
		return err
	}
	c := sec.Clone()
	if c.Elements == nil {
		c.Elements = []*Element{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(c.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateSection, c.ID)
	}
	if index < 0 || index >= len(s.sections) {
		s.sections = append(s.sections, c)
		return nil
	}
	s.sections = append(s.sections, nil)
	copy(s.sections[index+1:], s.sections[index:])
	s.sections[index] = c
	return nil
}

// RemoveSection deletes a section. Removing an absent id is a no-op.
func (s *Store) RemoveSection(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return
	}
	s.sections = append(s.sections[:i], s.sections[i+1:]...)
}

// SetSectionOrder reorders the sections. ids must be a permutation of the
// current section identifiers.
func (s *Store) SetSectionOrder(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(ids) != len(s.sections) {
		return ErrInvalidOrder
	}
	byID := make(map[string]*Section, len(s.sections))
	for _, sec := range s.sections {
		byID[sec.ID] = sec
	}
	ordered := make([]*Section, 0, len(ids))
	for _, id := range ids {
		sec, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: unknown or repeated id %q", ErrInvalidOrder, id)
		}
		delete(byID, id)
		ordered = append(ordered, sec)
	}
	s.sections = ordered
	return nil
}

// SetSectionName renames a section. It reports whether the section exists.
func (s *Store) SetSectionName(id, name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	s.sections[i].Name = name
	return true
}

// SectionConfig returns a copy of the section's own configuration override.
// The override is nil when the section inherits the page configuration.
func (s *Store) SectionConfig(id string) (*Config, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(id)
	if i < 0 {
		return nil, false
	}
	return s.sections[i].Config.Clone(), true
}

// SetSectionConfig replaces the section's configuration override. A nil cfg
// makes the section inherit the page configuration again.
func (s *Store) SetSectionConfig(id string, cfg *Config) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	s.sections[i].Config = cfg.Clone()
	return true
}

// EffectiveConfig returns the configuration that applies to the section:
// its override, or the page configuration.
func (s *Store) EffectiveConfig(id string) (Config, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(id)
	if i < 0 {
		return Config{}, false
	}
	if c := s.sections[i].Config; c != nil {
		return *c, true
	}
	return s.config, true
}

// Element finds an element in a section's tree, depth-first.
func (s *Store) Element(sectionID, elementID string) (*Element, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(sectionID)
	if i < 0 {
		return nil, false
	}
	e := Find(s.sections[i].Elements, elementID)
	if e == nil {
		return nil, false
	}
	return e.Clone(), true
}

// SetElementProperties replaces the property bag of an element. It is a
// no-op when the section or element does not exist.
func (s *Store) SetElementProperties(sectionID, elementID string, props Properties) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(sectionID)
	if i < 0 {
		return
	}
	if e := Find(s.sections[i].Elements, elementID); e != nil {
		e.Properties = props.Clone()
	}
}

// Header returns a copy of the header, or nil.
func (s *Store) Header() *Header {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.header.Clone()
}

// SetHeader replaces the header.
func (s *Store) SetHeader(h *Header) error {
	if h != nil {
		if err := ValidateTree(h.Elements); err != nil {
			return fmt.Errorf("header: %w", err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.header = h.Clone()
	return nil
}

// Footer returns a copy of the footer, or nil.
func (s *Store) Footer() *Footer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.footer.Clone()
}

// SetFooter replaces the footer.
func (s *Store) SetFooter(f *Footer) error {
	if f != nil {
		if err := ValidateTree(f.Elements); err != nil {
			return fmt.Errorf("footer: %w", err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.footer = f.Clone()
	return nil
}

// Config returns the page configuration.
func (s *Store) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// SetConfig replaces the page configuration.
func (s *Store) SetConfig(c Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = c
}
