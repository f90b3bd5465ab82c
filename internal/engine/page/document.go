package page

import "fmt"

// Document is the whole page: header, ordered sections, footer and the
// page-wide configuration.
type Document struct {
	Header   *Header    `json:"header,omitempty" yaml:"header,omitempty"`
	Sections []*Section `json:"sections" yaml:"sections"`
	Footer   *Footer    `json:"footer,omitempty" yaml:"footer,omitempty"`
	Config   Config     `json:"config" yaml:"config"`
}

// NewDocument returns an empty document with default configuration.
func NewDocument() *Document {
	return &Document{
		Sections: []*Section{},
		Config:   DefaultConfig(),
	}
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{
		Header:   d.Header.Clone(),
		Footer:   d.Footer.Clone(),
		Config:   d.Config,
		Sections: make([]*Section, len(d.Sections)),
	}
	for i, s := range d.Sections {
		out.Sections[i] = s.Clone()
	}
	return out
}

// Validate checks every document invariant.
func (d *Document) Validate() error {
	seen := make(map[string]struct{}, len(d.Sections))
	for i, s := range d.Sections {
		if err := s.Validate(); err != nil {
			return fmt.Errorf("section %d: %w", i, err)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateSection, s.ID)
		}
		seen[s.ID] = struct{}{}
	}
	if d.Header != nil {
		if err := ValidateTree(d.Header.Elements); err != nil {
			return fmt.Errorf("header: %w", err)
		}
	}
	if d.Footer != nil {
		if err := ValidateTree(d.Footer.Elements); err != nil {
			return fmt.Errorf("footer: %w", err)
		}
	}
	return nil
}
