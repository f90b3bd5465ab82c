package page

// Section is one ordered block of the page.
// A nil Config means the section inherits the page configuration.
type Section struct {
	ID       string     `json:"id" yaml:"id"`
	Name     string     `json:"name,omitempty" yaml:"name,omitempty"`
	Elements []*Element `json:"elements" yaml:"elements"`
	Config   *Config    `json:"config,omitempty" yaml:"config,omitempty"`
}

// NewSection creates a section holding the given elements.
func NewSection(id string, elements ...*Element) *Section {
	if elements == nil {
		elements = []*Element{}
	}
	return &Section{ID: id, Elements: elements}
}

// Clone returns a deep copy of the section.
func (s *Section) Clone() *Section {
	if s == nil {
		return nil
	}
	c := *s
	c.Elements = cloneElements(s.Elements)
	c.Config = s.Config.Clone()
	return &c
}

// Title returns the caption shown for the section in the menu: its name, or a
// placeholder derived from its content.
func (s *Section) Title() string {
	if s.Name != "" {
		return s.Name
	}
	if len(s.Elements) != 1 {
		return untitledSection
	}
	return elementTitle(s.Elements[0])
}

// Validate checks the section's identifier and element tree.
func (s *Section) Validate() error {
	if s == nil || s.ID == "" {
		return ErrInvalidSection
	}
	return ValidateTree(s.Elements)
}

// Header is the page header.
type Header struct {
	Image    string     `json:"image" yaml:"image"`
	Elements []*Element `json:"elements" yaml:"elements"`
}

// Clone returns a deep copy of the header.
func (h *Header) Clone() *Header {
	if h == nil {
		return nil
	}
	return &Header{Image: h.Image, Elements: cloneElements(h.Elements)}
}

// Footer is the page footer.
type Footer struct {
	Image    string     `json:"image" yaml:"image"`
	Elements []*Element `json:"elements" yaml:"elements"`
}

// Clone returns a deep copy of the footer.
func (f *Footer) Clone() *Footer {
	if f == nil {
		return nil
	}
	return &Footer{Image: f.Image, Elements: cloneElements(f.Elements)}
}

// IsEmpty reports whether the footer has no content.
func (f *Footer) IsEmpty() bool {
	return f == nil || len(f.Elements) == 0
}

// TextboxModule is the widget placed in a freshly added footer.
var TextboxModule = Module{
	Name:        "Textbox",
	Description: "Textbox (dev)",
	LocalPath:   "modules/pageblocks/pageblock-markdown-editor",
	Local:       true,
}

// DefaultFooter returns the footer created by "Add Footer": a single textbox
// spanning four columns.
func DefaultFooter(elementID string) *Footer {
	m := TextboxModule
	return &Footer{
		Elements: []*Element{{
			ID:         elementID,
			Column:     1,
			ColumnSpan: 4,
			Kind:       Primitive,
			Module:     &m,
			Properties: Properties{
				"width":  "100%",
				"height": "130px",
			},
		}},
	}
}
