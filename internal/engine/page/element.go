package page

import (
	"fmt"
	"strings"
)

// ElementKind tags the variant of an Element.
type ElementKind string

const (
	// Primitive elements render a single leaf widget and never have children.
	Primitive ElementKind = "primitive"

	// Composite elements nest an ordered sequence of child elements.
	Composite ElementKind = "composite"
)

// Valid reports whether k is a known variant.
func (k ElementKind) Valid() bool {
	return k == Primitive || k == Composite
}

// Module describes the widget that renders an element.
type Module struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	LocalPath   string `json:"localPath,omitempty" yaml:"localPath,omitempty"`
	Local       bool   `json:"local,omitempty" yaml:"local,omitempty"`
}

// Properties is the free-form property bag of an element.
type Properties map[string]any

// Clone returns a deep copy of the property bag.
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, inner := range val {
			out[k] = cloneValue(inner)
		}
		return out
	case Properties:
		return val.Clone()
	case []any:
		out := make([]any, len(val))
		for i, inner := range val {
			out[i] = cloneValue(inner)
		}
		return out
	default:
		return v
	}
}

// Element is a node in a content tree.
//
// Kind selects the variant. Elements is only meaningful for Composite; a
// Primitive with children is rejected by Validate.
type Element struct {
	ID         string      `json:"id" yaml:"id"`
	Column     int         `json:"column" yaml:"column"`
	ColumnSpan int         `json:"columnSpan" yaml:"columnSpan"`
	Kind       ElementKind `json:"type" yaml:"type"`
	Module     *Module     `json:"module,omitempty" yaml:"module,omitempty"`
	Properties Properties  `json:"properties,omitempty" yaml:"properties,omitempty"`
	Elements   []*Element  `json:"elements,omitempty" yaml:"elements,omitempty"`
}

// NewPrimitive creates a leaf element.
func NewPrimitive(id string, column, span int, props Properties) *Element {
	return &Element{
		ID:         id,
		Column:     column,
		ColumnSpan: span,
		Kind:       Primitive,
		Properties: props,
	}
}

// NewComposite creates an element that nests children in the given order.
func NewComposite(id string, column, span int, props Properties, children ...*Element) *Element {
	return &Element{
		ID:         id,
		Column:     column,
		ColumnSpan: span,
		Kind:       Composite,
		Properties: props,
		Elements:   children,
	}
}

// Children returns the element's children. Primitives have none.
func (e *Element) Children() []*Element {
	switch e.Kind {
	case Composite:
		return e.Elements
	case Primitive:
		return nil
	default:
		return nil
	}
}

// Clone returns a deep copy of the element and its subtree.
func (e *Element) Clone() *Element {
	if e == nil {
		return nil
	}
	c := *e
	if e.Module != nil {
		m := *e.Module
		c.Module = &m
	}
	c.Properties = e.Properties.Clone()
	c.Elements = cloneElements(e.Elements)
	return &c
}

func cloneElements(elems []*Element) []*Element {
	if elems == nil {
		return nil
	}
	out := make([]*Element, len(elems))
	for i, e := range elems {
		out[i] = e.Clone()
	}
	return out
}

// WalkFunc is called for every element visited by Walk.
// Returning false stops the walk.
type WalkFunc func(e *Element) bool

// Walk visits elems depth-first, parents before children.
// It reports whether the walk ran to completion.
func Walk(elems []*Element, fn WalkFunc) bool {
	for _, e := range elems {
		if e == nil {
			continue
		}
		if !fn(e) {
			return false
		}
		switch e.Kind {
		case Composite:
			if !Walk(e.Elements, fn) {
				return false
			}
		case Primitive:
		}
	}
	return true
}

// Find returns the first element with the given id, searching depth-first
// through composite children.
func Find(elems []*Element, id string) *Element {
	var found *Element
	Walk(elems, func(e *Element) bool {
		if e.ID == id {
			found = e
			return false
		}
		return true
	})
	return found
}

// Count returns the number of elements in the tree.
func Count(elems []*Element) int {
	n := 0
	Walk(elems, func(*Element) bool {
		n++
		return true
	})
	return n
}

// ValidateTree checks the element tree invariants: known variants, no
// children under primitives, non-empty and unique identifiers.
func ValidateTree(elems []*Element) error {
	seen := make(map[string]struct{})
	return validateElements(elems, seen)
}

func validateElements(elems []*Element, seen map[string]struct{}) error {
	for _, e := range elems {
		if e == nil {
			return fmt.Errorf("%w: nil element", ErrInvalidElement)
		}
		if e.ID == "" {
			return fmt.Errorf("%w: empty id", ErrInvalidElement)
		}
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateElement, e.ID)
		}
		seen[e.ID] = struct{}{}

		switch e.Kind {
		case Primitive:
			if len(e.Elements) > 0 {
				return fmt.Errorf("%w: primitive %s has children", ErrInvalidElement, e.ID)
			}
		case Composite:
			if err := validateElements(e.Elements, seen); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %s has unknown type %q", ErrInvalidElement, e.ID, e.Kind)
		}
	}
	return nil
}

const untitledSection = "Untitled section"

// elementTitle derives a caption from the first element chain.
func elementTitle(e *Element) string {
	if e == nil {
		return untitledSection
	}
	switch e.Kind {
	case Composite:
		if len(e.Elements) == 0 {
			return untitledSection
		}
		return elementTitle(e.Elements[0])
	case Primitive:
	}
	if e.Module != nil && e.Module.Name != "" {
		return "Untitled " + strings.ToLower(e.Module.Name)
	}
	return untitledSection
}
