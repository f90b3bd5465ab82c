// Package page provides the document model for the page builder.
//
// A Document is made of a Header, an ordered list of Sections, a Footer and a
// page-wide Config. Sections and the header/footer each hold a tree of
// Elements. An element is either a primitive (a leaf widget) or a composite
// that nests further elements.
//
// The Store owns the one Document of an editing session. Reads return deep
// copies so callers never alias store data:
//
//	store := page.NewStore()
//	if err := store.AddSection(sec); err != nil {
//	    // ErrDuplicateSection, ErrDuplicateElement, ErrInvalidElement
//	}
//
//	elem, ok := store.Element(sec.ID, "hero-text")
//	store.SetElementProperties(sec.ID, "hero-text", page.Properties{"text": "hi"})
//
// # Invariants
//
//   - Section identifiers are unique across the document.
//   - Element identifiers are unique within one element tree.
//   - A primitive element never has children; composite children keep order.
//   - The section sequence order is the top-to-bottom rendering order.
//
// Every structural check runs before the store is mutated, so a rejected call
// leaves the document untouched.
//
// The Store is guarded by a RWMutex, but mutations are expected to arrive one
// at a time through engine commands.
package page
