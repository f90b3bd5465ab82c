package command

import (
	"fmt"

	"github.com/dshills/pagecraft/internal/engine/page"
	"github.com/dshills/pagecraft/internal/event/events"
)

// SetElementProperties replaces the property bag of one element.
type SetElementProperties struct {
	env       Env
	sectionID string
	elementID string
	old, new  page.Properties
}

// NewSetElementProperties captures the element's current properties. Unlike
// the store operation, it fails when the element does not exist.
func NewSetElementProperties(env Env, sectionID, elementID string, props page.Properties) (*SetElementProperties, error) {
	e, ok := env.Store.Element(sectionID, elementID)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", page.ErrElementNotFound, sectionID, elementID)
	}
	return &SetElementProperties{
		env:       env,
		sectionID: sectionID,
		elementID: elementID,
		old:       e.Properties,
		new:       props.Clone(),
	}, nil
}

// Execute sets the new properties.
func (c *SetElementProperties) Execute() error {
	c.set(c.new)
	return nil
}

// Undo restores the old properties.
func (c *SetElementProperties) Undo() error {
	c.set(c.old)
	return nil
}

// Redo sets the new properties again.
func (c *SetElementProperties) Redo() error {
	return c.Execute()
}

// Description returns a human-readable description.
func (c *SetElementProperties) Description() string {
	return fmt.Sprintf("Edit element %s", c.elementID)
}

func (c *SetElementProperties) set(props page.Properties) {
	c.env.Store.SetElementProperties(c.sectionID, c.elementID, props)
	c.env.notifier().ElementChanged(events.ElementChanged{
		SectionID: c.sectionID,
		ElementID: c.elementID,
	})
}
