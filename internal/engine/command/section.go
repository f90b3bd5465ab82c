package command

import (
	"fmt"

	"github.com/dshills/pagecraft/internal/engine/page"
)

// AddSection inserts a new section.
type AddSection struct {
	env     Env
	section *page.Section
	index   int
}

// NewAddSection prepares to insert sec at index; a negative index appends.
func NewAddSection(env Env, sec *page.Section, index int) *AddSection {
	return &AddSection{env: env, section: sec.Clone(), index: index}
}

// Execute inserts the section. A duplicate identifier is rejected before
// the store changes.
func (c *AddSection) Execute() error {
	if err := c.env.Store.InsertSection(c.index, c.section); err != nil {
		return err
	}
	c.env.syncSection(c.section.ID)
	c.env.sectionsChanged()
	return nil
}

// Undo removes the section again.
func (c *AddSection) Undo() error {
	c.env.Store.RemoveSection(c.section.ID)
	c.env.dropSection(c.section.ID)
	c.env.sectionsChanged()
	return nil
}

// Redo re-inserts the section.
func (c *AddSection) Redo() error {
	return c.Execute()
}

// Description returns a human-readable description.
func (c *AddSection) Description() string {
	return fmt.Sprintf("Add section %s", c.section.Title())
}

// RemoveSection deletes a section and can put it back where it was.
type RemoveSection struct {
	env     Env
	section *page.Section
	index   int
}

// NewRemoveSection captures the section and its position.
func NewRemoveSection(env Env, id string) (*RemoveSection, error) {
	sec, ok := env.Store.Section(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", page.ErrSectionNotFound, id)
	}
	return &RemoveSection{env: env, section: sec, index: env.Store.IndexOf(id)}, nil
}

// Execute removes the section and its style target.
func (c *RemoveSection) Execute() error {
	c.env.Store.RemoveSection(c.section.ID)
	c.env.dropSection(c.section.ID)
	c.env.sectionsChanged()
	return nil
}

// Undo re-inserts the captured section at its old position.
func (c *RemoveSection) Undo() error {
	if err := c.env.Store.InsertSection(c.index, c.section); err != nil {
		return fmt.Errorf("undo remove section: %w", err)
	}
	c.env.syncSection(c.section.ID)
	c.env.sectionsChanged()
	return nil
}

// Redo removes the section again.
func (c *RemoveSection) Redo() error {
	return c.Execute()
}

// Description returns a human-readable description.
func (c *RemoveSection) Description() string {
	return fmt.Sprintf("Remove section %s", c.section.Title())
}

// RenameSection changes the display name of a section.
type RenameSection struct {
	env      Env
	id       string
	old, new string
}

// NewRenameSection captures the current name of the section.
func NewRenameSection(env Env, id, name string) (*RenameSection, error) {
	sec, ok := env.Store.Section(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", page.ErrSectionNotFound, id)
	}
	return &RenameSection{env: env, id: id, old: sec.Name, new: name}, nil
}

// Execute sets the new name.
func (c *RenameSection) Execute() error {
	return c.set(c.new)
}

// Undo restores the old name.
func (c *RenameSection) Undo() error {
	return c.set(c.old)
}

// Redo sets the new name again.
func (c *RenameSection) Redo() error {
	return c.Execute()
}

// Description returns a human-readable description.
func (c *RenameSection) Description() string {
	return fmt.Sprintf("Rename section to %q", c.new)
}

func (c *RenameSection) set(name string) error {
	if !c.env.Store.SetSectionName(c.id, name) {
		return fmt.Errorf("%w: %s", page.ErrSectionNotFound, c.id)
	}
	c.env.sectionsChanged()
	return nil
}
