package command

import (
	"context"
	"fmt"

	"github.com/dshills/pagecraft/internal/engine/page"
	"github.com/dshills/pagecraft/internal/event/events"
)

// UpdateFooter replaces the whole footer.
type UpdateFooter struct {
	env      Env
	old, new *page.Footer
}

// NewUpdateFooter captures the current footer. A nil footer removes it.
func NewUpdateFooter(env Env, f *page.Footer) (*UpdateFooter, error) {
	if f != nil {
		if err := page.ValidateTree(f.Elements); err != nil {
			return nil, fmt.Errorf("footer: %w", err)
		}
	}
	return &UpdateFooter{env: env, old: env.Store.Footer(), new: f.Clone()}, nil
}

// NewAddFooter builds the command behind "Add Footer". It returns nil when a
// footer with content already exists.
func NewAddFooter(env Env) *UpdateFooter {
	if !env.Store.Footer().IsEmpty() {
		return nil
	}
	return &UpdateFooter{env: env, old: env.Store.Footer(), new: page.DefaultFooter(page.NewID())}
}

// NewFooterImage encodes src and builds a command that sets it as the footer
// image. When encoding fails no command is built and the footer is untouched.
func NewFooterImage(ctx context.Context, env Env, enc ImageEncoder, src string) (*UpdateFooter, error) {
	uri, err := enc.Encode(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("footer image: %w", err)
	}
	f := env.Store.Footer()
	if f == nil {
		f = &page.Footer{Elements: []*page.Element{}}
	}
	f.Image = uri
	return NewUpdateFooter(env, f)
}

// Footer returns the footer Execute installs.
func (c *UpdateFooter) Footer() *page.Footer {
	return c.new.Clone()
}

// Execute installs the new footer.
func (c *UpdateFooter) Execute() error {
	return c.set(c.new)
}

// Undo restores the old footer.
func (c *UpdateFooter) Undo() error {
	return c.set(c.old)
}

// Redo installs the new footer again.
func (c *UpdateFooter) Redo() error {
	return c.Execute()
}

// Description returns a human-readable description.
func (c *UpdateFooter) Description() string {
	return "Update footer"
}

func (c *UpdateFooter) set(f *page.Footer) error {
	if err := c.env.Store.SetFooter(f); err != nil {
		return err
	}
	c.env.notifier().FooterChanged(events.FooterChanged{})
	return nil
}

// UpdateHeader replaces the whole header.
type UpdateHeader struct {
	env      Env
	old, new *page.Header
}

// NewUpdateHeader captures the current header. A nil header removes it.
func NewUpdateHeader(env Env, h *page.Header) (*UpdateHeader, error) {
	if h != nil {
		if err := page.ValidateTree(h.Elements); err != nil {
			return nil, fmt.Errorf("header: %w", err)
		}
	}
	return &UpdateHeader{env: env, old: env.Store.Header(), new: h.Clone()}, nil
}

// NewHeaderImage encodes src and builds a command that sets it as the header
// image.
func NewHeaderImage(ctx context.Context, env Env, enc ImageEncoder, src string) (*UpdateHeader, error) {
	uri, err := enc.Encode(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("header image: %w", err)
	}
	h := env.Store.Header()
	if h == nil {
		h = &page.Header{Elements: []*page.Element{}}
	}
	h.Image = uri
	return NewUpdateHeader(env, h)
}

// Execute installs the new header.
func (c *UpdateHeader) Execute() error {
	return c.set(c.new)
}

// Undo restores the old header.
func (c *UpdateHeader) Undo() error {
	return c.set(c.old)
}

// Redo installs the new header again.
func (c *UpdateHeader) Redo() error {
	return c.Execute()
}

// Description returns a human-readable description.
func (c *UpdateHeader) Description() string {
	return "Update header"
}

func (c *UpdateHeader) set(h *page.Header) error {
	if err := c.env.Store.SetHeader(h); err != nil {
		return err
	}
	c.env.notifier().HeaderChanged(events.HeaderChanged{})
	return nil
}
