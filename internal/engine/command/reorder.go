package command

import (
	"fmt"
	"slices"

	"github.com/dshills/pagecraft/internal/engine/page"
)

// Move returns order with dragged removed and re-inserted immediately
// before target. The input is not modified. When dragged equals target, or
// either is absent, the result equals the input.
func Move(order []string, dragged, target string) []string {
	out := slices.Clone(order)
	if dragged == target {
		return out
	}
	from := slices.Index(out, dragged)
	if from < 0 || !slices.Contains(out, target) {
		return out
	}
	out = slices.Delete(out, from, from+1)
	to := slices.Index(out, target)
	return slices.Insert(out, to, dragged)
}

// Reorder moves one section before another.
type Reorder struct {
	env      Env
	dragged  string
	target   string
	original []string
}

// NewReorder captures the current section order and prepares to move dragged
// before target.
func NewReorder(env Env, dragged, target string) (*Reorder, error) {
	return NewReorderFrom(env, dragged, target, env.Store.SectionIDs())
}

// NewReorderFrom prepares a move over an order captured by the caller.
func NewReorderFrom(env Env, dragged, target string, original []string) (*Reorder, error) {
	for _, id := range []string{dragged, target} {
		if !slices.Contains(original, id) {
			return nil, fmt.Errorf("%w: %s", page.ErrSectionNotFound, id)
		}
	}
	return &Reorder{
		env:      env,
		dragged:  dragged,
		target:   target,
		original: slices.Clone(original),
	}, nil
}

// Result returns the order Execute produces.
func (c *Reorder) Result() []string {
	return Move(c.original, c.dragged, c.target)
}

// IsNoop reports whether executing the command would leave the order as it
// was.
func (c *Reorder) IsNoop() bool {
	return slices.Equal(c.Result(), c.original)
}

// Execute applies the move to the captured order.
func (c *Reorder) Execute() error {
	if err := c.env.Store.SetSectionOrder(c.Result()); err != nil {
		return fmt.Errorf("reorder: %w", err)
	}
	c.env.sectionsChanged()
	return nil
}

// Undo restores the captured order.
func (c *Reorder) Undo() error {
	if err := c.env.Store.SetSectionOrder(c.original); err != nil {
		return fmt.Errorf("undo reorder: %w", err)
	}
	c.env.sectionsChanged()
	return nil
}

// Redo repeats the move from the captured order.
func (c *Reorder) Redo() error {
	return c.Execute()
}

// Description returns a human-readable description.
func (c *Reorder) Description() string {
	return fmt.Sprintf("Move section %s before %s", c.dragged, c.target)
}
