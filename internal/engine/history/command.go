package history

import (
	"errors"
	"fmt"
)

// Command is one reversible document edit. It captures its "before" state
// when it is built, so Execute, Undo and Redo take no arguments.
type Command interface {
	Execute() error
	Undo() error
	Redo() error
	Description() string
}

// CompoundCommand runs several commands as one history entry. Steps are
// undone newest first.
type CompoundCommand struct {
	name  string
	steps []Command
}

// NewCompoundCommand groups steps under name.
func NewCompoundCommand(name string, steps ...Command) *CompoundCommand {
	return &CompoundCommand{name: name, steps: steps}
}

// Execute runs the steps in order. When one fails, the steps before it are
// undone.
func (c *CompoundCommand) Execute() error {
	return c.forward("execute", Command.Execute)
}

// Redo re-applies the steps in order with the same rollback as Execute.
func (c *CompoundCommand) Redo() error {
	return c.forward("redo", Command.Redo)
}

func (c *CompoundCommand) forward(op string, run func(Command) error) error {
	for i, step := range c.steps {
		if err := run(step); err != nil {
			return errors.Join(
				fmt.Errorf("%s %q step %d: %w", op, c.Description(), i, err),
				undoAll(c.steps[:i]),
			)
		}
	}
	return nil
}

// Undo reverses the steps, newest first.
func (c *CompoundCommand) Undo() error {
	if err := undoAll(c.steps); err != nil {
		return fmt.Errorf("undo %q: %w", c.Description(), err)
	}
	return nil
}

// undoAll undoes steps newest first and stops at the first failure.
func undoAll(steps []Command) error {
	for i := len(steps) - 1; i >= 0; i-- {
		if err := steps[i].Undo(); err != nil {
			return err
		}
	}
	return nil
}

// Description is the group name, the only step's description, or a count.
func (c *CompoundCommand) Description() string {
	switch {
	case c.name != "":
		return c.name
	case len(c.steps) == 1:
		return c.steps[0].Description()
	default:
		return fmt.Sprintf("%d operations", len(c.steps))
	}
}

// Len returns the number of steps.
func (c *CompoundCommand) Len() int { return len(c.steps) }
