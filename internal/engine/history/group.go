package history

import "errors"

// BeginGroup opens a group. Commands executed until the matching EndGroup
// become one entry named name. Groups nest; only the outermost name is
// kept.
func (h *History) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.group == nil {
		h.group = &pending{name: name}
	}
	h.group.depth++
}

// EndGroup closes one level. Closing the outermost level records the
// collected commands; an empty group records nothing.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()
	g := h.group
	if g == nil {
		return
	}
	if g.depth--; g.depth > 0 {
		return
	}
	h.group = nil
	if len(g.cmds) > 0 {
		h.recordLocked(NewCompoundCommand(g.name, g.cmds...))
	}
}

// CancelGroup abandons the open group at every level and undoes its
// commands, newest first. Nothing is recorded.
func (h *History) CancelGroup() error {
	h.mu.Lock()
	g := h.group
	h.group = nil
	h.mu.Unlock()

	if g == nil {
		return nil
	}
	return undoAll(g.cmds)
}

// IsGrouping reports whether a group is open.
func (h *History) IsGrouping() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.group != nil
}

// GroupScope is a group closed with defer:
//
//	defer h.GroupScope("Apply theme").End()
type GroupScope struct {
	h    *History
	done bool
}

// GroupScope opens a group and returns its scope.
func (h *History) GroupScope(name string) *GroupScope {
	h.BeginGroup(name)
	return &GroupScope{h: h}
}

// End closes the group. Later calls do nothing.
func (g *GroupScope) End() {
	if !g.done {
		g.done = true
		g.h.EndGroup()
	}
}

// Cancel rolls the group back. Later calls, and End, do nothing.
func (g *GroupScope) Cancel() error {
	if g.done {
		return nil
	}
	g.done = true
	return g.h.CancelGroup()
}

// Transaction runs fn inside a group. When fn fails, what it executed is
// undone and the error is returned with any rollback failure.
func (h *History) Transaction(name string, fn func() error) error {
	scope := h.GroupScope(name)
	if err := fn(); err != nil {
		return errors.Join(err, scope.Cancel())
	}
	scope.End()
	return nil
}

// ExecuteGrouped executes cmds as one entry. A single command is recorded
// as itself.
func (h *History) ExecuteGrouped(name string, cmds ...Command) error {
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return h.Execute(cmds[0])
	}
	return h.Transaction(name, func() error {
		for _, cmd := range cmds {
			if err := h.Execute(cmd); err != nil {
				return err
			}
		}
		return nil
	})
}

// Checkpoint marks a position in the history.
type Checkpoint struct {
	applied int
}

// CreateCheckpoint marks the current position.
func (h *History) CreateCheckpoint() Checkpoint {
	return Checkpoint{applied: h.UndoCount()}
}

// UndoToCheckpoint undoes until the past is no longer than at cp.
func (h *History) UndoToCheckpoint(cp Checkpoint) error {
	for h.UndoCount() > cp.applied {
		if err := h.Undo(); err != nil {
			return err
		}
	}
	return nil
}

// RedoToCheckpoint redoes until the past is as long as at cp, or the
// future runs out.
func (h *History) RedoToCheckpoint(cp Checkpoint) error {
	for h.UndoCount() < cp.applied && h.CanRedo() {
		if err := h.Redo(); err != nil {
			return err
		}
	}
	return nil
}
