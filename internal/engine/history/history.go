package history

import (
	"sync"
	"time"
)

// OperationInfo describes a history entry for display.
type OperationInfo struct {
	Description string
	Timestamp   time.Time
}

type entry struct {
	cmd Command
	at  time.Time
}

func (e entry) info() OperationInfo {
	return OperationInfo{Description: e.cmd.Description(), Timestamp: e.at}
}

// History records executed commands for undo and redo.
//
// Entries before the cursor are the past and can be undone; entries from
// the cursor on are the future and can be redone, the one at the cursor
// first. The lock is not held while a command runs, so commands and the
// handlers they notify may read the history.
type History struct {
	mu      sync.Mutex
	entries []entry
	applied int
	limit   int

	// gen changes whenever entries is rewritten, so a failed Undo or Redo
	// only restores the cursor if nothing else moved it.
	gen uint64

	group *pending
}

// pending collects the commands of an open group.
type pending struct {
	name  string
	depth int
	cmds  []Command
}

// NewHistory creates a history keeping at most limit undoable entries.
// A limit of zero or less keeps everything.
func NewHistory(limit int) *History {
	return &History{limit: max(limit, 0)}
}

// Execute runs cmd and records it, discarding the future. A command whose
// Execute fails is not recorded and the future is kept.
func (h *History) Execute(cmd Command) error {
	if err := cmd.Execute(); err != nil {
		return err
	}
	h.Push(cmd)
	return nil
}

// Push records a command that has already been executed.
func (h *History) Push(cmd Command) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.group != nil {
		h.group.cmds = append(h.group.cmds, cmd)
		return
	}
	h.recordLocked(cmd)
}

func (h *History) recordLocked(cmd Command) {
	h.entries = append(h.entries[:h.applied:h.applied], entry{cmd: cmd, at: time.Now()})
	h.applied++
	h.gen++
	h.trimLocked()
}

// trimLocked evicts the oldest past entries beyond the limit.
func (h *History) trimLocked() {
	if h.limit == 0 || h.applied <= h.limit {
		return
	}
	drop := h.applied - h.limit
	h.entries = h.entries[drop:]
	h.applied -= drop
	h.gen++
}

// Undo reverses the newest past entry. It is a no-op on an empty past.
// When the command's Undo fails the entry stays in the past.
func (h *History) Undo() error {
	h.mu.Lock()
	if h.applied == 0 {
		h.mu.Unlock()
		return nil
	}
	h.applied--
	e, gen := h.entries[h.applied], h.gen
	h.mu.Unlock()

	if err := e.cmd.Undo(); err != nil {
		h.mu.Lock()
		if h.gen == gen {
			h.applied++
		}
		h.mu.Unlock()
		return err
	}
	return nil
}

// Redo re-applies the next future entry. It is a no-op on an empty future.
// When the command's Redo fails the entry stays in the future.
func (h *History) Redo() error {
	h.mu.Lock()
	if h.applied == len(h.entries) {
		h.mu.Unlock()
		return nil
	}
	e, gen := h.entries[h.applied], h.gen
	h.applied++
	h.mu.Unlock()

	if err := e.cmd.Redo(); err != nil {
		h.mu.Lock()
		if h.gen == gen {
			h.applied--
		}
		h.mu.Unlock()
		return err
	}

	h.mu.Lock()
	h.trimLocked()
	h.mu.Unlock()
	return nil
}

// CanUndo reports whether the past is non-empty.
func (h *History) CanUndo() bool { return h.UndoCount() > 0 }

// CanRedo reports whether the future is non-empty.
func (h *History) CanRedo() bool { return h.RedoCount() > 0 }

// UndoCount returns the number of past entries.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.applied
}

// RedoCount returns the number of future entries.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries) - h.applied
}

// Clear forgets every entry and any open group.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = nil
	h.applied = 0
	h.group = nil
	h.gen++
}

// UndoInfo describes the past, oldest first.
func (h *History) UndoInfo() []OperationInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return infos(h.entries[:h.applied])
}

// RedoInfo describes the future, next redo first.
func (h *History) RedoInfo() []OperationInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return infos(h.entries[h.applied:])
}

func infos(es []entry) []OperationInfo {
	out := make([]OperationInfo, len(es))
	for i, e := range es {
		out[i] = e.info()
	}
	return out
}

// PeekUndo describes the entry Undo would reverse.
func (h *History) PeekUndo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.applied == 0 {
		return OperationInfo{}, false
	}
	return h.entries[h.applied-1].info(), true
}

// PeekRedo describes the entry Redo would re-apply.
func (h *History) PeekRedo() (OperationInfo, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.applied == len(h.entries) {
		return OperationInfo{}, false
	}
	return h.entries[h.applied].info(), true
}

// SetMaxEntries changes the limit and evicts the oldest entries beyond it.
func (h *History) SetMaxEntries(limit int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.limit = max(limit, 0)
	h.trimLocked()
}

// MaxEntries returns the limit, zero when unbounded.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.limit
}
