package menu

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dshills/pagecraft/internal/engine/command"
	"github.com/dshills/pagecraft/internal/engine/history"
	"github.com/dshills/pagecraft/internal/engine/page"
	"github.com/dshills/pagecraft/internal/event"
	"github.com/dshills/pagecraft/internal/event/events"
)

// Errors returned by the engine.
var (
	ErrNotRenaming = errors.New("no rename in progress")
	ErrUnknownItem = errors.New("unknown menu item")
)

// Item is one card of the menu.
type Item struct {
	ID      string
	Caption string
}

// Engine holds the interactive state of the section menu.
type Engine struct {
	mu sync.Mutex

	env    command.Env
	hist   *history.History
	layout Layout

	items      []Item
	dragging   string
	activeLine int
	renaming   string
	focused    string
}

// NewEngine creates a menu over the sections currently in env.Store.
func NewEngine(env command.Env, hist *history.History, layout Layout) *Engine {
	e := &Engine{
		env:        env,
		hist:       hist,
		layout:     layout,
		activeLine: -1,
	}
	e.Render(env.Store.Sections())
	return e
}

// Render rebuilds the cards from a section list. A rename or drag whose
// section disappeared is abandoned.
func (e *Engine) Render(sections []*page.Section) {
	items := make([]Item, len(sections))
	for i, s := range sections {
		items[i] = Item{ID: s.ID, Caption: s.Title()}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.items = items
	if !e.hasItemLocked(e.renaming) {
		e.renaming = ""
	}
	if !e.hasItemLocked(e.dragging) {
		e.dragging = ""
		e.activeLine = -1
	}
}

// Subscribe keeps the engine in step with the bus: it re-renders on
// sections-changed and moves the focus on section-selected.
func (e *Engine) Subscribe(sub *event.Subscriber) error {
	if _, err := event.SubscribePayload(sub, events.TopicSectionsChanged,
		func(_ context.Context, p events.SectionsChanged) error {
			e.Render(p.Sections)
			return nil
		}); err != nil {
		return fmt.Errorf("subscribe sections: %w", err)
	}
	if _, err := event.SubscribePayload(sub, events.TopicSectionSelected,
		func(_ context.Context, p events.SectionSelected) error {
			e.Focus(p.SectionID)
			return nil
		}); err != nil {
		return fmt.Errorf("subscribe selection: %w", err)
	}
	return nil
}

// Items returns the cards in menu order.
func (e *Engine) Items() []Item {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.items)
}

// Bounds returns the current geometry of the menu.
func (e *Engine) Bounds() (Rect, []Rect) {
	e.mu.Lock()
	n := len(e.items)
	e.mu.Unlock()
	return e.layout.Bounds(n)
}

// StartDrag begins dragging the card of section id. It is rejected for an
// empty or unknown id and while a rename is pending.
func (e *Engine) StartDrag(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if id == "" || e.renaming != "" || !e.hasItemLocked(id) {
		return false
	}
	e.dragging = id
	e.activeLine = -1
	return true
}

// Dragging returns the id being dragged, or "".
func (e *Engine) Dragging() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dragging
}

// Move updates the active drop line for a pointer position. A pointer over
// no card leaves the current line lit.
func (e *Engine) Move(p Point) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.dragging == "" {
		return
	}
	menu, cards := e.layout.Bounds(len(e.items))
	if line, ok := DropIndex(menu, cards, p); ok {
		e.activeLine = line
	}
}

// ActiveLine returns the lit drop line, or -1.
func (e *Engine) ActiveLine() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.activeLine
}

// EndDrag finishes the drag. When a line is lit and the move changes the
// order, a reorder is submitted to the history. The drag state is cleared in
// every case.
func (e *Engine) EndDrag(ctx context.Context) error {
	e.mu.Lock()
	dragged := e.dragging
	line := e.activeLine
	order := make([]string, len(e.items))
	for i, it := range e.items {
		order[i] = it.ID
	}
	e.dragging = ""
	e.activeLine = -1
	e.mu.Unlock()

	if dragged == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	idx := ResolveDropLine(line, len(order))
	if idx < 0 {
		return nil
	}

	cmd, err := command.NewReorderFrom(e.env, dragged, order[idx], order)
	if err != nil {
		return err
	}
	if cmd.IsNoop() {
		return nil
	}
	return e.hist.Execute(cmd)
}

// CancelDrag abandons the drag without reordering.
func (e *Engine) CancelDrag() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dragging = ""
	e.activeLine = -1
}

// BeginRename opens the editor on a card. Dragging is disabled until the
// rename is committed or cancelled.
func (e *Engine) BeginRename(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hasItemLocked(id) || e.dragging != "" {
		return false
	}
	e.renaming = id
	return true
}

// Renaming returns the id of the card being renamed.
func (e *Engine) Renaming() (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.renaming, e.renaming != ""
}

// CommitRename closes the editor and submits the new name as an undoable
// rename. An unchanged name closes the editor without a command.
func (e *Engine) CommitRename(name string) error {
	e.mu.Lock()
	id := e.renaming
	e.renaming = ""
	e.mu.Unlock()

	if id == "" {
		return ErrNotRenaming
	}
	sec, ok := e.env.Store.Section(id)
	if !ok {
		return fmt.Errorf("%w: %s", page.ErrSectionNotFound, id)
	}
	if sec.Name == name {
		return nil
	}
	cmd, err := command.NewRenameSection(e.env, id, name)
	if err != nil {
		return err
	}
	return e.hist.Execute(cmd)
}

// CancelRename closes the editor without renaming.
func (e *Engine) CancelRename() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.renaming = ""
}

// Focus highlights the card of section id. An unknown id clears the focus.
func (e *Engine) Focus(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.hasItemLocked(id) {
		e.focused = id
	} else {
		e.focused = ""
	}
}

// Focused returns the highlighted section id, or "".
func (e *Engine) Focused() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.focused
}

// GoToSection asks views to scroll to the section and announces it as
// selected.
func (e *Engine) GoToSection(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.mu.Lock()
	known := e.hasItemLocked(id)
	e.mu.Unlock()
	if !known {
		return fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}

	n := e.env.Notify
	if n == nil {
		n = events.Discard
	}
	n.ScrollToSection(events.ScrollToSection{SectionID: id})
	n.SectionSelected(events.SectionSelected{SectionID: id})
	return nil
}

func (e *Engine) hasItemLocked(id string) bool {
	if id == "" {
		return false
	}
	for _, it := range e.items {
		if it.ID == id {
			return true
		}
	}
	return false
}
