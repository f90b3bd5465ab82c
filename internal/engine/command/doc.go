// Package command implements the reversible edits of a page document.
//
// Every command captures the state it replaces when it is built, mutates the
// page.Store only in Execute, Undo and Redo, and reports each change through
// an events.Notifier. Commands are submitted to a history.History:
//
//	cmd, err := command.NewReorder(env, "a", "c")
//	if err != nil {
//	    return err
//	}
//	return hist.Execute(cmd)
package command

import (
	"github.com/dshills/pagecraft/internal/engine/page"
	"github.com/dshills/pagecraft/internal/event/events"
	"github.com/dshills/pagecraft/internal/style"
)

// Targets resolves the styled target of the page (empty id) or a section.
type Targets interface {
	Target(sectionID string) style.Target
	Remove(sectionID string)
}

// Env carries the collaborators shared by every command of a session.
type Env struct {
	Store  *page.Store
	Notify events.Notifier
	Styles Targets
}

func (e Env) notifier() events.Notifier {
	if e.Notify == nil {
		return events.Discard
	}
	return e.Notify
}

func (e Env) sectionsChanged() {
	e.notifier().SectionsChanged(events.SectionsChanged{Sections: e.Store.Sections()})
}

// syncSection rewrites the target of a section from its effective config.
func (e Env) syncSection(id string) {
	if e.Styles == nil {
		return
	}
	if cfg, ok := e.Store.EffectiveConfig(id); ok {
		style.Sync(e.Styles.Target(id), cfg)
	}
}

func (e Env) dropSection(id string) {
	if e.Styles != nil {
		e.Styles.Remove(id)
	}
}
