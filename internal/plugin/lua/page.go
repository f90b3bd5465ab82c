package lua

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"gopkg.in/yaml.v3"

	"github.com/dshills/pagecraft/internal/engine/command"
	"github.com/dshills/pagecraft/internal/engine/history"
	"github.com/dshills/pagecraft/internal/engine/page"
)

// ModuleName is the name the page API is required and installed under.
const ModuleName = "page"

// PageAPI binds the document and its history to the "page" module.
type PageAPI struct {
	env    command.Env
	hist   *history.History
	images command.ImageEncoder
}

// NewPageAPI creates the page module for env. Mutations are recorded in
// hist. Header and footer images are read with command.DataURIEncoder.
func NewPageAPI(env command.Env, hist *history.History) *PageAPI {
	return &PageAPI{env: env, hist: hist, images: command.DataURIEncoder{}}
}

// SetImageEncoder replaces the encoder used by header_image and
// footer_image.
func (p *PageAPI) SetImageEncoder(enc command.ImageEncoder) {
	p.images = enc
}

// Install preloads the module and also exposes it as a global.
func (p *PageAPI) Install(s *State) {
	s.PreloadModule(ModuleName, p.Loader)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		p.Loader(s.L)
		s.L.SetGlobal(ModuleName, s.L.Get(-1))
		s.L.Pop(1)
	}
}

// Loader builds the module table.
func (p *PageAPI) Loader(L *lua.LState) int {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"sections":       p.sections,
		"element":        p.element,
		"reorder":        p.reorder,
		"rename":         p.rename,
		"settings":       p.settings,
		"set_element":    p.setElement,
		"add_section":    p.addSection,
		"remove_section": p.removeSection,
		"add_footer":     p.addFooter,
		"footer_image":   p.footerImage,
		"header_image":   p.headerImage,
		"undo":           p.undo,
		"redo":           p.redo,
		"transaction":    p.transaction,
	})
	L.Push(mod)
	return 1
}

// sections() returns {id, name, title, elements} for each section in order.
func (p *PageAPI) sections(L *lua.LState) int {
	out := L.NewTable()
	for _, sec := range p.env.Store.Sections() {
		t := L.NewTable()
		t.RawSetString("id", lua.LString(sec.ID))
		t.RawSetString("name", lua.LString(sec.Name))
		t.RawSetString("title", lua.LString(sec.Title()))
		t.RawSetString("elements", lua.LNumber(page.Count(sec.Elements)))
		out.Append(t)
	}
	L.Push(out)
	return 1
}

// element(sectionId, elementId) returns the element or nil.
func (p *PageAPI) element(L *lua.LState) int {
	e, ok := p.env.Store.Element(L.CheckString(1), L.CheckString(2))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(NewBridge(L).ToLuaValue(e))
	return 1
}

// reorder(dragged, target) moves dragged before target. It returns false
// when the order would not change.
func (p *PageAPI) reorder(L *lua.LState) int {
	cmd, err := command.NewReorder(p.env, L.CheckString(1), L.CheckString(2))
	if err != nil {
		raise(L, err)
	}
	if cmd.IsNoop() {
		L.Push(lua.LFalse)
		return 1
	}
	p.exec(L, cmd)
	L.Push(lua.LTrue)
	return 1
}

// rename(sectionId, name)
func (p *PageAPI) rename(L *lua.LState) int {
	cmd, err := command.NewRenameSection(p.env, L.CheckString(1), L.CheckString(2))
	if err != nil {
		raise(L, err)
	}
	p.exec(L, cmd)
	return 0
}

// settings(tbl [, sectionId]) applies a settings request and returns the
// emitted patch.
func (p *PageAPI) settings(L *lua.LState) int {
	req, err := decodeUpdate(NewBridge(L).ToGoValue(L.CheckTable(1)))
	if err != nil {
		L.ArgError(1, err.Error())
	}
	cmd, err := command.NewUpdateSettings(p.env, L.OptString(2, ""), req)
	if err != nil {
		raise(L, err)
	}
	p.exec(L, cmd)
	L.Push(NewBridge(L).ToLuaValue(cmd.Patch()))
	return 1
}

// set_element(sectionId, elementId, props) replaces an element's property
// bag.
func (p *PageAPI) setElement(L *lua.LState) int {
	var props page.Properties
	if m, ok := NewBridge(L).ToGoValue(L.CheckTable(3)).(map[string]any); ok {
		props = m
	} else {
		props = page.Properties{}
	}
	cmd, err := command.NewSetElementProperties(p.env, L.CheckString(1), L.CheckString(2), props)
	if err != nil {
		raise(L, err)
	}
	p.exec(L, cmd)
	return 0
}

// add_section([name [, position]]) inserts an empty section and returns its
// id. Position is 1-based; without one the section is appended.
func (p *PageAPI) addSection(L *lua.LState) int {
	sec := page.NewSection(page.NewID())
	sec.Name = L.OptString(1, "")
	index := L.OptInt(2, 0) - 1
	p.exec(L, command.NewAddSection(p.env, sec, index))
	L.Push(lua.LString(sec.ID))
	return 1
}

// remove_section(id)
func (p *PageAPI) removeSection(L *lua.LState) int {
	cmd, err := command.NewRemoveSection(p.env, L.CheckString(1))
	if err != nil {
		raise(L, err)
	}
	p.exec(L, cmd)
	return 0
}

// add_footer() installs the default single-textbox footer. It returns false
// when the page already has one.
func (p *PageAPI) addFooter(L *lua.LState) int {
	cmd := command.NewAddFooter(p.env)
	if cmd == nil {
		L.Push(lua.LFalse)
		return 1
	}
	p.exec(L, cmd)
	L.Push(lua.LTrue)
	return 1
}

// footer_image(path) sets the footer background from an image file.
func (p *PageAPI) footerImage(L *lua.LState) int {
	cmd, err := command.NewFooterImage(scriptContext(L), p.env, p.images, L.CheckString(1))
	if err != nil {
		raise(L, err)
	}
	p.exec(L, cmd)
	return 0
}

// header_image(path) sets the header background from an image file.
func (p *PageAPI) headerImage(L *lua.LState) int {
	cmd, err := command.NewHeaderImage(scriptContext(L), p.env, p.images, L.CheckString(1))
	if err != nil {
		raise(L, err)
	}
	p.exec(L, cmd)
	return 0
}

func scriptContext(L *lua.LState) context.Context {
	if ctx := L.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// undo() returns false when there was nothing to undo.
func (p *PageAPI) undo(L *lua.LState) int {
	if !p.hist.CanUndo() {
		L.Push(lua.LFalse)
		return 1
	}
	if err := p.hist.Undo(); err != nil {
		raise(L, err)
	}
	L.Push(lua.LTrue)
	return 1
}

// redo() returns false when there was nothing to redo.
func (p *PageAPI) redo(L *lua.LState) int {
	if !p.hist.CanRedo() {
		L.Push(lua.LFalse)
		return 1
	}
	if err := p.hist.Redo(); err != nil {
		raise(L, err)
	}
	L.Push(lua.LTrue)
	return 1
}

// transaction(name, fn) records everything fn does as one history entry.
// An error inside fn rolls the whole group back and is re-raised. Nested
// transactions join the outermost one.
func (p *PageAPI) transaction(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)
	call := func() error {
		return L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true})
	}
	var err error
	if p.hist.IsGrouping() {
		err = call()
	} else {
		err = p.hist.Transaction(name, call)
	}
	if err != nil {
		raise(L, err)
	}
	return 0
}

func (p *PageAPI) exec(L *lua.LState, cmd history.Command) {
	if err := p.hist.Execute(cmd); err != nil {
		raise(L, err)
	}
}

// raise converts a Go error into a Lua error. It does not return.
func raise(L *lua.LState, err error) {
	var apiErr *lua.ApiError
	if errors.As(err, &apiErr) {
		L.Error(apiErr.Object, 0)
		return
	}
	L.RaiseError("%s", err.Error())
}

// decodeUpdate converts a script table into a settings request. Unknown
// keys are rejected.
func decodeUpdate(v any) (page.ConfigUpdate, error) {
	var u page.ConfigUpdate
	m, ok := v.(map[string]any)
	if !ok {
		return u, fmt.Errorf("settings must be a table of fields")
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		return u, err
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&u); err != nil {
		return u, err
	}
	return u, nil
}

// RunFile runs a script against api in a fresh state.
func RunFile(ctx context.Context, path string, api *PageAPI, opts ...StateOption) error {
	s := NewState(opts...)
	defer s.Close()
	api.Install(s)
	return s.DoFile(ctx, path)
}
