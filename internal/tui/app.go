package tui

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/pagecraft/internal/engine/history"
	"github.com/dshills/pagecraft/internal/menu"
)

// SaveFunc persists the document.
type SaveFunc func(ctx context.Context) error

// Options configures an App.
type Options struct {
	Save   SaveFunc
	Logger *slog.Logger
}

// App routes terminal input to the menu engine and redraws after every
// event.
type App struct {
	view   *View
	engine *menu.Engine
	hist   *history.History
	save   SaveFunc
	logger *slog.Logger

	pointer pointerTracker
	edit    []rune
	status  string
	quit    bool
}

// NewApp creates the controller. engine must have been created with view as
// its layout.
func NewApp(view *View, engine *menu.Engine, hist *history.History, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		view:   view,
		engine: engine,
		hist:   hist,
		save:   opts.Save,
		logger: logger,
	}
}

// OpenScreen creates and initializes the terminal screen with mouse
// reporting enabled. The caller must call Fini.
func OpenScreen() (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()
	return screen, nil
}

// Run draws the menu and handles events until q is pressed or ctx ends.
func (a *App) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		_ = a.view.screen.PostEvent(tcell.NewEventInterrupt(nil)) // wake PollEvent
	})
	defer stop()

	a.Draw()
	for {
		ev := a.view.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		a.HandleEvent(ctx, ev)
		if a.quit {
			return nil
		}
		a.Draw()
	}
}

// Draw paints the current state.
func (a *App) Draw() {
	renaming, _ := a.engine.Renaming()
	a.view.Draw(Frame{
		Items:      a.engine.Items(),
		Focused:    a.engine.Focused(),
		Dragging:   a.engine.Dragging(),
		ActiveLine: a.engine.ActiveLine(),
		Renaming:   renaming,
		EditText:   string(a.edit),
		Status:     a.status,
	})
}

// Quit reports whether the user asked to leave.
func (a *App) Quit() bool {
	return a.quit
}

// Status returns the last status message.
func (a *App) Status() string {
	return a.status
}

// HandleEvent applies one terminal event.
func (a *App) HandleEvent(ctx context.Context, ev tcell.Event) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		if _, ok := a.engine.Renaming(); ok {
			a.handleEditKey(e)
			return
		}
		a.handleKey(ctx, e)
	case *tcell.EventMouse:
		a.handleMouse(ctx, e)
	case *tcell.EventResize:
		a.view.screen.Sync()
	}
}

func (a *App) handleKey(ctx context.Context, e *tcell.EventKey) {
	a.status = ""
	switch e.Key() {
	case tcell.KeyEscape:
		a.engine.CancelDrag()
		a.pointer.reset()
		return
	case tcell.KeyEnter:
		if id := a.engine.Focused(); id != "" {
			a.report("go to", a.engine.GoToSection(ctx, id))
		}
		return
	case tcell.KeyUp:
		a.moveFocus(-1)
		return
	case tcell.KeyDown:
		a.moveFocus(1)
		return
	case tcell.KeyRune:
	default:
		return
	}

	switch e.Rune() {
	case 'q':
		a.quit = true
	case 'u':
		if !a.hist.CanUndo() {
			a.status = "nothing to undo"
			return
		}
		a.report("undo", a.hist.Undo())
	case 'r':
		if !a.hist.CanRedo() {
			a.status = "nothing to redo"
			return
		}
		a.report("redo", a.hist.Redo())
	case 'e':
		a.beginRename()
	case 's':
		a.doSave(ctx)
	case 'j':
		a.moveFocus(1)
	case 'k':
		a.moveFocus(-1)
	}
}

func (a *App) handleEditKey(e *tcell.EventKey) {
	switch e.Key() {
	case tcell.KeyEnter:
		name := string(a.edit)
		a.edit = nil
		a.report("rename", a.engine.CommitRename(name))
	case tcell.KeyEscape:
		a.edit = nil
		a.engine.CancelRename()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(a.edit) > 0 {
			a.edit = a.edit[:len(a.edit)-1]
		}
	case tcell.KeyRune:
		a.edit = append(a.edit, e.Rune())
	}
}

func (a *App) beginRename() {
	id := a.engine.Focused()
	if id == "" || !a.engine.BeginRename(id) {
		a.status = "select a section to rename"
		return
	}
	a.edit = nil
}

func (a *App) handleMouse(ctx context.Context, e *tcell.EventMouse) {
	x, y := e.Position()
	p := menu.Point{X: x, Y: y}

	switch a.pointer.update(p, e.Buttons()&tcell.Button1 != 0) {
	case pointerPress:
		items := a.engine.Items()
		i, ok := a.view.CardAt(len(items), x, y)
		if !ok {
			return
		}
		a.engine.Focus(items[i].ID)
		a.engine.StartDrag(items[i].ID)
	case pointerMove:
		if a.engine.Dragging() != "" {
			a.engine.Move(p)
		}
	case pointerRelease:
		if a.engine.Dragging() != "" {
			a.report("reorder", a.engine.EndDrag(ctx))
		}
	}
}

func (a *App) moveFocus(delta int) {
	items := a.engine.Items()
	if len(items) == 0 {
		return
	}
	idx := -1
	focused := a.engine.Focused()
	for i, it := range items {
		if it.ID == focused {
			idx = i
			break
		}
	}
	switch {
	case idx < 0 && delta > 0:
		idx = 0
	case idx < 0:
		idx = len(items) - 1
	default:
		idx = min(max(idx+delta, 0), len(items)-1)
	}
	a.engine.Focus(items[idx].ID)
}

func (a *App) doSave(ctx context.Context) {
	if a.save == nil {
		a.status = "saving is not configured"
		return
	}
	if err := a.save(ctx); err != nil {
		a.report("save", err)
		return
	}
	a.status = "saved"
}

func (a *App) report(op string, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}
	a.logger.Error("menu action failed", slog.String("op", op), slog.Any("error", err))
	a.status = op + ": " + err.Error()
}
