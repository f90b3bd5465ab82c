package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/tidwall/gjson"

	"github.com/dshills/pagecraft/internal/config"
	"github.com/dshills/pagecraft/internal/config/watcher"
	"github.com/dshills/pagecraft/internal/engine/command"
	"github.com/dshills/pagecraft/internal/engine/history"
	"github.com/dshills/pagecraft/internal/engine/page"
	"github.com/dshills/pagecraft/internal/event"
	"github.com/dshills/pagecraft/internal/event/events"
	"github.com/dshills/pagecraft/internal/menu"
	"github.com/dshills/pagecraft/internal/plugin/lua"
	"github.com/dshills/pagecraft/internal/storage"
	"github.com/dshills/pagecraft/internal/style"
	"github.com/dshills/pagecraft/internal/tui"
)

// eventSource tags events published by the session.
const eventSource = "app"

// Options configures New.
type Options struct {
	// Config is passed to config.Load.
	Config config.Options

	// LogOutput defaults to os.Stderr.
	LogOutput io.Writer

	// Repository replaces the one opened from the storage config.
	Repository storage.Repository
}

// App is one editing session over a document repository.
type App struct {
	mu sync.Mutex

	cfgOpts config.Options
	snap    *config.Snapshot

	level  *slog.LevelVar
	logger *slog.Logger

	repo    storage.Repository
	bus     event.Bus
	sub     *event.Subscriber
	pub     *event.Publisher
	store   *page.Store
	hist    *history.History
	styles  *style.Registry
	env     command.Env
	watcher *watcher.Watcher

	document string
	closed   bool
}

// New loads the configuration and wires a session. No document is open
// yet.
func New(opts Options) (*App, error) {
	snap, err := config.Load(opts.Config)
	if err != nil {
		return nil, NewOperationError("load config", opts.Config.File, err)
	}
	cfg := snap.Config

	level := new(slog.LevelVar)
	level.Set(ParseLogLevel(cfg.Logging.Level))
	logger := NewLogger(LoggerConfig{Level: level, Format: cfg.Logging.Format, Output: opts.LogOutput})

	repo := opts.Repository
	if repo == nil {
		repo, err = storage.Open(cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInitialization, err)
		}
	}

	bus := event.NewBus(event.WithErrorHandler(func(ev any, err error) {
		logger.Error("event handler failed", slog.Any("event", topicOf(ev)), slog.Any("error", err))
	}))
	styles := style.NewRegistry()
	a := &App{
		cfgOpts: opts.Config,
		snap:    snap,
		level:   level,
		logger:  logger,
		repo:    repo,
		bus:     bus,
		sub:     event.NewSubscriber(bus),
		pub:     event.NewPublisher(bus, eventSource),
		store:   page.NewStore(),
		hist:    history.NewHistory(cfg.Editor.HistoryLimit),
		styles:  styles,
	}
	a.env = command.Env{Store: a.store, Notify: events.NewBusNotifier(bus, eventSource), Styles: styles}

	if err := a.subscribe(); err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("%w: %w", ErrInitialization, err)
	}
	logger.Debug("session ready",
		slog.String("config", snap.File),
		slog.String("driver", cfg.Storage.Driver),
		slog.Int("historyLimit", cfg.Editor.HistoryLimit))
	return a, nil
}

// subscribe logs every page notification at debug level, after all other
// handlers.
func (a *App) subscribe() error {
	_, err := a.sub.SubscribeFunc("page.**", func(_ context.Context, ev any) error {
		a.logger.Debug("page notification",
			slog.String("topic", topicOf(ev)),
			slog.String("source", event.SourceOf(ev)))
		return nil
	}, event.WithPriority(event.PriorityLow))
	return err
}

func topicOf(ev any) string {
	if tp, ok := ev.(event.TopicProvider); ok {
		return tp.EventTopic().String()
	}
	return fmt.Sprintf("%T", ev)
}

// Config returns the active configuration.
func (a *App) Config() config.Config {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.snap.Config
}

// Logger returns the session logger.
func (a *App) Logger() *slog.Logger { return a.logger }

// Store returns the document store.
func (a *App) Store() *page.Store { return a.store }

// History returns the undo history.
func (a *App) History() *history.History { return a.hist }

// Env returns the command environment of the session.
func (a *App) Env() command.Env { return a.env }

// Bus returns the session event bus.
func (a *App) Bus() event.Bus { return a.bus }

// Styles returns the style registry kept in sync with the document.
func (a *App) Styles() *style.Registry { return a.styles }

// Repository returns the document repository.
func (a *App) Repository() storage.Repository { return a.repo }

// Document returns the name of the open document, or "".
func (a *App) Document() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.document
}

// DocumentName resolves name against the configured default document.
func (a *App) DocumentName(name string) string {
	if name != "" {
		return name
	}
	return a.Config().Storage.Document
}

// Open loads a document into the store. A document that does not exist
// yet starts empty. History is cleared.
func (a *App) Open(ctx context.Context, name string) error {
	name = a.DocumentName(name)
	doc, err := a.repo.Load(ctx, name)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		doc = page.NewDocument()
		if ts := page.TextSize(a.Config().Editor.DefaultTextSize); ts.Valid() {
			doc.Config.TextSize = ts
		}
		a.logger.Info("new document", slog.String("document", name))
	case err != nil:
		return NewOperationError("open", name, err)
	}

	if err := a.store.Load(doc); err != nil {
		return NewOperationError("open", name, err)
	}
	a.hist.Clear()
	a.syncStyles()

	a.mu.Lock()
	a.document = name
	a.mu.Unlock()

	a.env.Notify.SectionsChanged(events.SectionsChanged{Sections: a.store.Sections()})
	return nil
}

// syncStyles rebuilds every style target from the store. Sheets of sections
// from a previous document are dropped.
func (a *App) syncStyles() {
	a.styles.Reset()
	style.Sync(a.styles.Target(""), a.store.Config())
	for _, id := range a.store.SectionIDs() {
		if cfg, ok := a.store.EffectiveConfig(id); ok {
			style.Sync(a.styles.Target(id), cfg)
		}
	}
}

// Save writes the open document to the repository.
func (a *App) Save(ctx context.Context) error {
	name := a.Document()
	if name == "" {
		return ErrNoDocument
	}
	if err := a.repo.Save(ctx, name, a.store.Document()); err != nil {
		return NewOperationError("save", name, err)
	}
	a.logger.Info("document saved", slog.String("document", name))
	return nil
}

// Export encodes a stored document in the given format.
func (a *App) Export(ctx context.Context, name, format string) ([]byte, error) {
	name = a.DocumentName(name)
	codec, err := storage.CodecFor(format)
	if err != nil {
		return nil, NewOperationError("export", name, err)
	}
	doc, err := a.repo.Load(ctx, name)
	if err != nil {
		return nil, NewOperationError("export", name, err)
	}
	data, err := codec.Marshal(doc)
	if err != nil {
		return nil, NewOperationError("export", name, err)
	}
	return data, nil
}

// Import validates data and stores it under name, replacing any existing
// document.
func (a *App) Import(ctx context.Context, name, format string, data []byte) error {
	name = a.DocumentName(name)
	codec, err := storage.CodecFor(format)
	if err != nil {
		return NewOperationError("import", name, err)
	}
	doc, err := storage.Decode(codec, data)
	if err != nil {
		return NewOperationError("import", name, err)
	}
	if err := a.repo.Save(ctx, name, doc); err != nil {
		return NewOperationError("import", name, err)
	}
	return nil
}

// Query evaluates a gjson path against the JSON form of a stored document.
func (a *App) Query(ctx context.Context, name, path string) (gjson.Result, error) {
	name = a.DocumentName(name)
	doc, err := a.repo.Load(ctx, name)
	if err != nil {
		return gjson.Result{}, NewOperationError("query", name, err)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return gjson.Result{}, NewOperationError("query", name, err)
	}
	return gjson.GetBytes(data, path), nil
}

// List returns the stored documents.
func (a *App) List(ctx context.Context) ([]storage.Info, error) {
	infos, err := a.repo.List(ctx)
	if err != nil {
		return nil, NewOperationError("list", "", err)
	}
	return infos, nil
}

// Delete removes a stored document.
func (a *App) Delete(ctx context.Context, name string) error {
	name = a.DocumentName(name)
	if err := a.repo.Delete(ctx, name); err != nil {
		return NewOperationError("delete", name, err)
	}
	a.logger.Info("document deleted", slog.String("document", name))
	return nil
}

// CSS opens a document and renders the style rules of its page and
// sections.
func (a *App) CSS(ctx context.Context, name string) (string, error) {
	if err := a.Open(ctx, name); err != nil {
		return "", err
	}
	return a.styles.CSS(), nil
}

// RunScript runs a Lua script against the open document. Its edits are
// recorded in the history like interactive ones.
func (a *App) RunScript(ctx context.Context, path string) error {
	if a.Document() == "" {
		return ErrNoDocument
	}
	api := lua.NewPageAPI(a.env, a.hist)
	err := lua.RunFile(ctx, path, api,
		lua.WithExecutionTimeout(a.Config().Script.Timeout),
		lua.WithLogger(a.logger.With(slog.String("script", path))))
	if err != nil {
		return NewOperationError("run", path, err)
	}
	return nil
}

// Edit runs the terminal menu on a real terminal until the user quits.
func (a *App) Edit(ctx context.Context) error {
	screen, err := tui.OpenScreen()
	if err != nil {
		return NewOperationError("edit", a.Document(), err)
	}
	defer screen.Fini()
	return a.EditOn(ctx, screen)
}

// EditOn runs the terminal menu on an initialized screen.
func (a *App) EditOn(ctx context.Context, screen tcell.Screen) error {
	if a.Document() == "" {
		return ErrNoDocument
	}
	view := tui.NewView(screen, a.Config().Menu.Width)
	engine := menu.NewEngine(a.env, a.hist, view)

	sub := event.NewSubscriber(a.bus)
	defer sub.Close()
	if err := engine.Subscribe(sub); err != nil {
		return err
	}

	return tui.NewApp(view, engine, a.hist, tui.Options{Save: a.Save, Logger: a.logger}).Run(ctx)
}

// WatchConfig reloads the configuration whenever its file changes. It does
// nothing when no config file was read.
func (a *App) WatchConfig(ctx context.Context) error {
	a.mu.Lock()
	file := a.snap.File
	a.mu.Unlock()
	if file == "" {
		return nil
	}

	w, err := watcher.New(watcher.WithErrorHandler(func(err error) {
		a.logger.Warn("config watcher", slog.Any("error", err))
	}))
	if err != nil {
		return err
	}
	w.OnChange(func(ev watcher.Event) {
		if err := a.Reload(ctx); err != nil {
			a.logger.Error("config reload failed", slog.String("path", ev.Path), slog.Any("error", err))
		}
	})
	if err := w.Watch(file); err != nil {
		_ = w.Close()
		return err
	}

	a.mu.Lock()
	a.watcher = w
	a.mu.Unlock()
	return nil
}

// Reload re-reads the configuration and applies what can change at run
// time: the history limit and the log level. It publishes config.changed
// when anything changed. An invalid file leaves the current settings in
// place.
func (a *App) Reload(ctx context.Context) error {
	next, err := config.Load(a.cfgOpts)
	if err != nil {
		return err
	}

	a.mu.Lock()
	prev := a.snap
	a.snap = next
	a.mu.Unlock()

	keys := config.Changed(prev, next)
	if len(keys) == 0 {
		return nil
	}
	a.hist.SetMaxEntries(next.Config.Editor.HistoryLimit)
	a.level.Set(ParseLogLevel(next.Config.Logging.Level))
	a.logger.Info("config reloaded", slog.Any("keys", keys))

	return event.PublishEvent(ctx, a.pub, events.TopicConfigChanged, events.ConfigChanged{
		Path:   next.File,
		Source: events.ConfigSourceFile,
		Keys:   keys,
	})
}

// Close stops the watcher and releases the repository.
func (a *App) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	w := a.watcher
	a.mu.Unlock()

	var errs []error
	if w != nil {
		errs = append(errs, w.Close())
	}
	errs = append(errs, a.sub.Close(), a.repo.Close())
	return errors.Join(errs...)
}
