// Package watcher reports changes of configuration files.
//
// Files are watched through their parent directory so editors that replace a
// file by renaming a new one over it are still seen. Bursts of events for one
// file are coalesced into a single Event after the debounce delay.
package watcher

import (
	"errors"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrClosed is returned when using a stopped watcher.
var ErrClosed = errors.New("watcher closed")

// Event is one coalesced change of a watched file.
type Event struct {
	Path string    // absolute
	Op   Operation // every operation seen in the debounce window
	Time time.Time // last operation seen
}

// Operation is a set of file operations.
type Operation uint8

// Operations.
const (
	OpWrite Operation = 1 << iota
	OpCreate
	OpRemove
	OpRename

	opAll = OpWrite | OpCreate | OpRemove | OpRename
)

var opNames = map[Operation]string{
	OpWrite:  "write",
	OpCreate: "create",
	OpRemove: "remove",
	OpRename: "rename",
}

// Has reports whether op includes any of other.
func (op Operation) Has(other Operation) bool { return op&other != 0 }

func (op Operation) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	if op != 0 && op&^opAll == 0 {
		return "multiple"
	}
	return "unknown"
}

// Handler receives coalesced changes. Handlers run on the debounce timer
// goroutine.
type Handler func(event Event)

// Watcher reports changes to a set of files.
type Watcher struct {
	mu sync.Mutex

	fs       *fsnotify.Watcher
	files    map[string]bool
	dirs     map[string]int
	handlers []Handler
	onError  func(error)

	debounce time.Duration
	pending  map[string]*pendingEvent

	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

type pendingEvent struct {
	event Event
	timer *time.Timer
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce duration for rapid changes.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithErrorHandler receives errors reported by the file system.
func WithErrorHandler(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// New creates a watcher and starts its event loop.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fs:       fsw,
		files:    make(map[string]bool),
		dirs:     make(map[string]int),
		debounce: 100 * time.Millisecond,
		pending:  make(map[string]*pendingEvent),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Watch adds a file to the watch list. The file need not exist yet, but its
// directory must.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if w.files[abs] {
		return nil
	}
	dir := filepath.Dir(abs)
	if w.dirs[dir] == 0 {
		if err := w.fs.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[abs] = true
	return nil
}

// Unwatch removes a file from the watch list.
func (w *Watcher) Unwatch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.files[abs] {
		return nil
	}
	delete(w.files, abs)
	dir := filepath.Dir(abs)
	w.dirs[dir]--
	if w.dirs[dir] == 0 {
		delete(w.dirs, dir)
		return w.fs.Remove(dir)
	}
	return nil
}

// WatchedFiles returns the watched paths, sorted.
func (w *Watcher) WatchedFiles() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Sorted(maps.Keys(w.files))
}

// OnChange registers a handler for file changes.
func (w *Watcher) OnChange(h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, h)
}

// Close stops the watcher. Pending events are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.done)
	for p, pe := range w.pending {
		pe.timer.Stop()
		delete(w.pending, p)
	}
	w.mu.Unlock()

	err := w.fs.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	op := convertOp(ev.Op)
	if op == 0 {
		return
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || !w.files[abs] {
		return
	}

	now := time.Now()
	if w.debounce == 0 {
		go w.emit(Event{Path: abs, Op: op, Time: now})
		return
	}
	if pe, ok := w.pending[abs]; ok {
		pe.event.Op |= op
		pe.event.Time = now
		pe.timer.Reset(w.debounce)
		return
	}
	pe := &pendingEvent{event: Event{Path: abs, Op: op, Time: now}}
	pe.timer = time.AfterFunc(w.debounce, func() { w.flush(abs) })
	w.pending[abs] = pe
}

func (w *Watcher) flush(path string) {
	w.mu.Lock()
	pe, ok := w.pending[path]
	if ok {
		delete(w.pending, path)
	}
	closed := w.closed
	w.mu.Unlock()

	if ok && !closed {
		w.emit(pe.event)
	}
}

func (w *Watcher) emit(ev Event) {
	w.mu.Lock()
	handlers := append([]Handler(nil), w.handlers...)
	w.mu.Unlock()

	for _, h := range handlers {
		w.safeCall(h, ev)
	}
}

func (w *Watcher) safeCall(h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil && w.onError != nil {
			w.onError(fmt.Errorf("watcher: handler for %s panicked: %v", ev.Path, r))
		}
	}()
	h(ev)
}

var fsOps = []struct {
	from fsnotify.Op
	to   Operation
}{
	{fsnotify.Create, OpCreate},
	{fsnotify.Write, OpWrite},
	{fsnotify.Remove, OpRemove},
	{fsnotify.Rename, OpRename},
}

// convertOp drops chmod, which editors emit without changing content.
func convertOp(in fsnotify.Op) Operation {
	var op Operation
	for _, m := range fsOps {
		if in.Has(m.from) {
			op |= m.to
		}
	}
	return op
}
