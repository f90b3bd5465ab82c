package lua

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultExecutionTimeout bounds a single script run.
const DefaultExecutionTimeout = 5 * time.Second

// State wraps a sandboxed gopher-lua state.
//
// gopher-lua's LState is not goroutine-safe. State serializes every call
// through its mutex.
type State struct {
	L *lua.LState

	mu sync.Mutex

	executionTimeout time.Duration
	logger           *slog.Logger

	sandbox *Sandbox
	closed  bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithExecutionTimeout sets the deadline of each run. Zero disables it.
func WithExecutionTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.executionTimeout = d
	}
}

// WithLogger sets the logger that receives script print output.
func WithLogger(l *slog.Logger) StateOption {
	return func(s *State) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewState returns a state with the safe libraries open and the sandbox
// installed.
func NewState(opts ...StateOption) *State {
	s := &State{executionTimeout: DefaultExecutionTimeout, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}

	s.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(s.L)
	s.sandbox = NewSandbox(s.L, s.logger)
	s.sandbox.Install()
	return s
}

// safeLibs are the standard libraries a script may use, in load order.
// package comes first so require exists for the sandbox to replace.
var safeLibs = []struct {
	name string
	open lua.LGFunction
}{
	{lua.LoadLibName, lua.OpenPackage},
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
}

func openSafeLibraries(L *lua.LState) {
	for _, lib := range safeLibs {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
}

// DoString executes a chunk of Lua source.
func (s *State) DoString(ctx context.Context, code string) error {
	return s.run(ctx, func() error {
		return s.L.DoString(code)
	})
}

// DoFile executes a Lua file.
func (s *State) DoFile(ctx context.Context, path string) error {
	return s.run(ctx, func() error {
		return s.L.DoFile(path)
	})
}

func (s *State) run(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStateClosed
	}

	if s.executionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.executionTimeout)
		defer cancel()
	}
	s.L.SetContext(ctx)
	defer s.L.RemoveContext()

	err := protect(fn)
	if err == nil {
		return nil
	}
	if cerr := ctx.Err(); cerr != nil {
		if errors.Is(cerr, context.DeadlineExceeded) {
			cerr = ErrExecutionTimeout
		}
		return fmt.Errorf("%w: %v", cerr, err)
	}
	return err
}

// protect turns a panic inside the interpreter into an error.
func protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua: panic: %v", r)
		}
	}()
	return fn()
}

// open runs fn with the lock held unless the state is closed. It reports
// whether fn ran.
func (s *State) open(fn func(L *lua.LState)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	fn(s.L)
	return true
}

// PreloadModule registers a module for require.
func (s *State) PreloadModule(name string, loader lua.LGFunction) {
	s.open(func(L *lua.LState) { L.PreloadModule(name, loader) })
}

// SetGlobal assigns a global. It does nothing on a closed state.
func (s *State) SetGlobal(name string, value lua.LValue) {
	s.open(func(L *lua.LState) { L.SetGlobal(name, value) })
}

// GetGlobal reads a global, or nil on a closed state.
func (s *State) GetGlobal(name string) lua.LValue {
	v := lua.LValue(lua.LNil)
	s.open(func(L *lua.LState) { v = L.GetGlobal(name) })
	return v
}

// Close releases the interpreter. Later calls are no-ops.
func (s *State) Close() {
	s.open(func(L *lua.LState) {
		s.closed = true
		L.Close()
	})
}

// IsClosed reports whether Close was called.
func (s *State) IsClosed() bool {
	return !s.open(func(*lua.LState) {})
}
