package lua

import (
	"log/slog"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// builtinModules may be required even though they are not preloaded.
var builtinModules = map[string]bool{
	lua.TabLibName:    true,
	lua.StringLibName: true,
	lua.MathLibName:   true,
}

// Sandbox restricts Lua execution to safe operations.
type Sandbox struct {
	L      *lua.LState
	logger *slog.Logger
}

// NewSandbox creates a new sandbox for the Lua state.
func NewSandbox(L *lua.LState, logger *slog.Logger) *Sandbox {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sandbox{L: L, logger: logger}
}

// Install removes file and code loading and replaces print and require.
func (s *Sandbox) Install() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "module"} {
		s.L.SetGlobal(name, lua.LNil)
	}
	s.installPrint()
	s.installSafeRequire()
}

// installPrint routes print to the logger.
func (s *Sandbox) installPrint() {
	s.L.SetGlobal("print", s.L.NewFunction(func(L *lua.LState) int {
		n := L.GetTop()
		parts := make([]string, 0, n)
		for i := 1; i <= n; i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		s.logger.Info(strings.Join(parts, "\t"), slog.String("component", "script"))
		return 0
	}))
}

// installSafeRequire clears the search paths and only resolves builtin or
// preloaded modules.
func (s *Sandbox) installSafeRequire() {
	pkg, ok := s.L.GetGlobal("package").(*lua.LTable)
	if !ok {
		return
	}
	s.L.SetField(pkg, "path", lua.LString(""))
	s.L.SetField(pkg, "cpath", lua.LString(""))

	originalRequire := s.L.GetGlobal("require")
	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if !builtinModules[name] && !isPreloaded(L, name) {
			L.RaiseError("%s: %q", ErrModuleUnavailable, name)
			return 0
		}
		L.Push(originalRequire)
		L.Push(lua.LString(name))
		L.Call(1, 1)
		return 1
	}))
}

func isPreloaded(L *lua.LState, name string) bool {
	pkg, ok := L.GetGlobal("package").(*lua.LTable)
	if !ok {
		return false
	}
	preload, ok := L.GetField(pkg, "preload").(*lua.LTable)
	if !ok {
		return false
	}
	return preload.RawGetString(name) != lua.LNil
}
