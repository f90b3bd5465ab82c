package lua

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// Bridge converts values between Go and Lua.
type Bridge struct {
	L *lua.LState
}

// NewBridge returns a bridge bound to L.
func NewBridge(L *lua.LState) *Bridge {
	return &Bridge{L: L}
}

// ToGoValue converts a Lua value to a Go value. Integral numbers become
// int64. Sequences become []any, other tables map[string]any. A table that
// contains itself converts the inner reference to nil.
func (b *Bridge) ToGoValue(lv lua.LValue) any {
	return goValue(lv, map[*lua.LTable]struct{}{})
}

func goValue(lv lua.LValue, open map[*lua.LTable]struct{}) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LString:
		return string(v)
	case lua.LNumber:
		if n := int64(v); lua.LNumber(n) == v {
			return n
		}
		return float64(v)
	case *lua.LUserData:
		return v.Value
	case *lua.LTable:
		if _, cyclic := open[v]; cyclic {
			return nil
		}
		open[v] = struct{}{}
		defer delete(open, v)
		if seq, ok := goSequence(v, open); ok {
			return seq
		}
		return goMap(v, open)
	}
	return nil
}

// goSequence converts t when its keys are exactly 1..n.
func goSequence(t *lua.LTable, open map[*lua.LTable]struct{}) ([]any, bool) {
	n := t.Len()
	if n == 0 {
		return nil, false
	}
	keys := 0
	t.ForEach(func(lua.LValue, lua.LValue) { keys++ })
	if keys != n {
		return nil, false
	}
	out := make([]any, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, goValue(t.RawGetInt(i), open))
	}
	return out, true
}

func goMap(t *lua.LTable, open map[*lua.LTable]struct{}) map[string]any {
	out := map[string]any{}
	t.ForEach(func(k, v lua.LValue) {
		key := k.String()
		if n, ok := k.(lua.LNumber); ok {
			key = strconv.FormatFloat(float64(n), 'g', -1, 64)
		}
		out[key] = goValue(v, open)
	})
	return out
}

// ToLuaValue converts a Go value to a Lua value. Structs become tables
// keyed by their json names; nil pointers, maps and slices become nil.
// Values with no Lua counterpart are wrapped in userdata.
func (b *Bridge) ToLuaValue(v any) lua.LValue {
	if lv, ok := v.(lua.LValue); ok {
		return lv
	}
	return b.luaValue(reflect.ValueOf(v))
}

var jsonNumber = reflect.TypeFor[json.Number]()

func (b *Bridge) luaValue(rv reflect.Value) lua.LValue {
	if !rv.IsValid() {
		return lua.LNil
	}
	if rv.Type() == jsonNumber {
		return numberValue(json.Number(rv.String()))
	}
	switch rv.Kind() {
	case reflect.Bool:
		return lua.LBool(rv.Bool())
	case reflect.String:
		return lua.LString(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return lua.LNumber(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return lua.LNumber(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return lua.LNumber(rv.Float())
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return lua.LNil
		}
		return b.ToLuaValue(rv.Elem().Interface())
	case reflect.Slice:
		if rv.IsNil() {
			return lua.LNil
		}
		return b.sequence(rv)
	case reflect.Array:
		return b.sequence(rv)
	case reflect.Map:
		if rv.IsNil() {
			return lua.LNil
		}
		t := b.L.NewTable()
		for it := rv.MapRange(); it.Next(); {
			t.RawSet(b.luaValue(it.Key()), b.luaValue(it.Value()))
		}
		return t
	case reflect.Struct:
		return b.record(rv)
	}
	ud := b.L.NewUserData()
	ud.Value = rv.Interface()
	return ud
}

// numberValue converts a decoded JSON number. A literal that does not parse
// stays a string.
func numberValue(n json.Number) lua.LValue {
	if i, err := n.Int64(); err == nil {
		return lua.LNumber(i)
	}
	if f, err := n.Float64(); err == nil {
		return lua.LNumber(f)
	}
	return lua.LString(n)
}

func (b *Bridge) sequence(rv reflect.Value) *lua.LTable {
	t := b.L.CreateTable(rv.Len(), 0)
	for i := range rv.Len() {
		t.RawSetInt(i+1, b.luaValue(rv.Index(i)))
	}
	return t
}

// record converts an exported struct. Fields tagged json:"-" are skipped
// and nil fields are left out.
func (b *Bridge) record(rv reflect.Value) *lua.LTable {
	t := b.L.NewTable()
	rt := rv.Type()
	for i := range rt.NumField() {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			continue
		case "":
			name = f.Name
		}
		if lv := b.luaValue(rv.Field(i)); lv != lua.LNil {
			t.RawSetString(name, lv)
		}
	}
	return t
}
