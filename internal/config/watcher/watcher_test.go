package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOperation_String(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{OpCreate | OpWrite, "multiple"},
		{Operation(0), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestWatcher_WatchUnwatch(t *testing.T) {
	dir := t.TempDir()
	w, err := New()
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	a := filepath.Join(dir, "a.toml")
	b := filepath.Join(dir, "b.yaml")
	if err := w.Watch(a); err != nil {
		t.Fatalf("Watch(a) = %v", err)
	}
	if err := w.Watch(b); err != nil {
		t.Fatalf("Watch(b) = %v", err)
	}
	if err := w.Watch(a); err != nil {
		t.Errorf("second Watch(a) = %v", err)
	}
	if n := len(w.WatchedFiles()); n != 2 {
		t.Errorf("WatchedFiles() = %d, want 2", n)
	}
	if err := w.Unwatch(a); err != nil {
		t.Errorf("Unwatch(a) = %v", err)
	}
	if n := len(w.WatchedFiles()); n != 1 {
		t.Errorf("WatchedFiles() after unwatch = %d, want 1", n)
	}
	if err := w.Watch(filepath.Join(dir, "missing", "c.toml")); err == nil {
		t.Error("Watch in a missing directory succeeded")
	}
}

func TestWatcher_DebouncedChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("a = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(WithDebounce(50 * time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	events := make(chan Event, 10)
	w.OnChange(func(ev Event) { events <- ev })
	if err := w.Watch(path); err != nil {
		t.Fatal(err)
	}

	// Unwatched files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("a = 2\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case ev := <-events:
		abs, _ := filepath.Abs(path)
		if ev.Path != abs {
			t.Errorf("event path = %q, want %q", ev.Path, abs)
		}
		if !ev.Op.Has(OpWrite) {
			t.Errorf("event op = %v, want write", ev.Op)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}

	select {
	case ev := <-events:
		t.Errorf("burst not coalesced, extra event %+v", ev)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_Close(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
	if err := w.Watch(filepath.Join(t.TempDir(), "x.toml")); err != ErrClosed {
		t.Errorf("Watch after Close = %v, want ErrClosed", err)
	}
}
