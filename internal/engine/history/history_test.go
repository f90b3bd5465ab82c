package history

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

// list is a tiny document: an ordered list of values.
type list struct {
	items []string
}

// appendCmd appends a value and removes it again on undo.
type appendCmd struct {
	l       *list
	value   string
	failOn  string // "execute", "undo" or "redo"
	undone  int
	redone  int
	execRun int
}

func (c *appendCmd) Execute() error {
	c.execRun++
	if c.failOn == "execute" {
		return errors.New("execute failed")
	}
	c.l.items = append(c.l.items, c.value)
	return nil
}

func (c *appendCmd) Undo() error {
	if c.failOn == "undo" {
		return errors.New("undo failed")
	}
	c.undone++
	c.l.items = c.l.items[:len(c.l.items)-1]
	return nil
}

func (c *appendCmd) Redo() error {
	if c.failOn == "redo" {
		return errors.New("redo failed")
	}
	c.redone++
	c.l.items = append(c.l.items, c.value)
	return nil
}

func (c *appendCmd) Description() string {
	return fmt.Sprintf("Append %s", c.value)
}

func appendTo(l *list, v string) *appendCmd {
	return &appendCmd{l: l, value: v}
}

func TestHistoryExecute(t *testing.T) {
	l := &list{}
	h := NewHistory(0)

	if err := h.Execute(appendTo(l, "a")); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !reflect.DeepEqual(l.items, []string{"a"}) {
		t.Errorf("items = %v", l.items)
	}
	if !h.CanUndo() || h.CanRedo() {
		t.Error("expected undo available and no redo")
	}
}

func TestHistoryFailedExecuteNotRecorded(t *testing.T) {
	l := &list{}
	h := NewHistory(0)
	_ = h.Execute(appendTo(l, "a"))
	_ = h.Undo()

	cmd := &appendCmd{l: l, value: "b", failOn: "execute"}
	if err := h.Execute(cmd); err == nil {
		t.Fatal("expected error")
	}
	if h.UndoCount() != 0 {
		t.Errorf("UndoCount() = %d, want 0", h.UndoCount())
	}
	if h.RedoCount() != 1 {
		t.Errorf("failed execute cleared the future: RedoCount() = %d", h.RedoCount())
	}
}

func TestHistoryUndoRedoRoundTrip(t *testing.T) {
	l := &list{}
	h := NewHistory(0)

	for _, v := range []string{"a", "b", "c", "d"} {
		if err := h.Execute(appendTo(l, v)); err != nil {
			t.Fatal(err)
		}
	}
	final := append([]string(nil), l.items...)

	for n := 1; n <= 4; n++ {
		for i := 0; i < n; i++ {
			if err := h.Undo(); err != nil {
				t.Fatalf("Undo failed: %v", err)
			}
		}
		if len(l.items) != 4-n {
			t.Fatalf("after %d undos items = %v", n, l.items)
		}
		for i := 0; i < n; i++ {
			if err := h.Redo(); err != nil {
				t.Fatalf("Redo failed: %v", err)
			}
		}
		if !reflect.DeepEqual(l.items, final) {
			t.Fatalf("undo %d then redo %d: items = %v, want %v", n, n, l.items, final)
		}
	}
}

func TestHistoryExecuteClearsFuture(t *testing.T) {
	l := &list{}
	h := NewHistory(0)

	_ = h.Execute(appendTo(l, "a"))
	_ = h.Execute(appendTo(l, "b"))
	_ = h.Undo()
	if !h.CanRedo() {
		t.Fatal("expected redo after undo")
	}

	_ = h.Execute(appendTo(l, "c"))
	if h.CanRedo() {
		t.Error("execute should clear the redo stack")
	}
	_ = h.Redo()
	if !reflect.DeepEqual(l.items, []string{"a", "c"}) {
		t.Errorf("items = %v, want [a c]", l.items)
	}
}

func TestHistoryEmptyStacksAreNoops(t *testing.T) {
	h := NewHistory(0)
	if err := h.Undo(); err != nil {
		t.Errorf("Undo on empty history = %v, want nil", err)
	}
	if err := h.Redo(); err != nil {
		t.Errorf("Redo on empty history = %v, want nil", err)
	}
}

func TestHistoryFailedUndoRestoresEntry(t *testing.T) {
	l := &list{}
	h := NewHistory(0)
	cmd := appendTo(l, "a")
	_ = h.Execute(cmd)

	cmd.failOn = "undo"
	if err := h.Undo(); err == nil {
		t.Fatal("expected undo error")
	}
	if h.UndoCount() != 1 || h.RedoCount() != 0 {
		t.Errorf("stacks = %d/%d, want 1/0", h.UndoCount(), h.RedoCount())
	}

	cmd.failOn = ""
	_ = h.Undo()
	cmd.failOn = "redo"
	if err := h.Redo(); err == nil {
		t.Fatal("expected redo error")
	}
	if h.UndoCount() != 0 || h.RedoCount() != 1 {
		t.Errorf("stacks = %d/%d, want 0/1", h.UndoCount(), h.RedoCount())
	}
}

func TestHistoryMaxEntries(t *testing.T) {
	l := &list{}
	h := NewHistory(3)

	for i := 0; i < 5; i++ {
		_ = h.Execute(appendTo(l, fmt.Sprint(i)))
	}
	if h.UndoCount() != 3 {
		t.Fatalf("UndoCount() = %d, want 3", h.UndoCount())
	}
	info := h.UndoInfo()
	if info[0].Description != "Append 2" {
		t.Errorf("oldest kept entry = %q, want Append 2", info[0].Description)
	}

	h.SetMaxEntries(1)
	if h.UndoCount() != 1 {
		t.Errorf("UndoCount() after SetMaxEntries = %d, want 1", h.UndoCount())
	}
	if got, ok := h.PeekUndo(); !ok || got.Description != "Append 4" {
		t.Errorf("PeekUndo() = %+v, %v", got, ok)
	}
}

func TestHistoryUnbounded(t *testing.T) {
	l := &list{}
	h := NewHistory(-1)
	for i := 0; i < 2000; i++ {
		_ = h.Execute(appendTo(l, "x"))
	}
	if h.UndoCount() != 2000 {
		t.Errorf("UndoCount() = %d, want 2000", h.UndoCount())
	}
	if h.MaxEntries() != 0 {
		t.Errorf("MaxEntries() = %d, want 0", h.MaxEntries())
	}
}

func TestHistoryClear(t *testing.T) {
	l := &list{}
	h := NewHistory(0)
	_ = h.Execute(appendTo(l, "a"))
	_ = h.Execute(appendTo(l, "b"))
	_ = h.Undo()

	h.Clear()
	if h.CanUndo() || h.CanRedo() {
		t.Error("Clear should empty both stacks")
	}
	if _, ok := h.PeekRedo(); ok {
		t.Error("PeekRedo after Clear should be empty")
	}
}

func TestHistoryGroup(t *testing.T) {
	l := &list{}
	h := NewHistory(0)

	h.BeginGroup("Batch")
	_ = h.Execute(appendTo(l, "a"))
	_ = h.Execute(appendTo(l, "b"))
	h.EndGroup()

	if h.UndoCount() != 1 {
		t.Fatalf("UndoCount() = %d, want 1", h.UndoCount())
	}
	if info, _ := h.PeekUndo(); info.Description != "Batch" {
		t.Errorf("description = %q, want Batch", info.Description)
	}

	_ = h.Undo()
	if len(l.items) != 0 {
		t.Errorf("items after group undo = %v", l.items)
	}
	_ = h.Redo()
	if !reflect.DeepEqual(l.items, []string{"a", "b"}) {
		t.Errorf("items after group redo = %v", l.items)
	}
}

func TestHistoryEmptyGroupNotRecorded(t *testing.T) {
	h := NewHistory(0)
	scope := h.GroupScope("nothing")
	scope.End()
	scope.End()
	if h.CanUndo() || h.IsGrouping() {
		t.Error("empty group should not be recorded")
	}
}

func TestHistoryTransactionRollback(t *testing.T) {
	l := &list{}
	h := NewHistory(0)
	boom := errors.New("boom")

	err := h.Transaction("tx", func() error {
		_ = h.Execute(appendTo(l, "a"))
		_ = h.Execute(appendTo(l, "b"))
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Transaction error = %v, want boom", err)
	}
	if len(l.items) != 0 {
		t.Errorf("items after rollback = %v", l.items)
	}
	if h.CanUndo() || h.IsGrouping() {
		t.Error("rolled back transaction should leave no entry")
	}
}

func TestExecuteGrouped(t *testing.T) {
	l := &list{}
	h := NewHistory(0)

	err := h.ExecuteGrouped("three", appendTo(l, "a"), appendTo(l, "b"), appendTo(l, "c"))
	if err != nil {
		t.Fatal(err)
	}
	if h.UndoCount() != 1 {
		t.Errorf("UndoCount() = %d, want 1", h.UndoCount())
	}

	err = h.ExecuteGrouped("fails", appendTo(l, "d"), &appendCmd{l: l, value: "e", failOn: "execute"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !reflect.DeepEqual(l.items, []string{"a", "b", "c"}) {
		t.Errorf("items = %v, want [a b c]", l.items)
	}
	if h.UndoCount() != 1 {
		t.Errorf("failed group recorded: UndoCount() = %d", h.UndoCount())
	}
}

func TestCompoundCommandExecuteRollsBack(t *testing.T) {
	l := &list{}
	first := appendTo(l, "a")
	c := NewCompoundCommand("", first, &appendCmd{l: l, value: "b", failOn: "execute"})

	if err := c.Execute(); err == nil {
		t.Fatal("expected error")
	}
	if len(l.items) != 0 || first.undone != 1 {
		t.Errorf("items = %v, undone = %d", l.items, first.undone)
	}
	if c.Description() != "2 operations" {
		t.Errorf("Description() = %q", c.Description())
	}
}

func TestCheckpoint(t *testing.T) {
	l := &list{}
	h := NewHistory(0)
	_ = h.Execute(appendTo(l, "a"))
	cp := h.CreateCheckpoint()
	_ = h.Execute(appendTo(l, "b"))
	_ = h.Execute(appendTo(l, "c"))

	if err := h.UndoToCheckpoint(cp); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(l.items, []string{"a"}) {
		t.Errorf("items = %v, want [a]", l.items)
	}

	end := Checkpoint{applied: 3}
	if err := h.RedoToCheckpoint(end); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(l.items, []string{"a", "b", "c"}) {
		t.Errorf("items = %v, want [a b c]", l.items)
	}
}

func TestNestedGroupsRecordOneEntry(t *testing.T) {
	l := &list{}
	h := NewHistory(0)

	h.BeginGroup("outer")
	_ = h.Execute(appendTo(l, "a"))
	h.BeginGroup("inner")
	_ = h.Execute(appendTo(l, "b"))
	h.EndGroup()
	if !h.IsGrouping() {
		t.Fatal("inner EndGroup closed the outer group")
	}
	_ = h.Execute(appendTo(l, "c"))
	h.EndGroup()

	if h.UndoCount() != 1 {
		t.Fatalf("UndoCount() = %d, want 1", h.UndoCount())
	}
	if info, _ := h.PeekUndo(); info.Description != "outer" {
		t.Errorf("description = %q, want outer", info.Description)
	}
	_ = h.Undo()
	if len(l.items) != 0 {
		t.Errorf("items after undo = %v", l.items)
	}
}

func TestNestedTransactionFailureAbandonsGroup(t *testing.T) {
	l := &list{}
	h := NewHistory(0)
	boom := errors.New("boom")

	err := h.Transaction("outer", func() error {
		_ = h.Execute(appendTo(l, "a"))
		return h.Transaction("inner", func() error {
			_ = h.Execute(appendTo(l, "b"))
			return boom
		})
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Transaction error = %v, want boom", err)
	}
	if len(l.items) != 0 || h.CanUndo() || h.IsGrouping() {
		t.Errorf("items = %v, UndoCount = %d, grouping = %v", l.items, h.UndoCount(), h.IsGrouping())
	}
}

func TestRedoInfoOrder(t *testing.T) {
	l := &list{}
	h := NewHistory(0)
	for _, v := range []string{"a", "b", "c"} {
		_ = h.Execute(appendTo(l, v))
	}
	_ = h.Undo()
	_ = h.Undo()

	var got []string
	for _, in := range h.RedoInfo() {
		got = append(got, in.Description)
	}
	if want := []string{"Append b", "Append c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("RedoInfo() = %v, want %v", got, want)
	}
	if next, ok := h.PeekRedo(); !ok || next.Description != "Append b" {
		t.Errorf("PeekRedo() = %+v, %v", next, ok)
	}
}

func TestRedoRespectsLimit(t *testing.T) {
	l := &list{}
	h := NewHistory(2)
	_ = h.Execute(appendTo(l, "a"))
	_ = h.Execute(appendTo(l, "b"))
	_ = h.Undo()
	_ = h.Undo()

	h.SetMaxEntries(1)
	_ = h.Redo()
	_ = h.Redo()
	if h.UndoCount() != 1 || h.RedoCount() != 0 {
		t.Errorf("counts = %d/%d, want 1/0", h.UndoCount(), h.RedoCount())
	}
	if !reflect.DeepEqual(l.items, []string{"a", "b"}) {
		t.Errorf("items = %v", l.items)
	}
}
