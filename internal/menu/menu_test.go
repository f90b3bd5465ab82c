package menu

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/dshills/pagecraft/internal/engine/command"
	"github.com/dshills/pagecraft/internal/engine/history"
	"github.com/dshills/pagecraft/internal/engine/page"
	"github.com/dshills/pagecraft/internal/event"
	"github.com/dshills/pagecraft/internal/event/events"
)

func TestDropIndex(t *testing.T) {
	menu := Rect{Left: 0, Top: 0, Right: 19, Bottom: 40}
	cards := []Rect{
		{Left: 0, Top: 1, Right: 19, Bottom: 4},
		{Left: 0, Top: 6, Right: 19, Bottom: 9},
		{Left: 0, Top: 11, Right: 19, Bottom: 13},
	}
	tests := []struct {
		name   string
		p      Point
		want   int
		wantOK bool
	}{
		{"upper half first", Point{5, 1}, 0, true},
		{"lower half first", Point{5, 4}, 1, true},
		{"upper half second", Point{5, 7}, 1, true},
		{"lower half second", Point{5, 8}, 2, true},
		{"odd height middle row", Point{5, 12}, 2, true},
		{"odd height bottom row", Point{5, 13}, 3, true},
		{"odd height top row", Point{5, 11}, 2, true},
		{"left of menu", Point{-1, 2}, 0, false},
		{"right of menu", Point{20, 2}, 0, false},
		{"between cards", Point{5, 5}, 0, false},
		{"below cards", Point{5, 30}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DropIndex(menu, cards, tt.p)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("DropIndex() = %d, %v; want %d, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestResolveDropLine(t *testing.T) {
	tests := []struct {
		line, count, want int
	}{
		{0, 4, 0},
		{2, 4, 2},
		{3, 4, 3},
		{4, 4, 3},
		{-1, 4, -1},
		{0, 0, -1},
	}
	for _, tt := range tests {
		if got := ResolveDropLine(tt.line, tt.count); got != tt.want {
			t.Errorf("ResolveDropLine(%d, %d) = %d, want %d", tt.line, tt.count, got, tt.want)
		}
	}
}

func TestStackLayout(t *testing.T) {
	l := StackLayout{Left: 2, Top: 1, Width: 10, CardHeight: 2}
	menu, cards := l.Bounds(2)

	want := []Rect{
		{Left: 2, Top: 2, Right: 11, Bottom: 3},
		{Left: 2, Top: 5, Right: 11, Bottom: 6},
	}
	if !slices.Equal(cards, want) {
		t.Errorf("cards = %v, want %v", cards, want)
	}
	if menu.Bottom != l.LineRow(2) || menu.Top != l.LineRow(0) {
		t.Errorf("menu = %+v", menu)
	}
	if l.LineRow(1) != 4 {
		t.Errorf("LineRow(1) = %d, want 4", l.LineRow(1))
	}
}

type fixture struct {
	engine *Engine
	store  *page.Store
	hist   *history.History
	bus    event.Bus
	layout StackLayout
}

func newFixture(t *testing.T, ids ...string) *fixture {
	t.Helper()
	store := page.NewStore()
	for _, id := range ids {
		if err := store.AddSection(page.NewSection(id)); err != nil {
			t.Fatal(err)
		}
	}
	bus := event.NewBus()
	env := command.Env{Store: store, Notify: events.NewBusNotifier(bus, "menu-test")}
	hist := history.NewHistory(0)
	layout := StackLayout{Width: 20, CardHeight: 2}

	e := NewEngine(env, hist, layout)
	sub := event.NewSubscriber(bus)
	t.Cleanup(func() { _ = sub.Close() })
	if err := e.Subscribe(sub); err != nil {
		t.Fatal(err)
	}
	return &fixture{engine: e, store: store, hist: hist, bus: bus, layout: layout}
}

// cardPoint returns a point in the upper (or lower) half of card i.
func (f *fixture) cardPoint(i int, lower bool) Point {
	_, cards := f.layout.Bounds(len(f.engine.Items()))
	y := cards[i].Top
	if lower {
		y = cards[i].Bottom
	}
	return Point{X: 1, Y: y}
}

func itemIDs(items []Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

func TestEngineDragReorders(t *testing.T) {
	f := newFixture(t, "A", "B", "C", "D")

	if !f.engine.StartDrag("A") {
		t.Fatal("StartDrag rejected")
	}
	f.engine.Move(f.cardPoint(2, false))
	if got := f.engine.ActiveLine(); got != 2 {
		t.Fatalf("ActiveLine() = %d, want 2", got)
	}
	if err := f.engine.EndDrag(context.Background()); err != nil {
		t.Fatal(err)
	}

	if got := f.store.SectionIDs(); !slices.Equal(got, []string{"B", "A", "C", "D"}) {
		t.Errorf("order = %v", got)
	}
	if got := itemIDs(f.engine.Items()); !slices.Equal(got, []string{"B", "A", "C", "D"}) {
		t.Errorf("menu not re-rendered: %v", got)
	}
	if f.engine.Dragging() != "" || f.engine.ActiveLine() != -1 {
		t.Error("drag state not cleared")
	}

	if err := f.hist.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := itemIDs(f.engine.Items()); !slices.Equal(got, []string{"A", "B", "C", "D"}) {
		t.Errorf("menu after undo = %v", got)
	}
}

func TestEngineDropBelowLastCardClamps(t *testing.T) {
	f := newFixture(t, "A", "B", "C")

	f.engine.StartDrag("A")
	f.engine.Move(f.cardPoint(2, true))
	if got := f.engine.ActiveLine(); got != 3 {
		t.Fatalf("ActiveLine() = %d, want 3", got)
	}
	if err := f.engine.EndDrag(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := f.store.SectionIDs(); !slices.Equal(got, []string{"B", "A", "C"}) {
		t.Errorf("order = %v, want [B A C]", got)
	}
}

func TestEngineNoopDragRecordsNothing(t *testing.T) {
	f := newFixture(t, "A", "B", "C")

	tests := []struct {
		name  string
		drag  string
		point Point
	}{
		{"onto itself", "B", f.cardPoint(1, false)},
		{"just below itself", "A", f.cardPoint(0, true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.engine.StartDrag(tt.drag)
			f.engine.Move(tt.point)
			if err := f.engine.EndDrag(context.Background()); err != nil {
				t.Fatal(err)
			}
			if f.hist.CanUndo() {
				t.Error("no-op drag was recorded")
			}
		})
	}
}

func TestEngineDragWithoutLine(t *testing.T) {
	f := newFixture(t, "A", "B")

	f.engine.StartDrag("B")
	f.engine.Move(Point{X: 100, Y: 1})
	if f.engine.ActiveLine() != -1 {
		t.Error("pointer outside the menu lit a line")
	}
	if err := f.engine.EndDrag(context.Background()); err != nil {
		t.Fatal(err)
	}
	if f.hist.CanUndo() {
		t.Error("drag without a line was recorded")
	}
	if err := f.engine.EndDrag(context.Background()); err != nil {
		t.Errorf("EndDrag without a drag = %v", err)
	}
}

func TestEngineStartDragRejected(t *testing.T) {
	f := newFixture(t, "A", "B")

	if f.engine.StartDrag("") {
		t.Error("empty id accepted")
	}
	if f.engine.StartDrag("Z") {
		t.Error("unknown id accepted")
	}
	if !f.engine.BeginRename("A") {
		t.Fatal("BeginRename rejected")
	}
	if f.engine.StartDrag("B") {
		t.Error("drag accepted during rename")
	}
	f.engine.CancelRename()
	if !f.engine.StartDrag("B") {
		t.Error("drag rejected after rename cancelled")
	}
}

func TestEngineRename(t *testing.T) {
	f := newFixture(t, "A", "B")

	if err := f.engine.CommitRename("x"); !errors.Is(err, ErrNotRenaming) {
		t.Errorf("CommitRename without editor = %v", err)
	}

	f.engine.BeginRename("B")
	if err := f.engine.CommitRename("Pricing"); err != nil {
		t.Fatal(err)
	}
	if _, ok := f.engine.Renaming(); ok {
		t.Error("editor still open")
	}
	if got := f.engine.Items()[1].Caption; got != "Pricing" {
		t.Errorf("caption = %q", got)
	}

	if err := f.hist.Undo(); err != nil {
		t.Fatal(err)
	}
	if got := f.engine.Items()[1].Caption; got != "Untitled section" {
		t.Errorf("caption after undo = %q", got)
	}

	f.engine.BeginRename("A")
	if err := f.engine.CommitRename(""); err != nil {
		t.Fatal(err)
	}
	if f.hist.CanUndo() {
		t.Error("unchanged name was recorded")
	}
}

func TestEngineGoToSection(t *testing.T) {
	f := newFixture(t, "A", "B")

	var mu sync.Mutex
	var scrolled []string
	sub := event.NewSubscriber(f.bus)
	defer sub.Close()
	_, err := event.SubscribePayload(sub, events.TopicScrollToSection,
		func(_ context.Context, p events.ScrollToSection) error {
			mu.Lock()
			defer mu.Unlock()
			scrolled = append(scrolled, p.SectionID)
			return nil
		})
	if err != nil {
		t.Fatal(err)
	}

	if err := f.engine.GoToSection(context.Background(), "B"); err != nil {
		t.Fatal(err)
	}
	mu.Lock()
	defer mu.Unlock()
	if !slices.Equal(scrolled, []string{"B"}) {
		t.Errorf("scroll requests = %v", scrolled)
	}
	if f.engine.Focused() != "B" {
		t.Errorf("Focused() = %q, want B", f.engine.Focused())
	}
	if err := f.engine.GoToSection(context.Background(), "Z"); !errors.Is(err, ErrUnknownItem) {
		t.Errorf("unknown section error = %v", err)
	}
}

func TestEngineRenderDropsStaleState(t *testing.T) {
	f := newFixture(t, "A", "B")

	f.engine.StartDrag("B")
	f.engine.Render([]*page.Section{page.NewSection("A")})
	if f.engine.Dragging() != "" {
		t.Error("drag of removed section kept")
	}
	f.engine.Focus("gone")
	if f.engine.Focused() != "" {
		t.Error("unknown id focused")
	}
}
