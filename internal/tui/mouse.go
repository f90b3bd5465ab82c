package tui

import "github.com/dshills/pagecraft/internal/menu"

// pointerAction is a transition of the primary mouse button.
type pointerAction uint8

const (
	pointerNone pointerAction = iota
	pointerPress
	pointerMove
	pointerRelease
)

// pointerTracker turns tcell's button-state reports into press, move and
// release transitions. tcell repeats the held state on every motion event,
// so a press is only the first report after the button went down.
type pointerTracker struct {
	down  bool
	start menu.Point
	last  menu.Point
}

// update records a report and returns the transition it represents.
func (t *pointerTracker) update(p menu.Point, pressed bool) pointerAction {
	switch {
	case pressed && !t.down:
		t.down = true
		t.start = p
		t.last = p
		return pointerPress
	case pressed:
		if p == t.last {
			return pointerNone
		}
		t.last = p
		return pointerMove
	case t.down:
		t.down = false
		t.last = p
		return pointerRelease
	}
	return pointerNone
}

// reset forgets a press, e.g. after the drag was cancelled from the
// keyboard.
func (t *pointerTracker) reset() {
	*t = pointerTracker{}
}
