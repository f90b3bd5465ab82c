package tui

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/pagecraft/internal/menu"
)

// CardHeight is the number of rows of one section card.
const CardHeight = 2

// Styles used by the view.
var (
	styleDefault  = tcell.StyleDefault
	styleTitle    = tcell.StyleDefault.Bold(true)
	styleDim      = tcell.StyleDefault.Dim(true)
	styleFocused  = tcell.StyleDefault.Bold(true)
	styleDragging = tcell.StyleDefault.Reverse(true)
	styleLine     = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleEditing  = tcell.StyleDefault.Underline(true)
	styleStatus   = tcell.StyleDefault.Reverse(true)
)

// View renders menu state onto a tcell screen.
type View struct {
	screen tcell.Screen
	width  int
}

// NewView creates a view drawing a menu of the given column width.
// A width of zero uses the whole screen.
func NewView(screen tcell.Screen, width int) *View {
	return &View{screen: screen, width: width}
}

// Screen returns the underlying screen.
func (v *View) Screen() tcell.Screen {
	return v.screen
}

func (v *View) stack() menu.StackLayout {
	w, _ := v.screen.Size()
	if v.width > 0 && v.width < w {
		w = v.width
	}
	return menu.StackLayout{Left: 0, Top: 1, Width: w, CardHeight: CardHeight}
}

// Bounds implements menu.Layout.
func (v *View) Bounds(n int) (menu.Rect, []menu.Rect) {
	return v.stack().Bounds(n)
}

// Frame is everything needed to draw one screen.
type Frame struct {
	Items      []menu.Item
	Focused    string
	Dragging   string
	ActiveLine int
	Renaming   string
	EditText   string
	Status     string
}

// Draw paints f and shows the screen.
func (v *View) Draw(f Frame) {
	s := v.screen
	s.Clear()
	layout := v.stack()
	_, cards := layout.Bounds(len(f.Items))

	v.text(0, 0, layout.Width, "Sections  "+countLabel(len(f.Items)), styleTitle)

	for i := 0; i <= len(f.Items); i++ {
		if i == f.ActiveLine {
			v.fill(layout.LineRow(i), layout.Width, tcell.RuneHLine, styleLine)
		}
	}

	for i, it := range f.Items {
		r := cards[i]
		style := styleDefault
		marker := "  "
		switch {
		case it.ID == f.Dragging:
			style = styleDragging
		case it.ID == f.Focused:
			style = styleFocused
			marker = "> "
		}

		caption := it.Caption
		captionStyle := style
		if it.ID == f.Renaming {
			caption = f.EditText + "_"
			captionStyle = styleEditing
		}
		v.text(r.Left, r.Top, layout.Width, marker, style)
		v.text(r.Left+2, r.Top, layout.Width-2, caption, captionStyle)
		v.text(r.Left+2, r.Top+1, layout.Width-2, it.ID, styleDim)
	}

	_, h := s.Size()
	status := f.Status
	if status == "" {
		status = "u undo  r redo  e rename  enter go to  s save  q quit"
	}
	w, _ := s.Size()
	v.fill(h-1, w, ' ', styleStatus)
	v.text(0, h-1, w, status, styleStatus)
	s.Show()
}

func (v *View) text(x, y, max int, str string, style tcell.Style) {
	col := 0
	for _, r := range str {
		if col >= max {
			return
		}
		v.screen.SetContent(x+col, y, r, nil, style)
		col++
	}
}

func (v *View) fill(y, width int, r rune, style tcell.Style) {
	for x := 0; x < width; x++ {
		v.screen.SetContent(x, y, r, nil, style)
	}
}

// CardAt returns the index of the card under screen cell (x, y).
func (v *View) CardAt(n, x, y int) (int, bool) {
	_, cards := v.Bounds(n)
	p := menu.Point{X: x, Y: y}
	for i, c := range cards {
		if c.Contains(p) {
			return i, true
		}
	}
	return -1, false
}

func countLabel(n int) string {
	if n == 1 {
		return "1 section"
	}
	return fmt.Sprintf("%d sections", n)
}
