package menu

// Point is a pointer position in screen cells.
type Point struct {
	X int
	Y int
}

// Rect is an axis-aligned rectangle. Both edges are inclusive.
type Rect struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

// Height returns the number of rows the rectangle spans.
func (r Rect) Height() int {
	return r.Bottom - r.Top + 1
}

// Contains reports whether p lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right && p.Y >= r.Top && p.Y <= r.Bottom
}

// DropIndex returns the drop line for a pointer over the menu. A pointer in
// the upper half of card i selects line i, one in the lower half line i+1.
// It reports false when the pointer is outside the menu's horizontal bounds
// or over no card.
func DropIndex(menu Rect, cards []Rect, p Point) (int, bool) {
	if p.X < menu.Left || p.X > menu.Right {
		return 0, false
	}
	for i, c := range cards {
		if p.Y < c.Top || p.Y > c.Bottom {
			continue
		}
		// Compare doubled offsets so odd heights split at the true middle.
		if 2*(p.Y-c.Top) < c.Height() {
			return i, true
		}
		return i + 1, true
	}
	return 0, false
}

// ResolveDropLine maps a drop line to the index of the card the dragged
// section is inserted before. The line below the last card resolves to the
// last card. A negative line resolves to -1.
func ResolveDropLine(line, cardCount int) int {
	if line < 0 || cardCount == 0 {
		return -1
	}
	if line >= cardCount {
		return cardCount - 1
	}
	return line
}

// Layout supplies the on-screen geometry of a menu with n cards.
type Layout interface {
	Bounds(n int) (menu Rect, cards []Rect)
}

// StackLayout stacks cards vertically with a one-row drop line above each
// card and below the last one.
type StackLayout struct {
	Left       int
	Top        int
	Width      int
	CardHeight int
}

// Bounds implements Layout.
func (l StackLayout) Bounds(n int) (Rect, []Rect) {
	h := l.CardHeight
	if h < 1 {
		h = 1
	}
	right := l.Left + l.Width - 1
	cards := make([]Rect, n)
	y := l.Top + 1
	for i := range cards {
		cards[i] = Rect{Left: l.Left, Top: y, Right: right, Bottom: y + h - 1}
		y += h + 1
	}
	menu := Rect{Left: l.Left, Top: l.Top, Right: right, Bottom: y - 1}
	return menu, cards
}

// LineRow returns the screen row of drop line i in a StackLayout.
func (l StackLayout) LineRow(i int) int {
	h := l.CardHeight
	if h < 1 {
		h = 1
	}
	return l.Top + i*(h+1)
}
