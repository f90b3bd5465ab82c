// Package tui draws the section menu on a terminal with tcell.
//
// The screen is a title row, then alternating drop lines and two-row
// section cards, then a status row:
//
//	Sections
//	────────────────  drop line 0 (lit while hovered during a drag)
//	> Hero
//	  hero-1
//	                  drop line 1
//	  Untitled image
//	  gallery-7
//	                  drop line 2
//	u undo  r redo  e rename  s save  q quit
//
// View implements menu.Layout from the rows it draws, so the geometry the
// engine hit-tests against is exactly what is on screen.
package tui
