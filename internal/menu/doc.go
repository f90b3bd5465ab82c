// Package menu implements the section menu of the page editor.
//
// The menu lists one card per section, separated by drop lines: line i lies
// just above card i and line len(cards) lies below the last card. Dragging a
// card lights exactly one drop line. Releasing the card moves the dragged
// section before the card under the resolved line, as an undoable command.
//
// The package does no drawing. A Layout supplies the on-screen geometry and
// the terminal UI renders Items, ActiveLine and Focused.
package menu
