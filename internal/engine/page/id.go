package page

import "github.com/google/uuid"

// NewID returns a fresh identifier for a section or element.
func NewID() string {
	return uuid.NewString()
}
