package page

import "errors"

// Errors returned by document operations.
var (
	ErrSectionNotFound  = errors.New("section not found")
	ErrElementNotFound  = errors.New("element not found")
	ErrDuplicateSection = errors.New("duplicate section id")
	ErrDuplicateElement = errors.New("duplicate element id")
	ErrInvalidSection   = errors.New("invalid section")
	ErrInvalidElement   = errors.New("invalid element")
	ErrInvalidOrder     = errors.New("section order is not a permutation of the current sections")
)
