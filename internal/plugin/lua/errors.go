package lua

import "errors"

var (
	// ErrStateClosed is returned by every method of a closed State.
	ErrStateClosed = errors.New("lua: state closed")
	// ErrExecutionTimeout is returned when a script outlives its deadline.
	ErrExecutionTimeout = errors.New("lua: script timed out")
	// ErrModuleUnavailable is raised by require for modules the sandbox
	// does not provide.
	ErrModuleUnavailable = errors.New("lua: module not available")
)
