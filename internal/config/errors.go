package config

import (
	"errors"
	"fmt"
)

// ErrValidationFailed is matched by every ValidationError.
var ErrValidationFailed = errors.New("validation failed")

// ValidationError rejects the value of one dotted setting path.
type ValidationError struct {
	Path    string
	Message string
	Value   any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config %s = %v: %s", e.Path, e.Value, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidationFailed }

// DecodeError is returned when the merged layers do not fit the Config
// structure.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "config: decode: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }
