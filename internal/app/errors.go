package app

import (
	"errors"
	"strings"
)

var (
	// ErrInitialization wraps every failure of New.
	ErrInitialization = errors.New("initialization failed")

	// ErrNoDocument is returned by Save and RunScript before Open.
	ErrNoDocument = errors.New("no document open")
)

// OperationError names the session operation and the document a failure
// belongs to, as in "export landing: document not found".
type OperationError struct {
	Op       string
	Document string
	Err      error
}

// NewOperationError wraps err for op on document. document may be empty for
// operations such as list.
func NewOperationError(op, document string, err error) *OperationError {
	return &OperationError{Op: op, Document: document, Err: err}
}

func (e *OperationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Document != "" {
		b.WriteByte(' ')
		b.WriteString(e.Document)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *OperationError) Unwrap() error { return e.Err }
