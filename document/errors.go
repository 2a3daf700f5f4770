package document

import (
	"errors"
	"fmt"
)

// Common document errors.
var (
	// ErrIllegalDocument is returned when a document is neither a domain
	// nor a problem (or claims to be both).
	ErrIllegalDocument = errors.New("illegal document: neither domain nor problem")

	// ErrMalformedTree is returned when a tree-form document does not match
	// the expected shape.
	ErrMalformedTree = errors.New("malformed document tree")
)

// TreeError reports a shape violation at a path inside a tree-form document.
type TreeError struct {
	// Path locates the offending value, e.g. "structure[2].pddl:parameters".
	Path string

	// Msg describes the violation.
	Msg string
}

func (e *TreeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s", ErrMalformedTree, e.Msg)
	}
	return fmt.Sprintf("%s at %s: %s", ErrMalformedTree, e.Path, e.Msg)
}

// Unwrap allows errors.Is(err, ErrMalformedTree).
func (e *TreeError) Unwrap() error {
	return ErrMalformedTree
}

func treeErrorf(path, format string, args ...any) error {
	return &TreeError{Path: path, Msg: fmt.Sprintf(format, args...)}
}
