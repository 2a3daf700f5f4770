package parser

import (
	"errors"
	"fmt"

	"github.com/c360studio/pddls/grammar"
)

// ErrStructure is matched by every *StructureError.
var ErrStructure = errors.New("invalid document structure")

// StructureError reports a structural or arity violation in planning
// language text. No partial document accompanies it.
type StructureError struct {
	Pos grammar.Position
	Msg string

	// Err is the underlying lexer or reader error, if any.
	Err error
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("%s at %s: %s", ErrStructure, e.Pos, e.Msg)
}

// Unwrap allows errors.Is against ErrStructure and the underlying cause.
func (e *StructureError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrStructure}
	}
	return []error{ErrStructure, e.Err}
}

// IsStructureError reports whether err is a structure violation.
func IsStructureError(err error) bool {
	return errors.Is(err, ErrStructure)
}

func structureErrorf(node grammar.Node, format string, args ...any) *StructureError {
	return &StructureError{Pos: node.Pos(), Msg: fmt.Sprintf(format, args...)}
}
