package ontology

import (
	"errors"
	"fmt"
)

// Common ontology errors.
var (
	// ErrQuery is returned when a query cannot be parsed or uses an
	// unsupported construct.
	ErrQuery = errors.New("invalid query")

	// ErrUnknownFormat is returned when an RDF serialization cannot be
	// inferred from a file name.
	ErrUnknownFormat = errors.New("unknown RDF format")
)

// QueryError locates a problem inside query text.
type QueryError struct {
	// Offset is the byte offset of the offending token.
	Offset int

	// Msg describes the problem.
	Msg string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s at offset %d: %s", ErrQuery, e.Offset, e.Msg)
}

// Unwrap allows errors.Is(err, ErrQuery).
func (e *QueryError) Unwrap() error {
	return ErrQuery
}

// IsQueryError reports whether err is a query syntax error.
func IsQueryError(err error) bool {
	return errors.Is(err, ErrQuery)
}
