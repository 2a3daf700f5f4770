package augment

import (
	"fmt"
	"strings"
)

// DiagnosticKind classifies a non-fatal augmentation finding.
type DiagnosticKind string

const (
	// DiagnosticUnsupportedFormula marks an established-with value that is
	// not an executable query.
	DiagnosticUnsupportedFormula DiagnosticKind = "unsupported_formula"

	// DiagnosticForeignObject marks a result row rejected because it
	// references a resource outside the problem's bound objects.
	DiagnosticForeignObject DiagnosticKind = "foreign_object"
)

// Diagnostic reports a formula or row that was skipped.
type Diagnostic struct {
	Kind DiagnosticKind `json:"kind"`

	// Predicate is the URI of the predicate being resolved.
	Predicate string `json:"predicate"`

	// Value is the offending formula or resource in N-Triples syntax.
	Value string `json:"value"`
}

func (d Diagnostic) String() string {
	switch d.Kind {
	case DiagnosticUnsupportedFormula:
		return fmt.Sprintf("unsupported formula %s for %s", d.Value, d.Predicate)
	case DiagnosticForeignObject:
		return fmt.Sprintf("excluded axiom of %s with foreign object %s", d.Predicate, d.Value)
	default:
		return fmt.Sprintf("%s: %s %s", d.Kind, d.Predicate, d.Value)
	}
}

// Axiom is a ground fact resolved from the ontology.
type Axiom struct {
	// Predicate is the predicate symbol.
	Predicate string `json:"predicate"`

	// PredicateURI is the resource the symbol is bound to.
	PredicateURI string `json:"predicate_uri"`

	// Args are object symbols in row order.
	Args []string `json:"args"`
}

// Literal renders the axiom as an init literal, e.g. "(adjacent a b)".
func (a Axiom) Literal() string {
	if len(a.Args) == 0 {
		return "(" + a.Predicate + ")"
	}
	return "(" + a.Predicate + " " + strings.Join(a.Args, " ") + ")"
}
