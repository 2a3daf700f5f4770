// Package ontology holds RDF graphs in memory and answers graph-pattern
// queries over them.
//
// Graphs are immutable once built. They are loaded from Turtle, N-Triples
// or RDF/XML files and queried either directly (Objects, Match) or with a
// SPARQL SELECT subset (Query).
package ontology

import (
	"fmt"
	"strings"
)

// XML Schema and RDF datatype IRIs used by literals.
const (
	XSDString  = "http://www.w3.org/2001/XMLSchema#string"
	XSDInteger = "http://www.w3.org/2001/XMLSchema#integer"
	XSDDecimal = "http://www.w3.org/2001/XMLSchema#decimal"
	XSDDouble  = "http://www.w3.org/2001/XMLSchema#double"
	XSDBoolean = "http://www.w3.org/2001/XMLSchema#boolean"
	RDFType    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
	RDFLang    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"
)

// TermKind classifies an RDF term. The zero value matches any term in
// Match patterns.
type TermKind int

const (
	// TermAny is the wildcard used in Match patterns.
	TermAny TermKind = iota
	TermIRI
	TermBlank
	TermLiteral
)

func (k TermKind) String() string {
	switch k {
	case TermAny:
		return "any"
	case TermIRI:
		return "iri"
	case TermBlank:
		return "blank"
	case TermLiteral:
		return "literal"
	default:
		return fmt.Sprintf("TermKind(%d)", int(k))
	}
}

// Term is an RDF term. Terms are comparable and usable as map keys.
// Literals carry either a language tag or a datatype; plain string
// literals carry neither.
type Term struct {
	Kind     TermKind
	Value    string
	Lang     string
	Datatype string
}

// Any is the wildcard term.
var Any = Term{}

// IRI returns an IRI term.
func IRI(value string) Term {
	return Term{Kind: TermIRI, Value: value}
}

// Blank returns a blank node term with the given label.
func Blank(label string) Term {
	return Term{Kind: TermBlank, Value: label}
}

// Literal returns a plain string literal.
func Literal(value string) Term {
	return Term{Kind: TermLiteral, Value: value}
}

// LangLiteral returns a language-tagged literal. Tags are lower-cased.
func LangLiteral(value, lang string) Term {
	return Term{Kind: TermLiteral, Value: value, Lang: strings.ToLower(lang)}
}

// TypedLiteral returns a literal with a datatype. xsd:string collapses to
// a plain literal.
func TypedLiteral(value, datatype string) Term {
	if datatype == XSDString || datatype == "" {
		return Literal(value)
	}
	return Term{Kind: TermLiteral, Value: value, Datatype: datatype}
}

// IsIRI reports whether the term is an IRI.
func (t Term) IsIRI() bool { return t.Kind == TermIRI }

// IsBlank reports whether the term is a blank node.
func (t Term) IsBlank() bool { return t.Kind == TermBlank }

// IsLiteral reports whether the term is a literal.
func (t Term) IsLiteral() bool { return t.Kind == TermLiteral }

// IsAny reports whether the term is the wildcard.
func (t Term) IsAny() bool { return t.Kind == TermAny }

// String renders the term in N-Triples syntax.
func (t Term) String() string {
	switch t.Kind {
	case TermIRI:
		return "<" + t.Value + ">"
	case TermBlank:
		return "_:" + t.Value
	case TermLiteral:
		s := `"` + escapeLiteral(t.Value) + `"`
		if t.Lang != "" {
			return s + "@" + t.Lang
		}
		if t.Datatype != "" {
			return s + "^^<" + t.Datatype + ">"
		}
		return s
	default:
		return "*"
	}
}

func escapeLiteral(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`)
	return r.Replace(s)
}

// Triple is a subject, predicate, object statement.
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

func (t Triple) String() string {
	return fmt.Sprintf("%s %s %s .", t.Subject, t.Predicate, t.Object)
}
