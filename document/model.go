// Package document provides the canonical in-memory model of planning
// language documents.
//
// A Document is either a *Domain or a *Problem. Logical formulas
// (preconditions, effects, goals, durations, conditions, metrics and init
// literals) are kept as opaque flattened text; the model never interprets
// them.
//
// The model is exchanged with persistence layers through a generic tree
// form (ordered mappings, sequences and scalars) encoded as JSON or YAML;
// see Encode and Decode.
package document

// Kind discriminates the two document variants.
type Kind string

const (
	// KindDomain tags a domain declaration.
	KindDomain Kind = "domain"

	// KindProblem tags a problem declaration.
	KindProblem Kind = "problem"
)

// Document is a domain or a problem declaration.
// The interface is sealed: only *Domain and *Problem implement it.
type Document interface {
	// Kind reports which variant the document is.
	Kind() Kind

	// DocumentName returns the declared domain or problem name.
	DocumentName() string

	// Bindings returns the context bindings attached to the document, or nil.
	Bindings() Context

	isDocument()
}

// Domain declares the types, predicates, functions and actions available
// to planning problems.
type Domain struct {
	// Name is the domain name from (domain <name>).
	Name string

	// Requirements are the requirement keywords in declaration order
	// (e.g. ":strips", ":typing"). Nil when the clause is absent.
	Requirements []string

	// Types maps type names to their optional parent type. Nil when absent.
	Types TypedNameList

	// Constants are domain-level objects. Nil when absent.
	Constants TypedNameList

	// Predicates are the predicate declarations in declaration order.
	Predicates []Declaration

	// Functions are the function declarations in declaration order.
	Functions []Declaration

	// Structure holds actions, durative actions and derived predicates in
	// declaration order.
	Structure []StructureEntry

	// Context binds local symbols to external URIs. Nil when absent.
	Context Context
}

// Kind implements Document.
func (d *Domain) Kind() Kind { return KindDomain }

// DocumentName implements Document.
func (d *Domain) DocumentName() string { return d.Name }

// Bindings implements Document.
func (d *Domain) Bindings() Context { return d.Context }

func (d *Domain) isDocument() {}

// Problem declares objects, initial facts and a goal for one domain.
type Problem struct {
	// Name is the problem name from (problem <name>).
	Name string

	// Domain is the name of the owning domain.
	Domain string

	// Requirements are optional requirement keywords. Nil when absent.
	Requirements []string

	// Objects are the typed problem objects. Nil when absent.
	Objects TypedNameList

	// Init holds each initial fact as flattened literal text.
	Init []string

	// Goal is the flattened goal expression.
	Goal string

	// Metric is the flattened metric specification; empty when absent.
	Metric string

	// Context binds local symbols to external URIs. Nil when absent.
	Context Context
}

// Kind implements Document.
func (p *Problem) Kind() Kind { return KindProblem }

// DocumentName implements Document.
func (p *Problem) DocumentName() string { return p.Name }

// Bindings implements Document.
func (p *Problem) Bindings() Context { return p.Context }

func (p *Problem) isDocument() {}

// Parameter is a positional (name, optional type) pair used in predicate,
// function and action declarations. An empty Type means untyped.
type Parameter struct {
	Name string
	Type string
}

// Typed reports whether the parameter carries a type.
func (p Parameter) Typed() bool { return p.Type != "" }

// Declaration is a predicate or function declaration: a symbol plus its
// ordered parameter list.
type Declaration struct {
	Symbol     string
	Parameters []Parameter
}

// StructureEntry is an entry of a domain's structure section.
// Implemented by *Action, *DurativeAction and *DerivedPredicate.
type StructureEntry interface {
	// EntrySymbol returns the action or derived predicate symbol.
	EntrySymbol() string

	isStructureEntry()
}

// Action is a classical (:action ...) definition.
// Empty Precondition or Effect means the clause is absent.
type Action struct {
	Symbol       string
	Parameters   []Parameter
	Precondition string
	Effect       string
}

// EntrySymbol implements StructureEntry.
func (a *Action) EntrySymbol() string { return a.Symbol }

func (a *Action) isStructureEntry() {}

// DurativeAction is a (:durative-action ...) definition.
// Empty Duration, Condition or Effect means the clause is absent.
type DurativeAction struct {
	Symbol     string
	Parameters []Parameter
	Duration   string
	Condition  string
	Effect     string
}

// EntrySymbol implements StructureEntry.
func (a *DurativeAction) EntrySymbol() string { return a.Symbol }

func (a *DurativeAction) isStructureEntry() {}

// DerivedPredicate is a (:derived (<skeleton>) <body>) definition.
type DerivedPredicate struct {
	Skeleton Declaration
	Body     string
}

// EntrySymbol implements StructureEntry.
func (d *DerivedPredicate) EntrySymbol() string { return d.Skeleton.Symbol }

func (d *DerivedPredicate) isStructureEntry() {}
