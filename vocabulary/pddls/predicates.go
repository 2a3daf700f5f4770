package pddls

import "github.com/c360studio/semstreams/vocabulary"

// Document predicates.
const (
	// DocumentName is the declared domain or problem name.
	DocumentName = "pddl.document.name"

	// DocumentKind discriminates domains and problems.
	// Values: domain, problem
	DocumentKind = "pddl.document.kind"

	// DocumentDomain is the owning domain name of a problem.
	DocumentDomain = "pddl.document.domain"
)

// Binding predicates describe a (:context ...) entry. The subject is the
// bound URI.
const (
	// BindingSymbol is the local symbol bound to the URI.
	BindingSymbol = "pddl.binding.symbol"

	// BindingKind classifies the symbol.
	// Values: predicate, object, symbol
	BindingKind = "pddl.binding.kind"

	// BindingDocument links the URI to the declaring document entity.
	BindingDocument = "pddl.binding.document"
)

// Formula predicates.
const (
	// FormulaEstablishedWith holds the formula deriving a predicate's facts.
	FormulaEstablishedWith = "pddl.formula.established_with"
)

// Axiom predicates describe facts derived during augmentation.
const (
	// AxiomLiteral is the rendered init literal, e.g. "(adjacent a b)".
	AxiomLiteral = "pddl.axiom.literal"

	// AxiomPredicate is the URI of the predicate the axiom instantiates.
	AxiomPredicate = "pddl.axiom.predicate"

	// AxiomProblem links the axiom to the augmented problem entity.
	AxiomProblem = "pddl.axiom.problem"
)

// Binding kind values.
const (
	KindPredicate = "predicate"
	KindObject    = "object"
	KindSymbol    = "symbol"
)

func init() {
	vocabulary.Register(DocumentName,
		vocabulary.WithDescription("Declared domain or problem name"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(vocabulary.DcTitle))

	vocabulary.Register(DocumentKind,
		vocabulary.WithDescription("Document variant: domain or problem"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropDocumentKind))

	vocabulary.Register(DocumentDomain,
		vocabulary.WithDescription("Domain a problem is posed in"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropProblemDomain))

	vocabulary.Register(BindingSymbol,
		vocabulary.WithDescription("Local planning symbol bound to the resource"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(vocabulary.SkosPrefLabel))

	vocabulary.Register(BindingKind,
		vocabulary.WithDescription("Bound symbol classification: predicate, object, symbol"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(PropSymbolKind))

	vocabulary.Register(BindingDocument,
		vocabulary.WithDescription("Document whose context declares the binding"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(PropBoundIn))

	vocabulary.Register(FormulaEstablishedWith,
		vocabulary.WithDescription("Formula deriving ground facts for a predicate"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(EstablishedWith))

	vocabulary.Register(AxiomLiteral,
		vocabulary.WithDescription("Init literal derived from the ontology"),
		vocabulary.WithDataType("string"),
		vocabulary.WithIRI(Namespace+"axiomLiteral"))

	vocabulary.Register(AxiomPredicate,
		vocabulary.WithDescription("Predicate URI instantiated by a derived axiom"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(Namespace+"axiomPredicate"))

	vocabulary.Register(AxiomProblem,
		vocabulary.WithDescription("Problem augmented with a derived axiom"),
		vocabulary.WithDataType("entity_id"),
		vocabulary.WithIRI(vocabulary.ProvWasDerivedFrom))
}

// PredicateIRI returns the registered IRI for a predicate, falling back to
// the pddls namespace for unregistered ones.
func PredicateIRI(predicate string) string {
	if meta := vocabulary.GetPredicateMetadata(predicate); meta != nil && meta.StandardIRI != "" {
		return meta.StandardIRI
	}
	return Namespace + predicate
}
