package pddls

// Namespace is the base IRI prefix for pddls vocabulary terms.
const Namespace = "uri:pddls#"

// EntityNamespace is the base IRI for planning document instances.
const EntityNamespace = "uri:pddls/"

// EstablishedWith relates a predicate URI to a formula producing its facts.
const EstablishedWith = Namespace + "establishedWith"

// QueryLanguage is the language tag marking an executable formula.
// Matching is case-insensitive.
const QueryLanguage = "sparql"

// Class IRIs.
const (
	// ClassDomain is a planning domain declaration.
	ClassDomain = Namespace + "Domain"

	// ClassProblem is a planning problem declaration.
	ClassProblem = Namespace + "Problem"

	// ClassBinding is a symbol bound to an external resource.
	ClassBinding = Namespace + "Binding"
)

// Property IRIs.
const (
	// PropDocumentKind records whether a document is a domain or a problem.
	PropDocumentKind = Namespace + "documentKind"

	// PropBoundIn links a bound resource to the declaring document.
	PropBoundIn = Namespace + "boundIn"

	// PropSymbolKind records whether a bound symbol names a predicate or an object.
	PropSymbolKind = Namespace + "symbolKind"

	// PropProblemDomain links a problem to the domain it is posed in.
	PropProblemDomain = Namespace + "problemDomain"
)

// DocumentIRI returns the entity IRI of a named document.
func DocumentIRI(kind, name string) string {
	return EntityNamespace + kind + "/" + name
}
