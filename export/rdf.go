package export

import (
	"fmt"
	"strings"

	"github.com/c360studio/pddls/document"
	"github.com/c360studio/pddls/vocabulary/pddls"
)

const rdfType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// Resource is an object value serialized as an IRI rather than a literal.
type Resource string

// Triple is one predicate-object pair of an exported entity. Predicate is a
// registered vocabulary name such as pddls.BindingSymbol.
type Triple struct {
	Predicate string
	Object    any
}

// PredicateIRI resolves the triple's predicate to its IRI.
func (t Triple) PredicateIRI() string {
	return pddls.PredicateIRI(t.Predicate)
}

// Entity is an exportable subject with its type assertions and triples.
type Entity struct {
	IRI     string
	Types   []string
	Triples []Triple
}

// RDFExporter exports document metadata and context bindings as RDF, so the
// bindings of a document can seed an ontology.
type RDFExporter struct {
	entities []Entity
	prefixes map[string]string
}

// NewRDFExporter creates an empty exporter.
func NewRDFExporter() *RDFExporter {
	return &RDFExporter{
		entities: make([]Entity, 0),
		prefixes: defaultPrefixes(),
	}
}

// defaultPrefixes returns the namespace prefixes declared in Turtle and
// JSON-LD output.
func defaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":   "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
		"xsd":   "http://www.w3.org/2001/XMLSchema#",
		"dc":    "http://purl.org/dc/terms/",
		"skos":  "http://www.w3.org/2004/02/skos/core#",
		"prov":  "http://www.w3.org/ns/prov#",
		"pddls": pddls.Namespace,
	}
}

// AddPrefix declares an additional namespace prefix.
func (e *RDFExporter) AddPrefix(prefix, iri string) {
	e.prefixes[prefix] = iri
}

// AddEntity adds an entity to be exported.
func (e *RDFExporter) AddEntity(entity Entity) {
	e.entities = append(e.entities, entity)
}

// Entities returns the entities added so far.
func (e *RDFExporter) Entities() []Entity {
	return e.entities
}

// AddDocument adds the document entity followed by one entity per context
// binding, in binding order.
func (e *RDFExporter) AddDocument(doc document.Document) error {
	var (
		docIRI  string
		triples []Triple
		types   []string
	)
	switch d := doc.(type) {
	case *document.Domain:
		if d == nil {
			return document.ErrIllegalDocument
		}
		docIRI = pddls.DocumentIRI(string(document.KindDomain), d.Name)
		types = []string{pddls.ClassDomain}
		triples = []Triple{
			{Predicate: pddls.DocumentName, Object: d.Name},
			{Predicate: pddls.DocumentKind, Object: string(document.KindDomain)},
		}
	case *document.Problem:
		if d == nil {
			return document.ErrIllegalDocument
		}
		docIRI = pddls.DocumentIRI(string(document.KindProblem), d.Name)
		types = []string{pddls.ClassProblem}
		triples = []Triple{
			{Predicate: pddls.DocumentName, Object: d.Name},
			{Predicate: pddls.DocumentKind, Object: string(document.KindProblem)},
			{Predicate: pddls.DocumentDomain, Object: Resource(pddls.DocumentIRI(string(document.KindDomain), d.Domain))},
		}
	default:
		return document.ErrIllegalDocument
	}
	e.AddEntity(Entity{IRI: docIRI, Types: types, Triples: triples})

	for _, b := range doc.Bindings() {
		e.AddEntity(Entity{
			IRI:   b.URI,
			Types: []string{pddls.ClassBinding},
			Triples: []Triple{
				{Predicate: pddls.BindingSymbol, Object: b.Symbol},
				{Predicate: pddls.BindingKind, Object: bindingKind(doc, b.Symbol)},
				{Predicate: pddls.BindingDocument, Object: Resource(docIRI)},
			},
		})
	}
	return nil
}

// bindingKind classifies a bound symbol against the document's
// declarations.
func bindingKind(doc document.Document, symbol string) string {
	switch d := doc.(type) {
	case *document.Domain:
		for _, p := range d.Predicates {
			if p.Symbol == symbol {
				return pddls.KindPredicate
			}
		}
		if _, ok := d.Constants.Lookup(symbol); ok {
			return pddls.KindObject
		}
	case *document.Problem:
		if _, ok := d.Objects.Lookup(symbol); ok {
			return pddls.KindObject
		}
	}
	return pddls.KindSymbol
}

// Export serializes all entities to the specified format.
func (e *RDFExporter) Export(format Format) (string, error) {
	switch format {
	case FormatTurtle:
		w := NewTurtleWriter(e.prefixes)
		w.WritePrefixes()
		for _, entity := range e.entities {
			w.WriteEntity(entity)
		}
		return w.String(), nil
	case FormatNTriples:
		w := NewNTriplesWriter()
		for _, entity := range e.entities {
			w.WriteEntity(entity)
		}
		return w.String(), nil
	case FormatJSONLD:
		w := NewJSONLDWriter(e.prefixes)
		for _, entity := range e.entities {
			w.WriteEntity(entity)
		}
		return w.String()
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// formatObject formats an object value in N-Triples term syntax, which
// Turtle also accepts.
func formatObject(obj any) string {
	switch v := obj.(type) {
	case Resource:
		return fmt.Sprintf("<%s>", string(v))
	case string:
		return fmt.Sprintf("\"%s\"", escapeString(v))
	case int, int32, int64:
		return fmt.Sprintf("\"%d\"^^<http://www.w3.org/2001/XMLSchema#integer>", v)
	case float32, float64:
		return fmt.Sprintf("\"%g\"^^<http://www.w3.org/2001/XMLSchema#decimal>", v)
	case bool:
		return fmt.Sprintf("\"%t\"^^<http://www.w3.org/2001/XMLSchema#boolean>", v)
	default:
		return fmt.Sprintf("\"%s\"", escapeString(fmt.Sprint(v)))
	}
}

// jsonLDValue converts an object value to its JSON-LD form.
func jsonLDValue(obj any) any {
	switch v := obj.(type) {
	case Resource:
		return map[string]string{"@id": string(v)}
	case string, int, int32, int64, float32, float64, bool:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// escapeString escapes special characters in strings for RDF serialization.
func escapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
