package pddls

import (
	"testing"

	"github.com/c360studio/semstreams/vocabulary"
)

func TestPredicatesRegistered(t *testing.T) {
	predicates := []string{
		DocumentName,
		DocumentKind,
		DocumentDomain,
		BindingSymbol,
		BindingKind,
		BindingDocument,
		FormulaEstablishedWith,
		AxiomLiteral,
		AxiomPredicate,
		AxiomProblem,
	}

	for _, pred := range predicates {
		t.Run(pred, func(t *testing.T) {
			meta := vocabulary.GetPredicateMetadata(pred)
			if meta == nil {
				t.Fatalf("predicate %s not registered", pred)
			}
			if meta.Description == "" {
				t.Errorf("predicate %s missing description", pred)
			}
		})
	}
}

func TestPredicateIRIMappings(t *testing.T) {
	tests := []struct {
		predicate   string
		expectedIRI string
	}{
		{DocumentName, vocabulary.DcTitle},
		{BindingSymbol, vocabulary.SkosPrefLabel},
		{FormulaEstablishedWith, "uri:pddls#establishedWith"},
		{BindingDocument, PropBoundIn},
		{"pddl.unknown.thing", Namespace + "pddl.unknown.thing"},
	}

	for _, tt := range tests {
		t.Run(tt.predicate, func(t *testing.T) {
			if got := PredicateIRI(tt.predicate); got != tt.expectedIRI {
				t.Errorf("predicate %s: expected IRI %s, got %s", tt.predicate, tt.expectedIRI, got)
			}
		})
	}
}

func TestDocumentIRI(t *testing.T) {
	if got := DocumentIRI("problem", "p1"); got != "uri:pddls/problem/p1" {
		t.Errorf("unexpected document IRI %s", got)
	}
}
