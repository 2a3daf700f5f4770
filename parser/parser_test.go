package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/pddls/document"
	"github.com/c360studio/pddls/grammar"
)

const logisticsDomain = `
; logistics domain
(define (domain logistics)
  (:requirements :strips :typing :durative-actions)
  (:types truck plane - vehicle location vehicle)
  (:constants depot - location)
  (:predicates
    (at ?v - vehicle ?l - location)
    (connected ?from ?to - location)
    (ready))
  (:functions (fuel ?v - vehicle) - number (total-cost))
  (:action drive
    :parameters (?v - truck ?from ?to - location)
    :precondition (and (at ?v ?from)
                       (connected ?from ?to))
    :effect (and (not (at ?v ?from)) (at ?v ?to)))
  (:durative-action fly
    :parameters (?p - plane ?from ?to - location)
    :duration (= ?duration 4)
    :condition (at start (at ?p ?from))
    :effect (and (at start (not (at ?p ?from))) (at end (at ?p ?to))))
  (:derived (reachable ?a ?b - location) (connected ?a ?b))
  (:context
    connected = <http://example.org/geo#adjacentTo>
    at = <http://example.org/geo#locatedIn>))
`

const logisticsProblem = `
(define (problem deliver)
  (:domain logistics)
  (:objects t1 - truck a b c - location p1)
  (:init
    (at t1 a)
    (=  (fuel t1)  10))
  (:goal (and (at t1 c)))
  (:metric minimize (total-cost))
  (:context a = <http://example.org/geo#A> b = <http://example.org/geo#B>))
`

func TestParseDomain(t *testing.T) {
	doc, err := Parse([]byte(logisticsDomain))
	require.NoError(t, err)

	d, ok := doc.(*document.Domain)
	require.True(t, ok)
	assert.Equal(t, document.KindDomain, d.Kind())
	assert.Equal(t, "logistics", d.Name)
	assert.Equal(t, []string{":strips", ":typing", ":durative-actions"}, d.Requirements)
	assert.Equal(t, document.TypedNameList{
		{Name: "truck", Type: "vehicle"},
		{Name: "plane", Type: "vehicle"},
		{Name: "location"},
		{Name: "vehicle"},
	}, d.Types)
	assert.Equal(t, document.TypedNameList{{Name: "depot", Type: "location"}}, d.Constants)

	assert.Equal(t, []document.Declaration{
		{Symbol: "at", Parameters: []document.Parameter{{Name: "?v", Type: "vehicle"}, {Name: "?l", Type: "location"}}},
		{Symbol: "connected", Parameters: []document.Parameter{{Name: "?from", Type: "location"}, {Name: "?to", Type: "location"}}},
		{Symbol: "ready"},
	}, d.Predicates)
	assert.Equal(t, []document.Declaration{
		{Symbol: "fuel", Parameters: []document.Parameter{{Name: "?v", Type: "vehicle"}}},
		{Symbol: "total-cost"},
	}, d.Functions)

	require.Len(t, d.Structure, 3)
	drive, ok := d.Structure[0].(*document.Action)
	require.True(t, ok)
	assert.Equal(t, "drive", drive.Symbol)
	assert.Equal(t, "(and (at ?v ?from) (connected ?from ?to))", drive.Precondition)
	assert.Equal(t, "(and (not (at ?v ?from)) (at ?v ?to))", drive.Effect)

	fly, ok := d.Structure[1].(*document.DurativeAction)
	require.True(t, ok)
	assert.Equal(t, "(= ?duration 4)", fly.Duration)
	assert.Equal(t, "(at start (at ?p ?from))", fly.Condition)
	assert.Equal(t, "(and (at start (not (at ?p ?from))) (at end (at ?p ?to)))", fly.Effect)

	derived, ok := d.Structure[2].(*document.DerivedPredicate)
	require.True(t, ok)
	assert.Equal(t, "reachable", derived.EntrySymbol())
	assert.Equal(t, "(connected ?a ?b)", derived.Body)

	assert.Equal(t, document.Context{
		{Symbol: "connected", URI: "http://example.org/geo#adjacentTo"},
		{Symbol: "at", URI: "http://example.org/geo#locatedIn"},
	}, d.Context)
}

func TestParseProblem(t *testing.T) {
	doc, err := Parse([]byte(logisticsProblem))
	require.NoError(t, err)

	p, ok := doc.(*document.Problem)
	require.True(t, ok)
	assert.Equal(t, "deliver", p.Name)
	assert.Equal(t, "logistics", p.Domain)
	assert.Equal(t, document.TypedNameList{
		{Name: "t1", Type: "truck"},
		{Name: "a", Type: "location"},
		{Name: "b", Type: "location"},
		{Name: "c", Type: "location"},
		{Name: "p1"},
	}, p.Objects)
	assert.Equal(t, []string{"(at t1 a)", "(= (fuel t1) 10)"}, p.Init)
	assert.Equal(t, "(and (at t1 c))", p.Goal)
	assert.Equal(t, "minimize (total-cost)", p.Metric)
	assert.Equal(t, "http://example.org/geo#B", p.Context.Map()["b"])
	assert.Nil(t, p.Requirements)
}

func TestParseOptionalClausesAbsent(t *testing.T) {
	doc, err := Parse([]byte(`(define (domain d) (:action noop :parameters ()))`))
	require.NoError(t, err)

	d := doc.(*document.Domain)
	assert.Nil(t, d.Requirements)
	assert.Nil(t, d.Types)
	assert.Nil(t, d.Context)
	a := d.Structure[0].(*document.Action)
	assert.Empty(t, a.Precondition)
	assert.Empty(t, a.Effect)
	assert.Nil(t, a.Parameters)
}

func TestParseKeywordsCaseInsensitive(t *testing.T) {
	doc, err := Parse([]byte(`(DEFINE (PROBLEM p) (:DOMAIN d) (:INIT (a)) (:GOAL (b)))`))
	require.NoError(t, err)
	p := doc.(*document.Problem)
	assert.Equal(t, "d", p.Domain)
	assert.Equal(t, []string{"(a)"}, p.Init)
}

func TestParseStructureErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing define", `(domain d)`},
		{"no header", `(define)`},
		{"bad header", `(define (theory d))`},
		{"missing parameters", `(define (domain d) (:action a :precondition (p)))`},
		{"unknown action keyword", `(define (domain d) (:action a :parameters () :cost 3))`},
		{"keyword without value", `(define (domain d) (:action a :parameters () :effect))`},
		{"dash without type", `(define (domain d) (:types a -))`},
		{"durative precondition", `(define (domain d) (:durative-action a :parameters () :precondition (p)))`},
		{"unknown clause", `(define (domain d) (:axioms))`},
		{"problem without domain", `(define (problem p) (:goal (x)))`},
		{"problem without goal", `(define (problem p) (:domain d))`},
		{"two goals", `(define (problem p) (:domain d) (:goal (x) (y)))`},
		{"context without equals", `(define (problem p) (:domain d) (:goal (x)) (:context a <u:a> b))`},
		{"context atom value", `(define (problem p) (:domain d) (:goal (x)) (:context a = u))`},
		{"unbalanced", `(define (domain d)`},
		{"trailing form", `(define (domain d)) (extra)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.src))
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.True(t, IsStructureError(err))

			var se *StructureError
			assert.True(t, errors.As(err, &se))
		})
	}
}

func TestParseSyntaxErrorUnwraps(t *testing.T) {
	_, err := Parse([]byte(`(define (domain d)`))
	assert.ErrorIs(t, err, ErrStructure)
	assert.ErrorIs(t, err, grammar.ErrSyntax)
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "p.pddl")
	require.NoError(t, os.WriteFile(path, []byte(logisticsProblem), 0644))

	doc, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "deliver", doc.DocumentName())

	_, err = ParseFile(filepath.Join(dir, "missing.pddl"))
	assert.Error(t, err)
}

func TestRegistryRead(t *testing.T) {
	dir := t.TempDir()
	pddlPath := filepath.Join(dir, "d.pddl")
	jsonPath := filepath.Join(dir, "p.json")
	yamlPath := filepath.Join(dir, "p.yml")

	require.NoError(t, os.WriteFile(pddlPath, []byte(logisticsDomain), 0644))
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"problem": "p", "pddl:problem_domain": "d", "pddl:init": ["(a)"], "pddl:goal": "(b)"}`), 0644))
	require.NoError(t, os.WriteFile(yamlPath, []byte("problem: q\npddl:problem_domain: d\npddl:init: []\npddl:goal: (b)\n"), 0644))

	doc, err := ReadFile(pddlPath)
	require.NoError(t, err)
	assert.Equal(t, document.KindDomain, doc.Kind())

	doc, err = ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "p", doc.DocumentName())

	doc, err = ReadFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "q", doc.DocumentName())

	assert.IsType(t, PDDLReader{}, DefaultRegistry.GetByExtension("x.pddl"))
	assert.IsType(t, TreeReader{}, DefaultRegistry.GetByExtension("x.jsonld"))
	assert.IsType(t, TreeReader{}, DefaultRegistry.GetByMimeType(MimeYAML))
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"planning text", "(define (domain d))", MimePDDL},
		{"leading comments", "; header\n  ; more\n(define (problem p))", MimePDDL},
		{"json", `{"domain": "d"}`, MimeJSON},
		{"yaml", "domain: d\n", MimeJSON},
		{"only comment", "; nothing", MimeJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect([]byte(tt.content)))
		})
	}

	doc, err := DefaultRegistry.ReadContent([]byte("problem: q\npddl:problem_domain: d\npddl:goal: (b)\n"))
	require.NoError(t, err)
	assert.Equal(t, document.KindProblem, doc.Kind())

	doc, err = DefaultRegistry.ReadContent([]byte(logisticsDomain))
	require.NoError(t, err)
	assert.Equal(t, document.KindDomain, doc.Kind())
}
