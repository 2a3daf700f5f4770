package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/pddls/document"
	"github.com/c360studio/pddls/parser"
)

const blocksDomain = `(define (domain blocks)
  (:requirements :strips :typing)
  (:types a b - parent c d - other e)
  (:predicates (on ?x - block ?y) (clear ?x) (zebra) (apple ?a ?b - thing))
  (:functions (cost ?x))
  (:action stack
    :effect (on ?x ?y)
    :parameters (?x - block ?y)
    :precondition (and (clear ?x)   (clear ?y)))
  (:durative-action slide
    :parameters (?x)
    :effect (at end (moved ?x))
    :duration (= ?duration 2))
  (:derived (above ?x ?y) (on ?x ?y))
  (:context on = <http://example.org/b#on>))`

const blocksProblem = `(define (problem three)
  (:domain blocks)
  (:requirements :typing)
  (:objects x y - block t z)
  (:init (on x y) (clear   x) (= (cost x) 1.5))
  (:goal (and (on x y) (forall (?b - block) (clear ?b))))
  (:metric minimize (total-time)))`

func canonical(doc document.Document) document.Document {
	c := document.Clone(doc)
	switch d := c.(type) {
	case *document.Domain:
		d.Types = d.Types.Canonical()
		d.Constants = d.Constants.Canonical()
	case *document.Problem:
		d.Objects = d.Objects.Canonical()
	}
	return c
}

func TestPDDLRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"domain", blocksDomain},
		{"problem", blocksProblem},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original, err := parser.Parse([]byte(tt.src))
			require.NoError(t, err)

			text, err := PDDL(original)
			require.NoError(t, err)

			reparsed, err := parser.Parse([]byte(text))
			require.NoError(t, err, text)
			assert.Equal(t, canonical(original), reparsed)

			again, err := PDDL(reparsed)
			require.NoError(t, err)
			assert.Equal(t, text, again)
		})
	}
}

func TestPDDLTypedNamesCanonicalOrder(t *testing.T) {
	doc := &document.Problem{
		Name:   "p",
		Domain: "d",
		Objects: document.TypedNameList{
			{Name: "u1"},
			{Name: "car", Type: "vehicle"},
			{Name: "u2"},
			{Name: "bike", Type: "vehicle"},
		},
		Goal: "(g)",
	}
	text, err := PDDL(doc)
	require.NoError(t, err)
	assert.Contains(t, text, "(:objects car - vehicle bike - vehicle u1 u2)")
}

func TestPDDLDeclarationOrder(t *testing.T) {
	doc, err := parser.Parse([]byte(blocksDomain))
	require.NoError(t, err)

	text, err := PDDL(doc)
	require.NoError(t, err)

	on := strings.Index(text, "(on ?x - block ?y)")
	clear := strings.Index(text, "(clear ?x)")
	zebra := strings.Index(text, "(zebra)")
	apple := strings.Index(text, "(apple ?a - thing ?b - thing)")
	require.True(t, on >= 0 && clear >= 0 && zebra >= 0 && apple >= 0, text)
	assert.Less(t, on, clear)
	assert.Less(t, clear, zebra)
	assert.Less(t, zebra, apple)
}

func TestPDDLActionClauseOrder(t *testing.T) {
	doc, err := parser.Parse([]byte(blocksDomain))
	require.NoError(t, err)

	text, err := PDDL(doc)
	require.NoError(t, err)

	params := strings.Index(text, ":parameters (?x - block ?y)")
	pre := strings.Index(text, ":precondition (and (clear ?x) (clear ?y))")
	eff := strings.Index(text, ":effect (on ?x ?y)")
	assert.True(t, params < pre && pre < eff, text)

	duration := strings.Index(text, ":duration (= ?duration 2)")
	durEffect := strings.Index(text, ":effect (at end (moved ?x))")
	assert.True(t, duration >= 0 && duration < durEffect, text)
	assert.NotContains(t, text, ":condition")
}

func TestPDDLOpaqueFormulas(t *testing.T) {
	doc := &document.Problem{
		Name:   "p",
		Domain: "d",
		Init:   []string{"(at a b)", "(= (f a) 2)"},
		Goal:   "(and (at a c) (not (at a b)))",
	}
	text, err := PDDL(doc)
	require.NoError(t, err)

	assert.Contains(t, text, "        (at a b)\n        (= (f a) 2)\n")
	assert.Contains(t, text, "(:goal (and (at a c) (not (at a b))))")

	reparsed, err := parser.Parse([]byte(text))
	require.NoError(t, err)
	assert.Equal(t, doc, reparsed)
}

func TestPDDLContextRoundTrip(t *testing.T) {
	doc := &document.Domain{
		Name: "d",
		Context: document.Context{
			{Symbol: "p", URI: "http://x.org/p"},
			{Symbol: "q", URI: "urn:q"},
		},
	}
	text, err := PDDL(doc)
	require.NoError(t, err)

	reparsed, err := parser.Parse([]byte(text))
	require.NoError(t, err)
	assert.Equal(t, doc, reparsed)
}

func TestPDDLIllegalDocument(t *testing.T) {
	tests := []struct {
		name string
		doc  document.Document
	}{
		{"nil", nil},
		{"nil domain", (*document.Domain)(nil)},
		{"nil problem", (*document.Problem)(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := WritePDDL(&buf, tt.doc)
			assert.ErrorIs(t, err, document.ErrIllegalDocument)
			assert.Zero(t, buf.Len())
		})
	}
}

func TestPDDLTreeRoundTrip(t *testing.T) {
	original, err := parser.Parse([]byte(blocksDomain))
	require.NoError(t, err)

	data, err := document.Marshal(original, document.EncodeOptions{Format: document.FormatYAML})
	require.NoError(t, err)

	decoded, err := document.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}
