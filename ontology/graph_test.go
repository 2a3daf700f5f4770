package ontology

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphDeduplicatesAndKeepsOrder(t *testing.T) {
	a, b, p := IRI("urn:a"), IRI("urn:b"), IRI("urn:p")
	g := NewGraph(
		Triple{b, p, a},
		Triple{a, p, b},
		Triple{b, p, a},
		Triple{Any, p, a},
	)

	assert.Equal(t, 2, g.Len())
	assert.Equal(t, []Triple{{b, p, a}, {a, p, b}}, g.Triples())
	assert.True(t, g.Contains(Triple{a, p, b}))
	assert.False(t, g.Contains(Triple{a, p, a}))
}

func TestGraphObjectsAndMatch(t *testing.T) {
	s, p, q := IRI("urn:s"), IRI("urn:p"), IRI("urn:q")
	g := NewGraph(
		Triple{s, p, Literal("one")},
		Triple{s, q, Literal("x")},
		Triple{s, p, LangLiteral("two", "EN")},
		Triple{IRI("urn:t"), p, Literal("three")},
	)

	assert.Equal(t, []Term{Literal("one"), LangLiteral("two", "en")}, g.Objects(s, p))
	assert.Len(t, g.Match(Any, p, Any), 3)
	assert.Len(t, g.Match(Any, Any, Any), 4)
	assert.Empty(t, g.Objects(IRI("urn:none"), p))

	var empty *Graph
	assert.Zero(t, empty.Len())
	assert.Empty(t, empty.Objects(s, p))
	assert.Nil(t, empty.Triples())
}

func TestUnion(t *testing.T) {
	a := NewGraph(Triple{IRI("urn:1"), IRI("urn:p"), IRI("urn:2")})
	b := NewGraph(
		Triple{IRI("urn:1"), IRI("urn:p"), IRI("urn:2")},
		Triple{IRI("urn:3"), IRI("urn:p"), IRI("urn:4")},
	)

	u := Union(a, nil, b)
	assert.Equal(t, 2, u.Len())
	assert.Equal(t, IRI("urn:3"), u.Triples()[1].Subject)
	assert.Equal(t, 1, a.Len())
}

func TestTermString(t *testing.T) {
	tests := []struct {
		term Term
		want string
	}{
		{IRI("http://x/y"), "<http://x/y>"},
		{Blank("b0"), "_:b0"},
		{Literal("say \"hi\"\n"), `"say \"hi\"\n"`},
		{LangLiteral("SELECT ?x", "SPARQL"), `"SELECT ?x"@sparql`},
		{TypedLiteral("3", XSDInteger), `"3"^^<http://www.w3.org/2001/XMLSchema#integer>`},
		{TypedLiteral("plain", XSDString), `"plain"`},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.term.String())
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"onto.ttl", FormatTurtle},
		{"ONTO.TURTLE", FormatTurtle},
		{"facts.nt", FormatNTriples},
		{"model.owl", FormatRDFXML},
		{"model.rdf", FormatRDFXML},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := FormatFromPath("notes.txt")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

const sampleNTriples = `<http://example.org/geo#A> <http://example.org/geo#adjacentTo> <http://example.org/geo#B> .
<http://example.org/geo#adjacentTo> <uri:pddls#establishedWith> "SELECT ?a ?b WHERE { ?a <http://example.org/geo#adjacentTo> ?b }"@sparql .
<http://example.org/geo#A> <http://example.org/geo#label> "Alpha" .
`

func TestLoadNTriples(t *testing.T) {
	g, err := Load(strings.NewReader(sampleNTriples), FormatNTriples)
	require.NoError(t, err)
	require.Equal(t, 3, g.Len())

	formulas := g.Objects(IRI(ex+"adjacentTo"), IRI("uri:pddls#establishedWith"))
	require.Len(t, formulas, 1)
	assert.True(t, formulas[0].IsLiteral())
	assert.Equal(t, "sparql", formulas[0].Lang)

	labels := g.Objects(IRI(ex+"A"), IRI(ex+"label"))
	require.Len(t, labels, 1)
	assert.Equal(t, Literal("Alpha"), labels[0])
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.nt")
	second := filepath.Join(dir, "b.nt")
	require.NoError(t, os.WriteFile(first, []byte(sampleNTriples), 0644))
	require.NoError(t, os.WriteFile(second, []byte("<urn:x> <urn:p> <urn:y> .\n"), 0644))

	g, err := LoadFiles(nil, first, second)
	require.NoError(t, err)
	assert.Equal(t, 4, g.Len())

	_, err = LoadFiles(nil, filepath.Join(dir, "missing.nt"))
	assert.Error(t, err)

	_, err = LoadFiles(nil, filepath.Join(dir, "notes.txt"))
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoadFilesKeepsBlankNodesApart(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.ttl")
	second := filepath.Join(dir, "b.ttl")
	require.NoError(t, os.WriteFile(first, []byte("@prefix ex: <http://example.org/> .\nex:a ex:in _:g .\n_:g ex:kind ex:room .\n"), 0644))
	require.NoError(t, os.WriteFile(second, []byte("@prefix ex: <http://example.org/> .\nex:b ex:in _:g .\n_:g ex:kind ex:room .\n"), 0644))

	g, err := LoadFiles(nil, first, second)
	require.NoError(t, err)
	assert.Equal(t, 4, g.Len())

	res, err := g.Query(`PREFIX ex: <http://example.org/> SELECT ?x ?y WHERE { ?x ex:in ?g . ?y ex:in ?g . FILTER(?x != ?y) }`)
	require.NoError(t, err)
	assert.Empty(t, res.Rows)

	rooms, err := g.Query(`PREFIX ex: <http://example.org/> SELECT ?x WHERE { ?x ex:in ?g . ?g ex:kind ex:room }`)
	require.NoError(t, err)
	assert.Equal(t, [][]Term{{IRI("http://example.org/a")}, {IRI("http://example.org/b")}}, rooms.Rows)
}

func TestLoadSharesBlankNodesWithinDocument(t *testing.T) {
	doc := "@prefix ex: <http://example.org/> .\nex:a ex:in _:g .\nex:b ex:in _:g .\n"
	g, err := Load(strings.NewReader(doc), FormatTurtle)
	require.NoError(t, err)

	res, err := g.Query(`PREFIX ex: <http://example.org/> SELECT ?x ?y WHERE { ?x ex:in ?g . ?y ex:in ?g . FILTER(?x != ?y) }`)
	require.NoError(t, err)
	assert.Len(t, res.Rows, 2)

	again, err := Load(strings.NewReader(doc), FormatTurtle)
	require.NoError(t, err)
	assert.Equal(t, 4, Union(g, again).Len())
	assert.True(t, g.Triples()[0].Object.IsBlank())
}
