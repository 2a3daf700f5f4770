package ontology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ex = "http://example.org/geo#"

func geoGraph() *Graph {
	adj := IRI(ex + "adjacentTo")
	city := IRI(ex + "City")
	return NewGraph(
		Triple{IRI(ex + "A"), adj, IRI(ex + "B")},
		Triple{IRI(ex + "B"), adj, IRI(ex + "C")},
		Triple{IRI(ex + "C"), adj, IRI(ex + "Far")},
		Triple{IRI(ex + "A"), IRI(RDFType), city},
		Triple{IRI(ex + "B"), IRI(RDFType), city},
		Triple{IRI(ex + "A"), IRI(ex + "name"), LangLiteral("Alpha", "en")},
		Triple{IRI(ex + "A"), adj, IRI(ex + "B")},
	)
}

func TestQueryBasicPatterns(t *testing.T) {
	g := geoGraph()

	tests := []struct {
		name  string
		query string
		vars  []string
		rows  [][]Term
	}{
		{
			name:  "single pattern",
			query: `PREFIX geo: <http://example.org/geo#> SELECT ?a ?b WHERE { ?a geo:adjacentTo ?b }`,
			vars:  []string{"a", "b"},
			rows: [][]Term{
				{IRI(ex + "A"), IRI(ex + "B")},
				{IRI(ex + "B"), IRI(ex + "C")},
				{IRI(ex + "C"), IRI(ex + "Far")},
			},
		},
		{
			name:  "join with type shorthand",
			query: `PREFIX geo: <http://example.org/geo#> SELECT ?a ?b { ?a a geo:City ; geo:adjacentTo ?b . ?b a geo:City }`,
			vars:  []string{"a", "b"},
			rows:  [][]Term{{IRI(ex + "A"), IRI(ex + "B")}},
		},
		{
			name:  "object list",
			query: `BASE <http://example.org/geo> SELECT * WHERE { <#A> <#adjacentTo> ?y, ?z }`,
			vars:  []string{"y", "z"},
			rows:  [][]Term{{IRI(ex + "B"), IRI(ex + "B")}},
		},
		{
			name:  "filter not equal",
			query: `PREFIX geo: <http://example.org/geo#> SELECT ?b WHERE { ?a geo:adjacentTo ?b . FILTER (?a != geo:A) }`,
			vars:  []string{"b"},
			rows:  [][]Term{{IRI(ex + "C")}, {IRI(ex + "Far")}},
		},
		{
			name:  "filter sameTerm or",
			query: `PREFIX geo: <http://example.org/geo#> SELECT ?b WHERE { ?a geo:adjacentTo ?b FILTER(sameTerm(?b, geo:B) || ?b = geo:Far) }`,
			vars:  []string{"b"},
			rows:  [][]Term{{IRI(ex + "B")}, {IRI(ex + "Far")}},
		},
		{
			name:  "negated conjunction",
			query: `PREFIX geo: <http://example.org/geo#> SELECT ?a WHERE { ?a geo:adjacentTo ?b FILTER (!(?a = geo:A && ?b = geo:B)) }`,
			vars:  []string{"a"},
			rows:  [][]Term{{IRI(ex + "B")}, {IRI(ex + "C")}},
		},
		{
			name:  "language literal",
			query: `PREFIX geo: <http://example.org/geo#> SELECT ?c WHERE { ?c geo:name "Alpha"@EN }`,
			vars:  []string{"c"},
			rows:  [][]Term{{IRI(ex + "A")}},
		},
		{
			name:  "distinct limit offset",
			query: `SELECT DISTINCT ?s WHERE { ?s ?p ?o } LIMIT 1 OFFSET 1`,
			vars:  []string{"s"},
			rows:  [][]Term{{IRI(ex + "B")}},
		},
		{
			name:  "bound filter",
			query: `SELECT ?s WHERE { ?s ?p ?o FILTER bound(?o) } LIMIT 1`,
			vars:  []string{"s"},
			rows:  [][]Term{{IRI(ex + "A")}},
		},
		{
			name:  "no match",
			query: `SELECT ?s WHERE { ?s <http://example.org/none> ?o }`,
			vars:  []string{"s"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := g.Query(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.vars, res.Vars)
			assert.Equal(t, tt.rows, res.Rows)
		})
	}
}

func TestQueryRepeatedVariable(t *testing.T) {
	p := IRI(ex + "likes")
	g := NewGraph(
		Triple{IRI(ex + "A"), p, IRI(ex + "A")},
		Triple{IRI(ex + "A"), p, IRI(ex + "B")},
	)
	res, err := g.Query(`SELECT ?x WHERE { ?x <http://example.org/geo#likes> ?x }`)
	require.NoError(t, err)
	assert.Equal(t, [][]Term{{IRI(ex + "A")}}, res.Rows)
}

func TestParseQueryErrors(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"not select", `ASK { ?s ?p ?o }`},
		{"no projection", `SELECT WHERE { ?s ?p ?o }`},
		{"unterminated group", `SELECT ?s WHERE { ?s ?p ?o`},
		{"undeclared prefix", `SELECT ?s WHERE { ?s ex:p ?o }`},
		{"literal predicate", `SELECT ?s WHERE { ?s "p" ?o }`},
		{"less than", `SELECT ?s WHERE { ?s ?p ?o FILTER (?o < 3) }`},
		{"trailing junk", `SELECT ?s WHERE { ?s ?p ?o } garbage`},
		{"bad limit", `SELECT ?s WHERE { ?s ?p ?o } LIMIT x`},
		{"unterminated string", `SELECT ?s WHERE { ?s ?p "abc }`},
		{"empty", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuery(tt.query)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrQuery)
			assert.True(t, IsQueryError(err))
		})
	}
}

func TestParseQueryShape(t *testing.T) {
	q, err := ParseQuery(`
		# comment line
		PREFIX ex: <http://x/>
		SELECT DISTINCT ?a ?b
		WHERE {
			?a ex:p ?b ;
			   ex:q "1"^^<http://www.w3.org/2001/XMLSchema#integer>, 2.5 .
			_:n ex:r true .
		}
		OFFSET 2 LIMIT 3`)
	require.NoError(t, err)

	assert.True(t, q.Distinct)
	assert.Equal(t, []string{"a", "b"}, q.Vars)
	assert.Equal(t, 2, q.Offset)
	assert.Equal(t, 3, q.Limit)
	require.Len(t, q.Patterns, 4)
	assert.Equal(t, TypedLiteral("1", XSDInteger), q.Patterns[1].Object.Term)
	assert.Equal(t, TypedLiteral("2.5", XSDDecimal), q.Patterns[2].Object.Term)
	assert.Equal(t, VarNode("_:n"), q.Patterns[3].Subject)
	assert.Equal(t, TypedLiteral("true", XSDBoolean), q.Patterns[3].Object.Term)
}
