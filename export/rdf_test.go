package export_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/pddls/document"
	"github.com/c360studio/pddls/export"
	"github.com/c360studio/pddls/ontology"
	"github.com/c360studio/pddls/vocabulary/pddls"
)

func boundDomain() *document.Domain {
	d := &document.Domain{
		Name:       "geo",
		Constants:  document.TypedNameList{}.Add("hub", "city"),
		Predicates: []document.Declaration{{Symbol: "adjacent"}},
	}
	d.Context = d.Context.
		Bind("adjacent", "http://example.org/geo#adjacentTo").
		Bind("hub", "http://example.org/geo#Hub").
		Bind("unit", "http://example.org/geo#Unit")
	return d
}

func TestAddDocumentDomain(t *testing.T) {
	e := export.NewRDFExporter()
	require.NoError(t, e.AddDocument(boundDomain()))

	entities := e.Entities()
	require.Len(t, entities, 4)
	assert.Equal(t, "uri:pddls/domain/geo", entities[0].IRI)
	assert.Equal(t, []string{pddls.ClassDomain}, entities[0].Types)

	kinds := map[string]any{}
	for _, ent := range entities[1:] {
		assert.Equal(t, []string{pddls.ClassBinding}, ent.Types)
		for _, tr := range ent.Triples {
			if tr.Predicate == pddls.BindingKind {
				kinds[ent.IRI] = tr.Object
			}
			if tr.Predicate == pddls.BindingDocument {
				assert.Equal(t, export.Resource("uri:pddls/domain/geo"), tr.Object)
			}
		}
	}
	assert.Equal(t, map[string]any{
		"http://example.org/geo#adjacentTo": pddls.KindPredicate,
		"http://example.org/geo#Hub":        pddls.KindObject,
		"http://example.org/geo#Unit":       pddls.KindSymbol,
	}, kinds)
}

func TestAddDocumentProblem(t *testing.T) {
	p := &document.Problem{
		Name:    "trip",
		Domain:  "geo",
		Objects: document.TypedNameList{}.Add("a", "city"),
	}
	p.Context = p.Context.Bind("a", "http://example.org/geo#A")

	e := export.NewRDFExporter()
	require.NoError(t, e.AddDocument(p))

	out, err := e.Export(export.FormatNTriples)
	require.NoError(t, err)
	assert.Contains(t, out, `<uri:pddls/problem/trip> <`+pddls.PropProblemDomain+`> <uri:pddls/domain/geo> .`)
	assert.Contains(t, out, `<http://example.org/geo#A> <`+pddls.PropSymbolKind+`> "object" .`)
}

func TestAddDocumentIllegal(t *testing.T) {
	e := export.NewRDFExporter()
	assert.ErrorIs(t, e.AddDocument(nil), document.ErrIllegalDocument)

	var d *document.Domain
	assert.ErrorIs(t, e.AddDocument(d), document.ErrIllegalDocument)
	assert.Empty(t, e.Entities())
}

func TestExportTurtle(t *testing.T) {
	e := export.NewRDFExporter()
	require.NoError(t, e.AddDocument(boundDomain()))

	out, err := e.Export(export.FormatTurtle)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "@prefix dc: "), "prefixes are sorted")
	assert.Contains(t, out, "@prefix pddls: <uri:pddls#> .")
	assert.Contains(t, out, "<uri:pddls/domain/geo>\n    a <"+pddls.ClassDomain+"> ;\n")
	assert.Contains(t, out, `<`+pddls.PredicateIRI(pddls.BindingSymbol)+`> "adjacent" ;`)
	assert.Contains(t, out, `<`+pddls.PropBoundIn+`> <uri:pddls/domain/geo> .`)

	again, err := e.Export(export.FormatTurtle)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestExportNTriplesLoadsAsOntology(t *testing.T) {
	e := export.NewRDFExporter()
	require.NoError(t, e.AddDocument(boundDomain()))

	out, err := e.Export(export.FormatNTriples)
	require.NoError(t, err)

	g, err := ontology.Load(strings.NewReader(out), ontology.FormatNTriples)
	require.NoError(t, err)

	labels := g.Objects(ontology.IRI("http://example.org/geo#Hub"), ontology.IRI(pddls.PredicateIRI(pddls.BindingSymbol)))
	assert.Equal(t, []ontology.Term{ontology.Literal("hub")}, labels)
	assert.True(t, g.Contains(ontology.Triple{
		Subject:   ontology.IRI("uri:pddls/domain/geo"),
		Predicate: ontology.IRI(ontology.RDFType),
		Object:    ontology.IRI(pddls.ClassDomain),
	}))
}

func TestExportJSONLD(t *testing.T) {
	e := export.NewRDFExporter()
	e.AddEntity(export.Entity{
		IRI: "urn:x",
		Triples: []export.Triple{
			{Predicate: pddls.AxiomLiteral, Object: "(adjacent a b)"},
			{Predicate: pddls.AxiomLiteral, Object: "(adjacent b c)"},
			{Predicate: pddls.AxiomProblem, Object: export.Resource("uri:pddls/problem/trip")},
		},
	})

	out, err := e.Export(export.FormatJSONLD)
	require.NoError(t, err)

	var doc struct {
		Context map[string]string `json:"@context"`
		Graph   []map[string]any  `json:"@graph"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, pddls.Namespace, doc.Context["pddls"])
	require.Len(t, doc.Graph, 1)
	node := doc.Graph[0]
	assert.Equal(t, "urn:x", node["@id"])
	assert.NotContains(t, node, "@type")
	assert.Equal(t, []any{"(adjacent a b)", "(adjacent b c)"}, node[pddls.PredicateIRI(pddls.AxiomLiteral)])
	assert.Equal(t, map[string]any{"@id": "uri:pddls/problem/trip"}, node[pddls.PredicateIRI(pddls.AxiomProblem)])
}

func TestExportUnsupportedFormat(t *testing.T) {
	_, err := export.NewRDFExporter().Export("rdfxml")
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want export.Format
	}{
		{"turtle", export.FormatTurtle},
		{".ttl", export.FormatTurtle},
		{"NT", export.FormatNTriples},
		{"jsonld", export.FormatJSONLD},
		{"json-ld", export.FormatJSONLD},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := export.ParseFormat(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := export.ParseFormat("csv")
	assert.Error(t, err)

	info, ok := export.GetFormatInfo(export.FormatTurtle)
	require.True(t, ok)
	assert.Equal(t, "text/turtle", info.MIMEType)
}

func TestFormatObjectEscapes(t *testing.T) {
	e := export.NewRDFExporter()
	e.AddEntity(export.Entity{
		IRI: "urn:x",
		Triples: []export.Triple{
			{Predicate: pddls.DocumentName, Object: "say \"hi\"\n"},
			{Predicate: "pddl.custom.count", Object: 3},
			{Predicate: "pddl.custom.flag", Object: true},
		},
	})
	out, err := e.Export(export.FormatNTriples)
	require.NoError(t, err)
	assert.Contains(t, out, `"say \"hi\"\n"`)
	assert.Contains(t, out, `<uri:pddls#pddl.custom.count> "3"^^<http://www.w3.org/2001/XMLSchema#integer> .`)
	assert.Contains(t, out, `"true"^^<http://www.w3.org/2001/XMLSchema#boolean>`)
}
