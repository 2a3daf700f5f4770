package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/pddls/augment"
	"github.com/c360studio/pddls/document"
)

func scrape(t *testing.T, c *Collector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestRecordAugmentation(t *testing.T) {
	c := NewCollector()
	c.RecordAugmentation(&augment.Result{
		Axioms: []augment.Axiom{{Predicate: "p"}, {Predicate: "q"}},
		Diagnostics: []augment.Diagnostic{
			{Kind: augment.DiagnosticForeignObject},
			{Kind: augment.DiagnosticForeignObject},
			{Kind: augment.DiagnosticUnsupportedFormula},
		},
	}, 3*time.Millisecond)
	c.RecordAugmentation(nil, time.Second)

	out := scrape(t, c)
	assert.Contains(t, out, "pddls_augmentations_total 1\n")
	assert.Contains(t, out, "pddls_axioms_derived_total 2\n")
	assert.Contains(t, out, "pddls_axioms_rejected_total 2\n")
	assert.Contains(t, out, "pddls_unsupported_formulas_total 1\n")
	assert.Contains(t, out, "pddls_augmentation_duration_seconds_count 1\n")
}

func TestDocumentParsed(t *testing.T) {
	c := NewCollector()
	c.DocumentParsed(document.KindDomain, "pddl")
	c.DocumentParsed(document.KindDomain, "pddl")
	c.DocumentParsed(document.KindProblem, "json")

	out := scrape(t, c)
	assert.Contains(t, out, `pddls_documents_parsed_total{format="pddl",kind="domain"} 2`)
	assert.Contains(t, out, `pddls_documents_parsed_total{format="json",kind="problem"} 1`)
	assert.Contains(t, out, "go_goroutines")
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.DocumentParsed(document.KindDomain, "pddl")
		c.RecordAugmentation(&augment.Result{}, time.Millisecond)
	})
}
