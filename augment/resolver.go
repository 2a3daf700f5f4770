package augment

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/c360studio/pddls/ontology"
	"github.com/c360studio/pddls/vocabulary/pddls"
)

// Resolver turns the established-with formulas of predicate resources into
// axioms over known objects.
type Resolver struct {
	graph  *ontology.Graph
	logger *slog.Logger
}

// NewResolver creates a resolver over graph. A nil graph is empty.
func NewResolver(graph *ontology.Graph, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{graph: graph, logger: logger}
}

// Resolve evaluates the first query formula attached to predicateURI and
// converts each result row into an axiom of symbol. objects maps object
// URIs to symbols; a row referencing any other resource is dropped whole.
//
// Values that are not query literals are reported and skipped. A predicate
// without formulas yields no axioms. A formula that fails to parse is an
// error wrapping ontology.ErrQuery.
func (r *Resolver) Resolve(predicateURI, symbol string, objects map[string]string) ([]Axiom, []Diagnostic, error) {
	var diags []Diagnostic

	formula, found := "", false
	for _, f := range r.graph.Objects(ontology.IRI(predicateURI), ontology.IRI(pddls.EstablishedWith)) {
		if f.IsLiteral() && strings.EqualFold(f.Lang, pddls.QueryLanguage) {
			formula, found = f.Value, true
			break
		}
		r.logger.Warn("Unsupported formula", "predicate", predicateURI, "formula", f.String())
		diags = append(diags, Diagnostic{
			Kind:      DiagnosticUnsupportedFormula,
			Predicate: predicateURI,
			Value:     f.String(),
		})
	}
	if !found {
		return nil, diags, nil
	}

	r.logger.Debug("Resolving predicate", "predicate", predicateURI, "symbol", symbol)
	res, err := r.graph.Query(formula)
	if err != nil {
		return nil, diags, fmt.Errorf("query formula of %s: %w", predicateURI, err)
	}

	var axioms []Axiom
	for _, row := range res.Rows {
		args, foreign, ok := rowSymbols(row, objects)
		if !ok {
			r.logger.Info("Excluded axiom with foreign object", "predicate", predicateURI, "object", foreign)
			diags = append(diags, Diagnostic{
				Kind:      DiagnosticForeignObject,
				Predicate: predicateURI,
				Value:     foreign,
			})
			continue
		}
		axioms = append(axioms, Axiom{Predicate: symbol, PredicateURI: predicateURI, Args: args})
	}
	return axioms, diags, nil
}

// rowSymbols maps every cell of row to an object symbol. On failure it
// returns the first unknown cell.
func rowSymbols(row []ontology.Term, objects map[string]string) ([]string, string, bool) {
	args := make([]string, 0, len(row))
	for _, cell := range row {
		if cell.IsAny() {
			return nil, "unbound", false
		}
		sym, ok := objects[cell.Value]
		if !cell.IsIRI() || !ok {
			return nil, cell.String(), false
		}
		args = append(args, sym)
	}
	return args, "", true
}
