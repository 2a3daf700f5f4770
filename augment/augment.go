package augment

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/c360studio/pddls/document"
	"github.com/c360studio/pddls/ontology"
)

// Recorder observes completed augmentations.
type Recorder interface {
	RecordAugmentation(result *Result, elapsed time.Duration)
}

// Options configures Augment.
type Options struct {
	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Recorder is optional.
	Recorder Recorder
}

// Result is the outcome of an augmentation. Problem and Domains are new
// documents without context bindings.
type Result struct {
	Problem     *document.Problem
	Domains     []*document.Domain
	Axioms      []Axiom
	Diagnostics []Diagnostic
}

// Augment resolves axioms for every bound predicate of domains against the
// union of graph and common, and returns a copy of problem whose init list
// is extended with them. Inputs are not modified.
func Augment(problem *document.Problem, domains []*document.Domain, graph, common *ontology.Graph, opts Options) (*Result, error) {
	start := time.Now()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if problem == nil {
		return nil, fmt.Errorf("augment problem: %w", document.ErrIllegalDocument)
	}
	for i, d := range domains {
		if d == nil {
			return nil, fmt.Errorf("augment domain %d: %w", i, document.ErrIllegalDocument)
		}
	}

	onto := ontology.Union(graph, common)
	predicates := NewPredicateIndex(domains...)
	objects := ObjectIndex(problem)
	logger.Debug("Built augmentation indexes",
		"problem", problem.Name,
		"predicates", predicates.Len(),
		"objects", len(objects),
		"triples", onto.Len())

	resolver := NewResolver(onto, logger)
	result := &Result{}
	for _, entry := range predicates.Entries() {
		axioms, diags, err := resolver.Resolve(entry.URI, entry.Symbol, objects)
		if err != nil {
			return nil, fmt.Errorf("resolve predicate %s: %w", entry.Symbol, err)
		}
		result.Axioms = append(result.Axioms, axioms...)
		result.Diagnostics = append(result.Diagnostics, diags...)
	}

	result.Problem = problem.Clone()
	result.Problem.Context = nil
	for _, a := range result.Axioms {
		result.Problem.Init = append(result.Problem.Init, a.Literal())
	}

	result.Domains = make([]*document.Domain, len(domains))
	for i, d := range domains {
		clean := d.Clone()
		clean.Context = nil
		result.Domains[i] = clean
	}

	elapsed := time.Since(start)
	logger.Info("Augmented problem",
		"problem", problem.Name,
		"axioms", len(result.Axioms),
		"diagnostics", len(result.Diagnostics),
		"duration", elapsed)
	if opts.Recorder != nil {
		opts.Recorder.RecordAugmentation(result, elapsed)
	}
	return result, nil
}
