package augment

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/c360studio/pddls/document"
	"github.com/c360studio/pddls/ontology"
	"github.com/c360studio/pddls/parser"
)

var (
	// ErrNotProblem is returned when the problem input holds a domain.
	ErrNotProblem = errors.New("not a problem document")

	// ErrNotDomain is returned when a domain input holds a problem.
	ErrNotDomain = errors.New("not a domain document")
)

// Files names the inputs of an augmentation read from disk. Documents may
// be planning text or JSON/YAML tree documents; ontology formats are
// inferred from their extensions.
type Files struct {
	Problem  string
	Domains  []string
	Ontology []string

	// Common is an optional ontology unioned with Ontology.
	Common string
}

// Inputs are the loaded contents of Files.
type Inputs struct {
	Problem  *document.Problem
	Domains  []*document.Domain
	Ontology *ontology.Graph
	Common   *ontology.Graph
}

// Load reads every file named by f.
func (f Files) Load(logger *slog.Logger) (*Inputs, error) {
	doc, err := parser.ReadFile(f.Problem)
	if err != nil {
		return nil, fmt.Errorf("load problem: %w", err)
	}
	problem, ok := doc.(*document.Problem)
	if !ok {
		return nil, fmt.Errorf("load problem %s: %w", f.Problem, ErrNotProblem)
	}

	in := &Inputs{Problem: problem, Domains: make([]*document.Domain, 0, len(f.Domains))}
	for _, path := range f.Domains {
		doc, err := parser.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load domain: %w", err)
		}
		domain, ok := doc.(*document.Domain)
		if !ok {
			return nil, fmt.Errorf("load domain %s: %w", path, ErrNotDomain)
		}
		in.Domains = append(in.Domains, domain)
	}

	if in.Ontology, err = ontology.LoadFiles(logger, f.Ontology...); err != nil {
		return nil, fmt.Errorf("load ontology: %w", err)
	}
	if f.Common != "" {
		if in.Common, err = ontology.LoadFile(f.Common); err != nil {
			return nil, fmt.Errorf("load common ontology: %w", err)
		}
	}
	return in, nil
}

// AugmentFiles loads f and augments its problem.
func AugmentFiles(f Files, opts Options) (*Result, error) {
	in, err := f.Load(opts.Logger)
	if err != nil {
		return nil, err
	}
	return Augment(in.Problem, in.Domains, in.Ontology, in.Common, opts)
}
