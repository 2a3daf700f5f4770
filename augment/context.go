// Package augment derives ground facts for a planning problem from an
// ontology.
//
// Symbols of a problem and its domains are aligned with ontology resources
// through their context bindings. Each bound predicate whose resource
// carries an established-with formula is resolved into axioms over the
// bound objects, and the axioms are appended to the problem's init list.
package augment

import "github.com/c360studio/pddls/document"

// ObjectIndex maps the URI of every bound problem object to its symbol.
// Objects without a binding are skipped.
func ObjectIndex(problem *document.Problem) map[string]string {
	index := make(map[string]string)
	if problem == nil {
		return index
	}
	for _, obj := range problem.Objects {
		if uri, ok := problem.Context.Lookup(obj.Name); ok {
			index[uri] = obj.Name
		}
	}
	return index
}

// PredicateEntry is a bound predicate declaration.
type PredicateEntry struct {
	URI        string
	Symbol     string
	Parameters []document.Parameter
}

// PredicateIndex maps predicate URIs to their declarations, keeping the
// order in which each URI was first seen.
type PredicateIndex struct {
	order   []string
	entries map[string]PredicateEntry
}

// NewPredicateIndex indexes the bound predicates of domains in order. When
// two domains bind the same URI the later declaration replaces the earlier
// one but the URI keeps its original position.
func NewPredicateIndex(domains ...*document.Domain) *PredicateIndex {
	idx := &PredicateIndex{entries: make(map[string]PredicateEntry)}
	for _, d := range domains {
		if d == nil {
			continue
		}
		for _, decl := range d.Predicates {
			uri, ok := d.Context.Lookup(decl.Symbol)
			if !ok {
				continue
			}
			if _, seen := idx.entries[uri]; !seen {
				idx.order = append(idx.order, uri)
			}
			idx.entries[uri] = PredicateEntry{URI: uri, Symbol: decl.Symbol, Parameters: decl.Parameters}
		}
	}
	return idx
}

// Len returns the number of indexed URIs.
func (idx *PredicateIndex) Len() int {
	return len(idx.order)
}

// Lookup returns the declaration bound to uri.
func (idx *PredicateIndex) Lookup(uri string) (PredicateEntry, bool) {
	e, ok := idx.entries[uri]
	return e, ok
}

// Entries returns the indexed declarations in URI insertion order.
func (idx *PredicateIndex) Entries() []PredicateEntry {
	out := make([]PredicateEntry, len(idx.order))
	for i, uri := range idx.order {
		out[i] = idx.entries[uri]
	}
	return out
}
