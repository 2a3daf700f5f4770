package ontology

// Graph is an immutable, de-duplicated set of triples that remembers
// insertion order. A nil *Graph is an empty graph.
type Graph struct {
	triples     []Triple
	seen        map[Triple]struct{}
	bySubject   map[Term][]int
	byPredicate map[Term][]int
	byObject    map[Term][]int
}

// NewGraph builds a graph from triples, dropping duplicates and any triple
// containing a wildcard term.
func NewGraph(triples ...Triple) *Graph {
	g := &Graph{
		seen:        make(map[Triple]struct{}, len(triples)),
		bySubject:   make(map[Term][]int),
		byPredicate: make(map[Term][]int),
		byObject:    make(map[Term][]int),
	}
	for _, t := range triples {
		g.add(t)
	}
	return g
}

func (g *Graph) add(t Triple) {
	if t.Subject.IsAny() || t.Predicate.IsAny() || t.Object.IsAny() {
		return
	}
	if _, ok := g.seen[t]; ok {
		return
	}
	g.seen[t] = struct{}{}
	idx := len(g.triples)
	g.triples = append(g.triples, t)
	g.bySubject[t.Subject] = append(g.bySubject[t.Subject], idx)
	g.byPredicate[t.Predicate] = append(g.byPredicate[t.Predicate], idx)
	g.byObject[t.Object] = append(g.byObject[t.Object], idx)
}

// Union returns a graph holding the triples of every argument, in argument
// order. Nil graphs are skipped.
func Union(graphs ...*Graph) *Graph {
	size := 0
	for _, g := range graphs {
		size += g.Len()
	}
	all := make([]Triple, 0, size)
	for _, g := range graphs {
		if g != nil {
			all = append(all, g.triples...)
		}
	}
	return NewGraph(all...)
}

// Len returns the number of distinct triples.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.triples)
}

// Triples returns a copy of the triples in insertion order.
func (g *Graph) Triples() []Triple {
	if g == nil {
		return nil
	}
	return append([]Triple(nil), g.triples...)
}

// Contains reports whether the graph holds t.
func (g *Graph) Contains(t Triple) bool {
	if g == nil {
		return false
	}
	_, ok := g.seen[t]
	return ok
}

// Objects returns the objects of every (subject, predicate, ?) triple in
// insertion order.
func (g *Graph) Objects(subject, predicate Term) []Term {
	var out []Term
	for _, t := range g.Match(subject, predicate, Any) {
		out = append(out, t.Object)
	}
	return out
}

// Match returns the triples matching the pattern in insertion order. Any
// matches every term in its position.
func (g *Graph) Match(subject, predicate, object Term) []Triple {
	if g == nil {
		return nil
	}

	var candidates []int
	narrowed := false
	narrow := func(term Term, index map[Term][]int) {
		if term.IsAny() {
			return
		}
		list := index[term]
		if !narrowed || len(list) < len(candidates) {
			candidates = list
			narrowed = true
		}
	}
	narrow(subject, g.bySubject)
	narrow(predicate, g.byPredicate)
	narrow(object, g.byObject)

	var out []Triple
	if !narrowed {
		return append(out, g.triples...)
	}
	for _, idx := range candidates {
		t := g.triples[idx]
		if matches(subject, t.Subject) && matches(predicate, t.Predicate) && matches(object, t.Object) {
			out = append(out, t)
		}
	}
	return out
}

func matches(pattern, term Term) bool {
	return pattern.IsAny() || pattern == term
}
