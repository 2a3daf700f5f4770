package document

// Clone returns a deep copy of doc. A nil document clones to nil.
func Clone(doc Document) Document {
	switch d := doc.(type) {
	case *Domain:
		if d == nil {
			return nil
		}
		return d.Clone()
	case *Problem:
		if d == nil {
			return nil
		}
		return d.Clone()
	default:
		return nil
	}
}

// Clone returns a deep copy of the domain.
func (d *Domain) Clone() *Domain {
	out := &Domain{
		Name:         d.Name,
		Requirements: cloneStrings(d.Requirements),
		Types:        cloneNames(d.Types),
		Constants:    cloneNames(d.Constants),
		Predicates:   cloneDeclarations(d.Predicates),
		Functions:    cloneDeclarations(d.Functions),
		Context:      cloneContext(d.Context),
	}
	if d.Structure != nil {
		out.Structure = make([]StructureEntry, len(d.Structure))
		for i, entry := range d.Structure {
			out.Structure[i] = cloneEntry(entry)
		}
	}
	return out
}

// Clone returns a deep copy of the problem.
func (p *Problem) Clone() *Problem {
	return &Problem{
		Name:         p.Name,
		Domain:       p.Domain,
		Requirements: cloneStrings(p.Requirements),
		Objects:      cloneNames(p.Objects),
		Init:         cloneStrings(p.Init),
		Goal:         p.Goal,
		Metric:       p.Metric,
		Context:      cloneContext(p.Context),
	}
}

func cloneEntry(entry StructureEntry) StructureEntry {
	switch e := entry.(type) {
	case *Action:
		c := *e
		c.Parameters = cloneParameters(e.Parameters)
		return &c
	case *DurativeAction:
		c := *e
		c.Parameters = cloneParameters(e.Parameters)
		return &c
	case *DerivedPredicate:
		return &DerivedPredicate{
			Skeleton: Declaration{Symbol: e.Skeleton.Symbol, Parameters: cloneParameters(e.Skeleton.Parameters)},
			Body:     e.Body,
		}
	default:
		return entry
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func cloneNames(in TypedNameList) TypedNameList {
	if in == nil {
		return nil
	}
	return append(TypedNameList(nil), in...)
}

func cloneContext(in Context) Context {
	if in == nil {
		return nil
	}
	return append(Context(nil), in...)
}

func cloneParameters(in []Parameter) []Parameter {
	if in == nil {
		return nil
	}
	return append([]Parameter(nil), in...)
}

func cloneDeclarations(in []Declaration) []Declaration {
	if in == nil {
		return nil
	}
	out := make([]Declaration, len(in))
	for i, d := range in {
		out[i] = Declaration{Symbol: d.Symbol, Parameters: cloneParameters(d.Parameters)}
	}
	return out
}
