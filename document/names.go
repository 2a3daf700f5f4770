package document

// TypedName is a symbol with an optional declared type.
// An empty Type means the name is untyped.
type TypedName struct {
	Name string
	Type string
}

// TypedNameList is an ordered list of typed names with unique names.
type TypedNameList []TypedName

// Add appends a name, or replaces the type of an existing entry in place
// so that names stay unique.
func (l TypedNameList) Add(name, typ string) TypedNameList {
	for i := range l {
		if l[i].Name == name {
			l[i].Type = typ
			return l
		}
	}
	return append(l, TypedName{Name: name, Type: typ})
}

// Lookup returns the type of name and whether the name is declared.
func (l TypedNameList) Lookup(name string) (string, bool) {
	for _, tn := range l {
		if tn.Name == name {
			return tn.Type, true
		}
	}
	return "", false
}

// Names returns the declared names in list order.
func (l TypedNameList) Names() []string {
	names := make([]string, len(l))
	for i, tn := range l {
		names[i] = tn.Name
	}
	return names
}

// Typed returns the typed entries in their relative order.
func (l TypedNameList) Typed() TypedNameList {
	var out TypedNameList
	for _, tn := range l {
		if tn.Type != "" {
			out = append(out, tn)
		}
	}
	return out
}

// Untyped returns the names of untyped entries in their relative order.
func (l TypedNameList) Untyped() []string {
	var out []string
	for _, tn := range l {
		if tn.Type == "" {
			out = append(out, tn.Name)
		}
	}
	return out
}

// Canonical returns the list with every typed entry first and every
// untyped entry after, each group keeping its relative order. This is the
// order the text serializer emits.
func (l TypedNameList) Canonical() TypedNameList {
	if l == nil {
		return nil
	}
	out := make(TypedNameList, 0, len(l))
	out = append(out, l.Typed()...)
	for _, name := range l.Untyped() {
		out = append(out, TypedName{Name: name})
	}
	return out
}

// Binding maps a local symbol (predicate or object name) to an external URI.
type Binding struct {
	Symbol string
	URI    string
}

// Context is the ordered set of symbol bindings declared by a document.
type Context []Binding

// Bind adds a binding, replacing the URI of an existing symbol in place.
func (c Context) Bind(symbol, uri string) Context {
	for i := range c {
		if c[i].Symbol == symbol {
			c[i].URI = uri
			return c
		}
	}
	return append(c, Binding{Symbol: symbol, URI: uri})
}

// Lookup returns the URI bound to symbol.
func (c Context) Lookup(symbol string) (string, bool) {
	for _, b := range c {
		if b.Symbol == symbol {
			return b.URI, true
		}
	}
	return "", false
}

// Symbols returns the bound symbols in declaration order.
func (c Context) Symbols() []string {
	out := make([]string, len(c))
	for i, b := range c {
		out[i] = b.Symbol
	}
	return out
}

// Map returns the bindings as a symbol to URI map.
func (c Context) Map() map[string]string {
	out := make(map[string]string, len(c))
	for _, b := range c {
		out[b.Symbol] = b.URI
	}
	return out
}
