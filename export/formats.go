package export

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Format specifies the RDF serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatJSONLD produces JSON-LD (.jsonld) output.
	FormatJSONLD Format = "jsonld"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Description: "Turtle - Terse RDF Triple Language",
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Description: "N-Triples - Line-based RDF format",
	},
	FormatJSONLD: {
		Name:        FormatJSONLD,
		MIMEType:    "application/ld+json",
		Extension:   ".jsonld",
		Description: "JSON-LD - JSON for Linked Data",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ParseFormat resolves a format from its name or file extension.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimPrefix(s, "."))
	for name, info := range FormatRegistry {
		if s == string(name) || "."+s == info.Extension {
			return name, nil
		}
	}
	switch s {
	case "ttl":
		return FormatTurtle, nil
	case "nt":
		return FormatNTriples, nil
	case "json-ld":
		return FormatJSONLD, nil
	}
	return "", fmt.Errorf("unsupported format: %s", s)
}

// TurtleWriter writes RDF in Turtle format.
type TurtleWriter struct {
	prefixes map[string]string
	sb       strings.Builder
}

// NewTurtleWriter creates a new Turtle writer with the given prefixes.
func NewTurtleWriter(prefixes map[string]string) *TurtleWriter {
	w := &TurtleWriter{prefixes: make(map[string]string, len(prefixes))}
	for k, v := range prefixes {
		w.prefixes[k] = v
	}
	return w
}

// WritePrefixes writes prefix declarations in sorted order.
func (w *TurtleWriter) WritePrefixes() {
	for _, prefix := range sortedKeys(w.prefixes) {
		fmt.Fprintf(&w.sb, "@prefix %s: <%s> .\n", prefix, w.prefixes[prefix])
	}
	w.sb.WriteString("\n")
}

// WriteEntity writes one subject block with its types and predicates.
func (w *TurtleWriter) WriteEntity(entity Entity) {
	fmt.Fprintf(&w.sb, "<%s>\n", entity.IRI)
	total := len(entity.Types) + len(entity.Triples)
	n := 0
	terminate := func() {
		n++
		if n < total {
			w.sb.WriteString(" ;\n")
		} else {
			w.sb.WriteString(" .\n")
		}
	}
	for _, typeIRI := range entity.Types {
		fmt.Fprintf(&w.sb, "    a <%s>", typeIRI)
		terminate()
	}
	for _, triple := range entity.Triples {
		fmt.Fprintf(&w.sb, "    <%s> %s", triple.PredicateIRI(), formatObject(triple.Object))
		terminate()
	}
	w.sb.WriteString("\n")
}

// String returns the accumulated Turtle output.
func (w *TurtleWriter) String() string {
	return w.sb.String()
}

// NTriplesWriter writes RDF in N-Triples format.
type NTriplesWriter struct {
	sb strings.Builder
}

// NewNTriplesWriter creates a new N-Triples writer.
func NewNTriplesWriter() *NTriplesWriter {
	return &NTriplesWriter{}
}

// WriteEntity writes every statement about an entity, one per line.
func (w *NTriplesWriter) WriteEntity(entity Entity) {
	for _, typeIRI := range entity.Types {
		fmt.Fprintf(&w.sb, "<%s> <%s> <%s> .\n", entity.IRI, rdfType, typeIRI)
	}
	for _, triple := range entity.Triples {
		fmt.Fprintf(&w.sb, "<%s> <%s> %s .\n", entity.IRI, triple.PredicateIRI(), formatObject(triple.Object))
	}
}

// String returns the accumulated N-Triples output.
func (w *NTriplesWriter) String() string {
	return w.sb.String()
}

// JSONLDDocument represents a JSON-LD document structure.
type JSONLDDocument struct {
	Context map[string]string `json:"@context"`
	Graph   []JSONLDNode      `json:"@graph"`
}

// JSONLDNode represents a node in a JSON-LD graph.
type JSONLDNode struct {
	ID         string         `json:"@id"`
	Type       []string       `json:"@type,omitempty"`
	Properties map[string]any `json:"-"`
}

// MarshalJSON implements custom JSON marshaling for JSONLDNode.
func (n JSONLDNode) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(n.Properties)+2)
	m["@id"] = n.ID
	if len(n.Type) > 0 {
		m["@type"] = n.Type
	}
	for k, v := range n.Properties {
		m[k] = v
	}
	return json.Marshal(m)
}

// JSONLDWriter writes RDF in JSON-LD format.
type JSONLDWriter struct {
	doc JSONLDDocument
}

// NewJSONLDWriter creates a new JSON-LD writer with the given prefixes as
// its @context.
func NewJSONLDWriter(prefixes map[string]string) *JSONLDWriter {
	w := &JSONLDWriter{
		doc: JSONLDDocument{
			Context: make(map[string]string, len(prefixes)),
			Graph:   make([]JSONLDNode, 0),
		},
	}
	for k, v := range prefixes {
		w.doc.Context[k] = v
	}
	return w
}

// WriteEntity adds an entity node to the graph. Repeated predicates become
// arrays.
func (w *JSONLDWriter) WriteEntity(entity Entity) {
	props := make(map[string]any, len(entity.Triples))
	for _, triple := range entity.Triples {
		key := triple.PredicateIRI()
		value := jsonLDValue(triple.Object)
		switch existing := props[key].(type) {
		case nil:
			props[key] = value
		case []any:
			props[key] = append(existing, value)
		default:
			props[key] = []any{existing, value}
		}
	}
	w.doc.Graph = append(w.doc.Graph, JSONLDNode{ID: entity.IRI, Type: entity.Types, Properties: props})
}

// String returns the JSON-LD output.
func (w *JSONLDWriter) String() (string, error) {
	data, err := json.MarshalIndent(w.doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal json-ld: %w", err)
	}
	return string(data) + "\n", nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
