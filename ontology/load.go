package ontology

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/knakk/rdf"
)

// Format is an RDF serialization.
type Format string

const (
	FormatTurtle   Format = "turtle"
	FormatNTriples Format = "ntriples"
	FormatRDFXML   Format = "rdfxml"
)

// FormatFromPath infers the serialization from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttl", ".turtle", ".n3":
		return FormatTurtle, nil
	case ".nt", ".ntriples":
		return FormatNTriples, nil
	case ".rdf", ".owl", ".xml":
		return FormatRDFXML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

func (f Format) decoderFormat() (rdf.Format, error) {
	switch f {
	case FormatTurtle:
		return rdf.Turtle, nil
	case FormatNTriples:
		return rdf.NTriples, nil
	case FormatRDFXML:
		return rdf.RDFXML, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, f)
	}
}

// Load reads one RDF document into a graph. Blank node labels are scoped
// to the call, so nodes from separate loads never merge in a Union.
func Load(r io.Reader, format Format) (*Graph, error) {
	f, err := format.decoderFormat()
	if err != nil {
		return nil, err
	}

	scope := strings.ReplaceAll(uuid.NewString(), "-", "")

	dec := rdf.NewTripleDecoder(r, f)
	var triples []Triple
	for {
		tr, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", format, err)
		}
		triples = append(triples, Triple{
			Subject:   convertTerm(tr.Subj, scope),
			Predicate: convertTerm(tr.Pred, scope),
			Object:    convertTerm(tr.Obj, scope),
		})
	}
	return NewGraph(triples...), nil
}

// LoadFile reads an RDF file, inferring its format from the extension.
func LoadFile(path string) (*Graph, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ontology: %w", err)
	}
	defer f.Close()

	g, err := Load(f, format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return g, nil
}

// LoadFiles reads every file and returns the union of their graphs in
// argument order.
func LoadFiles(logger *slog.Logger, paths ...string) (*Graph, error) {
	if logger == nil {
		logger = slog.Default()
	}
	graphs := make([]*Graph, 0, len(paths))
	for _, path := range paths {
		g, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		logger.Debug("Loaded ontology", "path", path, "triples", g.Len())
		graphs = append(graphs, g)
	}
	return Union(graphs...), nil
}

func convertTerm(t rdf.Term, scope string) Term {
	switch v := t.(type) {
	case rdf.IRI:
		return IRI(v.String())
	case rdf.Blank:
		return Blank(scope + "_" + strings.TrimPrefix(v.String(), "_:"))
	case rdf.Literal:
		if lang := v.Lang(); lang != "" {
			return LangLiteral(v.String(), lang)
		}
		dt := v.DataType.String()
		if dt == RDFLang {
			dt = ""
		}
		return TypedLiteral(v.String(), dt)
	default:
		return Literal(t.String())
	}
}
