package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/c360studio/pddls/document"
)

// Reader decodes one input representation into a document.
type Reader interface {
	// Read decodes content into a domain or problem.
	Read(content []byte) (document.Document, error)

	// CanRead returns true if this reader handles the given MIME type.
	CanRead(mimeType string) bool

	// MimeType returns the primary MIME type for this reader.
	MimeType() string
}

// MIME types of the supported document representations.
const (
	MimePDDL = "text/x-pddl"
	MimeJSON = "application/json"
	MimeYAML = "application/yaml"
)

// Registry selects a reader by MIME type or file extension.
type Registry struct {
	mu      sync.RWMutex
	readers map[string]Reader // keyed by primary MIME type
}

// DefaultRegistry reads planning text and tree-form documents.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a registry with the planning text and tree readers.
func NewRegistry() *Registry {
	r := &Registry{
		readers: make(map[string]Reader),
	}
	r.Register(PDDLReader{})
	r.Register(TreeReader{})
	return r
}

// Register adds a reader to the registry.
func (r *Registry) Register(rd Reader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readers[rd.MimeType()] = rd
}

// GetByMimeType returns a reader for the given MIME type, or nil.
func (r *Registry) GetByMimeType(mimeType string) Reader {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if rd, ok := r.readers[mimeType]; ok {
		return rd
	}
	for _, rd := range r.readers {
		if rd.CanRead(mimeType) {
			return rd
		}
	}
	return nil
}

// GetByExtension returns a reader for a file based on its extension.
func (r *Registry) GetByExtension(filename string) Reader {
	return r.GetByMimeType(MimeTypeFromExtension(filepath.Ext(filename)))
}

// Read decodes content using the reader selected by filename.
func (r *Registry) Read(filename string, content []byte) (document.Document, error) {
	rd := r.GetByExtension(filename)
	if rd == nil {
		return nil, fmt.Errorf("no reader for file type: %s", filepath.Ext(filename))
	}
	return rd.Read(content)
}

// Detect guesses the MIME type of content: planning text starts with '('
// after whitespace and ';' comments, anything else is a tree document.
func Detect(content []byte) string {
	text := string(content)
	for {
		text = strings.TrimLeft(text, " \t\r\n")
		if !strings.HasPrefix(text, ";") {
			break
		}
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			text = text[i+1:]
		} else {
			text = ""
		}
	}
	if strings.HasPrefix(text, "(") {
		return MimePDDL
	}
	return MimeJSON
}

// ReadContent decodes content with the reader matching Detect.
func (r *Registry) ReadContent(content []byte) (document.Document, error) {
	rd := r.GetByMimeType(Detect(content))
	if rd == nil {
		return nil, fmt.Errorf("no reader for content type: %s", Detect(content))
	}
	return rd.Read(content)
}

// ReadFile loads a planning text or tree-form document from path using the
// default registry.
func ReadFile(path string) (document.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	doc, err := DefaultRegistry.Read(path, content)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return doc, nil
}

// MimeTypeFromExtension returns the MIME type for a file extension.
// Unknown extensions are treated as planning text.
func MimeTypeFromExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".json", ".jsonld":
		return MimeJSON
	case ".yaml", ".yml":
		return MimeYAML
	default:
		return MimePDDL
	}
}

// PDDLReader reads planning language text.
type PDDLReader struct{}

// Read implements Reader.
func (PDDLReader) Read(content []byte) (document.Document, error) { return Parse(content) }

// CanRead implements Reader.
func (PDDLReader) CanRead(mimeType string) bool {
	return mimeType == MimePDDL || mimeType == "text/plain"
}

// MimeType implements Reader.
func (PDDLReader) MimeType() string { return MimePDDL }

// TreeReader reads JSON or YAML tree-form documents.
type TreeReader struct{}

// Read implements Reader.
func (TreeReader) Read(content []byte) (document.Document, error) { return document.Decode(content) }

// CanRead implements Reader.
func (TreeReader) CanRead(mimeType string) bool {
	switch mimeType {
	case MimeJSON, MimeYAML, "application/ld+json", "text/yaml", "application/x-yaml":
		return true
	}
	return false
}

// MimeType implements Reader.
func (TreeReader) MimeType() string { return MimeJSON }
