package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/c360studio/pddls/augment"
	"github.com/c360studio/pddls/document"
	"github.com/c360studio/pddls/export"
	"github.com/c360studio/pddls/ontology"
	"github.com/c360studio/pddls/parser"
)

// AugmentRequest is the body of POST /api/v1/augment. Documents are
// planning text or JSON/YAML tree documents.
type AugmentRequest struct {
	Problem        string   `json:"problem"`
	Domains        []string `json:"domains"`
	Ontology       string   `json:"ontology,omitempty"`
	OntologyFormat string   `json:"ontology_format,omitempty"`
}

// AugmentResponse is the result of POST /api/v1/augment.
type AugmentResponse struct {
	Problem     string               `json:"problem"`
	Domains     []string             `json:"domains"`
	Axioms      []augment.Axiom      `json:"axioms"`
	Diagnostics []augment.Diagnostic `json:"diagnostics"`
	MessageID   string               `json:"message_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":   "healthy",
		"version":  s.opts.Version,
		"ontology": s.opts.Ontology.Len(),
	})
}

// handlePDDLToTree converts planning text to the tree form. The format
// and indent query parameters override the configured output.
func (s *Server) handlePDDLToTree(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	opts, err := s.encodeOptions(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid output options", err)
		return
	}

	doc, err := parser.Parse(body)
	if err != nil {
		respondDocumentError(w, err)
		return
	}
	s.opts.Metrics.DocumentParsed(doc.Kind(), "pddl")

	out, err := document.Marshal(doc, opts)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to encode document", err)
		return
	}

	contentType := "application/json"
	if opts.Format == document.FormatYAML {
		contentType = "application/yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

// handleTreeToPDDL converts a JSON or YAML tree document to planning text.
func (s *Server) handleTreeToPDDL(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	doc, err := document.Decode(body)
	if err != nil {
		respondDocumentError(w, err)
		return
	}
	s.opts.Metrics.DocumentParsed(doc.Kind(), "tree")

	text, err := export.PDDL(doc)
	if err != nil {
		respondDocumentError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, text)
}

func (s *Server) handleAugment(w http.ResponseWriter, r *http.Request) {
	var req AugmentRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Problem) == "" {
		respondError(w, http.StatusBadRequest, "problem is required", nil)
		return
	}

	problem, err := s.readDocument(req.Problem)
	if err != nil {
		respondDocumentError(w, fmt.Errorf("problem: %w", err))
		return
	}
	p, ok := problem.(*document.Problem)
	if !ok {
		respondError(w, http.StatusUnprocessableEntity, "problem must be a problem document", nil)
		return
	}

	domains := make([]*document.Domain, 0, len(req.Domains))
	for i, text := range req.Domains {
		doc, err := s.readDocument(text)
		if err != nil {
			respondDocumentError(w, fmt.Errorf("domain %d: %w", i, err))
			return
		}
		d, ok := doc.(*document.Domain)
		if !ok {
			respondError(w, http.StatusUnprocessableEntity, fmt.Sprintf("domain %d must be a domain document", i), nil)
			return
		}
		domains = append(domains, d)
	}

	var onto *ontology.Graph
	if req.Ontology != "" {
		format := ontology.Format(req.OntologyFormat)
		if format == "" {
			format = ontology.FormatTurtle
		}
		onto, err = ontology.Load(strings.NewReader(req.Ontology), format)
		if err != nil {
			respondError(w, http.StatusUnprocessableEntity, "failed to load ontology", err)
			return
		}
	}

	result, err := augment.Augment(p, domains, onto, s.opts.Ontology, augment.Options{
		Logger:   s.logger,
		Recorder: s.opts.Metrics,
	})
	if err != nil {
		respondDocumentError(w, err)
		return
	}

	resp := AugmentResponse{
		Axioms:      result.Axioms,
		Diagnostics: result.Diagnostics,
		Domains:     make([]string, 0, len(result.Domains)),
	}
	if resp.Axioms == nil {
		resp.Axioms = []augment.Axiom{}
	}
	if resp.Diagnostics == nil {
		resp.Diagnostics = []augment.Diagnostic{}
	}
	if resp.Problem, err = export.PDDL(result.Problem); err != nil {
		respondError(w, http.StatusInternalServerError, "failed to render problem", err)
		return
	}
	for _, d := range result.Domains {
		text, err := export.PDDL(d)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to render domain", err)
			return
		}
		resp.Domains = append(resp.Domains, text)
	}

	if s.opts.Publisher != nil {
		id, err := s.opts.Publisher.PublishResult(r.Context(), result)
		if err != nil {
			s.logger.Warn("Failed to publish augmentation", "problem", p.Name, "error", err)
		}
		resp.MessageID = id
	}

	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) readDocument(text string) (document.Document, error) {
	content := []byte(text)
	doc, err := parser.DefaultRegistry.ReadContent(content)
	if err != nil {
		return nil, err
	}
	format := "tree"
	if parser.Detect(content) == parser.MimePDDL {
		format = "pddl"
	}
	s.opts.Metrics.DocumentParsed(doc.Kind(), format)
	return doc, nil
}

func (s *Server) encodeOptions(r *http.Request) (document.EncodeOptions, error) {
	opts := s.opts.Encode
	q := r.URL.Query()
	switch f := q.Get("format"); f {
	case "":
	case "json", "yaml":
		opts.Format = document.Format(f)
	default:
		return opts, fmt.Errorf("unsupported format %q", f)
	}
	if v := q.Get("indent"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, fmt.Errorf("invalid indent %q", v)
		}
		opts.Indent = n
	}
	return opts, nil
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "failed to read request body", err)
		return nil, false
	}
	if len(bytes.TrimSpace(body)) == 0 {
		respondError(w, http.StatusBadRequest, "request body is empty", nil)
		return nil, false
	}
	return body, true
}

// respondDocumentError maps translation errors to 422 and everything else
// to 500.
func respondDocumentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, document.ErrIllegalDocument),
		errors.Is(err, document.ErrMalformedTree),
		parser.IsStructureError(err),
		errors.Is(err, ontology.ErrQuery):
		respondError(w, http.StatusUnprocessableEntity, "invalid document", err)
	default:
		respondError(w, http.StatusInternalServerError, "translation failed", err)
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]string{
		"error": message,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}
