package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies a tree serialization format.
type Format string

const (
	// FormatJSON encodes the tree as JSON.
	FormatJSON Format = "json"

	// FormatYAML encodes the tree as YAML.
	FormatYAML Format = "yaml"
)

// EncodeOptions configures tree encoding. Options are passed explicitly at
// each call site; there is no package-level encoder state.
type EncodeOptions struct {
	// Format selects JSON or YAML output. Defaults to JSON.
	Format Format

	// Indent is the number of spaces per nesting level. Zero means 4 for
	// YAML and 1 for JSON.
	Indent int
}

func (o EncodeOptions) withDefaults() EncodeOptions {
	if o.Format == "" {
		o.Format = FormatJSON
	}
	if o.Indent <= 0 {
		if o.Format == FormatYAML {
			o.Indent = 4
		} else {
			o.Indent = 1
		}
	}
	return o
}

// FormatFromPath guesses the tree format from a file name. Files ending in
// .yaml or .yml are YAML; everything else (.json, .jsonld) is JSON.
func FormatFromPath(path string) Format {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml") {
		return FormatYAML
	}
	return FormatJSON
}

// ReadTree decodes a JSON or YAML document into an order-preserving node
// tree. JSON input is recognised by its leading '{' or '['.
func ReadTree(data []byte) (*yaml.Node, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &TreeError{Msg: "empty document"}
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return readJSONTree(trimmed)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("decode yaml tree: %w", err)
	}
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0], nil
	}
	return &doc, nil
}

// WriteTree encodes a node tree to w.
func WriteTree(w io.Writer, node *yaml.Node, opts EncodeOptions) error {
	opts = opts.withDefaults()

	switch opts.Format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(opts.Indent)
		if err := enc.Encode(node); err != nil {
			return fmt.Errorf("encode yaml tree: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml tree: %w", err)
		}
		_, err := w.Write(buf.Bytes())
		return err
	case FormatJSON:
		var compact bytes.Buffer
		if err := writeJSONNode(&compact, node); err != nil {
			return err
		}
		var out bytes.Buffer
		if err := json.Indent(&out, compact.Bytes(), "", strings.Repeat(" ", opts.Indent)); err != nil {
			return fmt.Errorf("indent json tree: %w", err)
		}
		out.WriteByte('\n')
		_, err := w.Write(out.Bytes())
		return err
	default:
		return fmt.Errorf("unsupported tree format: %s", opts.Format)
	}
}

// Convert re-encodes a JSON or YAML tree in the requested format, keeping
// key order. It does not interpret the tree as a planning document.
func Convert(data []byte, w io.Writer, opts EncodeOptions) error {
	node, err := ReadTree(data)
	if err != nil {
		return err
	}
	return WriteTree(w, node, opts)
}

func readJSONTree(data []byte) (*yaml.Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	node, err := readJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("decode json tree: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode json tree: trailing data after document")
	}
	return node, nil
}

func readJSONValue(dec *json.Decoder) (*yaml.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				value, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				node.Content = append(node.Content, stringNode(key), value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return node, nil
		case '[':
			node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
			for dec.More() {
				value, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				node.Content = append(node.Content, value)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return node, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", v)
		}
	case string:
		return stringNode(v), nil
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(v.String(), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.String()}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprintf("%t", v)}, nil
	case nil:
		return nullNode(), nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func writeJSONNode(buf *bytes.Buffer, node *yaml.Node) error {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return writeJSONNode(buf, node.Content[0])
	case yaml.AliasNode:
		return writeJSONNode(buf, node.Alias)
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(node.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(node.Content[i].Value)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSONNode(buf, node.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, child := range node.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONNode(buf, child); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!null":
			buf.WriteString("null")
		case "!!int", "!!float", "!!bool":
			buf.WriteString(node.Value)
		default:
			value, err := json.Marshal(node.Value)
			if err != nil {
				return err
			}
			buf.Write(value)
		}
		return nil
	default:
		return fmt.Errorf("unsupported node kind %v", node.Kind)
	}
}

func stringNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func nullNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}
