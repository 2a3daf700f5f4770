package document

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Tree form keys. These are the field names of the persisted document.
const (
	KeyDomain         = "domain"
	KeyProblem        = "problem"
	KeyContext        = "@context"
	KeyRequirements   = "pddl:requirements"
	KeyTypes          = "pddl:types"
	KeyConstants      = "pddl:constants"
	KeyPredicates     = "pddl:predicates"
	KeyFunctions      = "pddl:functions"
	KeyStructure      = "structure"
	KeyAction         = "pddl:action"
	KeyDurativeAction = "pddl:durative-action"
	KeyDerived        = "pddl:derived"
	KeyBody           = "pddl:body"
	KeyParameters     = "pddl:parameters"
	KeyPrecondition   = "pddl:precondition"
	KeyEffect         = "pddl:effect"
	KeyDuration       = "pddl:duration"
	KeyCondition      = "pddl:condition"
	KeyProblemDomain  = "pddl:problem_domain"
	KeyObjects        = "pddl:objects"
	KeyInit           = "pddl:init"
	KeyGoal           = "pddl:goal"
	KeyMetric         = "pddl:metric"
)

// Encode writes doc in its tree form.
func Encode(w io.Writer, doc Document, opts EncodeOptions) error {
	node, err := ToTree(doc)
	if err != nil {
		return err
	}
	return WriteTree(w, node, opts)
}

// Marshal returns the tree form of doc as bytes.
func Marshal(doc Document, opts EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reads a JSON or YAML tree-form document.
func Decode(data []byte) (Document, error) {
	node, err := ReadTree(data)
	if err != nil {
		return nil, err
	}
	return FromTree(node)
}

// ToTree converts doc into an ordered node tree.
func ToTree(doc Document) (*yaml.Node, error) {
	switch d := doc.(type) {
	case *Domain:
		if d == nil {
			return nil, ErrIllegalDocument
		}
		return domainTree(d), nil
	case *Problem:
		if d == nil {
			return nil, ErrIllegalDocument
		}
		return problemTree(d), nil
	default:
		return nil, ErrIllegalDocument
	}
}

func domainTree(d *Domain) *yaml.Node {
	m := newMapping()
	m.set(KeyDomain, stringNode(d.Name))
	if d.Context != nil {
		m.set(KeyContext, contextTree(d.Context))
	}
	if d.Requirements != nil {
		m.set(KeyRequirements, stringsTree(d.Requirements))
	}
	if d.Types != nil {
		m.set(KeyTypes, namesTree(d.Types))
	}
	if d.Constants != nil {
		m.set(KeyConstants, namesTree(d.Constants))
	}
	if d.Predicates != nil {
		m.set(KeyPredicates, declarationsTree(d.Predicates))
	}
	if d.Functions != nil {
		m.set(KeyFunctions, declarationsTree(d.Functions))
	}
	if d.Structure != nil {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, entry := range d.Structure {
			seq.Content = append(seq.Content, entryTree(entry))
		}
		m.set(KeyStructure, seq)
	}
	return m.node
}

func problemTree(p *Problem) *yaml.Node {
	m := newMapping()
	m.set(KeyProblem, stringNode(p.Name))
	if p.Context != nil {
		m.set(KeyContext, contextTree(p.Context))
	}
	m.set(KeyProblemDomain, stringNode(p.Domain))
	if p.Requirements != nil {
		m.set(KeyRequirements, stringsTree(p.Requirements))
	}
	if p.Objects != nil {
		m.set(KeyObjects, namesTree(p.Objects))
	}
	m.set(KeyInit, stringsTree(p.Init))
	m.set(KeyGoal, stringNode(p.Goal))
	if p.Metric != "" {
		m.set(KeyMetric, stringNode(p.Metric))
	}
	return m.node
}

func entryTree(entry StructureEntry) *yaml.Node {
	m := newMapping()
	switch e := entry.(type) {
	case *Action:
		m.set(KeyAction, stringNode(e.Symbol))
		m.set(KeyParameters, parametersTree(e.Parameters))
		m.setText(KeyPrecondition, e.Precondition)
		m.setText(KeyEffect, e.Effect)
	case *DurativeAction:
		m.set(KeyDurativeAction, stringNode(e.Symbol))
		m.set(KeyParameters, parametersTree(e.Parameters))
		m.setText(KeyDuration, e.Duration)
		m.setText(KeyCondition, e.Condition)
		m.setText(KeyEffect, e.Effect)
	case *DerivedPredicate:
		skeleton := newMapping()
		skeleton.set(e.Skeleton.Symbol, parametersTree(e.Skeleton.Parameters))
		m.set(KeyDerived, skeleton.node)
		m.setText(KeyBody, e.Body)
	}
	return m.node
}

func contextTree(c Context) *yaml.Node {
	m := newMapping()
	for _, b := range c {
		m.set(b.Symbol, stringNode(b.URI))
	}
	return m.node
}

func stringsTree(values []string) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, v := range values {
		seq.Content = append(seq.Content, stringNode(v))
	}
	return seq
}

func namesTree(names TypedNameList) *yaml.Node {
	m := newMapping()
	for _, tn := range names {
		if tn.Type == "" {
			m.set(tn.Name, nullNode())
		} else {
			m.set(tn.Name, stringNode(tn.Type))
		}
	}
	return m.node
}

func declarationsTree(decls []Declaration) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, d := range decls {
		m := newMapping()
		m.set(d.Symbol, parametersTree(d.Parameters))
		seq.Content = append(seq.Content, m.node)
	}
	return seq
}

// parametersTree renders every parameter as a single-entry {name: type}
// mapping, with a null type when untyped.
func parametersTree(params []Parameter) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, p := range params {
		m := newMapping()
		if p.Typed() {
			m.set(p.Name, stringNode(p.Type))
		} else {
			m.set(p.Name, nullNode())
		}
		seq.Content = append(seq.Content, m.node)
	}
	return seq
}

type mapping struct {
	node *yaml.Node
}

func newMapping() mapping {
	return mapping{node: &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}}
}

func (m mapping) set(key string, value *yaml.Node) {
	m.node.Content = append(m.node.Content, stringNode(key), value)
}

func (m mapping) setText(key, value string) {
	if value != "" {
		m.set(key, stringNode(value))
	}
}

// FromTree converts an ordered node tree into a Document.
func FromTree(node *yaml.Node) (Document, error) {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil, ErrIllegalDocument
	}

	_, isDomain := lookup(node, KeyDomain)
	_, isProblem := lookup(node, KeyProblem)
	switch {
	case isDomain && isProblem:
		return nil, fmt.Errorf("%w: both %q and %q present", ErrIllegalDocument, KeyDomain, KeyProblem)
	case isDomain:
		return domainFromTree(node)
	case isProblem:
		return problemFromTree(node)
	default:
		return nil, ErrIllegalDocument
	}
}

func domainFromTree(node *yaml.Node) (*Domain, error) {
	d := &Domain{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]
		var err error
		switch key {
		case KeyDomain:
			d.Name, err = scalar(value, key)
		case KeyContext:
			d.Context, err = contextFromTree(value, key)
		case KeyRequirements:
			d.Requirements, err = stringsFromTree(value, key)
		case KeyTypes:
			d.Types, err = namesFromTree(value, key)
		case KeyConstants:
			d.Constants, err = namesFromTree(value, key)
		case KeyPredicates:
			d.Predicates, err = declarationsFromTree(value, key)
		case KeyFunctions:
			d.Functions, err = declarationsFromTree(value, key)
		case KeyStructure:
			d.Structure, err = structureFromTree(value, key)
		default:
			err = treeErrorf(key, "unknown domain key")
		}
		if err != nil {
			return nil, err
		}
	}
	if d.Name == "" {
		return nil, treeErrorf(KeyDomain, "missing domain name")
	}
	return d, nil
}

func problemFromTree(node *yaml.Node) (*Problem, error) {
	p := &Problem{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]
		var err error
		switch key {
		case KeyProblem:
			p.Name, err = scalar(value, key)
		case KeyContext:
			p.Context, err = contextFromTree(value, key)
		case KeyProblemDomain:
			p.Domain, err = scalar(value, key)
		case KeyRequirements:
			p.Requirements, err = stringsFromTree(value, key)
		case KeyObjects:
			p.Objects, err = namesFromTree(value, key)
		case KeyInit:
			p.Init, err = stringsFromTree(value, key)
			if len(p.Init) == 0 {
				p.Init = nil
			}
		case KeyGoal:
			p.Goal, err = scalar(value, key)
		case KeyMetric:
			p.Metric, err = scalar(value, key)
		default:
			err = treeErrorf(key, "unknown problem key")
		}
		if err != nil {
			return nil, err
		}
	}
	switch {
	case p.Name == "":
		return nil, treeErrorf(KeyProblem, "missing problem name")
	case p.Domain == "":
		return nil, treeErrorf(KeyProblemDomain, "missing problem domain")
	case p.Goal == "":
		return nil, treeErrorf(KeyGoal, "missing goal")
	}
	return p, nil
}

func structureFromTree(node *yaml.Node, path string) ([]StructureEntry, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, treeErrorf(path, "expected a sequence")
	}
	var entries []StructureEntry
	for i, item := range node.Content {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		entry, err := entryFromTree(item, itemPath)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func entryFromTree(node *yaml.Node, path string) (StructureEntry, error) {
	if node.Kind != yaml.MappingNode {
		return nil, treeErrorf(path, "expected a mapping")
	}

	if _, ok := lookup(node, KeyAction); ok {
		a := &Action{}
		err := eachPair(node, path, func(key string, value *yaml.Node, at string) error {
			var err error
			switch key {
			case KeyAction:
				a.Symbol, err = scalar(value, at)
			case KeyParameters:
				a.Parameters, err = parametersFromTree(value, at)
			case KeyPrecondition:
				a.Precondition, err = scalar(value, at)
			case KeyEffect:
				a.Effect, err = scalar(value, at)
			default:
				err = treeErrorf(at, "unknown action key")
			}
			return err
		})
		return a, err
	}

	if _, ok := lookup(node, KeyDurativeAction); ok {
		a := &DurativeAction{}
		err := eachPair(node, path, func(key string, value *yaml.Node, at string) error {
			var err error
			switch key {
			case KeyDurativeAction:
				a.Symbol, err = scalar(value, at)
			case KeyParameters:
				a.Parameters, err = parametersFromTree(value, at)
			case KeyDuration:
				a.Duration, err = scalar(value, at)
			case KeyCondition:
				a.Condition, err = scalar(value, at)
			case KeyEffect:
				a.Effect, err = scalar(value, at)
			case KeyPrecondition:
				// Older documents stored the durative effect under the
				// precondition key.
				if a.Effect == "" {
					a.Effect, err = scalar(value, at)
				}
			default:
				err = treeErrorf(at, "unknown durative action key")
			}
			return err
		})
		return a, err
	}

	if skeleton, ok := lookup(node, KeyDerived); ok {
		decl, err := declarationFromTree(skeleton, path+"."+KeyDerived)
		if err != nil {
			return nil, err
		}
		d := &DerivedPredicate{Skeleton: decl}
		if body, ok := lookup(node, KeyBody); ok {
			if d.Body, err = scalar(body, path+"."+KeyBody); err != nil {
				return nil, err
			}
		}
		return d, nil
	}

	return nil, treeErrorf(path, "structure entry has no %q, %q or %q key", KeyAction, KeyDurativeAction, KeyDerived)
}

func contextFromTree(node *yaml.Node, path string) (Context, error) {
	if node.Kind != yaml.MappingNode {
		return nil, treeErrorf(path, "expected a mapping")
	}
	ctx := Context{}
	err := eachPair(node, path, func(key string, value *yaml.Node, at string) error {
		uri, err := scalar(value, at)
		if err != nil {
			return err
		}
		ctx = ctx.Bind(key, uri)
		return nil
	})
	return ctx, err
}

func namesFromTree(node *yaml.Node, path string) (TypedNameList, error) {
	if node.Kind != yaml.MappingNode {
		return nil, treeErrorf(path, "expected a mapping")
	}
	names := TypedNameList{}
	err := eachPair(node, path, func(key string, value *yaml.Node, at string) error {
		typ, err := optionalScalar(value, at)
		if err != nil {
			return err
		}
		names = names.Add(key, typ)
		return nil
	})
	if len(names) == 0 {
		return nil, err
	}
	return names, err
}

func declarationsFromTree(node *yaml.Node, path string) ([]Declaration, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, treeErrorf(path, "expected a sequence")
	}
	var decls []Declaration
	for i, item := range node.Content {
		decl, err := declarationFromTree(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

func declarationFromTree(node *yaml.Node, path string) (Declaration, error) {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return Declaration{}, treeErrorf(path, "expected a single-entry mapping")
	}
	params, err := parametersFromTree(node.Content[1], path+"."+node.Content[0].Value)
	if err != nil {
		return Declaration{}, err
	}
	return Declaration{Symbol: node.Content[0].Value, Parameters: params}, nil
}

func parametersFromTree(node *yaml.Node, path string) ([]Parameter, error) {
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, treeErrorf(path, "expected a sequence of parameters")
	}
	var params []Parameter
	untyped := false
	for i, item := range node.Content {
		at := fmt.Sprintf("%s[%d]", path, i)
		var param Parameter
		switch item.Kind {
		case yaml.ScalarNode:
			param = Parameter{Name: item.Value}
		case yaml.MappingNode:
			if len(item.Content) != 2 {
				return nil, treeErrorf(at, "typed parameter must be a single-entry mapping")
			}
			typ, err := optionalScalar(item.Content[1], at)
			if err != nil {
				return nil, err
			}
			param = Parameter{Name: item.Content[0].Value, Type: typ}
		default:
			return nil, treeErrorf(at, "unexpected parameter shape")
		}
		// "?z ?x - t" types both names, so an untyped name cannot precede
		// a typed one.
		if param.Typed() && untyped {
			return nil, treeErrorf(at, "typed parameter %s follows an untyped one", param.Name)
		}
		untyped = untyped || !param.Typed()
		params = append(params, param)
	}
	return params, nil
}

func stringsFromTree(node *yaml.Node, path string) ([]string, error) {
	if node.Kind != yaml.SequenceNode {
		return nil, treeErrorf(path, "expected a sequence")
	}
	out := make([]string, 0, len(node.Content))
	for i, item := range node.Content {
		s, err := scalar(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func eachPair(node *yaml.Node, path string, fn func(key string, value *yaml.Node, at string) error) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		if err := fn(key, node.Content[i+1], path+"."+key); err != nil {
			return err
		}
	}
	return nil
}

func lookup(node *yaml.Node, key string) (*yaml.Node, bool) {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1], true
		}
	}
	return nil, false
}

func scalar(node *yaml.Node, path string) (string, error) {
	if node.Kind != yaml.ScalarNode || isNull(node) {
		return "", treeErrorf(path, "expected a string")
	}
	return node.Value, nil
}

func optionalScalar(node *yaml.Node, path string) (string, error) {
	if isNull(node) {
		return "", nil
	}
	return scalar(node, path)
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}
