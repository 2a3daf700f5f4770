// Package parser translates planning language text into the canonical
// document model.
//
// The translator is a recursive-descent builder over the s-expression tree
// produced by the grammar package. Each production returns the value it
// builds to its caller. Logical formulas are captured as flattened text.
package parser

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/c360studio/pddls/document"
	"github.com/c360studio/pddls/grammar"
)

// Parse translates one domain or problem definition.
func Parse(src []byte) (document.Document, error) {
	root, err := grammar.ReadOne(src)
	if err != nil {
		var se *grammar.SyntaxError
		if errors.As(err, &se) {
			return nil, &StructureError{Pos: se.Pos, Msg: se.Msg, Err: err}
		}
		return nil, err
	}
	return translate(root)
}

// ParseFile reads and translates the file at path.
func ParseFile(path string) (document.Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read planning file: %w", err)
	}
	doc, err := Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

func translate(root grammar.Node) (document.Document, error) {
	define, ok := root.(*grammar.List)
	if !ok {
		return nil, structureErrorf(root, "expected (define ...)")
	}
	if head, _ := define.Head(); !keywordIs(head, "define") {
		return nil, structureErrorf(root, "missing define header")
	}
	if define.Len() < 2 {
		return nil, structureErrorf(root, "missing domain or problem header")
	}

	header, ok := define.Items[1].(*grammar.List)
	if !ok || header.Len() != 2 {
		return nil, structureErrorf(define.Items[1], "expected (domain <name>) or (problem <name>)")
	}
	kind, _ := header.Head()
	name, err := atomValue(header.Items[1], "document name")
	if err != nil {
		return nil, err
	}

	clauses := define.Items[2:]
	switch {
	case keywordIs(kind, "domain"):
		return domain(name, clauses)
	case keywordIs(kind, "problem"):
		return problem(name, header, clauses)
	default:
		return nil, structureErrorf(header, "expected domain or problem, got %q", kind)
	}
}

func domain(name string, clauses []grammar.Node) (*document.Domain, error) {
	d := &document.Domain{Name: name}
	for _, node := range clauses {
		clause, key, err := clauseHead(node)
		if err != nil {
			return nil, err
		}
		body := clause.Tail()

		switch key {
		case ":requirements":
			reqs, err := requirements(body)
			if err != nil {
				return nil, err
			}
			d.Requirements = append(d.Requirements, reqs...)
		case ":types":
			if d.Types, err = typedNames(d.Types, body); err != nil {
				return nil, err
			}
		case ":constants":
			if d.Constants, err = typedNames(d.Constants, body); err != nil {
				return nil, err
			}
		case ":predicates":
			decls, err := declarations(body, false)
			if err != nil {
				return nil, err
			}
			d.Predicates = append(d.Predicates, decls...)
		case ":functions":
			decls, err := declarations(body, true)
			if err != nil {
				return nil, err
			}
			d.Functions = append(d.Functions, decls...)
		case ":action":
			a, err := action(clause)
			if err != nil {
				return nil, err
			}
			d.Structure = append(d.Structure, a)
		case ":durative-action":
			a, err := durativeAction(clause)
			if err != nil {
				return nil, err
			}
			d.Structure = append(d.Structure, a)
		case ":derived":
			dp, err := derived(clause)
			if err != nil {
				return nil, err
			}
			d.Structure = append(d.Structure, dp)
		case ":context":
			if d.Context, err = context(d.Context, body); err != nil {
				return nil, err
			}
		default:
			return nil, structureErrorf(clause, "unknown domain clause %q", key)
		}
	}
	return d, nil
}

func problem(name string, header *grammar.List, clauses []grammar.Node) (*document.Problem, error) {
	p := &document.Problem{Name: name}
	var hasDomain, hasGoal bool

	for _, node := range clauses {
		clause, key, err := clauseHead(node)
		if err != nil {
			return nil, err
		}
		body := clause.Tail()

		switch key {
		case ":domain":
			if len(body) != 1 {
				return nil, structureErrorf(clause, "(:domain) takes exactly one name")
			}
			if p.Domain, err = atomValue(body[0], "domain name"); err != nil {
				return nil, err
			}
			hasDomain = true
		case ":requirements":
			reqs, err := requirements(body)
			if err != nil {
				return nil, err
			}
			p.Requirements = append(p.Requirements, reqs...)
		case ":objects":
			if p.Objects, err = typedNames(p.Objects, body); err != nil {
				return nil, err
			}
		case ":init":
			for _, fact := range body {
				p.Init = append(p.Init, fact.Text())
			}
		case ":goal":
			if len(body) != 1 {
				return nil, structureErrorf(clause, "(:goal) takes exactly one expression")
			}
			p.Goal = body[0].Text()
			hasGoal = true
		case ":metric":
			if len(body) == 0 {
				return nil, structureErrorf(clause, "(:metric) requires an expression")
			}
			p.Metric = flatten(body)
		case ":context":
			if p.Context, err = context(p.Context, body); err != nil {
				return nil, err
			}
		default:
			return nil, structureErrorf(clause, "unknown problem clause %q", key)
		}
	}

	if !hasDomain {
		return nil, structureErrorf(header, "problem %q has no (:domain) clause", name)
	}
	if !hasGoal {
		return nil, structureErrorf(header, "problem %q has no (:goal) clause", name)
	}
	return p, nil
}

// action translates (:action N :parameters (...) [:precondition E] [:effect E]).
func action(clause *grammar.List) (*document.Action, error) {
	a := &document.Action{}
	var err error
	a.Symbol, a.Parameters, err = actionBody(clause, func(key string, value grammar.Node) bool {
		switch key {
		case ":precondition":
			a.Precondition = value.Text()
		case ":effect":
			a.Effect = value.Text()
		default:
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// durativeAction translates (:durative-action N :parameters (...)
// [:duration E] [:condition E] [:effect E]).
func durativeAction(clause *grammar.List) (*document.DurativeAction, error) {
	a := &document.DurativeAction{}
	var err error
	a.Symbol, a.Parameters, err = actionBody(clause, func(key string, value grammar.Node) bool {
		switch key {
		case ":duration":
			a.Duration = value.Text()
		case ":condition":
			a.Condition = value.Text()
		case ":effect":
			a.Effect = value.Text()
		default:
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// actionBody reads the symbol and the keyword/value slots shared by both
// action forms. set reports whether it accepted a keyword.
func actionBody(clause *grammar.List, set func(key string, value grammar.Node) bool) (string, []document.Parameter, error) {
	body := clause.Tail()
	if len(body) == 0 {
		return "", nil, structureErrorf(clause, "action has no name")
	}
	symbol, err := atomValue(body[0], "action name")
	if err != nil {
		return "", nil, err
	}

	var params []document.Parameter
	hasParams := false
	slots := body[1:]
	for i := 0; i < len(slots); i += 2 {
		key, err := atomValue(slots[i], "action keyword")
		if err != nil {
			return "", nil, err
		}
		if i+1 >= len(slots) {
			return "", nil, structureErrorf(slots[i], "%s in action %q has no value", key, symbol)
		}
		value := slots[i+1]
		key = strings.ToLower(key)

		if key == ":parameters" {
			list, ok := value.(*grammar.List)
			if !ok {
				return "", nil, structureErrorf(value, ":parameters of action %q must be a list", symbol)
			}
			if params, err = parameters(list.Items); err != nil {
				return "", nil, err
			}
			hasParams = true
			continue
		}
		if !set(key, value) {
			return "", nil, structureErrorf(slots[i], "unknown keyword %s in action %q", key, symbol)
		}
	}

	if !hasParams {
		return "", nil, structureErrorf(clause, "action %q has no :parameters", symbol)
	}
	return symbol, params, nil
}

// derived translates (:derived (p ?x - t) E).
func derived(clause *grammar.List) (*document.DerivedPredicate, error) {
	body := clause.Tail()
	if len(body) != 2 {
		return nil, structureErrorf(clause, "(:derived) takes a skeleton and a body")
	}
	skeleton, ok := body[0].(*grammar.List)
	if !ok {
		return nil, structureErrorf(body[0], "derived predicate skeleton must be a list")
	}
	decl, err := declaration(skeleton)
	if err != nil {
		return nil, err
	}
	return &document.DerivedPredicate{Skeleton: decl, Body: body[1].Text()}, nil
}

func requirements(body []grammar.Node) ([]string, error) {
	var out []string
	for _, n := range body {
		req, err := atomValue(n, "requirement")
		if err != nil {
			return nil, err
		}
		if !strings.HasPrefix(req, ":") {
			return nil, structureErrorf(n, "requirement %q must start with ':'", req)
		}
		out = append(out, req)
	}
	return out, nil
}

// declarations translates predicate or function skeletons. Functions may
// be followed by a "- type" result annotation, which is accepted and not
// modelled.
func declarations(body []grammar.Node, functions bool) ([]document.Declaration, error) {
	var out []document.Declaration
	for i := 0; i < len(body); i++ {
		n := body[i]
		if functions && isDash(n) {
			if i+1 >= len(body) || !isTypeNode(body[i+1]) {
				return nil, structureErrorf(n, "'-' without a type")
			}
			i++
			continue
		}
		list, ok := n.(*grammar.List)
		if !ok {
			return nil, structureErrorf(n, "expected a declaration list, got %q", n.Text())
		}
		decl, err := declaration(list)
		if err != nil {
			return nil, err
		}
		out = append(out, decl)
	}
	return out, nil
}

func declaration(list *grammar.List) (document.Declaration, error) {
	if list.Len() == 0 {
		return document.Declaration{}, structureErrorf(list, "empty declaration")
	}
	symbol, err := atomValue(list.Items[0], "declaration symbol")
	if err != nil {
		return document.Declaration{}, err
	}
	params, err := parameters(list.Tail())
	if err != nil {
		return document.Declaration{}, err
	}
	return document.Declaration{Symbol: symbol, Parameters: params}, nil
}

func parameters(items []grammar.Node) ([]document.Parameter, error) {
	names, err := typedNameGroups(items)
	if err != nil {
		return nil, err
	}
	var out []document.Parameter
	for _, tn := range names {
		out = append(out, document.Parameter{Name: tn.Name, Type: tn.Type})
	}
	return out, nil
}

// typedNames adds "a b - t c" style entries to list.
func typedNames(list document.TypedNameList, items []grammar.Node) (document.TypedNameList, error) {
	names, err := typedNameGroups(items)
	if err != nil {
		return nil, err
	}
	for _, tn := range names {
		list = list.Add(tn.Name, tn.Type)
	}
	return list, nil
}

// typedNameGroups reads names in source order. Names preceding "- type"
// take that type; trailing names without one stay untyped.
func typedNameGroups(items []grammar.Node) ([]document.TypedName, error) {
	var out []document.TypedName
	pending := 0
	for i := 0; i < len(items); i++ {
		n := items[i]
		if isDash(n) {
			if i+1 >= len(items) || !isTypeNode(items[i+1]) {
				return nil, structureErrorf(n, "'-' without a type")
			}
			if pending == 0 {
				return nil, structureErrorf(n, "type without names")
			}
			typ := items[i+1].Text()
			for j := len(out) - pending; j < len(out); j++ {
				out[j].Type = typ
			}
			pending = 0
			i++
			continue
		}
		name, err := atomValue(n, "name")
		if err != nil {
			return nil, err
		}
		out = append(out, document.TypedName{Name: name})
		pending++
	}
	return out, nil
}

// context translates "sym = <uri>" triples.
func context(ctx document.Context, body []grammar.Node) (document.Context, error) {
	if ctx == nil {
		ctx = document.Context{}
	}
	if len(body)%3 != 0 {
		return nil, structureErrorf(body[len(body)-1], "(:context) entries must have the form sym = <uri>")
	}
	for i := 0; i < len(body); i += 3 {
		symbol, err := atomValue(body[i], "context symbol")
		if err != nil {
			return nil, err
		}
		if eq, ok := body[i+1].(*grammar.Atom); !ok || eq.Value != "=" {
			return nil, structureErrorf(body[i+1], "expected '=' after context symbol %q", symbol)
		}
		var uri string
		switch v := body[i+2].(type) {
		case *grammar.IRI:
			uri = v.Value
		case *grammar.String:
			uri = v.Value
		default:
			return nil, structureErrorf(body[i+2], "context value for %q must be an IRI", symbol)
		}
		ctx = ctx.Bind(symbol, uri)
	}
	return ctx, nil
}

func clauseHead(node grammar.Node) (*grammar.List, string, error) {
	clause, ok := node.(*grammar.List)
	if !ok {
		return nil, "", structureErrorf(node, "expected a clause, got %q", node.Text())
	}
	key, ok := clause.Head()
	if !ok {
		return nil, "", structureErrorf(node, "clause has no keyword")
	}
	return clause, strings.ToLower(key), nil
}

func atomValue(node grammar.Node, what string) (string, error) {
	a, ok := node.(*grammar.Atom)
	if !ok {
		return "", structureErrorf(node, "expected %s, got %q", what, node.Text())
	}
	return a.Value, nil
}

func isDash(node grammar.Node) bool {
	a, ok := node.(*grammar.Atom)
	return ok && a.Value == "-"
}

// isTypeNode accepts a type name or an (either t1 t2) list.
func isTypeNode(node grammar.Node) bool {
	switch n := node.(type) {
	case *grammar.Atom:
		return n.Value != "-"
	case *grammar.List:
		head, _ := n.Head()
		return keywordIs(head, "either")
	default:
		return false
	}
}

func keywordIs(got, want string) bool {
	return strings.EqualFold(got, want)
}

func flatten(nodes []grammar.Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.Text()
	}
	return strings.Join(parts, " ")
}
