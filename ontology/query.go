package ontology

import (
	"strconv"
	"strings"
)

// Query is a parsed SELECT query.
type Query struct {
	// Vars are the projected variables; nil means '*'.
	Vars []string

	Distinct bool
	Patterns []Pattern
	Filters  []Expr

	// Limit is the maximum number of rows; negative means unlimited.
	Limit  int
	Offset int
}

// Node is a position in a triple pattern: a variable or a constant term.
type Node struct {
	Var  string
	Term Term
}

// VarNode returns a variable pattern position.
func VarNode(name string) Node { return Node{Var: name} }

// TermNode returns a constant pattern position.
func TermNode(t Term) Node { return Node{Term: t} }

// IsVar reports whether the position is a variable.
func (n Node) IsVar() bool { return n.Var != "" }

// Pattern is one triple pattern of a basic graph pattern.
type Pattern struct {
	Subject   Node
	Predicate Node
	Object    Node
}

// Results are the rows of a SELECT query. Unbound cells hold Any.
type Results struct {
	Vars []string
	Rows [][]Term
}

// Query parses and evaluates text against the graph.
func (g *Graph) Query(text string) (*Results, error) {
	q, err := ParseQuery(text)
	if err != nil {
		return nil, err
	}
	return q.Eval(g), nil
}

type solution map[string]Term

// Eval runs the query against g. Patterns are joined in order, filters
// apply to the whole group, then projection, DISTINCT, OFFSET and LIMIT.
func (q *Query) Eval(g *Graph) *Results {
	solutions := []solution{{}}
	for _, pat := range q.Patterns {
		var next []solution
		for _, sol := range solutions {
			next = append(next, extend(g, pat, sol)...)
		}
		solutions = next
		if len(solutions) == 0 {
			break
		}
	}

	var kept []solution
	for _, sol := range solutions {
		if q.accept(sol) {
			kept = append(kept, sol)
		}
	}

	vars := q.Vars
	if vars == nil {
		vars = q.patternVars()
	}
	res := &Results{Vars: vars}
	seen := map[string]bool{}
	for _, sol := range kept {
		row := make([]Term, len(vars))
		for i, v := range vars {
			row[i] = sol[v]
		}
		if q.Distinct {
			key := rowKey(row)
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		res.Rows = append(res.Rows, row)
	}

	if q.Offset > 0 {
		if q.Offset >= len(res.Rows) {
			res.Rows = nil
		} else {
			res.Rows = res.Rows[q.Offset:]
		}
	}
	if q.Limit >= 0 && q.Limit < len(res.Rows) {
		res.Rows = res.Rows[:q.Limit]
	}
	return res
}

func (q *Query) accept(sol solution) bool {
	for _, f := range q.Filters {
		v, ok := f.eval(sol)
		if !ok {
			return false
		}
		if b, ok := effectiveBool(v); !ok || !b {
			return false
		}
	}
	return true
}

// patternVars lists the named variables in order of first appearance.
func (q *Query) patternVars() []string {
	var vars []string
	seen := map[string]bool{}
	add := func(n Node) {
		if !n.IsVar() || strings.HasPrefix(n.Var, "_:") || seen[n.Var] {
			return
		}
		seen[n.Var] = true
		vars = append(vars, n.Var)
	}
	for _, p := range q.Patterns {
		add(p.Subject)
		add(p.Predicate)
		add(p.Object)
	}
	return vars
}

func extend(g *Graph, pat Pattern, sol solution) []solution {
	bind := func(n Node) Term {
		if !n.IsVar() {
			return n.Term
		}
		return sol[n.Var]
	}

	var out []solution
	for _, t := range g.Match(bind(pat.Subject), bind(pat.Predicate), bind(pat.Object)) {
		next := make(solution, len(sol)+3)
		for k, v := range sol {
			next[k] = v
		}
		if assign(next, pat.Subject, t.Subject) && assign(next, pat.Predicate, t.Predicate) && assign(next, pat.Object, t.Object) {
			out = append(out, next)
		}
	}
	return out
}

// assign binds a variable, failing when it is already bound to a
// different term within the same pattern.
func assign(sol solution, n Node, t Term) bool {
	if !n.IsVar() {
		return true
	}
	if cur, ok := sol[n.Var]; ok {
		return cur == t
	}
	sol[n.Var] = t
	return true
}

func rowKey(row []Term) string {
	parts := make([]string, len(row))
	for i, t := range row {
		parts[i] = t.String()
	}
	return strings.Join(parts, "\x00")
}

// Expr is a FILTER expression. eval reports false when the expression
// raises an error, such as reading an unbound variable.
type Expr interface {
	eval(sol solution) (Term, bool)
}

type varExpr string

func (e varExpr) eval(sol solution) (Term, bool) {
	t, ok := sol[string(e)]
	return t, ok
}

type constExpr struct{ t Term }

func (e constExpr) eval(solution) (Term, bool) { return e.t, true }

type boundExpr string

func (e boundExpr) eval(sol solution) (Term, bool) {
	_, ok := sol[string(e)]
	return boolTerm(ok), true
}

type equalExpr struct {
	left, right Expr
	negate      bool
}

func (e equalExpr) eval(sol solution) (Term, bool) {
	l, ok := e.left.eval(sol)
	if !ok {
		return Term{}, false
	}
	r, ok := e.right.eval(sol)
	if !ok {
		return Term{}, false
	}
	return boolTerm((l == r) != e.negate), true
}

type notExpr struct{ inner Expr }

func (e notExpr) eval(sol solution) (Term, bool) {
	v, ok := e.inner.eval(sol)
	if !ok {
		return Term{}, false
	}
	b, ok := effectiveBool(v)
	if !ok {
		return Term{}, false
	}
	return boolTerm(!b), true
}

type andExpr struct{ left, right Expr }

func (e andExpr) eval(sol solution) (Term, bool) {
	l, lok := evalBool(e.left, sol)
	r, rok := evalBool(e.right, sol)
	switch {
	case lok && rok:
		return boolTerm(l && r), true
	case lok && !l, rok && !r:
		return boolTerm(false), true
	default:
		return Term{}, false
	}
}

type orExpr struct{ left, right Expr }

func (e orExpr) eval(sol solution) (Term, bool) {
	l, lok := evalBool(e.left, sol)
	r, rok := evalBool(e.right, sol)
	switch {
	case lok && rok:
		return boolTerm(l || r), true
	case lok && l, rok && r:
		return boolTerm(true), true
	default:
		return Term{}, false
	}
}

func evalBool(e Expr, sol solution) (bool, bool) {
	v, ok := e.eval(sol)
	if !ok {
		return false, false
	}
	return effectiveBool(v)
}

func boolTerm(b bool) Term {
	return TypedLiteral(strconv.FormatBool(b), XSDBoolean)
}

// effectiveBool computes the effective boolean value of a literal.
func effectiveBool(t Term) (bool, bool) {
	if !t.IsLiteral() {
		return false, false
	}
	switch t.Datatype {
	case XSDBoolean:
		return t.Value == "true" || t.Value == "1", true
	case XSDInteger, XSDDecimal, XSDDouble:
		f, err := strconv.ParseFloat(t.Value, 64)
		if err != nil {
			return false, true
		}
		return f != 0, true
	case "":
		return t.Value != "", true
	default:
		return false, false
	}
}
