package ontology

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type qtokKind int

const (
	qEOF qtokKind = iota
	qIRI
	qPName
	qVar
	qBlank
	qString
	qNumber
	qWord
	qPunct
)

type qtoken struct {
	kind  qtokKind
	value string
	lang  string
	off   int
}

type queryLexer struct {
	src string
	off int
}

func (l *queryLexer) errorf(off int, format string, args ...any) error {
	return &QueryError{Offset: off, Msg: fmt.Sprintf(format, args...)}
}

func (l *queryLexer) skip() {
	for l.off < len(l.src) {
		c := l.src[l.off]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			l.off++
		case c == '#':
			for l.off < len(l.src) && l.src[l.off] != '\n' {
				l.off++
			}
		default:
			return
		}
	}
}

func (l *queryLexer) next() (qtoken, error) {
	l.skip()
	start := l.off
	if l.off >= len(l.src) {
		return qtoken{kind: qEOF, off: start}, nil
	}
	c := l.src[l.off]

	switch {
	case c == '<':
		end := strings.IndexAny(l.src[l.off+1:], "> \t\n")
		if end < 0 || l.src[l.off+1+end] != '>' {
			return qtoken{}, l.errorf(start, "unsupported operator '<'")
		}
		value := l.src[l.off+1 : l.off+1+end]
		l.off += end + 2
		return qtoken{kind: qIRI, value: value, off: start}, nil

	case c == '?' || c == '$':
		l.off++
		name := l.name()
		if name == "" {
			return qtoken{}, l.errorf(start, "empty variable name")
		}
		return qtoken{kind: qVar, value: name, off: start}, nil

	case c == '"' || c == '\'':
		value, err := l.quoted(c)
		if err != nil {
			return qtoken{}, err
		}
		tok := qtoken{kind: qString, value: value, off: start}
		if l.off < len(l.src) && l.src[l.off] == '@' {
			l.off++
			begin := l.off
			for l.off < len(l.src) && (isAlnum(l.src[l.off]) || l.src[l.off] == '-') {
				l.off++
			}
			if l.off == begin {
				return qtoken{}, l.errorf(begin, "empty language tag")
			}
			tok.lang = l.src[begin:l.off]
		}
		return tok, nil

	case c >= '0' && c <= '9':
		begin := l.off
		for l.off < len(l.src) && (l.src[l.off] >= '0' && l.src[l.off] <= '9') {
			l.off++
		}
		if l.off+1 < len(l.src) && l.src[l.off] == '.' && l.src[l.off+1] >= '0' && l.src[l.off+1] <= '9' {
			l.off++
			for l.off < len(l.src) && (l.src[l.off] >= '0' && l.src[l.off] <= '9') {
				l.off++
			}
		}
		return qtoken{kind: qNumber, value: l.src[begin:l.off], off: start}, nil

	case c == '_' && l.off+1 < len(l.src) && l.src[l.off+1] == ':':
		l.off += 2
		name := l.name()
		if name == "" {
			return qtoken{}, l.errorf(start, "empty blank node label")
		}
		return qtoken{kind: qBlank, value: name, off: start}, nil
	}

	for _, p := range []string{"^^", "!=", "&&", "||", "{", "}", "(", ")", ".", ";", ",", "*", "=", "!"} {
		if strings.HasPrefix(l.src[l.off:], p) {
			l.off += len(p)
			return qtoken{kind: qPunct, value: p, off: start}, nil
		}
	}

	if c == ':' || isNameStart(l.src[l.off:]) {
		word := l.pname()
		if strings.Contains(word, ":") {
			return qtoken{kind: qPName, value: word, off: start}, nil
		}
		return qtoken{kind: qWord, value: word, off: start}, nil
	}

	return qtoken{}, l.errorf(start, "unexpected character %q", c)
}

// name reads a variable or blank node label.
func (l *queryLexer) name() string {
	begin := l.off
	for l.off < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.off:])
		if r != '_' && r != '-' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		l.off += size
	}
	return l.src[begin:l.off]
}

// pname reads a keyword or prefixed name. A trailing '.' terminates the
// triple and is not part of the name.
func (l *queryLexer) pname() string {
	begin := l.off
	for l.off < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.off:])
		if r != '_' && r != '-' && r != '.' && r != ':' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		l.off += size
	}
	for l.off > begin && l.src[l.off-1] == '.' {
		l.off--
	}
	return l.src[begin:l.off]
}

func (l *queryLexer) quoted(quote byte) (string, error) {
	start := l.off
	l.off++
	var sb strings.Builder
	for l.off < len(l.src) {
		c := l.src[l.off]
		switch {
		case c == quote:
			l.off++
			return sb.String(), nil
		case c == '\\' && l.off+1 < len(l.src):
			l.off++
			switch e := l.src[l.off]; e {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			default:
				sb.WriteByte(e)
			}
			l.off++
		case c == '\n':
			return "", l.errorf(start, "newline in string literal")
		default:
			sb.WriteByte(c)
			l.off++
		}
	}
	return "", l.errorf(start, "unterminated string literal")
}

func isNameStart(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLetter(r)
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

type queryParser struct {
	lex      *queryLexer
	tok      qtoken
	base     *url.URL
	prefixes map[string]string
}

// ParseQuery parses a SPARQL SELECT query. Supported: PREFIX and BASE
// declarations, SELECT [DISTINCT|REDUCED] with a variable list or '*', a
// group of triple patterns using the ';', ',' and 'a' shorthands, FILTER
// with =, !=, sameTerm, !, &&, || and bound, and LIMIT / OFFSET.
func ParseQuery(text string) (*Query, error) {
	p := &queryParser{
		lex:      &queryLexer{src: text},
		prefixes: map[string]string{},
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p.query()
}

func (p *queryParser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *queryParser) errorf(format string, args ...any) error {
	return &QueryError{Offset: p.tok.off, Msg: fmt.Sprintf(format, args...)}
}

func (p *queryParser) isWord(word string) bool {
	return p.tok.kind == qWord && strings.EqualFold(p.tok.value, word)
}

func (p *queryParser) isPunct(punct string) bool {
	return p.tok.kind == qPunct && p.tok.value == punct
}

func (p *queryParser) expectPunct(punct string) error {
	if !p.isPunct(punct) {
		return p.errorf("expected %q", punct)
	}
	return p.advance()
}

func (p *queryParser) query() (*Query, error) {
	if err := p.prologue(); err != nil {
		return nil, err
	}

	if !p.isWord("SELECT") {
		return nil, p.errorf("only SELECT queries are supported")
	}
	if err := p.advance(); err != nil {
		return nil, err
	}

	q := &Query{Limit: -1}
	if p.isWord("DISTINCT") || p.isWord("REDUCED") {
		q.Distinct = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	if p.isPunct("*") {
		if err := p.advance(); err != nil {
			return nil, err
		}
	} else {
		for p.tok.kind == qVar {
			q.Vars = append(q.Vars, p.tok.value)
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if len(q.Vars) == 0 {
			return nil, p.errorf("expected projection variables or '*'")
		}
	}

	if p.isWord("WHERE") {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if err := p.group(q); err != nil {
		return nil, err
	}

	for p.isWord("LIMIT") || p.isWord("OFFSET") {
		limit := p.isWord("LIMIT")
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.tok.kind != qNumber {
			return nil, p.errorf("expected a number")
		}
		n, err := strconv.Atoi(p.tok.value)
		if err != nil {
			return nil, p.errorf("invalid count %q", p.tok.value)
		}
		if limit {
			q.Limit = n
		} else {
			q.Offset = n
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
	}

	if p.tok.kind != qEOF {
		return nil, p.errorf("unexpected %q after query", p.tok.value)
	}
	return q, nil
}

func (p *queryParser) prologue() error {
	for {
		switch {
		case p.isWord("BASE"):
			if err := p.advance(); err != nil {
				return err
			}
			if p.tok.kind != qIRI {
				return p.errorf("BASE expects an IRI")
			}
			base, err := url.Parse(p.tok.value)
			if err != nil {
				return p.errorf("invalid BASE IRI: %v", err)
			}
			p.base = base
			if err := p.advance(); err != nil {
				return err
			}
		case p.isWord("PREFIX"):
			if err := p.advance(); err != nil {
				return err
			}
			if p.tok.kind != qPName || !strings.HasSuffix(p.tok.value, ":") {
				return p.errorf("PREFIX expects a prefix name ending in ':'")
			}
			prefix := strings.TrimSuffix(p.tok.value, ":")
			if err := p.advance(); err != nil {
				return err
			}
			if p.tok.kind != qIRI {
				return p.errorf("PREFIX expects an IRI")
			}
			p.prefixes[prefix] = p.resolve(p.tok.value)
			if err := p.advance(); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

func (p *queryParser) resolve(iri string) string {
	if p.base == nil {
		return iri
	}
	ref, err := url.Parse(iri)
	if err != nil || ref.IsAbs() {
		return iri
	}
	return p.base.ResolveReference(ref).String()
}

func (p *queryParser) group(q *Query) error {
	if err := p.expectPunct("{"); err != nil {
		return err
	}
	for {
		switch {
		case p.isPunct("}"):
			return p.advance()
		case p.isPunct("."):
			if err := p.advance(); err != nil {
				return err
			}
		case p.isWord("FILTER"):
			if err := p.advance(); err != nil {
				return err
			}
			e, err := p.constraint()
			if err != nil {
				return err
			}
			q.Filters = append(q.Filters, e)
		case p.tok.kind == qEOF:
			return p.errorf("unterminated group pattern")
		default:
			patterns, err := p.triples()
			if err != nil {
				return err
			}
			q.Patterns = append(q.Patterns, patterns...)
		}
	}
}

func (p *queryParser) triples() ([]Pattern, error) {
	subject, err := p.node(false)
	if err != nil {
		return nil, err
	}

	var out []Pattern
	for {
		verb, err := p.node(true)
		if err != nil {
			return nil, err
		}
		for {
			object, err := p.node(false)
			if err != nil {
				return nil, err
			}
			out = append(out, Pattern{Subject: subject, Predicate: verb, Object: object})
			if !p.isPunct(",") {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if !p.isPunct(";") {
			return out, nil
		}
		for p.isPunct(";") {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		if p.isPunct(".") || p.isPunct("}") {
			return out, nil
		}
	}
}

// node reads a pattern position. Blank node labels act as variables that
// are never projected.
func (p *queryParser) node(verb bool) (Node, error) {
	if verb && p.tok.kind == qWord && p.tok.value == "a" {
		return TermNode(IRI(RDFType)), p.advance()
	}
	switch p.tok.kind {
	case qVar:
		n := VarNode(p.tok.value)
		return n, p.advance()
	case qBlank:
		n := VarNode("_:" + p.tok.value)
		return n, p.advance()
	}
	t, err := p.term()
	if err != nil {
		return Node{}, err
	}
	if verb && !t.IsIRI() {
		return Node{}, p.errorf("predicate must be an IRI or variable")
	}
	return TermNode(t), nil
}

// term reads a constant: IRI, prefixed name, literal, number or boolean.
func (p *queryParser) term() (Term, error) {
	tok := p.tok
	switch tok.kind {
	case qIRI:
		return IRI(p.resolve(tok.value)), p.advance()
	case qPName:
		t, err := p.expand(tok.value)
		if err != nil {
			return Term{}, err
		}
		return t, p.advance()
	case qNumber:
		dt := XSDInteger
		if strings.Contains(tok.value, ".") {
			dt = XSDDecimal
		}
		return TypedLiteral(tok.value, dt), p.advance()
	case qWord:
		if strings.EqualFold(tok.value, "true") || strings.EqualFold(tok.value, "false") {
			return TypedLiteral(strings.ToLower(tok.value), XSDBoolean), p.advance()
		}
		return Term{}, p.errorf("unexpected keyword %q", tok.value)
	case qString:
		if err := p.advance(); err != nil {
			return Term{}, err
		}
		if tok.lang != "" {
			return LangLiteral(tok.value, tok.lang), nil
		}
		if p.isPunct("^^") {
			if err := p.advance(); err != nil {
				return Term{}, err
			}
			dt, err := p.term()
			if err != nil {
				return Term{}, err
			}
			if !dt.IsIRI() {
				return Term{}, p.errorf("datatype must be an IRI")
			}
			return TypedLiteral(tok.value, dt.Value), nil
		}
		return Literal(tok.value), nil
	case qEOF:
		return Term{}, p.errorf("unexpected end of query")
	default:
		return Term{}, p.errorf("unexpected %q", tok.value)
	}
}

func (p *queryParser) expand(pname string) (Term, error) {
	prefix, local, _ := strings.Cut(pname, ":")
	ns, ok := p.prefixes[prefix]
	if !ok {
		return Term{}, p.errorf("undeclared prefix %q", prefix)
	}
	return IRI(ns + local), nil
}

// constraint reads a FILTER argument: a bracketted expression or a
// built-in call.
func (p *queryParser) constraint() (Expr, error) {
	if p.isPunct("(") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.or()
		if err != nil {
			return nil, err
		}
		return e, p.expectPunct(")")
	}
	if p.isWord("bound") || p.isWord("sameTerm") {
		return p.primary()
	}
	return nil, p.errorf("FILTER expects '(' or a built-in call")
}

func (p *queryParser) or() (Expr, error) {
	left, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.isPunct("||") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		left = orExpr{left, right}
	}
	return left, nil
}

func (p *queryParser) and() (Expr, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.isPunct("&&") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = andExpr{left, right}
	}
	return left, nil
}

func (p *queryParser) unary() (Expr, error) {
	if p.isPunct("!") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		inner, err := p.unary()
		if err != nil {
			return nil, err
		}
		return notExpr{inner}, nil
	}

	left, err := p.primary()
	if err != nil {
		return nil, err
	}
	if p.isPunct("=") || p.isPunct("!=") {
		negate := p.isPunct("!=")
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.primary()
		if err != nil {
			return nil, err
		}
		return equalExpr{left: left, right: right, negate: negate}, nil
	}
	return left, nil
}

func (p *queryParser) primary() (Expr, error) {
	switch {
	case p.isPunct("("):
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.or()
		if err != nil {
			return nil, err
		}
		return e, p.expectPunct(")")
	case p.tok.kind == qVar:
		e := varExpr(p.tok.value)
		return e, p.advance()
	case p.isWord("bound"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}
		if p.tok.kind != qVar {
			return nil, p.errorf("bound expects a variable")
		}
		e := boundExpr(p.tok.value)
		if err := p.advance(); err != nil {
			return nil, err
		}
		return e, p.expectPunct(")")
	case p.isWord("sameTerm"):
		if err := p.advance(); err != nil {
			return nil, err
		}
		if err := p.expectPunct("("); err != nil {
			return nil, err
		}
		left, err := p.or()
		if err != nil {
			return nil, err
		}
		if err := p.expectPunct(","); err != nil {
			return nil, err
		}
		right, err := p.or()
		if err != nil {
			return nil, err
		}
		return equalExpr{left: left, right: right}, p.expectPunct(")")
	default:
		t, err := p.term()
		if err != nil {
			return nil, err
		}
		return constExpr{t}, nil
	}
}
