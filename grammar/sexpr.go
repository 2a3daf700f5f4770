package grammar

import "strings"

// Node is an element of the s-expression tree.
type Node interface {
	// Pos returns the position of the node's first character.
	Pos() Position

	// Text returns the canonical flattened rendering of the node: single
	// spaces between list elements and no padding inside parentheses.
	Text() string

	isNode()
}

// List is a parenthesised sequence of nodes.
type List struct {
	Start Position
	Items []Node
}

// Atom is a bare token such as a name, keyword, variable or number.
type Atom struct {
	At    Position
	Value string
}

// IRI is a bracketed resource identifier. Value excludes the brackets.
type IRI struct {
	At    Position
	Value string
}

// String is a double-quoted literal. Value excludes the quotes and keeps
// escape sequences as written.
type String struct {
	At    Position
	Value string
}

func (l *List) Pos() Position   { return l.Start }
func (a *Atom) Pos() Position   { return a.At }
func (i *IRI) Pos() Position    { return i.At }
func (s *String) Pos() Position { return s.At }

func (l *List) isNode()   {}
func (a *Atom) isNode()   {}
func (i *IRI) isNode()    {}
func (s *String) isNode() {}

func (l *List) Text() string {
	var b strings.Builder
	l.write(&b)
	return b.String()
}

func (l *List) write(b *strings.Builder) {
	b.WriteByte('(')
	for i, item := range l.Items {
		if i > 0 {
			b.WriteByte(' ')
		}
		if sub, ok := item.(*List); ok {
			sub.write(b)
		} else {
			b.WriteString(item.Text())
		}
	}
	b.WriteByte(')')
}

func (a *Atom) Text() string   { return a.Value }
func (i *IRI) Text() string    { return "<" + i.Value + ">" }
func (s *String) Text() string { return `"` + s.Value + `"` }

// Len returns the number of items in the list.
func (l *List) Len() int { return len(l.Items) }

// Head returns the first item's value when it is an atom.
func (l *List) Head() (string, bool) {
	if len(l.Items) == 0 {
		return "", false
	}
	a, ok := l.Items[0].(*Atom)
	if !ok {
		return "", false
	}
	return a.Value, true
}

// Tail returns the items after the head.
func (l *List) Tail() []Node {
	if len(l.Items) == 0 {
		return nil
	}
	return l.Items[1:]
}

// Read parses src into its top-level nodes.
func Read(src []byte) ([]Node, error) {
	lex := NewLexer(src)
	var stack []*List
	var top []Node

	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, err
		}

		var node Node
		switch tok.Kind {
		case TokenEOF:
			if len(stack) > 0 {
				return nil, &SyntaxError{Pos: stack[len(stack)-1].Start, Msg: "unclosed '('"}
			}
			return top, nil
		case TokenOpen:
			stack = append(stack, &List{Start: tok.Pos})
			continue
		case TokenClose:
			if len(stack) == 0 {
				return nil, &SyntaxError{Pos: tok.Pos, Msg: "unexpected ')'"}
			}
			node = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
		case TokenAtom:
			node = &Atom{At: tok.Pos, Value: tok.Value}
		case TokenIRI:
			node = &IRI{At: tok.Pos, Value: tok.Value}
		case TokenString:
			node = &String{At: tok.Pos, Value: tok.Value}
		}

		if len(stack) == 0 {
			top = append(top, node)
		} else {
			parent := stack[len(stack)-1]
			parent.Items = append(parent.Items, node)
		}
	}
}

// ReadOne parses src, which must hold exactly one top-level node.
func ReadOne(src []byte) (Node, error) {
	nodes, err := Read(src)
	if err != nil {
		return nil, err
	}
	switch len(nodes) {
	case 0:
		return nil, &SyntaxError{Pos: Position{Line: 1, Column: 1}, Msg: "empty input"}
	case 1:
		return nodes[0], nil
	default:
		return nil, &SyntaxError{Pos: nodes[1].Pos(), Msg: "unexpected content after expression"}
	}
}

// Flatten returns the canonical rendering of text read as s-expressions,
// with top-level nodes separated by single spaces.
func Flatten(src string) (string, error) {
	nodes, err := Read([]byte(src))
	if err != nil {
		return "", err
	}
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.Text()
	}
	return strings.Join(parts, " "), nil
}
