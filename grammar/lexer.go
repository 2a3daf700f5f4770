// Package grammar tokenizes planning language text and reads it into an
// s-expression tree.
//
// The tree is a tagged union of *List, *Atom, *IRI and *String nodes, each
// carrying its source position. Comments start with ';' and run to the end
// of the line. IRIs are written between angle brackets.
package grammar

import (
	"errors"
	"fmt"
)

// ErrSyntax is matched by every *SyntaxError.
var ErrSyntax = errors.New("syntax error")

// SyntaxError reports a lexical or bracketing problem at a source position.
type SyntaxError struct {
	Pos Position
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at %s: %s", ErrSyntax, e.Pos, e.Msg)
}

// Unwrap allows errors.Is(err, ErrSyntax).
func (e *SyntaxError) Unwrap() error {
	return ErrSyntax
}

// Position is a location in the source text. Line and Column are 1-based.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// TokenKind classifies a lexical token.
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenOpen
	TokenClose
	TokenAtom
	TokenIRI
	TokenString
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"
	case TokenOpen:
		return "'('"
	case TokenClose:
		return "')'"
	case TokenAtom:
		return "atom"
	case TokenIRI:
		return "IRI"
	case TokenString:
		return "string"
	default:
		return fmt.Sprintf("TokenKind(%d)", int(k))
	}
}

// Token is one lexical unit. Value holds the atom text, the IRI without
// its brackets or the string without its quotes.
type Token struct {
	Kind  TokenKind
	Value string
	Pos   Position
}

// Lexer splits source text into tokens.
type Lexer struct {
	src  []byte
	off  int
	line int
	col  int
}

// NewLexer returns a lexer positioned at the start of src.
func NewLexer(src []byte) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

func (l *Lexer) pos() Position {
	return Position{Offset: l.off, Line: l.line, Column: l.col}
}

func (l *Lexer) advance() byte {
	c := l.src[l.off]
	l.off++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *Lexer) skipSpaceAndComments() {
	for l.off < len(l.src) {
		c := l.src[l.off]
		switch {
		case isSpace(c):
			l.advance()
		case c == ';':
			for l.off < len(l.src) && l.src[l.off] != '\n' {
				l.advance()
			}
		default:
			return
		}
	}
}

// Next returns the next token. At the end of input it returns a TokenEOF
// token and a nil error.
func (l *Lexer) Next() (Token, error) {
	l.skipSpaceAndComments()
	start := l.pos()
	if l.off >= len(l.src) {
		return Token{Kind: TokenEOF, Pos: start}, nil
	}

	switch c := l.src[l.off]; c {
	case '(':
		l.advance()
		return Token{Kind: TokenOpen, Value: "(", Pos: start}, nil
	case ')':
		l.advance()
		return Token{Kind: TokenClose, Value: ")", Pos: start}, nil
	case '<':
		if end, ok := l.iriEnd(); ok {
			l.advance()
			begin := l.off
			for l.off < end {
				l.advance()
			}
			value := string(l.src[begin:end])
			l.advance()
			return Token{Kind: TokenIRI, Value: value, Pos: start}, nil
		}
		return l.atom(start), nil
	case '"':
		l.advance()
		begin := l.off
		for l.off < len(l.src) && l.src[l.off] != '"' {
			if l.src[l.off] == '\\' && l.off+1 < len(l.src) {
				l.advance()
			}
			l.advance()
		}
		if l.off >= len(l.src) {
			return Token{}, &SyntaxError{Pos: start, Msg: "unterminated string"}
		}
		value := string(l.src[begin:l.off])
		l.advance()
		return Token{Kind: TokenString, Value: value, Pos: start}, nil
	default:
		return l.atom(start), nil
	}
}

func (l *Lexer) atom(start Position) Token {
	begin := l.off
	for l.off < len(l.src) && !isDelimiter(l.src[l.off]) {
		l.advance()
	}
	return Token{Kind: TokenAtom, Value: string(l.src[begin:l.off]), Pos: start}
}

// iriEnd reports the offset of the '>' closing an IRI that starts at the
// current '<'. Comparison operators such as '<' and '<=' are not IRIs.
func (l *Lexer) iriEnd() (int, bool) {
	for i := l.off + 1; i < len(l.src); i++ {
		c := l.src[i]
		if c == '>' {
			return i, i > l.off+1
		}
		if isDelimiter(c) || c == '<' {
			return 0, false
		}
	}
	return 0, false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDelimiter(c byte) bool {
	return isSpace(c) || c == '(' || c == ')' || c == ';' || c == '"'
}
