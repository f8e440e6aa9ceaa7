package sexpr

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// ErrSyntax is wrapped by every parse error.
var ErrSyntax = errors.New("sexpr: syntax error")

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokOpen
	tokClose
	tokSymbol
	tokString
)

type token struct {
	kind  tokenKind
	value string
	line  int
}

type lexer struct {
	r      *bufio.Reader
	line   int
	peeked rune
	has    bool
}

func (l *lexer) peek() (rune, error) {
	if l.has {
		return l.peeked, nil
	}
	ch, _, err := l.r.ReadRune()
	if err != nil {
		return 0, err
	}
	l.peeked, l.has = ch, true
	return ch, nil
}

func (l *lexer) read() (rune, error) {
	ch, err := l.peek()
	if err != nil {
		return 0, err
	}
	l.has = false
	if ch == '\n' {
		l.line++
	}
	return ch, nil
}

func (l *lexer) next() (token, error) {
	for {
		ch, err := l.peek()
		if err == io.EOF {
			return token{kind: tokEOF, line: l.line}, nil
		}
		if err != nil {
			return token{}, err
		}
		if !unicode.IsSpace(ch) {
			break
		}
		l.read()
	}

	ch, _ := l.peek()
	line := l.line
	switch ch {
	case '(':
		l.read()
		return token{kind: tokOpen, line: line}, nil
	case ')':
		l.read()
		return token{kind: tokClose, line: line}, nil
	case '"':
		s, err := l.quoted()
		return token{kind: tokString, value: s, line: line}, err
	}
	return token{kind: tokSymbol, value: l.symbol(), line: line}, nil
}

// quoted reads a string token and decodes Go escape sequences. When the
// token is not a valid Go literal only \n and \t are decoded and any other
// backslash is dropped.
func (l *lexer) quoted() (string, error) {
	l.read()
	var raw strings.Builder
	for {
		ch, err := l.read()
		if err != nil {
			return "", fmt.Errorf("%w: line %d: unterminated string", ErrSyntax, l.line+1)
		}
		switch ch {
		case '"':
			if s, err := strconv.Unquote(`"` + raw.String() + `"`); err == nil {
				return s, nil
			}
			return unescape(raw.String()), nil
		case '\\':
			next, err := l.read()
			if err != nil {
				return "", fmt.Errorf("%w: line %d: unterminated escape", ErrSyntax, l.line+1)
			}
			raw.WriteRune(ch)
			raw.WriteRune(next)
		default:
			raw.WriteRune(ch)
		}
	}
}

func unescape(raw string) string {
	var b strings.Builder
	escaped := false
	for _, ch := range raw {
		if !escaped && ch == '\\' {
			escaped = true
			continue
		}
		if escaped {
			switch ch {
			case 'n':
				ch = '\n'
			case 't':
				ch = '\t'
			}
			escaped = false
		}
		b.WriteRune(ch)
	}
	return b.String()
}

func (l *lexer) symbol() string {
	var b strings.Builder
	for {
		ch, err := l.peek()
		if err != nil || unicode.IsSpace(ch) || ch == '(' || ch == ')' || ch == '"' {
			return b.String()
		}
		l.read()
		b.WriteRune(ch)
	}
}

// Parser reads top-level expressions one at a time.
type Parser struct {
	lex lexer
}

// NewParser returns a parser reading from r.
func NewParser(r io.Reader) *Parser {
	return &Parser{lex: lexer{r: bufio.NewReader(r)}}
}

// Next returns the next top-level expression, or io.EOF when the input is
// exhausted.
func (p *Parser) Next() (Sexp, error) {
	tok, err := p.lex.next()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokEOF {
		return nil, io.EOF
	}
	return p.expr(tok)
}

func (p *Parser) expr(tok token) (Sexp, error) {
	switch tok.kind {
	case tokSymbol:
		return &Atom{Value: tok.value, line: tok.line + 1}, nil
	case tokString:
		return &Atom{Value: tok.value, Quoted: true, line: tok.line + 1}, nil
	case tokClose:
		return nil, fmt.Errorf("%w: line %d: unexpected ')'", ErrSyntax, tok.line+1)
	case tokOpen:
		list := &List{line: tok.line + 1}
		for {
			t, err := p.lex.next()
			if err != nil {
				return nil, err
			}
			switch t.kind {
			case tokClose:
				return list, nil
			case tokEOF:
				return nil, fmt.Errorf("%w: line %d: unclosed list", ErrSyntax, list.line)
			}
			item, err := p.expr(t)
			if err != nil {
				return nil, err
			}
			list.Items = append(list.Items, item)
		}
	}
	return nil, fmt.Errorf("%w: line %d: unexpected end of input", ErrSyntax, tok.line+1)
}

// ParseAll reads every top-level expression from r.
func ParseAll(r io.Reader) ([]Sexp, error) {
	p := NewParser(r)
	var out []Sexp
	for {
		s, err := p.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
}

// ParseString is ParseAll over a string.
func ParseString(s string) ([]Sexp, error) {
	return ParseAll(strings.NewReader(s))
}
