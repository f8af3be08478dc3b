package ast

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrIncomplete is returned when the input ends inside an expression
var ErrIncomplete = errors.New("incomplete expression")

// Read parses every expression in src
func Read(src string) ([]Expr, error) {
	r := &reader{src: src}
	var exprs []Expr
	for {
		r.skipSpace()
		if r.eof() {
			return exprs, nil
		}
		e, err := r.read()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, e)
	}
}

// ReadOne parses exactly one expression
func ReadOne(src string) (Expr, error) {
	exprs, err := Read(src)
	if err != nil {
		return nil, err
	}
	if len(exprs) != 1 {
		return nil, fmt.Errorf("expected one expression, got %d", len(exprs))
	}
	return exprs[0], nil
}

type reader struct {
	src string
	pos int
}

func (r *reader) eof() bool { return r.pos >= len(r.src) }

func (r *reader) peek() byte { return r.src[r.pos] }

func (r *reader) skipSpace() {
	for !r.eof() {
		c := r.peek()
		switch {
		case c == ';':
			for !r.eof() && r.peek() != '\n' {
				r.pos++
			}
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			r.pos++
		default:
			return
		}
	}
}

func (r *reader) read() (Expr, error) {
	r.skipSpace()
	if r.eof() {
		return nil, ErrIncomplete
	}
	switch c := r.peek(); c {
	case '(':
		return r.readList()
	case ')':
		return nil, fmt.Errorf("unexpected %q at offset %d", c, r.pos)
	case '"':
		return r.readString()
	case '#':
		return r.readHash()
	case '\'':
		return r.readSymbol()
	}
	return r.readAtom()
}

func (r *reader) readList() (Expr, error) {
	r.pos++
	var list List
	for {
		r.skipSpace()
		if r.eof() {
			return nil, ErrIncomplete
		}
		if r.peek() == ')' {
			r.pos++
			break
		}
		e, err := r.read()
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	if len(list) == 0 {
		return Nil{}, nil
	}
	return list, nil
}

func (r *reader) readString() (Expr, error) {
	r.pos++ // opening quote
	var sb strings.Builder
	for {
		if r.eof() {
			return nil, ErrIncomplete
		}
		c := r.peek()
		r.pos++
		switch c {
		case '"':
			return Str(sb.String()), nil
		case '\\':
			if r.eof() {
				return nil, ErrIncomplete
			}
			e := r.peek()
			r.pos++
			switch e {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '\\', '"':
				sb.WriteByte(e)
			default:
				return nil, fmt.Errorf("unknown escape \\%c in string", e)
			}
		default:
			sb.WriteByte(c)
		}
	}
}

func (r *reader) readHash() (Expr, error) {
	tok := r.token()
	switch {
	case tok == "#t":
		return Boolean(true), nil
	case tok == "#f":
		return Boolean(false), nil
	case strings.HasPrefix(tok, `#\`):
		name := tok[2:]
		if name == "" {
			// #\ followed by a delimiter, e.g. #\( or #\)
			if r.eof() {
				return nil, ErrIncomplete
			}
			c := r.peek()
			r.pos++
			return Char(c), nil
		}
		if len(name) == 1 {
			return Char(name[0]), nil
		}
		for c, n := range charNames {
			if n == name {
				return Char(c), nil
			}
		}
		return nil, fmt.Errorf("unknown character name %q", name)
	}
	return nil, fmt.Errorf("bad syntax %q", tok)
}

// readSymbol reads a quoted name. Only symbols can be quoted.
func (r *reader) readSymbol() (Expr, error) {
	start := r.pos
	r.pos++
	tok := r.token()
	if tok == "" {
		if r.eof() {
			return nil, ErrIncomplete
		}
		return nil, fmt.Errorf("quote without a name at offset %d", start)
	}
	if _, err := strconv.ParseInt(tok, 10, 64); err == nil || tok[0] == '#' || tok[0] == '\'' {
		return nil, fmt.Errorf("only symbols can be quoted, got %q at offset %d", tok, start)
	}
	return Symbol(tok), nil
}

func (r *reader) readAtom() (Expr, error) {
	tok := r.token()
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return Number(n), nil
	}
	return Identifier(tok), nil
}

func (r *reader) token() string {
	start := r.pos
	for !r.eof() {
		c := r.peek()
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '(' || c == ')' || c == '"' || c == ';' {
			break
		}
		r.pos++
	}
	return r.src[start:r.pos]
}
