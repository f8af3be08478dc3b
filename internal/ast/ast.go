// Package ast holds the expression tree handed to the code generator
package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Expr is any parsed expression
type Expr interface {
	fmt.Stringer
	expr()
}

type (
	Number     int64
	Boolean    bool
	Char       byte
	Str        string
	Identifier string
	Symbol     string // quoted name, 'foo
	Nil        struct{}

	// List is an application: the head names the operator
	List []Expr
)

func (Number) expr()     {}
func (Boolean) expr()    {}
func (Char) expr()       {}
func (Str) expr()        {}
func (Identifier) expr() {}
func (Symbol) expr()     {}
func (Nil) expr()        {}
func (List) expr()       {}

func (n Number) String() string { return strconv.FormatInt(int64(n), 10) }

func (b Boolean) String() string {
	if b {
		return "#t"
	}
	return "#f"
}

var charNames = map[byte]string{
	'\t': "tab",
	'\n': "newline",
	'\r': "return",
	' ':  "space",
}

func (c Char) String() string {
	if name, ok := charNames[byte(c)]; ok {
		return `#\` + name
	}
	return `#\` + string(rune(c))
}

func (s Str) String() string        { return strconv.Quote(string(s)) }
func (i Identifier) String() string { return string(i) }
func (s Symbol) String() string     { return "'" + string(s) }
func (Nil) String() string          { return "()" }

func (l List) String() string {
	parts := make([]string, len(l))
	for i, e := range l {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// Head returns the operator name of an application, if it has one
func (l List) Head() (string, bool) {
	if len(l) == 0 {
		return "", false
	}
	id, ok := l[0].(Identifier)
	return string(id), ok
}

// Args returns the operands of an application
func (l List) Args() []Expr {
	if len(l) == 0 {
		return nil
	}
	return l[1:]
}
