package compiler

import (
	"github.com/xyproto/inc/internal/ast"
	"github.com/xyproto/inc/internal/x86"
)

// Prim is one of the closed set of primitives the compiler open codes
type Prim int

const (
	PrimInc Prim = iota
	PrimDec
	PrimFixnumP
	PrimBooleanP
	PrimCharP
	PrimNullP
	PrimZeroP
	PrimNot
	PrimPlus
	PrimMinus
	PrimTimes
	PrimQuotient
	PrimRemainder
	PrimEq
	PrimLt
	PrimGt
	PrimLte
	PrimGte
)

type primitive struct {
	name   string
	unary  func(*State, ast.Expr) x86.ASM
	binary func(*State, ast.Expr, ast.Expr) x86.ASM
}

// Filled in by init: the emitters reach back into the table through Eval
var (
	primitives [PrimGte + 1]primitive
	primByName = make(map[string]Prim, len(primitives))
)

func init() {
	primitives = [...]primitive{
		PrimInc:       {name: "inc", unary: Inc},
		PrimDec:       {name: "dec", unary: Dec},
		PrimFixnumP:   {name: "fixnum?", unary: FixnumP},
		PrimBooleanP:  {name: "boolean?", unary: BooleanP},
		PrimCharP:     {name: "char?", unary: CharP},
		PrimNullP:     {name: "null?", unary: NullP},
		PrimZeroP:     {name: "zero?", unary: ZeroP},
		PrimNot:       {name: "not", unary: Not},
		PrimPlus:      {name: "+", binary: Plus},
		PrimMinus:     {name: "-", binary: Minus},
		PrimTimes:     {name: "*", binary: Times},
		PrimQuotient:  {name: "quotient", binary: Quotient},
		PrimRemainder: {name: "remainder", binary: Remainder},
		PrimEq:        {name: "=", binary: Eq},
		PrimLt:        {name: "<", binary: Lt},
		PrimGt:        {name: ">", binary: Gt},
		PrimLte:       {name: "<=", binary: Lte},
		PrimGte:       {name: ">=", binary: Gte},
	}
	for i, p := range primitives {
		primByName[p.name] = Prim(i)
	}
}

// LookupPrim finds a primitive by its Scheme name
func LookupPrim(name string) (Prim, bool) {
	p, ok := primByName[name]
	return p, ok
}

func (p Prim) String() string {
	return primitives[p].name
}

// Arity is 1 for unary and 2 for binary primitives
func (p Prim) Arity() int {
	if primitives[p].unary != nil {
		return 1
	}
	return 2
}

// Emit generates code for p applied to args. The argument count must match
// Arity.
func (p Prim) Emit(s *State, args []ast.Expr) x86.ASM {
	if p.Arity() == 1 {
		return primitives[p].unary(s, args[0])
	}
	return primitives[p].binary(s, args[0], args[1])
}
