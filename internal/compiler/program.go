package compiler

import (
	"fmt"
	"os"
	"strings"

	"github.com/xyproto/inc/internal/ast"
	"github.com/xyproto/inc/internal/immediate"
	"github.com/xyproto/inc/internal/rt"
	"github.com/xyproto/inc/internal/x86"
)

// VerboseMode enables compilation diagnostics on stderr
var VerboseMode bool

// DefaultEntry is the symbol the generated function is exported as
const DefaultEntry = "scheme_entry"

const (
	maxFixnum = int64(1<<(63-immediate.SHIFT)) - 1
	minFixnum = -maxFixnum - 1
)

// Program is a compiled expression
type Program struct {
	Entry string
	Body  x86.ASM // leaves the result in rax
	Frame int64   // bytes of scratch slots below rbp
}

// Compile checks x and generates code for it
func Compile(x ast.Expr) (*Program, error) {
	if err := check(x); err != nil {
		return nil, err
	}
	s := NewState()
	body := Eval(s, x)
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "compile %s: %d instructions, %d byte frame\n", x, len(body), s.FrameSize())
	}
	return &Program{Entry: DefaultEntry, Body: body, Frame: s.FrameSize()}, nil
}

// check rejects everything Eval cannot generate code for
func check(x ast.Expr) error {
	switch e := x.(type) {
	case ast.Number:
		if int64(e) > maxFixnum || int64(e) < minFixnum {
			return fmt.Errorf("integer %d does not fit in a fixnum", int64(e))
		}
		return nil
	case ast.Boolean, ast.Char, ast.Nil, ast.Str, ast.Symbol:
		return nil
	case ast.Identifier:
		return fmt.Errorf("unbound variable %s", e)
	case ast.List:
		name, ok := e.Head()
		if !ok {
			return fmt.Errorf("not a procedure application: %s", e)
		}
		args := e.Args()
		for _, a := range args {
			if err := check(a); err != nil {
				return err
			}
		}
		arity := -1
		if p, ok := LookupPrim(name); ok {
			arity = p.Arity()
		} else if n, ok := rt.Lookup(name); ok {
			arity = n.Arity
			if len(args)+len(n.Implicit) > len(x86.ArgRegisters) {
				return fmt.Errorf("%s: too many arguments for a register call", name)
			}
		} else {
			switch name {
			case "cons":
				arity = 2
			case "vector":
				return nil
			default:
				if similar := suggest(name, 2); len(similar) > 0 {
					return fmt.Errorf("unknown primitive %s (did you mean %s?)", name, strings.Join(similar, " or "))
				}
				return fmt.Errorf("unknown primitive %s", name)
			}
		}
		if len(args) != arity {
			return fmt.Errorf("%s expects %d argument(s), got %d", name, arity, len(args))
		}
		return nil
	}
	return fmt.Errorf("unsupported expression %s", x)
}

// frameBytes rounds the frame so rsp stays 16 byte aligned at call sites.
// rbp sits 8 bytes off alignment after pushing rbp and r12.
func (p *Program) frameBytes() int64 {
	return (p.Frame+8+15)&^15 - 8
}

// ASM wraps the body in the entry function.
//
// The caller passes the heap base in rdi. The final cursor is written to the
// runtime's global before returning so the caller can keep allocating.
func (p *Program) ASM() x86.ASM {
	cursor := x86.Global(rt.HeapCursorSymbol)
	prologue := x86.Seq(
		x86.Label(p.Entry),
		x86.Push(x86.RBP),
		x86.Push(x86.R12),
		x86.Mov(x86.Reg(x86.RBP), x86.Reg(x86.RSP)),
		x86.Sub(x86.Reg(x86.RSP), x86.Const(p.frameBytes())),
		x86.Mov(heap, x86.Reg(x86.RDI)),
	)
	epilogue := x86.Seq(
		x86.Mov(cursor, heap),
		x86.Mov(x86.Reg(x86.RSP), x86.Reg(x86.RBP)),
		x86.Pop(x86.R12),
		x86.Pop(x86.RBP),
		x86.Ret(),
	)
	return x86.Concat(prologue, p.Body, epilogue)
}

// String renders a complete assembly file for the GNU assembler
func (p *Program) String() string {
	var sb strings.Builder
	sb.WriteString("    .intel_syntax noprefix\n")
	sb.WriteString("    .text\n")
	fmt.Fprintf(&sb, "    .globl %s\n", p.Entry)
	fmt.Fprintf(&sb, "    .type %s, @function\n", p.Entry)
	for _, sym := range append(rt.Symbols(), rt.HeapCursorSymbol) {
		fmt.Fprintf(&sb, "    .extern %s\n", sym)
	}
	sb.WriteString(p.ASM().String())
	return sb.String()
}
