package compiler

import (
	"encoding/binary"
	"fmt"

	"github.com/xyproto/inc/internal/ast"
	"github.com/xyproto/inc/internal/immediate"
	"github.com/xyproto/inc/internal/rt"
	"github.com/xyproto/inc/internal/x86"
)

// The allocation cursor lives in r12 while generated code runs
var heap = x86.Reg(x86.R12)

// Eval generates code that leaves the tagged value of x in rax.
// x must have passed check; unknown forms are a compiler bug.
func Eval(s *State, x ast.Expr) x86.ASM {
	switch e := x.(type) {
	case ast.Number:
		return load(immediate.N(int64(e)))
	case ast.Boolean:
		return load(immediate.Bool(bool(e)))
	case ast.Char:
		return load(immediate.Char(byte(e)))
	case ast.Nil:
		return load(immediate.NIL)
	case ast.Str:
		return stringLiteral(string(e))
	case ast.Symbol:
		return symbolLiteral(s, e)
	case ast.List:
		name, _ := e.Head()
		args := e.Args()
		if p, ok := LookupPrim(name); ok {
			return p.Emit(s, args)
		}
		switch name {
		case "cons":
			return cons(s, args[0], args[1])
		case "vector":
			return vector(s, args)
		}
		if n, ok := rt.Lookup(name); ok {
			return call(s, n, args)
		}
	}
	panic(fmt.Sprintf("compiler: cannot generate code for %s", x))
}

// Mask keeps only the tag bits of rax
func Mask() x86.ASM {
	return x86.Seq(x86.And(rax, x86.Const(immediate.MASK)))
}

func load(v immediate.Value) x86.ASM {
	return x86.Seq(x86.Mov(rax, x86.Const(v)))
}

// spill evaluates each expression into consecutive slots starting at the
// cursor and returns the slots. The cursor is back where it started when
// spill returns, so the slots are only safe until the caller evaluates
// anything else.
func spill(s *State, exprs []ast.Expr) (x86.ASM, []int64) {
	var asm x86.ASM
	slots := make([]int64, len(exprs))
	for i, e := range exprs {
		asm = x86.Concat(asm, Eval(s, e))
		slots[i] = s.slot()
		asm = asm.Then(x86.Save(x86.RAX, slots[i]))
		s.enter()
	}
	for range exprs {
		s.leave()
	}
	return asm, slots
}

// box tags the object at the cursor in rax and bumps the cursor by size bytes
func box(tag immediate.Value, size int64) x86.ASM {
	return x86.Seq(
		x86.Mov(rax, heap),
		x86.Or(rax, x86.Const(tag)),
		x86.Add(heap, x86.Const(align(size))),
	)
}

func align(n int64) int64 {
	const w = immediate.WORDSIZE
	return (n + w - 1) &^ (w - 1)
}

// cons allocates a pair. Both halves are evaluated before anything is
// written at the cursor, since either may allocate.
func cons(s *State, car, cdr ast.Expr) x86.ASM {
	asm, slot := binop(s, car, cdr)
	return x86.Concat(asm, x86.Seq(
		x86.Mov(x86.Mem(x86.R12, immediate.WORDSIZE), rax),
		x86.Load(x86.RAX, slot),
		x86.Mov(x86.Mem(x86.R12, 0), rax),
	), box(immediate.PAIR, 2*immediate.WORDSIZE))
}

// vector allocates a vector holding the values of elems
func vector(s *State, elems []ast.Expr) x86.ASM {
	asm, slots := spill(s, elems)
	asm = asm.Then(
		x86.Mov(rax, x86.Const(int64(len(elems)))),
		x86.Mov(x86.Mem(x86.R12, 0), rax),
	)
	for i, slot := range slots {
		asm = asm.Then(
			x86.Load(x86.RAX, slot),
			x86.Mov(x86.Mem(x86.R12, int64(i+1)*immediate.WORDSIZE), rax),
		)
	}
	return x86.Concat(asm, box(immediate.VEC, int64(len(elems)+1)*immediate.WORDSIZE))
}

// stringLiteral writes the length word and the bytes, eight at a time, at
// the cursor
func stringLiteral(str string) x86.ASM {
	asm := x86.Seq(
		x86.Mov(rax, x86.Const(int64(len(str)))),
		x86.Mov(x86.Mem(x86.R12, 0), rax),
	)
	for off := 0; off < len(str); off += immediate.WORDSIZE {
		var chunk [immediate.WORDSIZE]byte
		copy(chunk[:], str[off:])
		asm = asm.Then(
			x86.Mov(rax, x86.Const(int64(binary.LittleEndian.Uint64(chunk[:])))),
			x86.Mov(x86.Mem(x86.R12, int64(immediate.WORDSIZE+off)), rax),
		)
	}
	return x86.Concat(asm, box(immediate.STR, int64(immediate.WORDSIZE+len(str))))
}

// symbolLiteral builds the name as a string and interns it at run time, so
// every occurrence of a name yields the same symbol
func symbolLiteral(s *State, name ast.Symbol) x86.ASM {
	n, _ := rt.Lookup("string->symbol")
	return call(s, n, []ast.Expr{ast.Str(name)})
}

// call invokes a runtime native with the System V calling convention.
//
// The cursor is spilled to the runtime's global before the call and
// reloaded after it, so allocating natives bump the same cursor.
func call(s *State, n *rt.Native, args []ast.Expr) x86.ASM {
	asm, slots := spill(s, args)
	for i, slot := range slots {
		asm = asm.Then(x86.Mov(x86.Reg(x86.ArgRegisters[i]), x86.Stack(slot)))
	}
	for j, v := range n.Implicit {
		asm = asm.Then(x86.Mov(x86.Reg(x86.ArgRegisters[len(args)+j]), x86.Const(v)))
	}
	cursor := x86.Global(rt.HeapCursorSymbol)
	return asm.Then(
		x86.Mov(cursor, heap),
		x86.Call(n.Symbol),
		x86.Mov(heap, cursor),
	)
}
