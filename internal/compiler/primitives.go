// Completion: 100% - Unary and binary primitives complete
package compiler

// Scheme primitives implemented directly in the compiler.
//
// Every primitive leaves its result, tagged, in rax. No primitive checks the
// types of its operands; type safety is the caller's business at this tier.

import (
	"github.com/xyproto/inc/internal/ast"
	"github.com/xyproto/inc/internal/immediate"
	"github.com/xyproto/inc/internal/x86"
)

var rax = x86.Reg(x86.RAX)

// Unary primitives

// Inc adds one to a fixnum
func Inc(s *State, x ast.Expr) x86.ASM {
	return Eval(s, x).Then(x86.Add(rax, x86.Const(immediate.N(1))))
}

// Dec subtracts one from a fixnum
func Dec(s *State, x ast.Expr) x86.ASM {
	return Eval(s, x).Then(x86.Sub(rax, x86.Const(immediate.N(1))))
}

// FixnumP tests the tag for NUM.
//
//	(fixnum? 42) => #t
//	(fixnum? "hello") => #f
func FixnumP(s *State, x ast.Expr) x86.ASM {
	return x86.Concat(Eval(s, x), Mask(), compare(rax, x86.Const(immediate.NUM), x86.CondE))
}

func BooleanP(s *State, x ast.Expr) x86.ASM {
	return x86.Concat(Eval(s, x), Mask(), compare(rax, x86.Const(immediate.BOOL), x86.CondE))
}

func CharP(s *State, x ast.Expr) x86.ASM {
	return x86.Concat(Eval(s, x), Mask(), compare(rax, x86.Const(immediate.CHAR), x86.CondE))
}

// NullP compares the whole word; NIL has no payload, so no masking is needed
func NullP(s *State, x ast.Expr) x86.ASM {
	return x86.Concat(Eval(s, x), compare(rax, x86.Const(immediate.NIL), x86.CondE))
}

// ZeroP compares the unmasked word against the fixnum tag constant. This is
// the same word as an encoded zero only because the fixnum tag is zero.
func ZeroP(s *State, x ast.Expr) x86.ASM {
	return x86.Concat(Eval(s, x), compare(rax, x86.Const(immediate.NUM), x86.CondE))
}

// Not is #t for #f and #f for everything else
func Not(s *State, x ast.Expr) x86.ASM {
	return x86.Concat(Eval(s, x), compare(rax, x86.Const(immediate.FALSE), x86.CondE))
}

// Binary primitives

// binop evaluates x into the scratch slot at the cursor and y into rax.
// y is evaluated with the cursor moved past that slot.
func binop(s *State, x, y ast.Expr) (x86.ASM, int64) {
	first := Eval(s, x)
	slot := s.slot()
	s.enter()
	second := Eval(s, y)
	s.leave()
	return x86.Concat(first, x86.Seq(x86.Save(x86.RAX, slot)), second), slot
}

// Plus adds two fixnums. The tags are zero, so the sum is already encoded.
func Plus(s *State, x, y ast.Expr) x86.ASM {
	asm, slot := binop(s, x, y)
	return asm.Then(x86.Add(rax, x86.Stack(slot)))
}

// Minus computes x - y.
//
// sub subtracts its second operand from its first, and x lives in the stack
// slot. Subtract rax from the slot in place and load the difference back
// rather than shuffling registers.
func Minus(s *State, x, y ast.Expr) x86.ASM {
	asm, slot := binop(s, x, y)
	return asm.Then(
		x86.Sub(x86.Stack(slot), rax),
		x86.Load(x86.RAX, slot),
	)
}

// Times multiplies two fixnums. Only one operand is untagged before the
// multiply, so the product comes out shifted exactly once.
func Times(s *State, x, y ast.Expr) x86.ASM {
	asm, slot := binop(s, x, y)
	return asm.Then(
		x86.Sar(x86.RAX, immediate.SHIFT),
		x86.Mul(x86.Stack(slot)),
	)
}

// div leaves the quotient of x and y in rax and the remainder in rdx, both
// untagged.
//
// idiv divides rdx:rax by its operand, so the dividend is sign extended with
// cqo after untagging; the shift must be arithmetic for negative operands.
// The divisor goes to rcx, the dividend is reloaded from the slot.
func div(s *State, x, y ast.Expr) x86.ASM {
	asm, slot := binop(s, x, y)
	return asm.Then(
		x86.Sar(x86.RAX, immediate.SHIFT),
		x86.Mov(x86.Reg(x86.RCX), rax),
		x86.Load(x86.RAX, slot),
		x86.Sar(x86.RAX, immediate.SHIFT),
		x86.Cqo(),
		x86.Idiv(x86.Reg(x86.RCX)),
	)
}

// Quotient truncates towards zero
func Quotient(s *State, x, y ast.Expr) x86.ASM {
	return div(s, x, y).Then(x86.Sal(x86.RAX, immediate.SHIFT))
}

// Remainder has the sign of the dividend
func Remainder(s *State, x, y ast.Expr) x86.ASM {
	return div(s, x, y).Then(
		x86.Mov(rax, x86.Reg(x86.RDX)),
		x86.Sal(x86.RAX, immediate.SHIFT),
	)
}

// compare materializes a condition as a tagged boolean in rax.
//
// setcc writes 0 or 1 to al from the flags left by cmp, movzx clears the
// rest of rax, and the bit is then shifted into the payload and tagged.
func compare(a, b x86.Operand, cond x86.Cond) x86.ASM {
	al := x86.Reg(x86.AL)
	return x86.Seq(
		x86.Cmp(a, b),
		x86.Set(cond, x86.AL),
		x86.Movzx(x86.RAX, x86.AL),
		x86.Sal(x86.AL, immediate.SHIFT),
		x86.Or(al, x86.Const(immediate.BOOL)),
	)
}

func comparison(cond x86.Cond) func(*State, ast.Expr, ast.Expr) x86.ASM {
	return func(s *State, x, y ast.Expr) x86.ASM {
		asm, slot := binop(s, x, y)
		return x86.Concat(asm, compare(x86.Stack(slot), rax, cond))
	}
}

// Eq is true only for bit identical operands
func Eq(s *State, x, y ast.Expr) x86.ASM  { return comparison(x86.CondE)(s, x, y) }
func Lt(s *State, x, y ast.Expr) x86.ASM  { return comparison(x86.CondL)(s, x, y) }
func Gt(s *State, x, y ast.Expr) x86.ASM  { return comparison(x86.CondG)(s, x, y) }
func Lte(s *State, x, y ast.Expr) x86.ASM { return comparison(x86.CondLE)(s, x, y) }
func Gte(s *State, x, y ast.Expr) x86.ASM { return comparison(x86.CondGE)(s, x, y) }
