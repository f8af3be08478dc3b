// Completion: 100% - Instruction set used by the primitives is complete
package x86

import (
	"fmt"
	"strings"
)

// Op identifies an instruction
type Op int

const (
	OpMov Op = iota
	OpAdd
	OpSub
	OpAnd
	OpOr
	OpSar
	OpSal
	OpMul
	OpCqo
	OpIdiv
	OpCmp
	OpSet
	OpMovzx
	OpPush
	OpPop
	OpCall
	OpRet
	OpLabel
	OpRaw
)

var mnemonics = map[Op]string{
	OpMov:   "mov",
	OpAdd:   "add",
	OpSub:   "sub",
	OpAnd:   "and",
	OpOr:    "or",
	OpSar:   "sar",
	OpSal:   "sal",
	OpMul:   "mul",
	OpCqo:   "cqo",
	OpIdiv:  "idiv",
	OpCmp:   "cmp",
	OpMovzx: "movzx",
	OpPush:  "push",
	OpPop:   "pop",
	OpCall:  "call",
	OpRet:   "ret",
}

func (op Op) String() string {
	switch op {
	case OpSet:
		return "set"
	case OpLabel:
		return "label"
	case OpRaw:
		return "raw"
	}
	if m, ok := mnemonics[op]; ok {
		return m
	}
	return fmt.Sprintf("op(%d)", int(op))
}

// Cond is a condition code used by SETcc
type Cond int

const (
	CondE Cond = iota
	CondNE
	CondL
	CondG
	CondLE
	CondGE
)

func (c Cond) String() string {
	switch c {
	case CondE:
		return "e"
	case CondNE:
		return "ne"
	case CondL:
		return "l"
	case CondG:
		return "g"
	case CondLE:
		return "le"
	case CondGE:
		return "ge"
	}
	return "?"
}

// Ins is one instruction. Dst and Src are used by two operand forms, Dst
// alone by one operand forms. Name holds call targets and labels, Text holds
// raw assembly.
type Ins struct {
	Op   Op
	Dst  Operand
	Src  Operand
	Cond Cond
	Name string
	Text string
}

func Mov(dst, src Operand) Ins { return Ins{Op: OpMov, Dst: dst, Src: src} }
func Add(dst, src Operand) Ins { return Ins{Op: OpAdd, Dst: dst, Src: src} }
func Sub(dst, src Operand) Ins { return Ins{Op: OpSub, Dst: dst, Src: src} }
func And(dst, src Operand) Ins { return Ins{Op: OpAnd, Dst: dst, Src: src} }
func Or(dst, src Operand) Ins  { return Ins{Op: OpOr, Dst: dst, Src: src} }
func Cmp(a, b Operand) Ins     { return Ins{Op: OpCmp, Dst: a, Src: b} }

// Sar is an arithmetic (sign preserving) right shift of r by n bits
func Sar(r Register, n int64) Ins { return Ins{Op: OpSar, Dst: Reg(r), Src: Const(n)} }

// Sal shifts r left by n bits
func Sal(r Register, n int64) Ins { return Ins{Op: OpSal, Dst: Reg(r), Src: Const(n)} }

// Mul multiplies rax by src, leaving the low quadword of the product in rax
func Mul(src Operand) Ins { return Ins{Op: OpMul, Dst: src} }

// Cqo sign-extends rax into rdx:rax
func Cqo() Ins { return Ins{Op: OpCqo} }

// Idiv divides rdx:rax by src; quotient in rax, remainder in rdx
func Idiv(src Operand) Ins { return Ins{Op: OpIdiv, Dst: src} }

// Set writes 1 to the byte register r if cond holds, 0 otherwise
func Set(cond Cond, r Register) Ins { return Ins{Op: OpSet, Dst: Reg(r), Cond: cond} }

func Movzx(dst, src Register) Ins { return Ins{Op: OpMovzx, Dst: Reg(dst), Src: Reg(src)} }
func Push(r Register) Ins         { return Ins{Op: OpPush, Dst: Reg(r)} }
func Pop(r Register) Ins          { return Ins{Op: OpPop, Dst: Reg(r)} }
func Call(name string) Ins        { return Ins{Op: OpCall, Name: name} }
func Ret() Ins                    { return Ins{Op: OpRet} }
func Label(name string) Ins       { return Ins{Op: OpLabel, Name: name} }

// Raw is an escape hatch for text that has no structured form
func Raw(text string) Ins { return Ins{Op: OpRaw, Text: text} }

// Save stores r in the scratch slot si
func Save(r Register, si int64) Ins { return Mov(Stack(si), Reg(r)) }

// Load reads the scratch slot si into r
func Load(r Register, si int64) Ins { return Mov(Reg(r), Stack(si)) }

// String renders the instruction in Intel syntax, with a trailing newline
func (i Ins) String() string {
	switch i.Op {
	case OpLabel:
		return i.Name + ":\n"
	case OpRaw:
		if strings.HasSuffix(i.Text, "\n") {
			return i.Text
		}
		return i.Text + "\n"
	case OpCqo, OpRet:
		return fmt.Sprintf("    %s\n", i.Op)
	case OpCall:
		return fmt.Sprintf("    call %s\n", i.Name)
	case OpSet:
		return fmt.Sprintf("    set%s %s\n", i.Cond, i.Dst)
	case OpMul, OpIdiv, OpPush, OpPop:
		return fmt.Sprintf("    %s %s\n", i.Op, i.Dst)
	}
	return fmt.Sprintf("    %s %s, %s\n", i.Op, i.Dst, i.Src)
}
