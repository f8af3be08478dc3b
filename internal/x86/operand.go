package x86

import "fmt"

// OperandKind says which of the Operand fields are meaningful
type OperandKind int

const (
	KindNone OperandKind = iota
	KindReg
	KindConst
	KindMem
	KindGlobal
)

// Operand is a register, an immediate, a memory location relative to a base
// register, or a RIP relative global
type Operand struct {
	Kind OperandKind
	Reg  Register // KindReg, or the base register for KindMem
	Imm  int64    // KindConst value, or the displacement for KindMem
	Sym  string   // KindGlobal
}

func Reg(r Register) Operand {
	return Operand{Kind: KindReg, Reg: r}
}

func Const(n int64) Operand {
	return Operand{Kind: KindConst, Imm: n}
}

// Mem addresses [base + disp]
func Mem(base Register, disp int64) Operand {
	return Operand{Kind: KindMem, Reg: base, Imm: disp}
}

// Stack addresses the scratch slot si bytes below the frame pointer
func Stack(si int64) Operand {
	return Mem(RBP, -si)
}

// Global addresses a named quadword relative to the instruction pointer
func Global(name string) Operand {
	return Operand{Kind: KindGlobal, Sym: name}
}

func (o Operand) IsMemory() bool {
	return o.Kind == KindMem || o.Kind == KindGlobal
}

func (o Operand) String() string {
	switch o.Kind {
	case KindReg:
		return o.Reg.Name
	case KindConst:
		return fmt.Sprintf("%d", o.Imm)
	case KindMem:
		switch {
		case o.Imm == 0:
			return fmt.Sprintf("qword ptr [%s]", o.Reg.Name)
		case o.Imm < 0:
			return fmt.Sprintf("qword ptr [%s - %d]", o.Reg.Name, -o.Imm)
		default:
			return fmt.Sprintf("qword ptr [%s + %d]", o.Reg.Name, o.Imm)
		}
	case KindGlobal:
		return fmt.Sprintf("qword ptr [rip + %s]", o.Sym)
	}
	return "<none>"
}
