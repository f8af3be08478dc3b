// Completion: 95% - Executes the instruction subset the compiler emits
package machine

// Machine executes instruction sequences directly, without an assembler.
//
// Registers are plain words, the stack is a private region below StackTop,
// and every other address is resolved through the runtime heap, so objects
// built by generated code and by natives live in the same region. Calls are
// dispatched to runtime natives by link symbol.

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"os"
	"strings"

	"github.com/xyproto/inc/internal/immediate"
	"github.com/xyproto/inc/internal/rt"
	"github.com/xyproto/inc/internal/x86"
)

// VerboseMode traces every executed instruction to stderr
var VerboseMode bool

// StackTop is the initial value of rsp and rbp
const StackTop uint64 = 0x7fff0000

// poison is written to caller saved registers after native calls
const poison uint64 = 0xdeadbeefdeadbeef

type Machine struct {
	rt    *rt.Runtime
	regs  [16]uint64
	stack []byte

	cmpA, cmpB int64
	flags      bool

	Steps int
}

// New creates a machine for runtime with a stack of stackSize bytes
func New(runtime *rt.Runtime, stackSize int) *Machine {
	return &Machine{
		rt:    runtime,
		stack: make([]byte, stackSize),
	}
}

func (m *Machine) Runtime() *rt.Runtime {
	return m.rt
}

// Run executes code and returns rax.
//
// The stack region is zeroed and r12 and rdi start at the heap cursor. If
// the code returns with ret it is responsible for publishing the cursor
// through the runtime global; if it falls off the end, the cursor is taken
// from r12.
func (m *Machine) Run(code x86.ASM) immediate.Value {
	h := m.rt.Heap()
	clear(m.stack)
	m.regs = [16]uint64{}
	m.regs[x86.RSP.Encoding] = StackTop
	m.regs[x86.RBP.Encoding] = StackTop
	m.regs[x86.R12.Encoding] = h.Next()
	m.regs[x86.RDI.Encoding] = h.Next()
	m.flags = false

	returned := false
	for _, ins := range code {
		m.Steps++
		if m.step(ins) {
			returned = true
			break
		}
		if VerboseMode && ins.Op != x86.OpLabel {
			fmt.Fprintf(os.Stderr, "%-48s rax=%#x\n", strings.TrimSpace(ins.String()), m.regs[0])
		}
	}
	if !returned {
		h.SetNext(m.regs[x86.R12.Encoding])
	}
	return immediate.Value(m.regs[x86.RAX.Encoding])
}

// Reg returns the full 64-bit register holding r
func (m *Machine) Reg(r x86.Register) uint64 {
	return m.regs[r.Encoding]
}

// step executes one instruction and reports whether it returned
func (m *Machine) step(ins x86.Ins) bool {
	switch ins.Op {
	case x86.OpLabel:
	case x86.OpMov:
		m.write(ins.Dst, m.read(ins.Src))
	case x86.OpAdd:
		m.write(ins.Dst, m.read(ins.Dst)+m.read(ins.Src))
	case x86.OpSub:
		m.write(ins.Dst, m.read(ins.Dst)-m.read(ins.Src))
	case x86.OpAnd:
		m.write(ins.Dst, m.read(ins.Dst)&m.read(ins.Src))
	case x86.OpOr:
		m.write(ins.Dst, m.read(ins.Dst)|m.read(ins.Src))
	case x86.OpSar:
		n := m.read(ins.Src) & 63
		m.write(ins.Dst, uint64(m.signed(ins.Dst)>>n))
	case x86.OpSal:
		n := m.read(ins.Src) & 63
		m.write(ins.Dst, m.read(ins.Dst)<<n)
	case x86.OpMul:
		hi, lo := bits.Mul64(m.regs[x86.RAX.Encoding], m.read(ins.Dst))
		m.regs[x86.RAX.Encoding] = lo
		m.regs[x86.RDX.Encoding] = hi
	case x86.OpCqo:
		m.regs[x86.RDX.Encoding] = uint64(int64(m.regs[x86.RAX.Encoding]) >> 63)
	case x86.OpIdiv:
		m.idiv(ins)
	case x86.OpCmp:
		m.cmpA, m.cmpB = m.signed(ins.Dst), m.signed(ins.Src)
		m.flags = true
	case x86.OpSet:
		if !m.flags {
			panic("machine: set" + ins.Cond.String() + " without a preceding cmp")
		}
		var b uint64
		if m.cond(ins.Cond) {
			b = 1
		}
		m.write(ins.Dst, b)
	case x86.OpMovzx:
		m.write(ins.Dst, m.read(ins.Src)&0xff)
	case x86.OpPush:
		m.regs[x86.RSP.Encoding] -= immediate.WORDSIZE
		m.store(m.regs[x86.RSP.Encoding], m.read(ins.Dst))
	case x86.OpPop:
		m.write(ins.Dst, m.load(m.regs[x86.RSP.Encoding]))
		m.regs[x86.RSP.Encoding] += immediate.WORDSIZE
	case x86.OpCall:
		m.call(ins.Name)
	case x86.OpRet:
		return true
	case x86.OpRaw:
		panic(fmt.Sprintf("machine: cannot execute raw assembly %q", strings.TrimSpace(ins.Text)))
	default:
		panic(fmt.Sprintf("machine: unsupported instruction %s", ins.Op))
	}
	return false
}

func (m *Machine) cond(c x86.Cond) bool {
	a, b := m.cmpA, m.cmpB
	switch c {
	case x86.CondE:
		return a == b
	case x86.CondNE:
		return a != b
	case x86.CondL:
		return a < b
	case x86.CondG:
		return a > b
	case x86.CondLE:
		return a <= b
	case x86.CondGE:
		return a >= b
	}
	panic("machine: unknown condition " + c.String())
}

// idiv divides rdx:rax by the operand, trapping like the hardware does on a
// zero divisor or a quotient that does not fit
func (m *Machine) idiv(ins x86.Ins) {
	dividend := int64(m.regs[x86.RAX.Encoding])
	if int64(m.regs[x86.RDX.Encoding]) != dividend>>63 {
		panic("machine: idiv dividend in rdx:rax is not a sign extended quadword")
	}
	divisor := m.signed(ins.Dst)
	if divisor == 0 || (divisor == -1 && dividend == -1<<63) {
		panic(&rt.Fault{Op: "idiv", Value: immediate.Value(divisor), Err: fmt.Errorf("divide error")})
	}
	m.regs[x86.RAX.Encoding] = uint64(dividend / divisor)
	m.regs[x86.RDX.Encoding] = uint64(dividend % divisor)
}

// call dispatches to a runtime native using the System V argument registers
func (m *Machine) call(symbol string) {
	n, ok := rt.LookupSymbol(symbol)
	if !ok {
		panic("machine: call to undefined symbol " + symbol)
	}
	args := make([]immediate.Value, n.Arity+len(n.Implicit))
	for i := range args {
		args[i] = immediate.Value(m.regs[x86.ArgRegisters[i].Encoding])
	}
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "call %s%v, heap cursor %#x\n", n.Symbol, args, m.rt.Heap().Next())
	}
	result := n.Fn(m.rt, args)
	for _, r := range []x86.Register{x86.RCX, x86.RDX, x86.RSI, x86.RDI} {
		m.regs[r.Encoding] = poison
	}
	for enc := 8; enc <= 11; enc++ {
		m.regs[enc] = poison
	}
	m.regs[x86.RAX.Encoding] = uint64(result)
}

// read returns the operand, zero extended to 64 bits
func (m *Machine) read(o x86.Operand) uint64 {
	switch o.Kind {
	case x86.KindReg:
		v := m.regs[o.Reg.Encoding]
		switch o.Reg.Size {
		case 8:
			return v & 0xff
		case 32:
			return v & 0xffffffff
		}
		return v
	case x86.KindConst:
		return uint64(o.Imm)
	case x86.KindMem:
		return m.load(m.address(o))
	case x86.KindGlobal:
		return m.global(o.Sym)
	}
	panic(fmt.Sprintf("machine: cannot read operand %s", o))
}

// signed reads the operand sign extended from its width
func (m *Machine) signed(o x86.Operand) int64 {
	v := m.read(o)
	if o.Kind == x86.KindReg {
		switch o.Reg.Size {
		case 8:
			return int64(int8(v))
		case 32:
			return int64(int32(v))
		}
	}
	return int64(v)
}

func (m *Machine) write(o x86.Operand, v uint64) {
	switch o.Kind {
	case x86.KindReg:
		r := &m.regs[o.Reg.Encoding]
		switch o.Reg.Size {
		case 8:
			*r = (*r &^ 0xff) | (v & 0xff)
		case 32:
			*r = v & 0xffffffff
		default:
			*r = v
		}
	case x86.KindMem:
		m.store(m.address(o), v)
	case x86.KindGlobal:
		if o.Sym != rt.HeapCursorSymbol {
			panic("machine: write to unknown global " + o.Sym)
		}
		m.rt.Heap().SetNext(v)
	default:
		panic(fmt.Sprintf("machine: cannot write operand %s", o))
	}
}

func (m *Machine) global(sym string) uint64 {
	if sym != rt.HeapCursorSymbol {
		panic("machine: read of unknown global " + sym)
	}
	return m.rt.Heap().Next()
}

func (m *Machine) address(o x86.Operand) uint64 {
	return m.regs[o.Reg.Encoding] + uint64(o.Imm)
}

// stackOffset maps addr into the stack region
func (m *Machine) stackOffset(addr uint64) (uint64, bool) {
	low := StackTop - uint64(len(m.stack))
	if addr >= low && addr+immediate.WORDSIZE <= StackTop {
		return addr - low, true
	}
	return 0, false
}

func (m *Machine) load(addr uint64) uint64 {
	if off, ok := m.stackOffset(addr); ok {
		return binary.LittleEndian.Uint64(m.stack[off:])
	}
	return uint64(m.rt.Heap().Word(addr))
}

func (m *Machine) store(addr, v uint64) {
	if off, ok := m.stackOffset(addr); ok {
		binary.LittleEndian.PutUint64(m.stack[off:], v)
		return
	}
	m.rt.Heap().SetWord(addr, int64(v))
}
