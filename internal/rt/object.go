package rt

import (
	"bufio"
	"io"
	"os"

	"github.com/xyproto/inc/internal/immediate"
)

// Object layouts, all relative to the untagged address:
//
//	pair    [car][cdr]
//	string  [length][bytes...]
//	symbol  [length][intern slot][bytes...]
//	vector  [count][elem 0][elem 1]...
const (
	strData = immediate.WORDSIZE
	symData = 2 * immediate.WORDSIZE
	vecData = immediate.WORDSIZE
)

// Runtime is the native side of generated code: the heap handle every
// allocating native threads through, the output streams, and the symbol
// table.
type Runtime struct {
	heap    *Heap
	out     *bufio.Writer
	errOut  io.Writer
	symbols map[string]immediate.Value
	exit    func(code int)
}

// New creates a runtime printing to out. A nil out means os.Stdout.
func New(heap *Heap, out io.Writer) *Runtime {
	if out == nil {
		out = os.Stdout
	}
	return &Runtime{
		heap:    heap,
		out:     bufio.NewWriter(out),
		errOut:  os.Stderr,
		symbols: make(map[string]immediate.Value),
		exit:    os.Exit,
	}
}

func (rt *Runtime) Heap() *Heap {
	return rt.heap
}

// SetErrorOutput redirects writes to the error port
func (rt *Runtime) SetErrorOutput(w io.Writer) {
	rt.errOut = w
}

// SetExitHandler replaces os.Exit as the way the exit native ends the program
func (rt *Runtime) SetExitHandler(f func(code int)) {
	rt.exit = f
}

// Car returns the first word of a pair
func (rt *Runtime) Car(v immediate.Value) immediate.Value {
	assertTag("car", v, immediate.PAIR)
	return rt.heap.Word(immediate.Unbox(v))
}

// Cdr returns the second word of a pair
func (rt *Runtime) Cdr(v immediate.Value) immediate.Value {
	assertTag("cdr", v, immediate.PAIR)
	return rt.heap.Word(immediate.Unbox(v) + immediate.WORDSIZE)
}

// StringLength returns the byte length of a string as a fixnum
func (rt *Runtime) StringLength(v immediate.Value) immediate.Value {
	assertTag("string-length", v, immediate.STR)
	return immediate.N(rt.heap.Word(immediate.Unbox(v)))
}

// SymbolEq is true only for two references to the same symbol. Symbols are
// interned, so identity is word equality.
func (rt *Runtime) SymbolEq(a, b immediate.Value) immediate.Value {
	return immediate.Bool(a == b && immediate.Tag(a) == immediate.SYM)
}

// Str decodes the payload of a string object
func (rt *Runtime) Str(v immediate.Value) string {
	assertTag("string", v, immediate.STR)
	addr := immediate.Unbox(v)
	n := rt.heap.Word(addr)
	return string(rt.heap.Bytes(addr+strData, int(n)))
}

// SymbolName decodes the name of a symbol object
func (rt *Runtime) SymbolName(v immediate.Value) string {
	assertTag("symbol", v, immediate.SYM)
	addr := immediate.Unbox(v)
	n := rt.heap.Word(addr)
	return string(rt.heap.Bytes(addr+symData, int(n)))
}

func (rt *Runtime) VectorLen(v immediate.Value) int64 {
	assertTag("vector-length", v, immediate.VEC)
	return rt.heap.Word(immediate.Unbox(v))
}

func (rt *Runtime) VectorRef(v immediate.Value, i int64) immediate.Value {
	assertTag("vector-ref", v, immediate.VEC)
	return rt.heap.Word(immediate.Unbox(v) + vecData + uint64(i)*immediate.WORDSIZE)
}

// Cons allocates a pair
func (rt *Runtime) Cons(car, cdr immediate.Value) immediate.Value {
	addr := rt.heap.Alloc(2 * immediate.WORDSIZE)
	rt.heap.SetWord(addr, car)
	rt.heap.SetWord(addr+immediate.WORDSIZE, cdr)
	return immediate.Box(addr, immediate.PAIR)
}

// List allocates a proper list of values
func (rt *Runtime) List(values ...immediate.Value) immediate.Value {
	l := immediate.NIL
	for i := len(values) - 1; i >= 0; i-- {
		l = rt.Cons(values[i], l)
	}
	return l
}

// String allocates a string object holding s
func (rt *Runtime) String(s string) immediate.Value {
	addr := rt.heap.Alloc(strData + len(s))
	rt.heap.SetWord(addr, int64(len(s)))
	rt.heap.SetBytes(addr+strData, []byte(s))
	return immediate.Box(addr, immediate.STR)
}

// Symbol returns the interned symbol for name, allocating it on first use
func (rt *Runtime) Symbol(name string) immediate.Value {
	if v, ok := rt.symbols[name]; ok {
		return v
	}
	addr := rt.heap.Alloc(symData + len(name))
	rt.heap.SetWord(addr, int64(len(name)))
	rt.heap.SetWord(addr+immediate.WORDSIZE, 0)
	rt.heap.SetBytes(addr+symData, []byte(name))
	v := immediate.Box(addr, immediate.SYM)
	rt.symbols[name] = v
	return v
}

// StringToSymbol interns the name held by a string object
func (rt *Runtime) StringToSymbol(v immediate.Value) immediate.Value {
	assertTag("string->symbol", v, immediate.STR)
	return rt.Symbol(rt.Str(v))
}

// Vector allocates a vector of the given elements
func (rt *Runtime) Vector(elems ...immediate.Value) immediate.Value {
	addr := rt.heap.Alloc(vecData + len(elems)*immediate.WORDSIZE)
	rt.heap.SetWord(addr, int64(len(elems)))
	for i, e := range elems {
		rt.heap.SetWord(addr+vecData+uint64(i)*immediate.WORDSIZE, e)
	}
	return immediate.Box(addr, immediate.VEC)
}
