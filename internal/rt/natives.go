package rt

import (
	"sort"

	"github.com/xyproto/inc/internal/immediate"
)

// Native describes a runtime function generated code can call.
//
// Name is the Scheme level name, Symbol the unmangled link symbol generated
// assembly calls. Implicit values are passed by every call site after the
// Arity explicit arguments (the printer's nested flag).
type Native struct {
	Name     string
	Symbol   string
	Arity    int
	Implicit []immediate.Value
	Fn       func(rt *Runtime, args []immediate.Value) immediate.Value
}

var natives = []Native{
	{Name: "print", Symbol: "print", Arity: 1, Implicit: []immediate.Value{0},
		Fn: func(rt *Runtime, a []immediate.Value) immediate.Value { rt.Print(a[0], a[1] != 0); return immediate.NIL }},
	{Name: "car", Symbol: "car", Arity: 1,
		Fn: func(rt *Runtime, a []immediate.Value) immediate.Value { return rt.Car(a[0]) }},
	{Name: "cdr", Symbol: "cdr", Arity: 1,
		Fn: func(rt *Runtime, a []immediate.Value) immediate.Value { return rt.Cdr(a[0]) }},
	{Name: "string-length", Symbol: "string_length", Arity: 1,
		Fn: func(rt *Runtime, a []immediate.Value) immediate.Value { return rt.StringLength(a[0]) }},
	{Name: "symbol=?", Symbol: "symbol_eq", Arity: 2,
		Fn: func(rt *Runtime, a []immediate.Value) immediate.Value { return rt.SymbolEq(a[0], a[1]) }},
	{Name: "string->symbol", Symbol: "string_to_symbol", Arity: 1,
		Fn: func(rt *Runtime, a []immediate.Value) immediate.Value { return rt.StringToSymbol(a[0]) }},
	{Name: "exit", Symbol: "exit", Arity: 1,
		Fn: func(rt *Runtime, a []immediate.Value) immediate.Value { return rt.Exit(a[0]) }},
	{Name: "rt-current-input-port", Symbol: "rt_current_input_port",
		Fn: func(rt *Runtime, _ []immediate.Value) immediate.Value { return rt.CurrentInputPort() }},
	{Name: "rt-current-output-port", Symbol: "rt_current_output_port",
		Fn: func(rt *Runtime, _ []immediate.Value) immediate.Value { return rt.CurrentOutputPort() }},
	{Name: "rt-current-error-port", Symbol: "rt_current_error_port",
		Fn: func(rt *Runtime, _ []immediate.Value) immediate.Value { return rt.CurrentErrorPort() }},
	{Name: "rt-open-write", Symbol: "rt_open_write", Arity: 1,
		Fn: func(rt *Runtime, a []immediate.Value) immediate.Value { return rt.OpenWrite(a[0]) }},
	{Name: "rt-open-read", Symbol: "rt_open_read", Arity: 1,
		Fn: func(rt *Runtime, a []immediate.Value) immediate.Value { return rt.OpenRead(a[0]) }},
	{Name: "rt-write", Symbol: "rt_write", Arity: 2,
		Fn: func(rt *Runtime, a []immediate.Value) immediate.Value { return rt.Write(a[0], a[1]) }},
	{Name: "rt-read", Symbol: "rt_read", Arity: 1,
		Fn: func(rt *Runtime, a []immediate.Value) immediate.Value { return rt.Read(a[0]) }},
}

var (
	byName   = make(map[string]*Native)
	bySymbol = make(map[string]*Native)
)

func init() {
	for i := range natives {
		byName[natives[i].Name] = &natives[i]
		bySymbol[natives[i].Symbol] = &natives[i]
	}
}

// Defined checks if a function is provided by the runtime
func Defined(name string) bool {
	_, ok := byName[name]
	return ok
}

// Lookup finds a native by its Scheme name
func Lookup(name string) (*Native, bool) {
	n, ok := byName[name]
	return n, ok
}

// LookupSymbol finds a native by its link symbol
func LookupSymbol(symbol string) (*Native, bool) {
	n, ok := bySymbol[symbol]
	return n, ok
}

// Symbols lists every link symbol, sorted, for extern declarations
func Symbols() []string {
	syms := make([]string, 0, len(natives))
	for _, n := range natives {
		syms = append(syms, n.Symbol)
	}
	sort.Strings(syms)
	return syms
}

// Names lists the Scheme names of every native, sorted
func Names() []string {
	names := make([]string, 0, len(natives))
	for _, n := range natives {
		names = append(names, n.Name)
	}
	sort.Strings(names)
	return names
}

// HeapCursorSymbol is the global generated code spills its allocation
// cursor to around native calls
const HeapCursorSymbol = "rt_heap_next"
