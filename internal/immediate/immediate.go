// Completion: 100% - Value encoding complete
package immediate

// Tagged value layout shared by the code generator and the runtime.
//
// The low SHIFT bits of every machine word select the type. Fixnums keep the
// integer in the remaining high bits, booleans and characters carry a literal
// payload, and pairs, strings, symbols and vectors are word aligned heap
// addresses with the tag OR'ed into the low bits.

// Value is a single tagged machine word
type Value = int64

// WORDSIZE is the size of one machine word in bytes
const WORDSIZE = 8

// SHIFT is the width of the tag field and MASK selects it
const (
	SHIFT = 3
	MASK  = 0b111
)

// Type tags
const (
	NUM  Value = 0
	BOOL Value = 1
	CHAR Value = 2
	PAIR Value = 3
	NIL  Value = 4
	STR  Value = 5
	SYM  Value = 6
	VEC  Value = 7
)

// Boolean literals
const (
	FALSE Value = (0 << SHIFT) | BOOL
	TRUE  Value = (1 << SHIFT) | BOOL
)

// N encodes an integer as a fixnum
func N(n int64) Value {
	return n << SHIFT
}

// Int decodes a fixnum. The caller must have checked the NUM tag.
func Int(v Value) int64 {
	return v >> SHIFT
}

// Bool encodes a Go bool
func Bool(b bool) Value {
	if b {
		return TRUE
	}
	return FALSE
}

// Char encodes a single byte character
func Char(c byte) Value {
	return (Value(c) << SHIFT) | CHAR
}

// CharOf decodes a character. The caller must have checked the CHAR tag.
func CharOf(v Value) byte {
	return byte(v >> SHIFT)
}

// Tag returns the tag bits of v
func Tag(v Value) Value {
	return v & MASK
}

// Box tags a word aligned heap address
func Box(addr uint64, tag Value) Value {
	return Value(addr) | tag
}

// Unbox strips the tag from a boxed value, returning the heap address
func Unbox(v Value) uint64 {
	return uint64(v &^ MASK)
}

func IsFixnum(v Value) bool { return Tag(v) == NUM }
func IsBool(v Value) bool   { return Tag(v) == BOOL }
func IsChar(v Value) bool   { return Tag(v) == CHAR }
func IsNil(v Value) bool    { return v == NIL }

// IsBoxed reports whether v points into the heap
func IsBoxed(v Value) bool {
	switch Tag(v) {
	case PAIR, STR, SYM, VEC:
		return true
	}
	return false
}

// TagName returns a short name for the tag of v, used in diagnostics
func TagName(v Value) string {
	switch Tag(v) {
	case NUM:
		return "fixnum"
	case BOOL:
		return "boolean"
	case CHAR:
		return "char"
	case PAIR:
		return "pair"
	case NIL:
		return "nil"
	case STR:
		return "string"
	case SYM:
		return "symbol"
	case VEC:
		return "vector"
	}
	return "unknown"
}
