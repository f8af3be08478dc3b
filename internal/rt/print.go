package rt

import (
	"fmt"
	"strconv"

	"github.com/xyproto/inc/internal/immediate"
)

var charNames = map[byte]string{
	'\t': "tab",
	'\n': "newline",
	'\r': "return",
	' ':  "space",
}

// Print renders v to the output stream. When nested is set, v is the tail of
// a list being printed and no enclosing parentheses are written.
// Output is flushed before returning.
func (rt *Runtime) Print(v immediate.Value, nested bool) {
	rt.print(v, nested)
	if err := rt.out.Flush(); err != nil {
		fatal("print", v, err)
	}
}

func (rt *Runtime) print(v immediate.Value, nested bool) {
	w := rt.out
	switch immediate.Tag(v) {
	case immediate.NUM:
		w.WriteString(strconv.FormatInt(immediate.Int(v), 10))
	case immediate.BOOL:
		if v == immediate.TRUE {
			w.WriteString("#t")
		} else {
			w.WriteString("#f")
		}
	case immediate.CHAR:
		c := immediate.CharOf(v)
		if name, ok := charNames[c]; ok {
			fmt.Fprintf(w, `#\%s`, name)
		} else {
			fmt.Fprintf(w, `#\%c`, c)
		}
	case immediate.NIL:
		// the empty list is the only valid word carrying the NIL tag
		if v != immediate.NIL {
			fatal("print", v, fmt.Errorf("corrupt empty list"))
		}
		w.WriteString("()")
	case immediate.PAIR:
		car, cdr := rt.Car(v), rt.Cdr(v)
		if !nested {
			w.WriteByte('(')
		}
		rt.print(car, false)
		if cdr != immediate.NIL {
			if immediate.Tag(cdr) != immediate.PAIR {
				w.WriteString(" . ")
				rt.print(cdr, false)
			} else {
				w.WriteByte(' ')
				rt.print(cdr, true)
			}
		}
		if !nested {
			w.WriteByte(')')
		}
	case immediate.STR:
		fmt.Fprintf(w, `"%s"`, rt.Str(v))
	case immediate.SYM:
		fmt.Fprintf(w, "'%s", rt.SymbolName(v))
	case immediate.VEC:
		w.WriteByte('[')
		n := rt.VectorLen(v)
		for i := int64(0); i < n; i++ {
			if i > 0 {
				w.WriteByte(' ')
			}
			rt.print(rt.VectorRef(v, i), false)
		}
		w.WriteByte(']')
	default:
		fatal("print", v, fmt.Errorf("unexpected value returned by generated code"))
	}
}
