package rt

import (
	"fmt"

	"github.com/xyproto/inc/internal/immediate"
)

// Fault is the panic value raised by the runtime. A fault means the compiler
// produced ill-typed code, memory is corrupt or native I/O failed; it is
// never recovered into Scheme code.
type Fault struct {
	Op    string
	Value immediate.Value
	Err   error
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %v (value %#x)", f.Op, f.Err, f.Value)
	}
	return fmt.Sprintf("%s: unexpected value %#x (%s)", f.Op, f.Value, immediate.TagName(f.Value))
}

func (f *Fault) Unwrap() error {
	return f.Err
}

func fatal(op string, v immediate.Value, err error) {
	panic(&Fault{Op: op, Value: v, Err: err})
}

// assertTag aborts unless v carries tag
func assertTag(op string, v, tag immediate.Value) {
	if immediate.Tag(v) != tag {
		fatal(op, v, fmt.Errorf("expected %s, got %s", immediate.TagName(tag), immediate.TagName(v)))
	}
}
