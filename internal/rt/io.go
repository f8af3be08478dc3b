package rt

import (
	"fmt"
	"os"

	"github.com/xyproto/inc/internal/immediate"
)

// Ports are either a fixnum naming a standard stream or a vector whose
// element 1 is the path of a file. File ports carry no open descriptor:
// every read and write opens the path again, so concurrent mutation of the
// file between calls is observed.

const (
	stdinPort  = 0
	stdoutPort = 1
	stderrPort = 2
)

// VerboseMode traces native I/O and heap cursor movement to stderr
var VerboseMode bool

func (rt *Runtime) CurrentInputPort() immediate.Value  { return immediate.N(stdinPort) }
func (rt *Runtime) CurrentOutputPort() immediate.Value { return immediate.N(stdoutPort) }
func (rt *Runtime) CurrentErrorPort() immediate.Value  { return immediate.N(stderrPort) }

// FilePort builds the vector representation of a port for path
func (rt *Runtime) FilePort(path string, fd immediate.Value) immediate.Value {
	return rt.Vector(fd, rt.String(path))
}

// portPath decodes the path carried by a file port
func (rt *Runtime) portPath(op string, port immediate.Value) string {
	assertTag(op, port, immediate.VEC)
	if rt.VectorLen(port) < 2 {
		fatal(op, port, fmt.Errorf("port vector has no path"))
	}
	return rt.Str(rt.VectorRef(port, 1))
}

// OpenWrite creates (or truncates) the file named by a string object and
// returns its descriptor as a fixnum
func (rt *Runtime) OpenWrite(fname immediate.Value) immediate.Value {
	path := rt.Str(fname)
	fd, err := openFile(path, true)
	if err != nil {
		fatal("rt-open-write", fname, fmt.Errorf("%s: %w", path, err))
	}
	return immediate.N(int64(fd))
}

// OpenRead opens an existing file named by a string object and returns its
// descriptor as a fixnum
func (rt *Runtime) OpenRead(fname immediate.Value) immediate.Value {
	path := rt.Str(fname)
	fd, err := openFile(path, false)
	if err != nil {
		fatal("rt-open-read", fname, fmt.Errorf("%s: %w", path, err))
	}
	return immediate.N(int64(fd))
}

// Write replaces the contents of the port's file with the string data.
// Standard output and error ports write to the runtime's streams instead.
func (rt *Runtime) Write(data, port immediate.Value) immediate.Value {
	s := rt.Str(data)
	if immediate.IsFixnum(port) {
		rt.writeStd(data, port, s)
		return immediate.NIL
	}
	path := rt.portPath("rt-write", port)
	if err := writeFile(path, []byte(s)); err != nil {
		fatal("rt-write", port, fmt.Errorf("failed to write to %s: %w", path, err))
	}
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "rt_write: %d bytes to %s\n", len(s), path)
	}
	return immediate.NIL
}

func (rt *Runtime) writeStd(data, port immediate.Value, s string) {
	var err error
	switch immediate.Int(port) {
	case stdoutPort:
		if _, err = rt.out.WriteString(s); err == nil {
			err = rt.out.Flush()
		}
	case stderrPort:
		_, err = rt.errOut.Write([]byte(s))
	default:
		fatal("rt-write", port, fmt.Errorf("not an output port"))
	}
	if err != nil {
		fatal("rt-write", data, err)
	}
}

// Read materializes the whole file behind port as a new string object.
//
// The object is written at the heap cursor: the byte length as a raw word,
// then the bytes, after which the cursor advances by the word aligned size.
// The returned value is the old cursor tagged as a string.
func (rt *Runtime) Read(port immediate.Value) immediate.Value {
	path := rt.portPath("rt-read", port)
	data, err := readFile(path)
	if err != nil {
		fatal("rt-read", port, fmt.Errorf("failed to read %s: %w", path, err))
	}

	h := rt.heap
	addr := h.Next()
	h.SetNext(addr + align(uint64(strData+len(data))))
	h.SetWord(addr, int64(len(data)))
	h.SetBytes(addr+strData, data)

	if VerboseMode {
		fmt.Fprintf(os.Stderr, "rt_read: %d bytes from %s at %#x, cursor now %#x\n", len(data), path, addr, h.Next())
	}
	return immediate.Box(addr, immediate.STR)
}

// Exit flushes the output stream and ends the program with a fixnum status
func (rt *Runtime) Exit(status immediate.Value) immediate.Value {
	assertTag("exit", status, immediate.NUM)
	if err := rt.out.Flush(); err != nil {
		fatal("exit", status, err)
	}
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "exit %d\n", immediate.Int(status))
	}
	rt.exit(int(immediate.Int(status)))
	return immediate.NIL
}
