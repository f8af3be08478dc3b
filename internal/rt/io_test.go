package rt

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/xyproto/inc/internal/immediate"
)

func TestStandardPorts(t *testing.T) {
	rt, _ := newTestRuntime()
	if rt.CurrentInputPort() != immediate.N(0) ||
		rt.CurrentOutputPort() != immediate.N(1) ||
		rt.CurrentErrorPort() != immediate.N(2) {
		t.Error("Expected standard ports 0, 1 and 2 as fixnums")
	}
}

func TestReadThenWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.txt")
	dst := filepath.Join(dir, "out.txt")
	content := []byte("hello\nworld, not a multiple of eight")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}

	rt, _ := newTestRuntime()
	in := rt.FilePort(src, rt.OpenRead(rt.String(src)))
	out := rt.FilePort(dst, rt.OpenWrite(rt.String(dst)))

	s := rt.Read(in)
	if immediate.Tag(s) != immediate.STR {
		t.Fatalf("Expected a string, got %s", immediate.TagName(s))
	}
	if got := immediate.Int(rt.StringLength(s)); got != int64(len(content)) {
		t.Errorf("Expected length %d, got %d", len(content), got)
	}
	if rt.Write(s, out) != immediate.NIL {
		t.Error("Expected rt-write to return ()")
	}
	written, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(written, content) {
		t.Errorf("Expected %q, got %q", content, written)
	}
}

func TestReadBumpsSharedCursor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	rt, _ := newTestRuntime()
	port := rt.FilePort(path, immediate.N(-1))

	before := rt.Heap().Next()
	s := rt.Read(port)
	if immediate.Unbox(s) != before {
		t.Errorf("Expected string at old cursor %#x, got %#x", before, immediate.Unbox(s))
	}
	// length word + 3 bytes, rounded up to a word
	if rt.Heap().Next() != before+16 {
		t.Errorf("Expected cursor %#x, got %#x", before+16, rt.Heap().Next())
	}
	if rt.Str(s) != "abc" {
		t.Errorf("Expected abc, got %q", rt.Str(s))
	}
	// the next allocation must not overlap the string
	p := rt.Cons(immediate.N(1), immediate.N(2))
	if immediate.Unbox(p) != before+16 || rt.Str(s) != "abc" {
		t.Error("Expected the next object to start after the string")
	}
}

func TestWriteReopensPathEachCall(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f")
	rt, _ := newTestRuntime()
	port := rt.FilePort(path, rt.OpenWrite(rt.String(path)))

	rt.Write(rt.String("first"), port)
	rt.Write(rt.String("second"), port)
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Errorf("Expected each write to replace the file, got %q", got)
	}
}

func TestWriteStandardOutput(t *testing.T) {
	rt, out := newTestRuntime()
	rt.Write(rt.String("to stdout"), rt.CurrentOutputPort())
	if out.String() != "to stdout" {
		t.Errorf("Expected %q, got %q", "to stdout", out.String())
	}
	var errOut bytes.Buffer
	rt.SetErrorOutput(&errOut)
	rt.Write(rt.String("oops"), rt.CurrentErrorPort())
	if errOut.String() != "oops" {
		t.Errorf("Expected %q on the error port, got %q", "oops", errOut.String())
	}
}

func TestIOFailuresFault(t *testing.T) {
	rt, _ := newTestRuntime()
	missing := filepath.Join(t.TempDir(), "missing")
	expectFault(t, "rt-open-read", func() { rt.OpenRead(rt.String(missing)) })
	expectFault(t, "rt-read", func() { rt.Read(rt.FilePort(missing, immediate.N(-1))) })
	expectFault(t, "rt-write", func() { rt.Write(rt.String("x"), rt.FilePort(filepath.Join(missing, "sub"), immediate.N(-1))) })
	expectFault(t, "rt-read", func() { rt.Read(immediate.N(0)) })
}

func TestExitFlushesAndReportsStatus(t *testing.T) {
	rt, out := newTestRuntime()
	code := -1
	rt.SetExitHandler(func(c int) { code = c })
	rt.out.WriteString("pending")
	if rt.Exit(immediate.N(3)) != immediate.NIL {
		t.Error("Expected exit to return () when the handler returns")
	}
	if code != 3 {
		t.Errorf("Expected exit status 3, got %d", code)
	}
	if out.String() != "pending" {
		t.Errorf("Expected buffered output to be flushed before exiting, got %q", out.String())
	}
	expectFault(t, "exit", func() { rt.Exit(immediate.TRUE) })
}
