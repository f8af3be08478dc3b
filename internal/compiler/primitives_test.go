package compiler

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xyproto/inc/internal/ast"
	"github.com/xyproto/inc/internal/immediate"
	"github.com/xyproto/inc/internal/machine"
	"github.com/xyproto/inc/internal/rt"
	"github.com/xyproto/inc/internal/x86"
)

func newMachine() (*machine.Machine, *bytes.Buffer) {
	var out bytes.Buffer
	return machine.New(rt.New(rt.NewHeap(1<<14), &out), 1<<12), &out
}

// run compiles x into a complete entry function and executes it
func run(t *testing.T, x ast.Expr) immediate.Value {
	t.Helper()
	p, err := Compile(x)
	if err != nil {
		t.Fatalf("Compile(%s) failed: %v", x, err)
	}
	m, _ := newMachine()
	return m.Run(p.ASM())
}

func runSource(t *testing.T, src string) immediate.Value {
	t.Helper()
	x, err := ast.ReadOne(src)
	if err != nil {
		t.Fatalf("ReadOne(%q) failed: %v", src, err)
	}
	return run(t, x)
}

func app(name string, args ...ast.Expr) ast.List {
	return append(ast.List{ast.Identifier(name)}, args...)
}

func TestIncDec(t *testing.T) {
	for _, n := range []int64{-100, -1, 0, 1, 41, 1 << 40} {
		if got := run(t, app("inc", ast.Number(n))); got != immediate.N(n+1) {
			t.Errorf("Expected (inc %d) = %d, got %d", n, n+1, immediate.Int(got))
		}
		if got := run(t, app("dec", ast.Number(n))); got != immediate.N(n-1) {
			t.Errorf("Expected (dec %d) = %d, got %d", n, n-1, immediate.Int(got))
		}
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		source   string
		expected immediate.Value
	}{
		{"(fixnum? 42)", immediate.TRUE},
		{"(fixnum? -3)", immediate.TRUE},
		{"(fixnum? #t)", immediate.FALSE},
		{`(fixnum? "hello")`, immediate.FALSE},
		{"(boolean? #f)", immediate.TRUE},
		{"(boolean? #t)", immediate.TRUE},
		{"(boolean? 0)", immediate.FALSE},
		{`(char? #\a)`, immediate.TRUE},
		{"(char? 97)", immediate.FALSE},
		{"(null? ())", immediate.TRUE},
		{"(null? 0)", immediate.FALSE},
		{"(null? (cons 1 ()))", immediate.FALSE},
		{"(not #f)", immediate.TRUE},
		{"(not #t)", immediate.FALSE},
		{"(not 0)", immediate.FALSE},
		{"(not ())", immediate.FALSE},
	}
	for _, tt := range tests {
		if got := runSource(t, tt.source); got != tt.expected {
			t.Errorf("%s: expected %#x, got %#x", tt.source, tt.expected, got)
		}
	}
}

// Each value satisfies exactly the predicate of its category; heap objects
// satisfy none of them.
func TestPredicatesPartitionValues(t *testing.T) {
	values := []string{"7", "#t", "#f", `#\z`, "()", "(cons 1 2)", `"str"`, "(vector 1 2)"}
	preds := []string{"fixnum?", "boolean?", "char?", "null?"}
	for i, v := range values {
		count := 0
		for _, p := range preds {
			if runSource(t, "("+p+" "+v+")") == immediate.TRUE {
				count++
			}
		}
		want := 1
		if i >= 5 {
			want = 0
		}
		if count != want {
			t.Errorf("Expected %d predicates to hold for %s, got %d", want, v, count)
		}
	}
}

// zero? compares against the fixnum tag constant rather than an encoded
// zero. Reference semantics, possibly unintended: the two only coincide
// because the fixnum tag is 0.
func TestZeroPComparesAgainstTagConstant(t *testing.T) {
	if immediate.NUM != immediate.N(0) {
		t.Fatal("Expected the fixnum tag to equal an encoded zero")
	}
	tests := []struct {
		source   string
		expected immediate.Value
	}{
		{"(zero? 0)", immediate.TRUE},
		{"(zero? 1)", immediate.FALSE},
		{"(zero? -1)", immediate.FALSE},
		{"(zero? #f)", immediate.FALSE},
		{"(zero? (- 5 5))", immediate.TRUE},
	}
	for _, tt := range tests {
		if got := runSource(t, tt.source); got != tt.expected {
			t.Errorf("%s: expected %#x, got %#x", tt.source, tt.expected, got)
		}
	}
	asm := ZeroP(NewState(), ast.Number(0)).String()
	if strings.Contains(asm, "and rax") {
		t.Error("Expected zero? to compare the unmasked word")
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		source   string
		expected int64
	}{
		{"(+ 3 4)", 7},
		{"(+ -3 4)", 1},
		{"(- 10 3)", 7},
		{"(- 3 10)", -7},
		{"(* 6 7)", 42},
		{"(* -3 5)", -15},
		{"(* -4 -4)", 16},
		{"(quotient 7 2)", 3},
		{"(remainder 7 2)", 1},
		{"(quotient -7 2)", -3},
		{"(remainder -7 2)", -1},
		{"(quotient 7 -2)", -3},
		{"(remainder 7 -2)", 1},
		{"(+ (* 2 3) (- 10 (quotient 9 3)))", 13},
		{"(- (- (- 100 1) (- 10 5)) (+ 1 (+ 2 3)))", 88},
		{"(quotient (* 10 10) (quotient 20 (+ 1 1)))", 10},
		{"(remainder (+ 17 (remainder 100 7)) (- 10 (quotient 12 2)))", 3},
		{"(inc (* (dec 5) (inc 2)))", 13},
	}
	for _, tt := range tests {
		if got := runSource(t, tt.source); got != immediate.N(tt.expected) {
			t.Errorf("%s: expected %d, got %d", tt.source, tt.expected, immediate.Int(got))
		}
	}
}

// Subtraction writes through the first operand's slot and reloads it. The
// result must be first - second, never the reverse.
func TestMinusOperandOrder(t *testing.T) {
	for a := int64(-6); a <= 6; a++ {
		for b := int64(-6); b <= 6; b++ {
			if got := run(t, app("-", ast.Number(a), ast.Number(b))); got != immediate.N(a-b) {
				t.Errorf("Expected (- %d %d) = %d, got %d", a, b, a-b, immediate.Int(got))
			}
		}
	}
	asm := Minus(NewState(), ast.Number(1), ast.Number(2)).String()
	if !strings.Contains(asm, "sub qword ptr [rbp - 8], rax\n    mov rax, qword ptr [rbp - 8]\n") {
		t.Errorf("Expected subtraction through the stack slot, got:\n%s", asm)
	}
}

func TestArithmeticMatchesGo(t *testing.T) {
	operands := []int64{-1000, -37, -8, -7, -2, -1, 0, 1, 2, 3, 7, 8, 64, 999}
	for _, a := range operands {
		for _, b := range operands {
			x, y := ast.Number(a), ast.Number(b)
			if got := run(t, app("+", x, y)); got != immediate.N(a+b) {
				t.Errorf("(+ %d %d): got %d", a, b, immediate.Int(got))
			}
			if got := run(t, app("*", x, y)); got != immediate.N(a*b) {
				t.Errorf("(* %d %d): got %d", a, b, immediate.Int(got))
			}
			if b == 0 {
				continue
			}
			if got := run(t, app("quotient", x, y)); got != immediate.N(a/b) {
				t.Errorf("(quotient %d %d): expected %d, got %d", a, b, a/b, immediate.Int(got))
			}
			if got := run(t, app("remainder", x, y)); got != immediate.N(a%b) {
				t.Errorf("(remainder %d %d): expected %d, got %d", a, b, a%b, immediate.Int(got))
			}
		}
	}
}

func TestComparisons(t *testing.T) {
	tests := []struct {
		source   string
		expected immediate.Value
	}{
		{"(< 1 2)", immediate.TRUE},
		{"(< 2 1)", immediate.FALSE},
		{"(< -5 3)", immediate.TRUE},
		{"(> 3 2)", immediate.TRUE},
		{"(> 2 2)", immediate.FALSE},
		{"(<= 2 2)", immediate.TRUE},
		{"(<= 3 2)", immediate.FALSE},
		{"(>= 2 2)", immediate.TRUE},
		{"(>= 1 2)", immediate.FALSE},
		{"(= 5 5)", immediate.TRUE},
		{"(= 5 6)", immediate.FALSE},
		{"(= #t #t)", immediate.TRUE},
		{`(= #\a #\a)`, immediate.TRUE},
		{"(= 0 #f)", immediate.FALSE},
		{"(= (+ 1 1) (quotient 4 2))", immediate.TRUE},
	}
	for _, tt := range tests {
		if got := runSource(t, tt.source); got != tt.expected {
			t.Errorf("%s: expected %#x, got %#x", tt.source, tt.expected, got)
		}
	}
}

func TestCompareSequence(t *testing.T) {
	asm := Lt(NewState(), ast.Number(1), ast.Number(2)).String()
	expected := "    cmp qword ptr [rbp - 8], rax\n" +
		"    setl al\n" +
		"    movzx rax, al\n" +
		"    sal al, 3\n" +
		"    or al, 1\n"
	if !strings.HasSuffix(asm, expected) {
		t.Errorf("Expected compare tail %q, got:\n%s", expected, asm)
	}
}

// Evaluation restores the cursor and leaves slots below it alone
func TestScratchSlotDiscipline(t *testing.T) {
	s := NewState()
	outer := s.slot()
	s.enter()
	entry := s.SI()

	x, _ := ast.ReadOne("(+ (- 9 (* 2 3)) (quotient (+ 8 8) (remainder 7 4)))")
	body := Eval(s, x)
	if s.SI() != entry {
		t.Errorf("Expected cursor %d after evaluation, got %d", entry, s.SI())
	}
	if s.FrameSize() < entry+2*immediate.WORDSIZE {
		t.Errorf("Expected nested slots above the cursor, frame is %d", s.FrameSize())
	}

	m, _ := newMachine()
	const sentinel = 0x5eed
	setup := x86.Seq(x86.Mov(rax, x86.Const(sentinel)), x86.Save(x86.RAX, outer))
	if got := m.Run(x86.Concat(setup, body)); got != immediate.N(8) {
		t.Errorf("Expected 8, got %d", immediate.Int(got))
	}
	if got := m.Run(x86.Concat(setup, body, x86.Seq(x86.Load(x86.RAX, outer)))); got != sentinel {
		t.Errorf("Expected the outer slot to survive, got %#x", got)
	}
}

func TestPrimTable(t *testing.T) {
	for _, name := range []string{"inc", "dec", "fixnum?", "boolean?", "char?", "null?", "zero?", "not"} {
		p, ok := LookupPrim(name)
		if !ok || p.Arity() != 1 || p.String() != name {
			t.Errorf("Expected unary primitive %s", name)
		}
	}
	for _, name := range []string{"+", "-", "*", "quotient", "remainder", "=", "<", ">", "<=", ">="} {
		p, ok := LookupPrim(name)
		if !ok || p.Arity() != 2 {
			t.Errorf("Expected binary primitive %s", name)
		}
	}
	if _, ok := LookupPrim("car"); ok {
		t.Error("car is a runtime native, not an open coded primitive")
	}
}
