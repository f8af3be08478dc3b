package immediate

import (
	"math"
	"testing"
)

func TestFixnumRoundTrip(t *testing.T) {
	maxFix := int64(math.MaxInt64 >> SHIFT)
	minFix := int64(math.MinInt64 >> SHIFT)
	for _, n := range []int64{0, 1, -1, 42, -42, 1 << 40, -(1 << 40), maxFix, minFix} {
		v := N(n)
		if Tag(v) != NUM {
			t.Errorf("Expected NUM tag for %d, got %d", n, Tag(v))
		}
		if got := Int(v); got != n {
			t.Errorf("Expected %d after round trip, got %d", n, got)
		}
	}
}

func TestBooleans(t *testing.T) {
	if TRUE == FALSE {
		t.Fatal("TRUE and FALSE must be distinct words")
	}
	if Tag(TRUE) != BOOL || Tag(FALSE) != BOOL {
		t.Errorf("Expected both booleans to carry the BOOL tag")
	}
	if Bool(true) != TRUE || Bool(false) != FALSE {
		t.Errorf("Expected Bool to map onto the literals")
	}
}

func TestChars(t *testing.T) {
	for _, c := range []byte{'a', 'Z', '\n', ' ', 0, 255} {
		v := Char(c)
		if !IsChar(v) {
			t.Errorf("Expected char tag for %q", c)
		}
		if CharOf(v) != c {
			t.Errorf("Expected %q, got %q", c, CharOf(v))
		}
	}
}

func TestBoxing(t *testing.T) {
	addr := uint64(0x10000)
	for _, tag := range []Value{PAIR, STR, SYM, VEC} {
		v := Box(addr, tag)
		if Tag(v) != tag {
			t.Errorf("Expected tag %d, got %d", tag, Tag(v))
		}
		if Unbox(v) != addr {
			t.Errorf("Expected address %#x, got %#x", addr, Unbox(v))
		}
		if !IsBoxed(v) {
			t.Errorf("Expected %s to be boxed", TagName(v))
		}
	}
	if IsBoxed(N(3)) || IsBoxed(NIL) || IsBoxed(TRUE) {
		t.Error("Immediates must not be reported as boxed")
	}
}

func TestExactlyOnePredicate(t *testing.T) {
	values := []Value{N(0), N(-5), TRUE, FALSE, Char('x'), NIL,
		Box(0x100, PAIR), Box(0x100, STR), Box(0x100, SYM), Box(0x100, VEC)}
	for _, v := range values {
		count := 0
		for _, p := range []func(Value) bool{IsFixnum, IsBool, IsChar, IsNil} {
			if p(v) {
				count++
			}
		}
		want := 1
		if IsBoxed(v) {
			want = 0
		}
		if count != want {
			t.Errorf("Expected %d predicates to hold for %s, got %d", want, TagName(v), count)
		}
	}
}
