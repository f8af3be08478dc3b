package x86

import "strings"

// ASM is an ordered instruction sequence. Concatenation preserves execution
// order and never aliases the inputs.
type ASM []Ins

// Seq builds a sequence from individual instructions
func Seq(ins ...Ins) ASM {
	return append(ASM(nil), ins...)
}

// Concat joins sequences in order
func Concat(parts ...ASM) ASM {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make(ASM, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Then returns a new sequence with ins appended
func (a ASM) Then(ins ...Ins) ASM {
	return Concat(a, ins)
}

func (a ASM) String() string {
	var sb strings.Builder
	for _, i := range a {
		sb.WriteString(i.String())
	}
	return sb.String()
}
