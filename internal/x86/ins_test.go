package x86

import "testing"

func TestInstructionRendering(t *testing.T) {
	tests := []struct {
		ins      Ins
		expected string
	}{
		{Add(Reg(RAX), Const(8)), "    add rax, 8\n"},
		{Save(RAX, 8), "    mov qword ptr [rbp - 8], rax\n"},
		{Load(RAX, 16), "    mov rax, qword ptr [rbp - 16]\n"},
		{Sub(Stack(8), Reg(RAX)), "    sub qword ptr [rbp - 8], rax\n"},
		{Mov(Mem(R12, 0), Reg(RAX)), "    mov qword ptr [r12], rax\n"},
		{Mov(Mem(R12, 8), Reg(RAX)), "    mov qword ptr [r12 + 8], rax\n"},
		{Mov(Global("rt_heap_next"), Reg(R12)), "    mov qword ptr [rip + rt_heap_next], r12\n"},
		{Sar(RAX, 3), "    sar rax, 3\n"},
		{Sal(AL, 3), "    sal al, 3\n"},
		{Mul(Stack(8)), "    mul qword ptr [rbp - 8]\n"},
		{Cqo(), "    cqo\n"},
		{Idiv(Reg(RCX)), "    idiv rcx\n"},
		{Cmp(Stack(8), Reg(RAX)), "    cmp qword ptr [rbp - 8], rax\n"},
		{Set(CondLE, AL), "    setle al\n"},
		{Movzx(RAX, AL), "    movzx rax, al\n"},
		{Call("car"), "    call car\n"},
		{Label("scheme_entry"), "scheme_entry:\n"},
		{Raw("    nop"), "    nop\n"},
		{Ret(), "    ret\n"},
	}
	for _, tt := range tests {
		if got := tt.ins.String(); got != tt.expected {
			t.Errorf("Expected %q, got %q", tt.expected, got)
		}
	}
}

func TestConcatPreservesOrder(t *testing.T) {
	a := Seq(Mov(Reg(RAX), Const(1)))
	b := Seq(Add(Reg(RAX), Const(2)), Add(Reg(RAX), Const(3)))
	c := Concat(a, b).Then(Ret())

	if len(c) != 4 {
		t.Fatalf("Expected 4 instructions, got %d", len(c))
	}
	expected := "    mov rax, 1\n    add rax, 2\n    add rax, 3\n    ret\n"
	if c.String() != expected {
		t.Errorf("Expected %q, got %q", expected, c.String())
	}
	if len(a) != 1 || len(b) != 2 {
		t.Error("Concat must not modify its inputs")
	}
}

func TestGetRegister(t *testing.T) {
	r, ok := GetRegister("r12")
	if !ok || r.Encoding != 12 || r.Size != 64 {
		t.Errorf("Expected r12 with encoding 12, got %+v", r)
	}
	if _, ok := GetRegister("xmm99"); ok {
		t.Error("Expected unknown register lookup to fail")
	}
	if AL.Size != 8 || AL.Encoding != RAX.Encoding {
		t.Error("Expected al to alias the low byte of rax")
	}
}
