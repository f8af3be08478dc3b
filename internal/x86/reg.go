// Completion: 100% - Utility module complete
package x86

// Register definitions for x86_64

type Register struct {
	Name     string
	Size     int   // Size in bits
	Encoding uint8 // Encoding for instruction generation
}

func (r Register) String() string {
	return r.Name
}

var registers = map[string]Register{
	// 64-bit general purpose registers
	"rax": {Name: "rax", Size: 64, Encoding: 0},
	"rcx": {Name: "rcx", Size: 64, Encoding: 1},
	"rdx": {Name: "rdx", Size: 64, Encoding: 2},
	"rbx": {Name: "rbx", Size: 64, Encoding: 3},
	"rsp": {Name: "rsp", Size: 64, Encoding: 4},
	"rbp": {Name: "rbp", Size: 64, Encoding: 5},
	"rsi": {Name: "rsi", Size: 64, Encoding: 6},
	"rdi": {Name: "rdi", Size: 64, Encoding: 7},
	"r8":  {Name: "r8", Size: 64, Encoding: 8},
	"r9":  {Name: "r9", Size: 64, Encoding: 9},
	"r10": {Name: "r10", Size: 64, Encoding: 10},
	"r11": {Name: "r11", Size: 64, Encoding: 11},
	"r12": {Name: "r12", Size: 64, Encoding: 12},
	"r13": {Name: "r13", Size: 64, Encoding: 13},
	"r14": {Name: "r14", Size: 64, Encoding: 14},
	"r15": {Name: "r15", Size: 64, Encoding: 15},

	// 32-bit registers
	"eax": {Name: "eax", Size: 32, Encoding: 0},
	"ecx": {Name: "ecx", Size: 32, Encoding: 1},
	"edx": {Name: "edx", Size: 32, Encoding: 2},
	"ebx": {Name: "ebx", Size: 32, Encoding: 3},

	// 8-bit registers (low byte)
	"al": {Name: "al", Size: 8, Encoding: 0},
	"cl": {Name: "cl", Size: 8, Encoding: 1},
	"dl": {Name: "dl", Size: 8, Encoding: 2},
	"bl": {Name: "bl", Size: 8, Encoding: 3},
}

// Registers the code generator refers to by name
var (
	RAX = registers["rax"]
	RCX = registers["rcx"]
	RDX = registers["rdx"]
	RSP = registers["rsp"]
	RBP = registers["rbp"]
	RSI = registers["rsi"]
	RDI = registers["rdi"]
	R12 = registers["r12"]
	AL  = registers["al"]
)

// GetRegister looks up a register by name
func GetRegister(name string) (Register, bool) {
	r, ok := registers[name]
	return r, ok
}

// ArgRegisters are the System V AMD64 integer argument registers, in order
var ArgRegisters = []Register{
	registers["rdi"],
	registers["rsi"],
	registers["rdx"],
	registers["rcx"],
	registers["r8"],
	registers["r9"],
}
