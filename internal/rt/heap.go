// Completion: 100% - Bump allocator complete
package rt

import (
	"encoding/binary"
	"fmt"

	"github.com/xyproto/inc/internal/immediate"
)

// DefaultBase is where the heap region starts in the address space seen by
// generated code. It is word aligned, so the low tag bits of every object
// address are free.
const DefaultBase uint64 = 0x100000

// Heap is a single monotonically growing region with one "next free" cursor.
// Nothing is ever freed. Generated object construction sequences and native
// allocating calls coordinate only through Next/SetNext.
//
// Only one owner may move the cursor at a time; a Heap is not safe for
// concurrent use.
type Heap struct {
	mem  []byte
	base uint64
	next uint64
}

// NewHeap reserves a region of capacity bytes, rounded up to whole words
func NewHeap(capacity int) *Heap {
	return &Heap{
		mem:  make([]byte, align(uint64(capacity))),
		base: DefaultBase,
		next: DefaultBase,
	}
}

// align rounds n up to a multiple of the word size
func align(n uint64) uint64 {
	const w = immediate.WORDSIZE
	return (n + w - 1) &^ (w - 1)
}

func (h *Heap) Base() uint64     { return h.base }
func (h *Heap) Next() uint64     { return h.next }
func (h *Heap) Capacity() int    { return len(h.mem) }
func (h *Heap) Used() int        { return int(h.next - h.base) }
func (h *Heap) SetNext(a uint64) { h.next = a }

// Alloc bumps the cursor by nbytes rounded up to a word boundary and returns
// the previous cursor. Capacity is not checked here; touching memory past the
// end of the region faults on access.
func (h *Heap) Alloc(nbytes int) uint64 {
	addr := h.next
	h.next += align(uint64(nbytes))
	return addr
}

// Contains reports whether [addr, addr+n) lies inside the region
func (h *Heap) Contains(addr uint64, n int) bool {
	return addr >= h.base && addr+uint64(n) <= h.base+uint64(len(h.mem)) && addr+uint64(n) >= addr
}

func (h *Heap) offset(addr uint64, n int) uint64 {
	if !h.Contains(addr, n) {
		panic(&Fault{Op: "heap", Value: int64(addr), Err: fmt.Errorf("access of %d bytes outside heap [%#x, %#x)", n, h.base, h.base+uint64(len(h.mem)))})
	}
	return addr - h.base
}

// Word reads the 64-bit little endian word at addr
func (h *Heap) Word(addr uint64) int64 {
	off := h.offset(addr, immediate.WORDSIZE)
	return int64(binary.LittleEndian.Uint64(h.mem[off:]))
}

// SetWord writes a 64-bit little endian word at addr
func (h *Heap) SetWord(addr uint64, v int64) {
	off := h.offset(addr, immediate.WORDSIZE)
	binary.LittleEndian.PutUint64(h.mem[off:], uint64(v))
}

// Bytes returns a copy of n bytes starting at addr
func (h *Heap) Bytes(addr uint64, n int) []byte {
	off := h.offset(addr, n)
	out := make([]byte, n)
	copy(out, h.mem[off:off+uint64(n)])
	return out
}

// SetBytes copies b into the region starting at addr
func (h *Heap) SetBytes(addr uint64, b []byte) {
	off := h.offset(addr, len(b))
	copy(h.mem[off:], b)
}
