package compiler

import "github.com/xyproto/inc/internal/immediate"

// State tracks the scratch slot cursor during nested evaluation.
//
// Slot si lives at [rbp - si]. A sub-expression may use slots at and above
// the cursor but must not leave live data there when it returns; slots below
// the cursor belong to enclosing expressions.
type State struct {
	si    int64
	frame int64 // deepest slot written so far
}

func NewState() *State {
	return &State{si: immediate.WORDSIZE}
}

// SI returns the current cursor
func (s *State) SI() int64 {
	return s.si
}

// FrameSize is the number of bytes below rbp the emitted code touches
func (s *State) FrameSize() int64 {
	return s.frame
}

// slot claims the slot at the cursor
func (s *State) slot() int64 {
	if s.si > s.frame {
		s.frame = s.si
	}
	return s.si
}

// enter moves the cursor past the slot just claimed
func (s *State) enter() {
	s.si += immediate.WORDSIZE
}

// leave gives the slot back
func (s *State) leave() {
	s.si -= immediate.WORDSIZE
}
