package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/xyproto/inc/internal/ast"
	"github.com/xyproto/inc/internal/compiler"
	"github.com/xyproto/inc/internal/config"
	"github.com/xyproto/inc/internal/immediate"
	"github.com/xyproto/inc/internal/machine"
	"github.com/xyproto/inc/internal/rt"
)

// session owns one heap, so objects from earlier REPL lines stay valid
type session struct {
	cfg *config.Config
	rt  *rt.Runtime
	m   *machine.Machine
	out io.Writer
}

func newSession(cfg *config.Config, out io.Writer) *session {
	runtime := rt.New(rt.NewHeap(cfg.HeapSize), out)
	return &session{
		cfg: cfg,
		rt:  runtime,
		m:   machine.New(runtime, cfg.StackSize),
		out: out,
	}
}

// firstExpression reads the first expression in source
func firstExpression(source string) (ast.Expr, error) {
	exprs, err := ast.Read(source)
	if err != nil {
		return nil, err
	}
	if len(exprs) == 0 {
		return nil, errors.New("no expression to compile")
	}
	return exprs[0], nil
}

func (s *session) compile(x ast.Expr) (*compiler.Program, error) {
	p, err := compiler.Compile(x)
	if err != nil {
		return nil, err
	}
	p.Entry = s.cfg.Entry
	return p, nil
}

// run executes p, turning a runtime fault into an error. Anything else that
// panics is a bug in the generated code and is not recovered.
func (s *session) run(p *compiler.Program) (v immediate.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			f, ok := r.(*rt.Fault)
			if !ok {
				panic(r)
			}
			err = f
		}
	}()
	v = s.m.Run(p.ASM())
	if VerboseMode {
		fmt.Fprintf(os.Stderr, "%d steps, %d of %d heap bytes used\n", s.m.Steps, s.rt.Heap().Used(), s.rt.Heap().Capacity())
	}
	return v, nil
}

// runPrint executes p and prints the result followed by a newline
func (s *session) runPrint(p *compiler.Program) (err error) {
	v, err := s.run(p)
	if err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			f, ok := r.(*rt.Fault)
			if !ok {
				panic(r)
			}
			err = f
		}
	}()
	s.rt.Print(v, false)
	_, err = fmt.Fprintln(s.out)
	return err
}

// eval compiles and runs every expression in source, printing each result
func (s *session) eval(source string) error {
	exprs, err := ast.Read(source)
	if err != nil {
		return err
	}
	for _, x := range exprs {
		p, err := s.compile(x)
		if err != nil {
			return err
		}
		if err := s.runPrint(p); err != nil {
			return err
		}
	}
	return nil
}
