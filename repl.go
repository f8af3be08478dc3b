package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/xyproto/inc/internal/ast"
)

const (
	historyFile = ".inc_history"
	promptMain  = "inc> "
	promptCont  = "...  "
)

const replHelp = `:asm EXPR   show the assembly generated for EXPR
:heap       show heap usage
:help       show this help
:quit       leave the session`

func runREPL(s *session) int {
	fmt.Printf("%s, :help for commands\n", versionString)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	for {
		code, ok := readExpression(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}
		if strings.TrimSpace(code) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		if strings.HasPrefix(strings.TrimSpace(code), ":") {
			if done := s.command(os.Stdout, code); done {
				break
			}
			continue
		}
		if err := s.eval(code); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}

	if f, err := os.Create(histPath); err == nil {
		_, _ = ln.WriteHistory(f)
		_ = f.Close()
	}
	return 0
}

// readExpression keeps prompting until the buffer reads without running
// out of input. Reader errors other than incomplete input end the buffer
// early so the caller can report them.
func readExpression(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder
	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C drops the partial input
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, err := ast.Read(src); !errors.Is(err, ast.ErrIncomplete) {
			return src, true
		}
	}
}

// command handles a colon command and reports whether the session should end
func (s *session) command(w io.Writer, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":quit", ":q", ":exit":
		return true
	case ":help", ":h":
		fmt.Fprintln(w, replHelp)
	case ":heap":
		h := s.rt.Heap()
		fmt.Fprintf(w, "%d of %d bytes used, next free address %#x\n", h.Used(), h.Capacity(), h.Next())
	case ":asm":
		rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), ":asm"))
		if err := s.showAssembly(w, rest); err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
		}
	default:
		fmt.Fprintf(w, "unknown command %s, try :help\n", fields[0])
	}
	return false
}

func (s *session) showAssembly(w io.Writer, source string) error {
	x, err := firstExpression(source)
	if err != nil {
		return err
	}
	p, err := s.compile(x)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(w, p.String())
	return err
}
