// Completion: 90% - Command line front end: compile, print assembly, run or start a REPL
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/xyproto/inc/internal/compiler"
	"github.com/xyproto/inc/internal/config"
	"github.com/xyproto/inc/internal/machine"
	"github.com/xyproto/inc/internal/rt"
)

const versionString = "inc 0.1.0"

// Global flag for controlling output verbosity
var VerboseMode bool

func main() {
	var exprFlag = flag.String("e", "", "compile and run the given expression")
	var codeFlag = flag.String("c", "", "same as -e")
	var asmFlag = flag.Bool("S", false, "print the generated assembly instead of running it")
	var outputFilenameFlag = flag.String("o", "", "write the generated assembly to this file")
	var replFlag = flag.Bool("i", false, "start an interactive session")
	var versionShort = flag.Bool("V", false, "print version information and exit")
	var version = flag.Bool("version", false, "print version information and exit")
	var verbose = flag.Bool("v", false, "verbose mode (trace compilation, execution and native calls)")
	var verboseLong = flag.Bool("verbose", false, "verbose mode (trace compilation, execution and native calls)")
	flag.Parse()

	if *version || *versionShort {
		fmt.Println(versionString)
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Set global verbosity flag (use whichever was specified)
	VerboseMode = *verbose || *verboseLong || cfg.Verbose
	compiler.VerboseMode = VerboseMode
	machine.VerboseMode = VerboseMode
	rt.VerboseMode = VerboseMode

	if VerboseMode {
		fmt.Fprintf(os.Stderr, "----=[ %s ]=----\n", versionString)
		fmt.Fprintf(os.Stderr, "heap %d bytes, stack %d bytes, entry %s\n", cfg.HeapSize, cfg.StackSize, cfg.Entry)
	}

	s := newSession(cfg, os.Stdout)

	source := *exprFlag
	if source == "" {
		source = *codeFlag
	}
	inputFiles := flag.Args()

	if *replFlag || (source == "" && len(inputFiles) == 0) {
		if !*replFlag {
			fmt.Fprintf(os.Stderr, "usage: inc [-S] [-o file.s] (-e expr | file)\n       inc -i\n\n")
			flag.PrintDefaults()
			os.Exit(1)
		}
		os.Exit(runREPL(s))
	}

	if source == "" {
		data, err := os.ReadFile(inputFiles[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		source = string(data)
		if VerboseMode {
			fmt.Fprintf(os.Stderr, "Compiling %s\n", inputFiles[0])
		}
	}

	x, err := firstExpression(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	p, err := s.compile(x)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *outputFilenameFlag != "" {
		if err := os.WriteFile(*outputFilenameFlag, []byte(p.String()), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if VerboseMode {
			fmt.Fprintf(os.Stderr, "Wrote %s\n", *outputFilenameFlag)
		}
	}
	if *asmFlag {
		fmt.Print(p.String())
	}
	if *asmFlag || *outputFilenameFlag != "" {
		return
	}

	if err := s.runPrint(p); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
