// Command fancyvmtrace runs a compiled program against an input string
// and reports whether it matched, optionally emitting the engine's
// dispatch trace. Programs are described in a small JSON-with-comments
// file (see loadProgram) rather than parsed from regex syntax: parsing
// is out of scope for the engine this command exercises.
package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/natefinch/atomic"
	flag "github.com/spf13/pflag"

	fancyregex "github.com/mbrubeck/fancy-regex"
)

func main() {
	os.Exit(doMain(os.Stdout, os.Stderr, os.Args[1:]))
}

// doMain is separated from main for unit testing.
func doMain(stdOut, stdErr io.Writer, args []string) int {
	if len(args) == 0 {
		printUsage(stdErr)
		return 1
	}

	switch args[0] {
	case "run":
		return doRun(args[1:], stdOut, stdErr)
	case "repl":
		return doRepl(args[1:], stdOut, stdErr)
	case "version":
		fmt.Fprintln(stdOut, "fancyvmtrace (fancy-regex backtracking engine)")
		return 0
	case "-h", "--help", "help":
		printUsage(stdOut)
		return 0
	default:
		fmt.Fprintf(stdErr, "unknown command %q\n", args[0])
		printUsage(stdErr)
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: fancyvmtrace <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  run <program.json> <input>   run a program against input once")
	fmt.Fprintln(w, "  repl <program.json>          load a program, then match repeated inputs")
	fmt.Fprintln(w, "  version                      print the version string")
}

func doRun(args []string, stdOut, stdErr io.Writer) int {
	flags := flag.NewFlagSet("run", flag.ContinueOnError)
	flags.SetOutput(stdErr)
	maxStack := flags.Int("max-stack", 0, "override the backtrack-stack depth bound (0 = default)")
	trace := flags.Bool("trace", false, "print the dispatch trace to stdout")
	traceFile := flags.String("trace-file", "", "write the dispatch trace atomically to this path instead of stdout")
	pos := flags.Int("pos", 0, "byte offset in input to start matching at")

	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() < 2 {
		fmt.Fprintln(stdErr, "usage: fancyvmtrace run [flags] <program.json> <input>")
		flags.PrintDefaults()
		return 2
	}

	program, err := loadProgram(flags.Arg(0))
	if err != nil {
		fmt.Fprintf(stdErr, "error: %v\n", err)
		return 1
	}
	input := flags.Arg(1)

	cfg := fancyregex.NewRuntimeConfig()
	if *maxStack > 0 {
		cfg = cfg.WithMaxStack(*maxStack)
	}

	var traceBuf bytes.Buffer
	switch {
	case *traceFile != "":
		cfg = cfg.WithTrace(&traceBuf)
	case *trace:
		cfg = cfg.WithTrace(stdOut)
	}

	m, err := cfg.Run(program, input, *pos)
	if *traceFile != "" {
		if werr := atomic.WriteFile(*traceFile, &traceBuf); werr != nil {
			fmt.Fprintf(stdErr, "error writing trace file: %v\n", werr)
			return 1
		}
	}
	if err != nil {
		fmt.Fprintf(stdErr, "error: %v\n", err)
		return 1
	}
	if m == nil {
		fmt.Fprintln(stdOut, "no match")
		return 1
	}
	fmt.Fprintf(stdOut, "match: [%d, %d)\n", m.Start(), m.End())
	return 0
}
