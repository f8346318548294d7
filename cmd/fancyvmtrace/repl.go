package main

import (
	"fmt"
	"io"

	flag "github.com/spf13/pflag"

	"github.com/peterh/liner"

	fancyregex "github.com/mbrubeck/fancy-regex"
)

// doRepl loads one program and then repeatedly prompts for an input
// string, reporting whether it matches. Typing ".trace" toggles
// dispatch tracing for subsequent inputs.
func doRepl(args []string, stdOut, stdErr io.Writer) int {
	flags := flag.NewFlagSet("repl", flag.ContinueOnError)
	flags.SetOutput(stdErr)
	if err := flags.Parse(args); err != nil {
		return 2
	}
	if flags.NArg() < 1 {
		fmt.Fprintln(stdErr, "usage: fancyvmtrace repl <program.json>")
		return 2
	}

	program, err := loadProgram(flags.Arg(0))
	if err != nil {
		fmt.Fprintf(stdErr, "error: %v\n", err)
		return 1
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	cfg := fancyregex.NewRuntimeConfig()
	tracing := false

	for {
		input, err := line.Prompt("fancyvmtrace> ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			return 0
		}
		if err != nil {
			fmt.Fprintf(stdErr, "error: %v\n", err)
			return 1
		}
		line.AppendHistory(input)

		switch input {
		case "":
			continue
		case ".trace":
			tracing = !tracing
			if tracing {
				cfg = cfg.WithTrace(stdOut)
			} else {
				cfg = cfg.WithTrace(nil)
			}
			fmt.Fprintf(stdOut, "tracing: %v\n", tracing)
			continue
		case ".quit":
			return 0
		}

		m, err := cfg.Run(program, input, 0)
		if err != nil {
			fmt.Fprintf(stdOut, "error: %v\n", err)
			continue
		}
		if m == nil {
			fmt.Fprintln(stdOut, "no match")
			continue
		}
		fmt.Fprintf(stdOut, "match: [%d, %d)\n", m.Start(), m.End())
	}
}
