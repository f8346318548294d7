package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"

	fancyregex "github.com/mbrubeck/fancy-regex"
	"github.com/mbrubeck/fancy-regex/internal/delegate"
)

// programFile is the on-disk JSON-with-comments shape a program file
// uses. hujson lets authors annotate instruction sequences with // and
// /* */ comments and trailing commas, which a hand-written program
// listing benefits from far more than a typical config file does.
type programFile struct {
	NSaves int        `json:"nSaves"`
	Body   []insnJSON `json:"program"`
}

// insnJSON mirrors vmir.Insn's fields, but spells the operands that
// only make sense for one Kind as plain optional JSON fields rather
// than a union, and carries regex source patterns (Pattern/Pattern1)
// for Delegate/DelegateSized in place of a compiled vmir.Matcher.
type insnJSON struct {
	Kind string `json:"kind"`

	Lit string `json:"lit,omitempty"`

	X int `json:"x,omitempty"`
	Y int `json:"y,omitempty"`

	Slot int `json:"slot,omitempty"`
	N    int `json:"n,omitempty"`

	Lo     int `json:"lo,omitempty"`
	Hi     int `json:"hi,omitempty"`
	Next   int `json:"next,omitempty"`
	Repeat int `json:"repeat,omitempty"`
	Check  int `json:"check,omitempty"`

	StartGroup int    `json:"startGroup,omitempty"`
	EndGroup   int    `json:"endGroup,omitempty"`
	Pattern    string `json:"pattern,omitempty"`
	Pattern1   string `json:"pattern1,omitempty"`
}

// loadProgram reads a hujson program file from path and compiles it
// into a *fancyregex.Program.
func loadProgram(path string) (*fancyregex.Program, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading program file: %w", err)
	}
	std, err := hujson.Standardize(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing program file: %w", err)
	}

	var pf programFile
	if err := json.Unmarshal(std, &pf); err != nil {
		return nil, fmt.Errorf("decoding program file: %w", err)
	}

	body := make([]fancyregex.Insn, len(pf.Body))
	for i, j := range pf.Body {
		insn, err := j.toInsn()
		if err != nil {
			return nil, fmt.Errorf("instruction %d: %w", i, err)
		}
		body[i] = insn
	}
	return fancyregex.NewProgram(body, pf.NSaves), nil
}

func (j insnJSON) toInsn() (fancyregex.Insn, error) {
	switch j.Kind {
	case "End":
		return fancyregex.End(), nil
	case "Any":
		return fancyregex.Any(), nil
	case "AnyNoNL":
		return fancyregex.AnyNoNL(), nil
	case "Lit":
		return fancyregex.Lit(j.Lit), nil
	case "Split":
		return fancyregex.Split(j.X, j.Y), nil
	case "Jmp":
		return fancyregex.Jmp(j.X), nil
	case "Save":
		return fancyregex.Save(j.Slot), nil
	case "Save0":
		return fancyregex.Save0(j.Slot), nil
	case "Restore":
		return fancyregex.Restore(j.Slot), nil
	case "GoBack":
		return fancyregex.GoBack(j.N), nil
	case "RepeatGr":
		return fancyregex.RepeatGr(j.Lo, j.Hi, j.Next, j.Repeat), nil
	case "RepeatNg":
		return fancyregex.RepeatNg(j.Lo, j.Hi, j.Next, j.Repeat), nil
	case "RepeatEpsilonGr":
		return fancyregex.RepeatEpsilonGr(j.Lo, j.Next, j.Repeat, j.Check), nil
	case "RepeatEpsilonNg":
		return fancyregex.RepeatEpsilonNg(j.Lo, j.Next, j.Repeat, j.Check), nil
	case "FailNegativeLookAround":
		return fancyregex.FailNegativeLookAround(), nil
	case "Backref":
		return fancyregex.Backref(j.Slot), nil
	case "BeginAtomic":
		return fancyregex.BeginAtomic(), nil
	case "EndAtomic":
		return fancyregex.EndAtomic(), nil
	case "DelegateSized":
		inner, err := delegate.Compile(j.Pattern)
		if err != nil {
			return fancyregex.Insn{}, fmt.Errorf("compiling pattern %q: %w", j.Pattern, err)
		}
		return fancyregex.DelegateSized(inner, j.N), nil
	case "Delegate":
		inner, err := delegate.Compile(j.Pattern)
		if err != nil {
			return fancyregex.Insn{}, fmt.Errorf("compiling pattern %q: %w", j.Pattern, err)
		}
		var inner1 *delegate.RE2
		if j.Pattern1 != "" {
			inner1, err = delegate.Compile(j.Pattern1)
			if err != nil {
				return fancyregex.Insn{}, fmt.Errorf("compiling pattern1 %q: %w", j.Pattern1, err)
			}
		}
		if inner1 == nil {
			return fancyregex.Delegate(inner, nil, j.StartGroup, j.EndGroup), nil
		}
		return fancyregex.Delegate(inner, inner1, j.StartGroup, j.EndGroup), nil
	default:
		return fancyregex.Insn{}, fmt.Errorf("unknown instruction kind %q", j.Kind)
	}
}
