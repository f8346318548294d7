package backtrack

import (
	"fmt"
	"io"

	"github.com/mbrubeck/fancy-regex/internal/vmir"
)

// Tracer is the engine's diagnostic side channel, gated by an
// optional trace flag. It keeps tracing behind a small Writer-shaped
// type instead of a logging framework: a plain io.Writer is enough for
// this, so it's all this package needs.
//
// A Tracer is not part of the semantic contract: nothing it writes
// affects matching, and a nil *Tracer is always safe to use.
type Tracer struct {
	w io.Writer

	wroteHeader bool
}

// NewTracer wraps w as a Tracer. If w is nil, the returned Tracer
// discards everything.
func NewTracer(w io.Writer) *Tracer {
	return &Tracer{w: w}
}

func (t *Tracer) enabled() bool { return t != nil && t.w != nil }

func (t *Tracer) dispatch(ix, pc int, insn vmir.Insn) {
	if !t.enabled() {
		return
	}
	if !t.wroteHeader {
		fmt.Fprintf(t.w, "%s\t%s\n", "pos", "instruction")
		t.wroteHeader = true
	}
	fmt.Fprintf(t.w, "%d\t%d %s\n", ix, pc, describe(insn))
}

func (t *Tracer) saves(saves []int) {
	if !t.enabled() {
		return
	}
	fmt.Fprintf(t.w, "saves: %v\n", saves)
}

func (t *Tracer) stack(operation string, stack []frame) {
	if !t.enabled() {
		return
	}
	fmt.Fprintf(t.w, "stack after %s: %v\n", operation, stack)
}

func (t *Tracer) fail() {
	if !t.enabled() {
		return
	}
	fmt.Fprintln(t.w, "fail")
}

// describe renders an instruction roughly the way the source's #[derive(Debug)]
// enum would, enough to recognize a ported trace.
func describe(insn vmir.Insn) string {
	switch insn.Kind {
	case vmir.KindLit:
		return fmt.Sprintf("Lit(%q)", insn.Lit)
	case vmir.KindSplit:
		return fmt.Sprintf("Split(%d, %d)", insn.X, insn.Y)
	case vmir.KindJmp:
		return fmt.Sprintf("Jmp(%d)", insn.X)
	case vmir.KindSave, vmir.KindSave0, vmir.KindRestore:
		return fmt.Sprintf("%s(%d)", insn.Kind, insn.Slot)
	case vmir.KindGoBack:
		return fmt.Sprintf("GoBack(%d)", insn.N)
	case vmir.KindRepeatGr, vmir.KindRepeatNg:
		return fmt.Sprintf("%s{lo:%d, hi:%d, next:%d, repeat:%d}", insn.Kind, insn.Lo, insn.Hi, insn.Next, insn.Repeat)
	case vmir.KindRepeatEpsilonGr, vmir.KindRepeatEpsilonNg:
		return fmt.Sprintf("%s{lo:%d, next:%d, repeat:%d, check:%d}", insn.Kind, insn.Lo, insn.Next, insn.Repeat, insn.Check)
	case vmir.KindBackref:
		return fmt.Sprintf("Backref(%d)", insn.Slot)
	case vmir.KindDelegateSized:
		return fmt.Sprintf("DelegateSized(_, %d)", insn.N)
	case vmir.KindDelegate:
		return fmt.Sprintf("Delegate{start_group: %d, end_group: %d}", insn.StartGroup, insn.EndGroup)
	default:
		return insn.Kind.String()
	}
}
