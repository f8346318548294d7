// Package vmir defines the instruction set consumed by the backtracking
// execution engine: an immutable sequence of opcodes plus the number of
// save slots the program references. Building a Program is the
// compiler's job; this package only carries the result.
package vmir

// Kind identifies which union fields of an Insn are meaningful.
//
// The instruction set is a closed, ~20-variant tagged union. A dense
// integer tag with a switch in the dispatcher is preferred here over an
// interface-per-opcode hierarchy so that dispatch cost stays constant
// per instruction.
type Kind uint8

const (
	KindEnd Kind = iota
	KindAny
	KindAnyNoNL
	KindLit
	KindSplit
	KindJmp
	KindSave
	KindSave0
	KindRestore
	KindGoBack
	KindRepeatGr
	KindRepeatNg
	KindRepeatEpsilonGr
	KindRepeatEpsilonNg
	KindFailNegativeLookAround
	KindBackref
	KindBeginAtomic
	KindEndAtomic
	KindDelegateSized
	KindDelegate
)

func (k Kind) String() string {
	switch k {
	case KindEnd:
		return "End"
	case KindAny:
		return "Any"
	case KindAnyNoNL:
		return "AnyNoNL"
	case KindLit:
		return "Lit"
	case KindSplit:
		return "Split"
	case KindJmp:
		return "Jmp"
	case KindSave:
		return "Save"
	case KindSave0:
		return "Save0"
	case KindRestore:
		return "Restore"
	case KindGoBack:
		return "GoBack"
	case KindRepeatGr:
		return "RepeatGr"
	case KindRepeatNg:
		return "RepeatNg"
	case KindRepeatEpsilonGr:
		return "RepeatEpsilonGr"
	case KindRepeatEpsilonNg:
		return "RepeatEpsilonNg"
	case KindFailNegativeLookAround:
		return "FailNegativeLookAround"
	case KindBackref:
		return "Backref"
	case KindBeginAtomic:
		return "BeginAtomic"
	case KindEndAtomic:
		return "EndAtomic"
	case KindDelegateSized:
		return "DelegateSized"
	case KindDelegate:
		return "Delegate"
	default:
		return "Kind(?)"
	}
}

// Matcher is the contract the VM needs from an inner, non-backtracking
// regex engine for Delegate/DelegateSized instructions. It is bound to
// Go's standard regexp package by internal/delegate; this package only
// needs the interface so vmir stays independent of that choice.
type Matcher interface {
	// Find performs an anchored match against s and reports the byte
	// length of the match.
	Find(s string) (end int, ok bool)
	// Captures performs an anchored match against s, reporting the byte
	// length of the overall match plus the span of each capturing
	// group (in order). An unparticipating group is reported as
	// (Unset, Unset).
	Captures(s string) (end int, groups []Span, ok bool)
}

// Span is a byte-offset pair; Unset marks a group that didn't
// participate in a match.
type Span struct {
	Start, End int
}

// Unset is the sentinel span endpoint for a capturing group that did
// not participate in an inner (Delegate) match.
const Unset = -1

// Insn is one instruction of the program. Only the fields relevant to
// Kind are populated; the rest are zero.
type Insn struct {
	Kind Kind

	// Lit holds the literal bytes for KindLit.
	Lit []byte

	// X, Y are generic jump targets: Split(X, Y) tries X first, falls
	// back to Y; Jmp uses X only.
	X, Y int

	// Slot is the save-slot operand for Save, Save0, Restore, and the
	// group-start slot for Backref (group end is Slot+1).
	Slot int

	// N is GoBack's codepoint count, or DelegateSized's codepoint
	// count.
	N int

	// Lo, Hi, Next, Repeat, Check are the RepeatGr/RepeatNg/
	// RepeatEpsilonGr/RepeatEpsilonNg operands. Hi is unused (zero) for
	// the epsilon-guarded variants, which have no upper bound.
	Lo, Hi, Next, Repeat, Check int

	// StartGroup, EndGroup, Inner, Inner1 are Delegate's operands.
	// DelegateSized only uses Inner (and N above).
	StartGroup, EndGroup int
	Inner, Inner1        Matcher
}

// End returns an End instruction.
func End() Insn { return Insn{Kind: KindEnd} }

// Any returns an Any instruction.
func Any() Insn { return Insn{Kind: KindAny} }

// AnyNoNL returns an AnyNoNL instruction.
func AnyNoNL() Insn { return Insn{Kind: KindAnyNoNL} }

// Lit returns a Lit instruction matching the given literal bytes.
func Lit(s string) Insn { return Insn{Kind: KindLit, Lit: []byte(s)} }

// Split returns a Split instruction; x is tried first, y on backtrack.
func Split(x, y int) Insn { return Insn{Kind: KindSplit, X: x, Y: y} }

// Jmp returns a Jmp instruction.
func Jmp(target int) Insn { return Insn{Kind: KindJmp, X: target} }

// Save returns a Save instruction.
func Save(slot int) Insn { return Insn{Kind: KindSave, Slot: slot} }

// Save0 returns a Save0 instruction.
func Save0(slot int) Insn { return Insn{Kind: KindSave0, Slot: slot} }

// Restore returns a Restore instruction.
func Restore(slot int) Insn { return Insn{Kind: KindRestore, Slot: slot} }

// GoBack returns a GoBack instruction moving back n codepoints.
func GoBack(n int) Insn { return Insn{Kind: KindGoBack, N: n} }

// RepeatGr returns a greedy counted-repeat instruction.
func RepeatGr(lo, hi, next, repeat int) Insn {
	return Insn{Kind: KindRepeatGr, Lo: lo, Hi: hi, Next: next, Repeat: repeat}
}

// RepeatNg returns a non-greedy counted-repeat instruction.
func RepeatNg(lo, hi, next, repeat int) Insn {
	return Insn{Kind: KindRepeatNg, Lo: lo, Hi: hi, Next: next, Repeat: repeat}
}

// RepeatEpsilonGr returns a greedy zero-width-guarded repeat instruction.
func RepeatEpsilonGr(lo, next, repeat, check int) Insn {
	return Insn{Kind: KindRepeatEpsilonGr, Lo: lo, Next: next, Repeat: repeat, Check: check}
}

// RepeatEpsilonNg returns a non-greedy zero-width-guarded repeat instruction.
func RepeatEpsilonNg(lo, next, repeat, check int) Insn {
	return Insn{Kind: KindRepeatEpsilonNg, Lo: lo, Next: next, Repeat: repeat, Check: check}
}

// FailNegativeLookAround returns the instruction emitted right after
// the body of a negative look-around.
func FailNegativeLookAround() Insn { return Insn{Kind: KindFailNegativeLookAround} }

// Backref returns a back-reference instruction to the group whose
// start/end are saved at slot/slot+1.
func Backref(slot int) Insn { return Insn{Kind: KindBackref, Slot: slot} }

// BeginAtomic returns the instruction marking the start of an atomic
// group's body.
func BeginAtomic() Insn { return Insn{Kind: KindBeginAtomic} }

// EndAtomic returns the instruction marking the end of an atomic
// group's body.
func EndAtomic() Insn { return Insn{Kind: KindEndAtomic} }

// DelegateSized returns an instruction that delegates to inner and,
// once it matches, advances by exactly n codepoints without
// re-measuring the match.
func DelegateSized(inner Matcher, n int) Insn {
	return Insn{Kind: KindDelegateSized, Inner: inner, N: n}
}

// Delegate returns an instruction that delegates to inner (or inner1,
// when available and ix > 0) and, if it has capturing groups, copies
// their spans into slots 2*startGroup through 2*endGroup-1.
func Delegate(inner, inner1 Matcher, startGroup, endGroup int) Insn {
	return Insn{Kind: KindDelegate, Inner: inner, Inner1: inner1, StartGroup: startGroup, EndGroup: endGroup}
}

// Program is an immutable sequence of instructions plus the number of
// semantic save slots it references. NSaves does not include space for
// the explicit stack (§3); the engine grows the slot vector beyond
// NSaves on demand for that.
type Program struct {
	Body   []Insn
	NSaves int
}

// New builds a Program. The compiler (out of scope here) is the
// intended caller; tests and the CLI build programs directly too.
func New(body []Insn, nSaves int) *Program {
	return &Program{Body: body, NSaves: nSaves}
}
