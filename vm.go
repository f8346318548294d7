// Package fancyregex implements the backtracking execution engine of a
// "fancy" regex matcher: given a compiled instruction Program and an
// input string, it determines whether the program matches and, if so,
// returns the capture positions.
//
// Parsing/compiling regex syntax into a Program, and the UTF-8
// primitives the engine treats as pure collaborators, are out of
// scope here. See internal/vmir for the instruction set a compiler
// targets and internal/runeseek for those primitives. The inner
// non-backtracking matcher Delegate instructions hand sub-patterns to
// is bound to Go's standard regexp package in internal/delegate.
package fancyregex

import (
	"io"
	"os"

	"github.com/mbrubeck/fancy-regex/internal/engine/backtrack"
	"github.com/mbrubeck/fancy-regex/internal/vmir"
)

// Insn, Program, Matcher and Span are re-exported from internal/vmir so
// callers building programs (tests, the CLI, a future compiler) don't
// need to import an internal package directly. Program is the
// compiler's output: an immutable instruction sequence plus the number
// of save slots it references.
type (
	Insn    = vmir.Insn
	Program = vmir.Program
	Matcher = vmir.Matcher
	Span    = vmir.Span
)

// Instruction constructors, re-exported from internal/vmir.
var (
	End, Any, AnyNoNL, Lit           = vmir.End, vmir.Any, vmir.AnyNoNL, vmir.Lit
	Split, Jmp, GoBack               = vmir.Split, vmir.Jmp, vmir.GoBack
	Save, Save0, Restore             = vmir.Save, vmir.Save0, vmir.Restore
	RepeatGr, RepeatNg               = vmir.RepeatGr, vmir.RepeatNg
	RepeatEpsilonGr, RepeatEpsilonNg = vmir.RepeatEpsilonGr, vmir.RepeatEpsilonNg
	FailNegativeLookAround, Backref  = vmir.FailNegativeLookAround, vmir.Backref
	BeginAtomic, EndAtomic           = vmir.BeginAtomic, vmir.EndAtomic
	DelegateSized, Delegate          = vmir.DelegateSized, vmir.Delegate
)

// Unset is the Span endpoint a Matcher reports for a capturing group
// that did not participate in its match. Never-written slots in a
// Match's slot vector hold math.MaxInt instead; Group reports those.
const Unset = vmir.Unset

// NewProgram builds a Program from its instruction body and the number
// of semantic save slots it references (conventionally slots 2g/2g+1
// hold capture group g's start/end).
func NewProgram(body []Insn, nSaves int) *Program {
	return vmir.New(body, nSaves)
}

// Option is a bitmask of run options.
type Option uint32

// TraceOption enables the diagnostic dispatch trace, written to
// os.Stdout by Trace, or to the writer configured via RuntimeConfig.
const TraceOption Option = 1

// RuntimeConfig builds a Config the way the teacher's RuntimeConfig
// does: clone-from-defaults plus fluent With* setters, rather than a
// struct literal with exported fields the caller might forget to
// fully initialize.
type RuntimeConfig struct {
	maxStack int
	trace    io.Writer
}

// NewRuntimeConfig returns a RuntimeConfig with the engine's defaults:
// MaxStack = 1,000,000, tracing off.
func NewRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{maxStack: backtrack.DefaultMaxStack}
}

func (c *RuntimeConfig) clone() *RuntimeConfig {
	cp := *c
	return &cp
}

// WithMaxStack overrides the backtrack-stack depth bound.
func (c *RuntimeConfig) WithMaxStack(n int) *RuntimeConfig {
	ret := c.clone()
	ret.maxStack = n
	return ret
}

// WithTrace enables tracing to w (nil disables it).
func (c *RuntimeConfig) WithTrace(w io.Writer) *RuntimeConfig {
	ret := c.clone()
	ret.trace = w
	return ret
}

// Match is the result of a successful run: the final slot vector, plus
// convenience accessors for capture groups.
type Match struct {
	saves []int
}

// Slots returns the raw slot vector. Slot 2g/2g+1 conventionally hold
// capture group g's start/end byte offset; other slots hold repeat
// counters, epsilon-loop check anchors, or explicit-stack storage and
// are only meaningful to the program that produced them.
func (m *Match) Slots() []int { return m.saves }

// Start is the overall match's start byte offset (slot 0).
func (m *Match) Start() int { return m.saves[0] }

// End is the overall match's end byte offset (slot 1).
func (m *Match) End() int { return m.saves[1] }

// Group returns capture group g's start/end byte offsets. ok is false
// if the group did not participate in the match, or g is out of
// range.
func (m *Match) Group(g int) (start, end int, ok bool) {
	lo, hi := 2*g, 2*g+1
	if hi >= len(m.saves) {
		return 0, 0, false
	}
	if m.saves[lo] == backtrack.Unset {
		return 0, 0, false
	}
	return m.saves[lo], m.saves[hi], true
}

// Run executes program against input starting at byte offset pos,
// using RuntimeConfig's bound and tracer. It returns (nil, nil) on a
// clean no-match, a non-nil *StackOverflowError if the backtrack stack
// would overflow, or a *Match on success.
func (c *RuntimeConfig) Run(program *Program, input string, pos int) (*Match, error) {
	saves, err := backtrack.Run(program, input, pos, backtrack.Config{
		MaxStack: c.maxStack,
		Trace:    backtrack.NewTracer(c.trace),
	})
	if err != nil {
		return nil, err
	}
	if saves == nil {
		return nil, nil
	}
	return &Match{saves: saves}, nil
}

var defaultConfig = NewRuntimeConfig()

// Run executes program against input starting at byte offset pos with
// the default configuration, honoring opts (currently only
// TraceOption, which traces to os.Stdout; see Trace for that case
// pre-wired).
func Run(program *Program, input string, pos int, opts Option) (*Match, error) {
	cfg := defaultConfig
	if opts&TraceOption != 0 {
		cfg = cfg.WithTrace(os.Stdout)
	}
	return cfg.Run(program, input, pos)
}

// Trace runs program with tracing enabled to stdout.
func Trace(program *Program, input string, pos int) (*Match, error) {
	return Run(program, input, pos, TraceOption)
}
