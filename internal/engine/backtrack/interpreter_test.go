package backtrack

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbrubeck/fancy-regex/internal/delegate"
	"github.com/mbrubeck/fancy-regex/internal/vmir"
)

func runDefault(t *testing.T, prog *vmir.Program, input string) []int {
	t.Helper()
	saves, err := Run(prog, input, 0, Config{})
	require.NoError(t, err)
	return saves
}

func TestLiteral(t *testing.T) {
	prog := vmir.New([]vmir.Insn{
		vmir.Lit("a"),
		vmir.End(),
	}, 0)

	saves := runDefault(t, prog, "a")
	require.NotNil(t, saves)

	saves = runDefault(t, prog, "b")
	assert.Nil(t, saves)
}

// TestAlternationBacktrack checks the trace shows exactly one push/pop
// pair for the successful "ac" path of an alternation.
func TestAlternationBacktrack(t *testing.T) {
	body := []vmir.Insn{
		vmir.Split(1, 4), // 0: try "ab" first, else "ac"
		vmir.Lit("a"),    // 1
		vmir.Lit("b"),    // 2
		vmir.Jmp(6),      // 3
		vmir.Lit("a"),    // 4
		vmir.Lit("c"),    // 5
		vmir.End(),       // 6
	}
	prog := vmir.New(body, 0)

	var buf bytes.Buffer
	saves, err := Run(prog, "ac", 0, Config{Trace: NewTracer(&buf)})
	require.NoError(t, err)
	require.NotNil(t, saves)

	trace := buf.String()
	assert.Equal(t, 1, strings.Count(trace, "push"))
	assert.Equal(t, 1, strings.Count(trace, "pop"))

	saves = runDefault(t, prog, "ad")
	assert.Nil(t, saves)
}

// buildCountedRepeat builds a{lo,hi}b: RepeatGr/Ng around Lit("a"),
// followed by Lit("b").
func buildCountedRepeat(greedy bool, lo, hi int) *vmir.Program {
	// 0: Save0(0)                         ; repeat counter starts at 0
	// 1: Repeat{Gr,Ng}(lo, hi, next=4, repeat=0)
	// 2: Lit("a")
	// 3: Jmp(1)
	// 4: Lit("b")
	// 5: End
	var repeat vmir.Insn
	if greedy {
		repeat = vmir.RepeatGr(lo, hi, 4, 0)
	} else {
		repeat = vmir.RepeatNg(lo, hi, 4, 0)
	}
	body := []vmir.Insn{
		vmir.Save0(0),
		repeat,
		vmir.Lit("a"),
		vmir.Jmp(1),
		vmir.Lit("b"),
		vmir.End(),
	}
	return vmir.New(body, 1)
}

func TestCountedRepeatGreedy(t *testing.T) {
	prog := buildCountedRepeat(true, 2, 3)

	require.NotNil(t, runDefault(t, prog, "aaab"))
	require.NotNil(t, runDefault(t, prog, "aab"))
	assert.Nil(t, runDefault(t, prog, "ab"))
	assert.Nil(t, runDefault(t, prog, "aaaab"))
}

func TestCountedRepeatNonGreedy(t *testing.T) {
	greedy := buildCountedRepeat(true, 2, 3)
	nonGreedy := buildCountedRepeat(false, 2, 3)

	for _, input := range []string{"aaab", "aab", "ab", "aaaab", "b"} {
		g := runDefault(t, greedy, input)
		ng := runDefault(t, nonGreedy, input)
		if g == nil {
			assert.Nil(t, ng, "non-greedy matched %q but greedy did not", input)
		} else {
			assert.NotNil(t, ng, "greedy matched %q but non-greedy did not", input)
		}
	}
}

// TestBackreference exercises the back-reference (a+)\1.
func TestBackreference(t *testing.T) {
	// Program for (a+)\1 anchored at start:
	// 0: Save(2)            ; group 1 start
	// 1: Lit("a")           ; body of a+, greedy
	// 2: Split(1, 3)
	// 3: Save(3)            ; group 1 end
	// 4: Backref(2)
	// 5: End
	body := []vmir.Insn{
		vmir.Save(2),
		vmir.Lit("a"),
		vmir.Split(1, 3),
		vmir.Save(3),
		vmir.Backref(2),
		vmir.End(),
	}
	prog := vmir.New(body, 4)

	saves := runDefault(t, prog, "aaaa")
	require.NotNil(t, saves)
	assert.Equal(t, "aa", "aaaa"[saves[2]:saves[3]])

	// a+ can only ever capture "a" here (the sole candidate split), and
	// the next byte is "b": no repeat of any candidate capture exists.
	assert.Nil(t, runDefault(t, prog, "ab"))
}

// buildAtomicAPlusAB builds the atomic group (?>a+)ab.
func buildAtomicAPlusAB() *vmir.Program {
	// 0: BeginAtomic
	// 1: Lit("a")
	// 2: Split(1, 3)    ; greedy a+
	// 3: EndAtomic
	// 4: Lit("a")
	// 5: Lit("b")
	// 6: End
	body := []vmir.Insn{
		vmir.BeginAtomic(),
		vmir.Lit("a"),
		vmir.Split(1, 3),
		vmir.EndAtomic(),
		vmir.Lit("a"),
		vmir.Lit("b"),
		vmir.End(),
	}
	return vmir.New(body, 0)
}

// buildNonAtomicAPlusAB builds the same a+ab without atomic wrapping,
// so ordinary backtracking can give back an "a" for the trailing "ab".
func buildNonAtomicAPlusAB() *vmir.Program {
	// 0: Lit("a")
	// 1: Split(0, 2)   ; greedy: try looping back to 0, else continue to 2
	// 2: Lit("a")
	// 3: Lit("b")
	// 4: End
	body := []vmir.Insn{
		vmir.Lit("a"),
		vmir.Split(0, 2),
		vmir.Lit("a"),
		vmir.Lit("b"),
		vmir.End(),
	}
	return vmir.New(body, 0)
}

func TestAtomicGroupPreventsBacktrackIntoBody(t *testing.T) {
	atomic := buildAtomicAPlusAB()
	assert.Nil(t, runDefault(t, atomic, "aaab"), "atomic a+ must not give back an a for the trailing ab")

	nonAtomic := buildNonAtomicAPlusAB()
	assert.NotNil(t, runDefault(t, nonAtomic, "aaab"), "without atomic, backtracking must allow the match")
}

// buildNegativeLookaheadProgram builds the negative look-ahead a(?!b)c.
func buildNegativeLookaheadProgram() *vmir.Program {
	// Compiled shape:
	// 0: Lit("a")
	// 1: Split(2, 4)              ; enter body, with "after" (4) as fallback
	// 2: Lit("b")                 ; body of (?!b)
	// 3: FailNegativeLookAround
	// 4: Lit("c")
	// 5: End
	body := []vmir.Insn{
		vmir.Lit("a"),                 // 0
		vmir.Split(2, 4),              // 1: try body at 2, else "after" at 4
		vmir.Lit("b"),                 // 2: body of (?!b)
		vmir.FailNegativeLookAround(), // 3
		vmir.Lit("c"),                 // 4: after
		vmir.End(),                    // 5
	}
	return vmir.New(body, 0)
}

func TestNegativeLookaheadNoLeftoverFrames(t *testing.T) {
	prog := buildNegativeLookaheadProgram()

	require.NotNil(t, runDefault(t, prog, "ac"))
	assert.Nil(t, runDefault(t, prog, "abc"))

	// For "ac" the look-ahead body (Lit("b")) fails immediately against
	// "c", so the Split's own frame is popped and the match proceeds
	// through "after" normally: exactly one push, one pop.
	var buf bytes.Buffer
	saves, err := Run(prog, "ac", 0, Config{Trace: NewTracer(&buf)})
	require.NoError(t, err)
	require.NotNil(t, saves)

	trace := buf.String()
	assert.Equal(t, 1, strings.Count(trace, "push"))
	assert.Equal(t, 1, strings.Count(trace, "pop"))
}

func TestNegativeLookaheadBodyMatchesLeavesNoFrames(t *testing.T) {
	prog := buildNegativeLookaheadProgram()
	var buf bytes.Buffer
	// "abc" anchored: look-ahead body ("b") matches, so
	// FailNegativeLookAround fires and must discard the frame the
	// Split pushed before failing overall.
	saves, err := Run(prog, "abc", 0, Config{Trace: NewTracer(&buf)})
	require.NoError(t, err)
	assert.Nil(t, saves)

	pushes := strings.Count(buf.String(), "push")
	pops := strings.Count(buf.String(), "pop")
	assert.Equal(t, pushes, pops, "FailNegativeLookAround must leave the backtrack stack exactly as deep as before the look-around's Split")
}

func TestStackOverflowPropagates(t *testing.T) {
	// Pathological alternation: Split(1, 2) pushes a fallback frame at
	// pc 2 and tries pc 1, which unconditionally jumps back to pc 0.
	// Neither branch ever fails or pops, so the backtrack stack grows
	// by one frame every iteration until it exceeds MaxStack.
	body := []vmir.Insn{
		vmir.Split(1, 2),
		vmir.Jmp(0),
		vmir.End(),
	}
	prog := vmir.New(body, 0)

	_, err := Run(prog, "", 0, Config{MaxStack: 8})
	require.Error(t, err)
	var overflow *StackOverflowError
	require.ErrorAs(t, err, &overflow)
	assert.Equal(t, 8, overflow.MaxStack)
}

// TestDelegateFindNoGroups exercises Delegate's no-groups path against
// the RE2-backed Matcher.
func TestDelegateFindNoGroups(t *testing.T) {
	inner := delegate.MustCompile(`[0-9]+`)
	body := []vmir.Insn{
		vmir.Delegate(inner, nil, 1, 1), // start==end: no groups
		vmir.End(),
	}
	prog := vmir.New(body, 0)

	saves := runDefault(t, prog, "123abc")
	require.NotNil(t, saves)
}

// TestDelegateWithGroups exercises Delegate's capturing-group path,
// writing inner group spans into the outer slot vector.
func TestDelegateWithGroups(t *testing.T) {
	inner := delegate.MustCompile(`([a-z]+)-([0-9]+)`)
	body := []vmir.Insn{
		vmir.Delegate(inner, nil, 1, 3), // groups 1,2 -> slots 2..5
		vmir.End(),
	}
	prog := vmir.New(body, 6)

	saves := runDefault(t, prog, "ab-12")
	require.NotNil(t, saves)
	assert.Equal(t, "ab", "ab-12"[saves[2]:saves[3]])
	assert.Equal(t, "12", "ab-12"[saves[4]:saves[5]])
}

func TestDelegateSizedAdvancesByCodepoints(t *testing.T) {
	inner := delegate.MustCompile(`..`) // 2 codepoints
	body := []vmir.Insn{
		vmir.DelegateSized(inner, 2),
		vmir.Lit("!"),
		vmir.End(),
	}
	prog := vmir.New(body, 0)

	saves := runDefault(t, prog, "hé!")
	require.NotNil(t, saves)

	assert.Nil(t, runDefault(t, prog, "héllo!"))
}
