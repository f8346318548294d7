// Package backtrack implements a Pike/Spencer-style backtracking
// virtual machine: given a compiled vmir.Program and an input string,
// it determines whether the program matches and, if so, returns the
// slot vector holding capture positions.
//
// The dispatcher is a tight fetch/execute loop: at each step it
// fetches program.Body[pc], runs its action, and either advances pc,
// jumps, or falls into the failure handler, which pops a backtrack
// frame and resumes, or reports a clean no-match once the stack is
// empty.
package backtrack

import (
	"github.com/mbrubeck/fancy-regex/internal/runeseek"
	"github.com/mbrubeck/fancy-regex/internal/vmir"
)

// DefaultMaxStack is the default bound on backtrack-stack depth.
const DefaultMaxStack = 1_000_000

// Config controls a single Run invocation.
type Config struct {
	// MaxStack bounds backtrack-stack depth; exceeding it fails the
	// call with a *StackOverflowError. Zero means DefaultMaxStack.
	MaxStack int

	// Trace, if non-nil, receives a diagnostic dispatch trace. It has
	// no effect on matching semantics.
	Trace *Tracer
}

func (c Config) maxStack() int {
	if c.MaxStack > 0 {
		return c.MaxStack
	}
	return DefaultMaxStack
}

// Run executes program against input starting at byte offset pos. It
// returns the final slot vector on a match, (nil, nil) on a clean
// no-match, or a non-nil error (always a *StackOverflowError) if the
// backtrack stack would have overflowed.
func Run(program *vmir.Program, input string, pos int, cfg Config) ([]int, error) {
	st := newState(program.NSaves, cfg.maxStack(), cfg.Trace)

	pc := 0
	ix := pos
	body := program.Body

	for {
		switch outcome, err := step(st, body, &pc, &ix, input); outcome {
		case outcomeMatch:
			return append(make([]int, 0, len(st.saves)), st.saves...), nil
		case outcomeContinue:
			continue
		case outcomeOverflow:
			return nil, err
		case outcomeFail:
			st.tracer.fail()
			if len(st.stack) == 0 {
				return nil, nil
			}
			pc, ix = st.pop()
			continue
		}
	}
}

type outcome int

const (
	outcomeContinue outcome = iota
	outcomeMatch
	outcomeFail
	outcomeOverflow
)

// step executes exactly one instruction: program.Body[*pc] against
// *ix. It mutates st and, on outcomeContinue, *pc/*ix in place (for
// Jmp/Split/Repeat* targets); for any other outcome *pc/*ix are left
// at the instruction that produced it, which the caller ignores.
func step(st *state, body []vmir.Insn, pcp, ixp *int, input string) (outcome, error) {
	pc, ix := *pcp, *ixp
	insn := body[pc]
	st.tracer.dispatch(ix, pc, insn)

	switch insn.Kind {
	case vmir.KindEnd:
		st.tracer.saves(st.saves)
		return outcomeMatch, nil

	case vmir.KindAny:
		if ix < len(input) {
			ix += runeseek.LenAt(input, ix)
		} else {
			return outcomeFail, nil
		}

	case vmir.KindAnyNoNL:
		if ix < len(input) && input[ix] != '\n' {
			ix += runeseek.LenAt(input, ix)
		} else {
			return outcomeFail, nil
		}

	case vmir.KindLit:
		end := ix + len(insn.Lit)
		if end > len(input) || input[ix:end] != string(insn.Lit) {
			return outcomeFail, nil
		}
		ix = end

	case vmir.KindSplit:
		if err := st.push(insn.Y, ix); err != nil {
			return outcomeOverflow, err
		}
		*pcp, *ixp = insn.X, ix
		return outcomeContinue, nil

	case vmir.KindJmp:
		*pcp, *ixp = insn.X, ix
		return outcomeContinue, nil

	case vmir.KindSave:
		st.save(insn.Slot, ix)

	case vmir.KindSave0:
		st.save(insn.Slot, 0)

	case vmir.KindRestore:
		ix = st.get(insn.Slot)

	case vmir.KindGoBack:
		for i := 0; i < insn.N; i++ {
			if ix == 0 {
				return outcomeFail, nil
			}
			ix = runeseek.Prev(input, ix)
		}

	case vmir.KindRepeatGr:
		repcount := st.get(insn.Repeat)
		if repcount == insn.Hi {
			*pcp, *ixp = insn.Next, ix
			return outcomeContinue, nil
		}
		st.save(insn.Repeat, repcount+1)
		if repcount >= insn.Lo {
			if err := st.push(insn.Next, ix); err != nil {
				return outcomeOverflow, err
			}
		}

	case vmir.KindRepeatNg:
		repcount := st.get(insn.Repeat)
		if repcount == insn.Hi {
			*pcp, *ixp = insn.Next, ix
			return outcomeContinue, nil
		}
		st.save(insn.Repeat, repcount+1)
		if repcount >= insn.Lo {
			if err := st.push(pc+1, ix); err != nil {
				return outcomeOverflow, err
			}
			*pcp, *ixp = insn.Next, ix
			return outcomeContinue, nil
		}

	case vmir.KindRepeatEpsilonGr:
		repcount := st.get(insn.Repeat)
		if repcount > insn.Lo && st.get(insn.Check) == ix {
			return outcomeFail, nil
		}
		st.save(insn.Repeat, repcount+1)
		if repcount >= insn.Lo {
			st.save(insn.Check, ix)
			if err := st.push(insn.Next, ix); err != nil {
				return outcomeOverflow, err
			}
		}

	case vmir.KindRepeatEpsilonNg:
		repcount := st.get(insn.Repeat)
		if repcount > insn.Lo && st.get(insn.Check) == ix {
			return outcomeFail, nil
		}
		st.save(insn.Repeat, repcount+1)
		if repcount >= insn.Lo {
			st.save(insn.Check, ix)
			if err := st.push(pc+1, ix); err != nil {
				return outcomeOverflow, err
			}
			*pcp, *ixp = insn.Next, ix
			return outcomeContinue, nil
		}

	case vmir.KindFailNegativeLookAround:
		// The body of the look-around matched; because this is a
		// *negative* look-around, the look-around itself must fail.
		// First discard every frame the body pushed: pop until the
		// popped pc is the instruction right after this one (the
		// "after" target the compiler arranged to be the top of the
		// stack via the Split preceding the body).
		for {
			poppedPC, _ := st.pop()
			if poppedPC == pc+1 {
				break
			}
		}
		return outcomeFail, nil

	case vmir.KindBackref:
		lo := st.get(insn.Slot)
		if lo == Unset {
			return outcomeFail, nil
		}
		hi := st.get(insn.Slot + 1)
		ixEnd := ix + (hi - lo)
		if ixEnd > len(input) || input[ix:ixEnd] != input[lo:hi] {
			return outcomeFail, nil
		}
		ix = ixEnd

	case vmir.KindBeginAtomic:
		st.stackPush(st.backtrackCount())

	case vmir.KindEndAtomic:
		st.backtrackCut(st.stackPop())

	case vmir.KindDelegateSized:
		if _, ok := insn.Inner.Find(input[ix:]); ok {
			// The compiler guarantees the inner match spans exactly N
			// codepoints, so the result is applied without re-measuring it.
			for i := 0; i < insn.N; i++ {
				ix += runeseek.LenAt(input, ix)
			}
		} else {
			return outcomeFail, nil
		}

	case vmir.KindDelegate:
		inner := insn.Inner
		if insn.Inner1 != nil && ix > 0 {
			ix = runeseek.Prev(input, ix)
			inner = insn.Inner1
		}
		if insn.StartGroup == insn.EndGroup {
			end, ok := inner.Find(input[ix:])
			if !ok {
				return outcomeFail, nil
			}
			ix += end
		} else {
			end, groups, ok := inner.Captures(input[ix:])
			if !ok {
				return outcomeFail, nil
			}
			for i := 0; i < insn.EndGroup-insn.StartGroup; i++ {
				slot := (insn.StartGroup + i) * 2
				g := groups[i]
				if g.Start == vmir.Unset {
					st.save(slot, Unset)
					st.save(slot+1, Unset)
				} else {
					st.save(slot, ix+g.Start)
					st.save(slot+1, ix+g.End)
				}
			}
			ix += end
		}
	}

	*pcp, *ixp = pc+1, ix
	return outcomeContinue, nil
}
