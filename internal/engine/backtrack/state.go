package backtrack

import "math"

// Unset is the sentinel stored in a slot that has never been written:
// the maximum representable index, so an unset group start/end always
// compares as "after" any real byte offset.
const Unset = math.MaxInt

// frame is one backtrack-stack entry: resume at pc/ix if everything
// above this frame has failed, and rewind the top nsave undo-log
// entries first.
type frame struct {
	pc, ix, nsave int
}

// undoEntry is one (slot, prior value) pair recorded the first time a
// slot is written within the current frame.
type undoEntry struct {
	slot int
	prev int
}

// state is the engine's mutable execution record: the slot vector, the
// backtrack stack, the copy-on-write undo log, and the explicit stack
// (layered on top of the slot vector, starting at slot explicitSP).
//
// Each element in the backtrack stack conceptually represents the
// entire machine state (pc, ix, and every slot), but copying the whole
// slot vector on every push would cost O(n_saves) per branch. Instead
// the top `nsave` entries of oldsave record exactly which slots were
// mutated since the last push, so push/pop/save stay O(slots touched
// in the current frame) rather than O(n_saves).
type state struct {
	saves []int

	stack []frame

	oldsave []undoEntry
	nsave   int

	explicitSP int

	maxStack int

	tracer *Tracer
}

func newState(nSaves, maxStack int, tracer *Tracer) *state {
	saves := make([]int, nSaves)
	for i := range saves {
		saves[i] = Unset
	}
	return &state{
		saves:      saves,
		explicitSP: nSaves,
		maxStack:   maxStack,
		tracer:     tracer,
	}
}

// push appends a backtrack branch (pc, ix) and starts a fresh undo
// frame. Fails with errStackOverflow if the stack is already at
// maxStack.
func (s *state) push(pc, ix int) error {
	if len(s.stack) >= s.maxStack {
		return errStackOverflow(s.maxStack)
	}
	s.stack = append(s.stack, frame{pc: pc, ix: ix, nsave: s.nsave})
	s.nsave = 0
	s.tracer.stack("push", s.stack)
	return nil
}

// pop rewinds the top frame's slot mutations, removes it, and returns
// the (pc, ix) to resume at. The caller must ensure the stack is
// non-empty.
func (s *state) pop() (pc, ix int) {
	for i := 0; i < s.nsave; i++ {
		e := s.oldsave[len(s.oldsave)-1]
		s.oldsave = s.oldsave[:len(s.oldsave)-1]
		s.saves[e.slot] = e.prev
	}
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	s.nsave = top.nsave
	s.tracer.stack("pop", s.stack)
	return top.pc, top.ix
}

// save sets slots[slot] = val. If the current frame has not yet
// touched slot, the prior value is appended to the undo log first; a
// second write to the same slot within the same frame just overwrites,
// since the first-write entry already holds the value to restore.
//
// The scan below walks backward over exactly the current frame's
// nsave entries (mirroring the source's scan direction), not the whole
// undo log, which is what keeps this O(slots touched so far in this
// frame) rather than O(total undo log size).
func (s *state) save(slot, val int) {
	for i := 0; i < s.nsave; i++ {
		if s.oldsave[len(s.oldsave)-i-1].slot == slot {
			s.saves[slot] = val
			return
		}
	}
	s.oldsave = append(s.oldsave, undoEntry{slot: slot, prev: s.saves[slot]})
	s.nsave++
	s.saves[slot] = val
	s.tracer.saves(s.saves)
}

// get reads slots[slot].
func (s *state) get(slot int) int {
	return s.saves[slot]
}

// stackPush pushes val onto the explicit stack (used for atomic-group
// bookkeeping). The explicit stack lives in slots[explicitSP:], grown
// on demand; every mutation goes through save so it is automatically
// rewound on backtrack.
func (s *state) stackPush(val int) {
	if len(s.saves) == s.explicitSP {
		s.saves = append(s.saves, s.explicitSP+1)
	}
	sp := s.get(s.explicitSP)
	if len(s.saves) == sp {
		s.saves = append(s.saves, val)
	} else {
		s.save(sp, val)
	}
	s.save(s.explicitSP, sp+1)
}

// stackPop pops and returns the top of the explicit stack.
func (s *state) stackPop() int {
	sp := s.get(s.explicitSP) - 1
	result := s.get(sp)
	s.save(s.explicitSP, sp)
	return result
}

// backtrackCount returns the current backtrack-stack depth, used by
// BeginAtomic to remember where to cut back to.
func (s *state) backtrackCount() int {
	return len(s.stack)
}

// backtrackCut discards every backtrack frame above height count
// (used by EndAtomic), while preserving the rewindability of every
// slot mutation those frames would have undone: mutations inside the
// cut region are folded into the surviving frame at height count,
// keeping only the earliest (slot, prior value) per slot, so that a
// later backtrack past this atomic group still restores slots to what
// they were before it began.
func (s *state) backtrackCut(count int) {
	if len(s.stack) == count {
		return
	}

	oldsaveIx := len(s.oldsave) - s.nsave
	for _, fr := range s.stack[count+1:] {
		oldsaveIx -= fr.nsave
	}

	oldsaveStart := oldsaveIx - s.stack[count].nsave

	saved := make(map[int]struct{}, oldsaveIx-oldsaveStart)
	for _, e := range s.oldsave[oldsaveStart:oldsaveIx] {
		saved[e.slot] = struct{}{}
	}

	// Retain all oldsave values above oldsaveIx, but only the first
	// occurrence of each slot (first write shadows any later
	// overwrite within the discarded frames, same as within a single
	// frame in save()).
	for ix := oldsaveIx; ix < len(s.oldsave); ix++ {
		slot := s.oldsave[ix].slot
		if _, ok := saved[slot]; !ok {
			saved[slot] = struct{}{}
			s.oldsave[oldsaveIx], s.oldsave[ix] = s.oldsave[ix], s.oldsave[oldsaveIx]
			oldsaveIx++
		}
	}

	s.stack = s.stack[:count]
	s.oldsave = s.oldsave[:oldsaveIx]
	s.nsave = oldsaveIx - oldsaveStart
}
