package backtrack

import "fmt"

// ErrStackOverflow is the sentinel backtrack-stack-overflow error.
// Callers should use errors.Is(err, backtrack.ErrStackOverflow) rather
// than comparing values directly, since Run always returns a
// *StackOverflowError carrying the configured bound.
var ErrStackOverflow = fmt.Errorf("backtrack: stack overflow")

// StackOverflowError reports that a push would have exceeded the
// configured max stack depth. It is the only error condition the
// engine raises itself: everything else that looks like failure (a
// group-not-matched backref, a zero-width repeat guard tripping, an
// out-of-bounds read) is a normal local failure that drives
// backtracking, not an error.
type StackOverflowError struct {
	MaxStack int
}

func errStackOverflow(maxStack int) error {
	return &StackOverflowError{MaxStack: maxStack}
}

func (e *StackOverflowError) Error() string {
	return fmt.Sprintf("backtrack: stack overflow (max_stack=%d)", e.MaxStack)
}

// Is reports whether target is the ErrStackOverflow sentinel, so
// callers can write errors.Is(err, backtrack.ErrStackOverflow) without
// caring about the bound.
func (e *StackOverflowError) Is(target error) bool {
	return target == ErrStackOverflow
}
