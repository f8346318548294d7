// Package runeseek provides the two UTF-8 primitives the backtracking
// engine treats as pure, out-of-scope collaborators: the byte length of
// the codepoint starting at an index, and the byte index of the
// codepoint preceding one. No third-party UTF-8 library appears
// anywhere in the retrieved example pack, so these wrap unicode/utf8
// directly.
package runeseek

import "unicode/utf8"

// LenAt returns the byte length of the codepoint starting at byte
// offset ix in s. The caller must ensure ix < len(s).
func LenAt(s string, ix int) int {
	_, size := utf8.DecodeRuneInString(s[ix:])
	return size
}

// Prev returns the byte offset of the codepoint immediately preceding
// byte offset ix in s. The caller must ensure ix > 0.
func Prev(s string, ix int) int {
	_, size := utf8.DecodeLastRuneInString(s[:ix])
	return ix - size
}
