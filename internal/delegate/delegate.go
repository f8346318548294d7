// Package delegate binds Go's standard regexp package (RE2, a
// non-backtracking, linear-time engine) as the inner matcher that
// Delegate/DelegateSized instructions hand sub-patterns off to.
package delegate

import (
	"regexp"
	"strings"

	"github.com/mbrubeck/fancy-regex/internal/vmir"
)

// RE2 adapts a *regexp.Regexp to the vmir.Matcher contract: anchored
// find/captures against a suffix of the input.
type RE2 struct {
	re *regexp.Regexp
}

// Compile compiles pattern as an anchored matcher. If pattern does not
// already start with the \A anchor, one is added: the VM always
// invokes Find/Captures against a suffix of the input and requires the
// match to start exactly there.
func Compile(pattern string) (*RE2, error) {
	if !strings.HasPrefix(pattern, `\A`) {
		pattern = `\A(?:` + pattern + `)`
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &RE2{re: re}, nil
}

// MustCompile is like Compile but panics on error; used for building
// test fixtures and CLI sample programs, mirroring regexp.MustCompile.
func MustCompile(pattern string) *RE2 {
	d, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return d
}

// Find implements vmir.Matcher.
func (d *RE2) Find(s string) (int, bool) {
	loc := d.re.FindStringIndex(s)
	if loc == nil {
		return 0, false
	}
	return loc[1], true
}

// Captures implements vmir.Matcher.
func (d *RE2) Captures(s string) (int, []vmir.Span, bool) {
	loc := d.re.FindStringSubmatchIndex(s)
	if loc == nil {
		return 0, nil, false
	}
	n := d.re.NumSubexp()
	groups := make([]vmir.Span, n)
	for i := 1; i <= n; i++ {
		start, end := loc[2*i], loc[2*i+1]
		if start < 0 {
			groups[i-1] = vmir.Span{Start: vmir.Unset, End: vmir.Unset}
		} else {
			groups[i-1] = vmir.Span{Start: start, End: end}
		}
	}
	return loc[1], groups, true
}
