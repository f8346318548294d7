package fancyregex

import "github.com/mbrubeck/fancy-regex/internal/engine/backtrack"

// ErrStackOverflow is the sentinel stack-overflow error; use
// errors.Is(err, fancyregex.ErrStackOverflow) to classify an error
// returned from Run without depending on the bound it carries.
var ErrStackOverflow = backtrack.ErrStackOverflow

// StackOverflowError is the concrete error type Run returns when the
// backtrack stack would exceed its configured bound.
type StackOverflowError = backtrack.StackOverflowError
