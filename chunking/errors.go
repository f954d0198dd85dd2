package chunking

import "errors"

var (
	// ErrInvalidBreakpoints indicates the breakpoint sequence does not start
	// at 0, is not strictly increasing, or references sentences outside the
	// document.
	ErrInvalidBreakpoints = errors.New("invalid breakpoint sequence")
)
