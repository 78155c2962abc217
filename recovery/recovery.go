// Package recovery lets embedders decide how the viewer reacts to per-page
// faults: a render that fails, a page whose token data never arrived. The
// document as a whole stays usable either way; strategies only choose
// between giving up on the page, skipping it quietly, or surfacing a
// warning.
package recovery

import "context"

// Location identifies where a fault occurred.
type Location struct {
	Page      int    // zero-based page index, -1 when not page-scoped
	Component string // "render", "tokens", ...
}

// Action is a strategy's verdict for one fault.
type Action int

const (
	// ActionFail propagates the error to the caller.
	ActionFail Action = iota
	// ActionSkip drops the operation silently.
	ActionSkip
	// ActionWarn drops the operation but reports it to the user.
	ActionWarn
)

// Strategy decides how to proceed after a fault.
type Strategy interface {
	OnError(ctx context.Context, err error, loc Location) Action
}
