package moderation

import "errors"

var (
	// ErrNotAReply means a yes/no arrived outside a reply. Callers treat it
	// as a no-op, not a user-visible failure.
	ErrNotAReply = errors.New("decision message is not a reply")

	// ErrMalformedPrompt means the replied-to message did not carry a
	// leading row index. Nothing is written when this happens.
	ErrMalformedPrompt = errors.New("prompt text does not start with a row index")
)
