package health

import "errors"

var (
	// ErrCheckFailed is a generic failure a custom check can return
	// when it has nothing more specific to say.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout replaces context.DeadlineExceeded in probe
	// output, so a slow dependency reads as a timeout rather than a
	// raw context error.
	ErrCheckTimeout = errors.New("health: check timeout")
)
