package scope

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNonConverging      = errors.New("watchers did not stabilize")
	ErrAsyncNonConverging = errors.New("deferred tasks did not stabilize")
	ErrDigestInProgress   = errors.New("digest already in progress")
)

// DigestError is returned when a digest runs out of sweeps.
type DigestError struct {
	Sweeps int
	// Last holds the dirty values of the final sweeps, oldest first.
	Last []any
	err  error
}

func (e *DigestError) Error() string {
	if len(e.Last) == 0 {
		return fmt.Sprintf("%d digest iterations reached: %v", e.Sweeps, e.err)
	}
	last := make([]string, len(e.Last))
	for i, v := range e.Last {
		last[i] = fmt.Sprintf("%v", v)
	}
	return fmt.Sprintf("%d digest iterations reached: %v (last dirty: %s)",
		e.Sweeps, e.err, strings.Join(last, "; "))
}

func (e *DigestError) Unwrap() error {
	return e.err
}

// ListenerError wraps an error returned by a watch listener.
type ListenerError struct {
	NewValue any
	OldValue any
	Err      error
}

func (e *ListenerError) Error() string {
	return fmt.Sprintf("listener failed (new=%v old=%v): %v", e.NewValue, e.OldValue, e.Err)
}

func (e *ListenerError) Unwrap() error {
	return e.Err
}

// IsNonConverging reports whether err came from a digest hitting its sweep
// bound, either on watchers or on deferred tasks.
func IsNonConverging(err error) bool {
	return errors.Is(err, ErrNonConverging) || errors.Is(err, ErrAsyncNonConverging)
}
