// ABOUTME: Errors returned by session start and user transitions.
// ABOUTME: InvalidSessionError rejects plans that cannot be played.
package session

import (
	"errors"
	"fmt"
)

var (
	// ErrSessionEnded is returned by transitions after completion or cancel.
	ErrSessionEnded = errors.New("session has ended")
	// ErrCountdown is returned by pause and skips during the pre-roll.
	ErrCountdown = errors.New("not available during countdown")
	// ErrNoNext is returned by SkipNext on the last exercise.
	ErrNoNext = errors.New("no next exercise")
	// ErrNoPrevious is returned by SkipPrevious on the first exercise.
	ErrNoPrevious = errors.New("no previous exercise")
)

// InvalidSessionError means a plan is empty or malformed and no session
// was started.
type InvalidSessionError struct {
	Reason string
}

func (e *InvalidSessionError) Error() string {
	return "invalid session: " + e.Reason
}

func invalidSession(format string, args ...any) error {
	return &InvalidSessionError{Reason: fmt.Sprintf(format, args...)}
}

// IsInvalidSession reports whether err is or wraps an InvalidSessionError.
func IsInvalidSession(err error) bool {
	var ise *InvalidSessionError
	return errors.As(err, &ise)
}
