package stream

import (
	"context"
	"errors"
)

var (
	// ErrSessionExpired means the stream was rejected with 401 and the one
	// permitted token refresh failed or was rejected again.
	ErrSessionExpired = errors.New("session expired")
	// ErrStreamTimeout means the fixed stream timeout elapsed.
	ErrStreamTimeout = errors.New("stream timed out")
	// ErrAborted means an external cancellation signal stopped the stream.
	ErrAborted = errors.New("stream aborted")
	// ErrSuperseded means a newer attempt replaced this one.
	ErrSuperseded = errors.New("stream superseded by a newer attempt")
)

// IsCanceled reports whether err stems from cancellation rather than a real
// failure. Timeouts are failures and return false.
func IsCanceled(err error) bool {
	if err == nil || errors.Is(err, ErrStreamTimeout) {
		return false
	}
	return errors.Is(err, ErrAborted) ||
		errors.Is(err, ErrSuperseded) ||
		errors.Is(err, context.Canceled)
}
