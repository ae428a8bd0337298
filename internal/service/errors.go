package service

import "errors"

var (
	// ErrStreamEnded is returned when a sync stream ended without a result
	// or sync_completed event.
	ErrStreamEnded = errors.New("sync stream ended without a result")

	// ErrPullIncomplete is returned when a model download stream ended
	// before the backend reported success.
	ErrPullIncomplete = errors.New("model pull ended before completion")

	ErrEmptyModelName = errors.New("model name is empty")
)

// SyncFailedError is a fatal sync_failed event sent by the backend.
type SyncFailedError struct {
	Message string
}

func (e *SyncFailedError) Error() string {
	return "sync failed: " + e.Message
}

// UserMessage returns the backend's message unchanged.
func (e *SyncFailedError) UserMessage() string {
	return e.Message
}

// PullFailedError is an error frame of a model download.
type PullFailedError struct {
	Model   string
	Message string
}

func (e *PullFailedError) Error() string {
	return "pull " + e.Model + ": " + e.Message
}
