package utils

import "github.com/google/uuid"

// NewRequestID returns an identifier for the X-Request-ID header. IDs are
// UUIDv7 so log lines sort by issue time; a random v4 is used if the clock
// source fails.
func NewRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
