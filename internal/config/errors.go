package config

import "errors"

// Validation errors returned when required configuration groups are
// incomplete or invalid.
var (
	// ErrInvalidAdapterConfigs indicates invalid client adapter settings
	// (for example, missing HTTP address or a non-positive timeout).
	ErrInvalidAdapterConfigs = errors.New("invalid adapter configuration")
	// ErrInvalidStorageConfigs indicates invalid client storage settings
	// (for example, empty DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidSyncConfigs indicates an invalid reducer policy
	// (for example, a non-positive queue size or negative pacing delay).
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidWorkerConfigs indicates invalid background worker settings
	// (for example, a negative sync interval).
	ErrInvalidWorkerConfigs = errors.New("invalid worker configuration")
	// ErrInvalidFakeBankConfigs indicates an unusable fake backend setup
	// (for example, missing token sign key).
	ErrInvalidFakeBankConfigs = errors.New("invalid fakebank configuration")
)
