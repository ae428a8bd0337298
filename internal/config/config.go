// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"

	"github.com/spf13/pflag"
)

// Defaults applied before any other source is merged.
const (
	DefaultAdapterAddress = "http://localhost:8080"
	DefaultRequestTimeout = 30 * time.Second
	// DefaultStreamTimeout covers a human approving a TAN on their phone.
	DefaultStreamTimeout = 6 * time.Minute
	DefaultPacingDelay   = 600 * time.Millisecond
	DefaultQueueSize     = 64
	DefaultDBDSN         = "bankconnect.db"
	DefaultLogLevel      = "debug"
	DefaultFakeBankAddr  = "localhost:8080"
	DefaultTokenIssuer   = "fakebank"
	DefaultTokenDuration = 15 * time.Minute
)

// StructuredConfig is the top-level configuration container for the
// go-bank-connect binaries. It aggregates all sub-configurations and is
// populated by merging defaults, environment variables, command-line flags,
// and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env:       direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds session and logging settings.
	App App `envPrefix:"APP_"`

	// Adapter holds the backend address and the timeouts of REST and
	// streaming calls.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Storage holds the local sync-history database settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Sync holds the progress-reducer policy.
	Sync Sync `envPrefix:"SYNC_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// FakeBank configures the local fake backend.
	FakeBank FakeBank `envPrefix:"FAKEBANK_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the CONFIG environment variable or the -c / --config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Token is the bearer token attached to every backend call.
	// Env: APP_TOKEN
	Token string `env:"TOKEN"`

	// RefreshToken is exchanged for a new Token once a call is rejected
	// with 401.
	// Env: APP_REFRESH_TOKEN
	RefreshToken string `env:"REFRESH_TOKEN"`

	// LogLevel is a zerolog level name ("debug", "info", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`
}

// Adapter holds outbound transport settings.
type Adapter struct {
	// HTTPAddress is the backend base URL; a missing scheme means http.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single REST request.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// StreamTimeout bounds a whole streaming sync, including TAN approval.
	// Env: ADAPTER_STREAM_TIMEOUT
	StreamTimeout time.Duration `env:"STREAM_TIMEOUT"`
}

// Storage groups the local storage settings.
type Storage struct {
	// DB holds the sync-history database settings.
	DB DB `envPrefix:"DB_"`
}

// DB holds connection settings for the local SQLite database.
type DB struct {
	// DSN is the SQLite file path.
	// Env: STORAGE_DB_DSN
	DSN string `env:"DSN"`
}

// Sync holds the presentation policy of the progress reducer.
type Sync struct {
	// PacingDelay is inserted before an account_started event that switches
	// to another account, so the previous account's result stays visible.
	// Env: SYNC_PACING_DELAY
	PacingDelay time.Duration `env:"PACING_DELAY"`

	// QueueSize bounds the reducer's event queue.
	// Env: SYNC_QUEUE_SIZE
	QueueSize int `env:"QUEUE_SIZE"`

	// AutoPost asks the backend to post classified transactions right away.
	// Env: SYNC_AUTO_POST
	AutoPost bool `env:"AUTO_POST"`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// SyncInterval is the period of the adaptive sync job; zero disables it.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`
}

// FakeBank configures the local fake backend.
type FakeBank struct {
	// Address is the listen address in host:port form.
	// Env: FAKEBANK_ADDRESS
	Address string `env:"ADDRESS"`

	// TokenSignKey signs issued access tokens.
	// Env: FAKEBANK_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the iss claim of issued tokens.
	// Env: FAKEBANK_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration is the lifetime of issued access tokens.
	// Env: FAKEBANK_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`
}

func defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{LogLevel: DefaultLogLevel},
		Adapter: Adapter{
			HTTPAddress:    DefaultAdapterAddress,
			RequestTimeout: DefaultRequestTimeout,
			StreamTimeout:  DefaultStreamTimeout,
		},
		Storage: Storage{DB: DB{DSN: DefaultDBDSN}},
		Sync: Sync{
			PacingDelay: DefaultPacingDelay,
			QueueSize:   DefaultQueueSize,
		},
		FakeBank: FakeBank{
			Address:       DefaultFakeBankAddr,
			TokenIssuer:   DefaultTokenIssuer,
			TokenDuration: DefaultTokenDuration,
		},
	}
}

// GetStructuredConfig loads, merges, and validates the configuration from
// all available sources in the following priority order (last source wins
// for non-zero fields):
//  1. Built-in defaults
//  2. Environment variables
//  3. Command-line flags registered on fs via [BindFlags] (fs may be nil)
//  4. JSON file (path resolved from sources 2 and 3)
func GetStructuredConfig(fs *pflag.FlagSet) (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags(fs).
		withJSON().
		build()
}
