package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// ClientApp holds client-side application settings.
type ClientApp struct {
	// Token is the initial bearer token.
	Token string
	// RefreshToken is used by the one-shot refresh after a 401.
	RefreshToken string
	// LogLevel is the zerolog level name.
	LogLevel string
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the backend base URL.
	HTTPAddress string
	// RequestTimeout is the timeout of REST requests.
	RequestTimeout time.Duration
	// StreamTimeout is the overall timeout of a streaming sync.
	StreamTimeout time.Duration
}

// ClientDB contains local database connection settings for the client.
type ClientDB struct {
	// DSN is the SQLite file path.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	// DB holds local database settings.
	DB ClientDB
}

// ClientSync holds the progress reducer policy.
type ClientSync struct {
	PacingDelay time.Duration
	QueueSize   int
	AutoPost    bool
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// SyncInterval defines how often the adaptive sync job runs.
	SyncInterval time.Duration
}

// ClientConfig is the top-level client configuration assembled from
// [StructuredConfig].
type ClientConfig struct {
	App     ClientApp
	Adapter ClientAdapter
	Storage ClientStorage
	Sync    ClientSync
	Workers ClientWorkers
}

// FakeBankConfig is the configuration view of the fake backend binary.
type FakeBankConfig struct {
	Address       string
	TokenSignKey  string
	TokenIssuer   string
	TokenDuration time.Duration
	LogLevel      string
}

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
func GetClientConfig(fs *pflag.FlagSet) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(fs)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := cfg.clientView()
	return clientCfg, clientCfg.validate()
}

// GetFakeBankConfig builds and validates the fake backend config view.
func GetFakeBankConfig(fs *pflag.FlagSet) (*FakeBankConfig, error) {
	cfg, err := GetStructuredConfig(fs)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	fbCfg := &FakeBankConfig{
		Address:       cfg.FakeBank.Address,
		TokenSignKey:  cfg.FakeBank.TokenSignKey,
		TokenIssuer:   cfg.FakeBank.TokenIssuer,
		TokenDuration: cfg.FakeBank.TokenDuration,
		LogLevel:      cfg.App.LogLevel,
	}
	return fbCfg, fbCfg.validate()
}

func (cfg *StructuredConfig) clientView() *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			Token:        cfg.App.Token,
			RefreshToken: cfg.App.RefreshToken,
			LogLevel:     cfg.App.LogLevel,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
			StreamTimeout:  cfg.Adapter.StreamTimeout,
		},
		Storage: ClientStorage{
			DB: ClientDB{DSN: cfg.Storage.DB.DSN},
		},
		Sync: ClientSync{
			PacingDelay: cfg.Sync.PacingDelay,
			QueueSize:   cfg.Sync.QueueSize,
			AutoPost:    cfg.Sync.AutoPost,
		},
		Workers: ClientWorkers{SyncInterval: cfg.Workers.SyncInterval},
	}
}
