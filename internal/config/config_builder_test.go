package config

import (
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func writeTempJSONConfig(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	f, err := os.CreateTemp(t.TempDir(), "config-*.json")
	require.NoError(t, err)
	_, err = f.Write(data)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	return f.Name()
}

// ── newConfigBuilder ──────────────────────────────────────────────────────────

// TestNewConfigBuilder_InitialState verifies that a freshly created builder
// has no error and an empty configs slice.
func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

// ── build ─────────────────────────────────────────────────────────────────────

func TestBuild_EmptyBuilder(t *testing.T) {
	cfg, err := newConfigBuilder().build()
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestBuild_PropagatesBuilderError(t *testing.T) {
	b := newConfigBuilder()
	b.err = assert.AnError

	cfg, err := b.build()
	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

// TestBuild_LaterConfigWins verifies that non-zero fields of later configs
// override earlier ones while zero fields keep the earlier value.
func TestBuild_LaterConfigWins(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		defaults(),
		&StructuredConfig{Adapter: Adapter{HTTPAddress: "http://env"}},
		&StructuredConfig{Adapter: Adapter{HTTPAddress: "http://flag", StreamTimeout: time.Minute}},
	)

	cfg, err := b.build()
	require.NoError(t, err)
	assert.Equal(t, "http://flag", cfg.Adapter.HTTPAddress)
	assert.Equal(t, time.Minute, cfg.Adapter.StreamTimeout)
	assert.Equal(t, DefaultRequestTimeout, cfg.Adapter.RequestTimeout)
	assert.Equal(t, DefaultQueueSize, cfg.Sync.QueueSize)
}

// ── withFlags ─────────────────────────────────────────────────────────────────

func TestWithFlags_NilFlagSetIsNoop(t *testing.T) {
	b := newConfigBuilder().withFlags(nil)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

func TestWithFlags_UnboundFlagSetSetsError(t *testing.T) {
	b := newConfigBuilder().withFlags(pflag.NewFlagSet("x", pflag.ContinueOnError))
	assert.Error(t, b.err)
}

// ── withJSON ──────────────────────────────────────────────────────────────────

func TestWithJSON_NotSpecified(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{})
	b.withJSON()

	assert.NoError(t, b.err)
	assert.Len(t, b.configs, 1)
}

func TestWithJSON_MissingFileSetsError(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: "/does/not/exist.json"})
	b.withJSON()

	assert.Error(t, b.err)
}

func TestWithJSON_AppendsParsedConfig(t *testing.T) {
	path := writeTempJSONConfig(t, map[string]any{
		"storage": map[string]any{"db": map[string]any{"dsn": "from-json.db"}},
	})

	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: path})
	b.withJSON()

	require.NoError(t, b.err)
	require.Len(t, b.configs, 2)
	assert.Equal(t, "from-json.db", b.configs[1].Storage.DB.DSN)
}

// ── GetStructuredConfig ───────────────────────────────────────────────────────

func TestGetStructuredConfig_Defaults(t *testing.T) {
	setEnvVars(t, nil)

	cfg, err := GetStructuredConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, defaults(), cfg)
}

func TestGetStructuredConfig_Precedence(t *testing.T) {
	path := writeTempJSONConfig(t, map[string]any{
		"sync": map[string]any{"queue_size": 128},
	})
	setEnvVars(t, map[string]string{
		"ADAPTER_ADDRESS":   "http://env",
		"SYNC_QUEUE_SIZE":   "4",
		"SYNC_PACING_DELAY": "1s",
		"CONFIG":            path,
	})
	fs := newTestFlagSet(t, "--address", "http://flag")

	cfg, err := GetStructuredConfig(fs)
	require.NoError(t, err)

	assert.Equal(t, "http://flag", cfg.Adapter.HTTPAddress)
	assert.Equal(t, 128, cfg.Sync.QueueSize)
	assert.Equal(t, time.Second, cfg.Sync.PacingDelay)
	assert.Equal(t, DefaultDBDSN, cfg.Storage.DB.DSN)
}

// ── GetClientConfig / GetFakeBankConfig ───────────────────────────────────────

func TestGetClientConfig_Defaults(t *testing.T) {
	setEnvVars(t, map[string]string{"APP_TOKEN": "tok"})

	cfg, err := GetClientConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "tok", cfg.App.Token)
	assert.Equal(t, DefaultAdapterAddress, cfg.Adapter.HTTPAddress)
	assert.Equal(t, DefaultStreamTimeout, cfg.Adapter.StreamTimeout)
	assert.Equal(t, DefaultPacingDelay, cfg.Sync.PacingDelay)
	assert.Equal(t, DefaultDBDSN, cfg.Storage.DB.DSN)
}

func TestGetFakeBankConfig_RequiresSignKey(t *testing.T) {
	setEnvVars(t, nil)

	_, err := GetFakeBankConfig(nil)
	assert.ErrorIs(t, err, ErrInvalidFakeBankConfigs)
}

func TestGetFakeBankConfig_Valid(t *testing.T) {
	setEnvVars(t, map[string]string{"FAKEBANK_TOKEN_SIGN_KEY": "secret"})

	cfg, err := GetFakeBankConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultFakeBankAddr, cfg.Address)
	assert.Equal(t, "secret", cfg.TokenSignKey)
	assert.Equal(t, DefaultTokenIssuer, cfg.TokenIssuer)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

// ── validation ────────────────────────────────────────────────────────────────

func validClientConfig() *ClientConfig {
	return defaults().clientView()
}

func TestClientConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ClientConfig)
		wantErr error
	}{
		{"valid", func(c *ClientConfig) {}, nil},
		{"empty dsn", func(c *ClientConfig) { c.Storage.DB.DSN = "" }, ErrInvalidStorageConfigs},
		{"empty address", func(c *ClientConfig) { c.Adapter.HTTPAddress = "" }, ErrInvalidAdapterConfigs},
		{"zero stream timeout", func(c *ClientConfig) { c.Adapter.StreamTimeout = 0 }, ErrInvalidAdapterConfigs},
		{"zero request timeout", func(c *ClientConfig) { c.Adapter.RequestTimeout = 0 }, ErrInvalidAdapterConfigs},
		{"zero queue", func(c *ClientConfig) { c.Sync.QueueSize = 0 }, ErrInvalidSyncConfigs},
		{"negative pacing", func(c *ClientConfig) { c.Sync.PacingDelay = -time.Second }, ErrInvalidSyncConfigs},
		{"zero pacing is fine", func(c *ClientConfig) { c.Sync.PacingDelay = 0 }, nil},
		{"negative interval", func(c *ClientConfig) { c.Workers.SyncInterval = -1 }, ErrInvalidWorkerConfigs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validClientConfig()
			tt.mutate(c)
			err := c.validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
