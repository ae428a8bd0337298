package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk shape of the JSON config file.
type StructuredJSONConfig struct {
	App struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refresh_token"`
		LogLevel     string `json:"log_level"`
	} `json:"app,omitempty"`

	Adapter struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
		StreamTimeout  Duration `json:"stream_timeout"`
	} `json:"adapter,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`

	Sync struct {
		PacingDelay Duration `json:"pacing_delay"`
		QueueSize   int      `json:"queue_size"`
		AutoPost    bool     `json:"auto_post"`
	} `json:"sync,omitempty"`

	Workers struct {
		SyncInterval Duration `json:"sync_interval"`
	} `json:"workers,omitempty"`

	FakeBank struct {
		Address       string   `json:"address"`
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
	} `json:"fakebank,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Token:        jsonCfg.App.Token,
			RefreshToken: jsonCfg.App.RefreshToken,
			LogLevel:     jsonCfg.App.LogLevel,
		},
		Adapter: Adapter{
			HTTPAddress:    jsonCfg.Adapter.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Adapter.RequestTimeout),
			StreamTimeout:  time.Duration(jsonCfg.Adapter.StreamTimeout),
		},
		Storage: Storage{
			DB: DB{DSN: jsonCfg.Storage.DB.DSN},
		},
		Sync: Sync{
			PacingDelay: time.Duration(jsonCfg.Sync.PacingDelay),
			QueueSize:   jsonCfg.Sync.QueueSize,
			AutoPost:    jsonCfg.Sync.AutoPost,
		},
		Workers: Workers{SyncInterval: time.Duration(jsonCfg.Workers.SyncInterval)},
		FakeBank: FakeBank{
			Address:       jsonCfg.FakeBank.Address,
			TokenSignKey:  jsonCfg.FakeBank.TokenSignKey,
			TokenIssuer:   jsonCfg.FakeBank.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.FakeBank.TokenDuration),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
