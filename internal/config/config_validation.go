// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Currently a no-op placeholder; per-binary rules live on the views
// returned by [GetClientConfig] and [GetFakeBankConfig].
func (cfg *StructuredConfig) validate() error {
	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 || cfg.Adapter.StreamTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Sync.QueueSize <= 0 || cfg.Sync.PacingDelay < 0 {
		return ErrInvalidSyncConfigs
	}

	if cfg.Workers.SyncInterval < 0 {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

func (cfg *FakeBankConfig) validate() error {
	if cfg.Address == "" || cfg.TokenSignKey == "" || cfg.TokenIssuer == "" || cfg.TokenDuration <= 0 {
		return ErrInvalidFakeBankConfigs
	}
	return nil
}
