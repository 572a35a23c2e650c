// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "time"

// validate checks invariants that hold for every consumer of the merged
// [StructuredConfig]. Role-specific requirements live on the views.
func (cfg *StructuredConfig) validate() error {
	if cfg.Adapter.RequestTimeout < 0 || cfg.Server.RequestTimeout < 0 || cfg.Workers.SyncInterval < 0 {
		return ErrNegativeDuration
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.Cache.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout <= 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Sync.IdentityPoolID == "" {
		return ErrInvalidSyncConfigs
	}

	// authenticated mode needs the role to assume
	if cfg.Sync.IdentityToken != "" && cfg.Sync.IdentityID != "" && cfg.Sync.RoleArn == "" {
		return ErrInvalidSyncConfigs
	}

	if cfg.Workers.SyncInterval < time.Second {
		return ErrInvalidWorkerConfigs
	}

	return nil
}

func (cfg *ServerConfig) validate() error {
	if cfg.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Server.HTTPAddress == "" || cfg.Server.PageSize <= 0 {
		return ErrInvalidServerConfigs
	}

	if cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" || cfg.App.TokenDuration <= 0 {
		return ErrInvalidAppConfigs
	}

	return nil
}
