package config

import (
	"fmt"
	"time"
)

// ClientApp holds client-side application settings.
type ClientApp struct {
	// HashKey is the HMAC key used by the client for patch integrity hashes.
	HashKey string
	// LogFile is where client logs are written.
	LogFile string
}

// ClientAdapter holds network settings used by the client transport layer.
type ClientAdapter struct {
	// HTTPAddress is the record store base URL.
	HTTPAddress string
	// RequestTimeout is the deadline of every remote call.
	RequestTimeout time.Duration
}

// ClientCache contains persistent cache settings for the client.
type ClientCache struct {
	// DSN selects the slot store backend.
	DSN string
}

// ClientStorage groups client storage backend settings.
type ClientStorage struct {
	Cache ClientCache
}

// ClientSync holds the identity context of the sync engine.
type ClientSync struct {
	Region         string
	RoleArn        string
	IdentityPoolID string
	IdentityID     string
	IdentityToken  string
	Datasets       []string
}

// ClientWorkers contains client background worker settings.
type ClientWorkers struct {
	// SyncInterval defines how often the client sync job runs.
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

// GetClientConfig builds and validates a client-specific config view from the
// merged structured configuration.
func GetClientConfig(flags *Flags) (*ClientConfig, error) {
	cfg, err := GetStructuredConfig(flags)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	clientCfg := NewClientConfig(cfg)
	return clientCfg, clientCfg.validate()
}

// NewClientConfig maps the client-relevant fields of cfg.
func NewClientConfig(cfg *StructuredConfig) *ClientConfig {
	return &ClientConfig{
		App: ClientApp{
			HashKey: cfg.App.HashKey,
			LogFile: cfg.App.LogFile,
		},
		Adapter: ClientAdapter{
			HTTPAddress:    cfg.Adapter.HTTPAddress,
			RequestTimeout: cfg.Adapter.RequestTimeout,
		},
		Storage: ClientStorage{
			Cache: ClientCache{DSN: cfg.Storage.Cache.DSN},
		},
		Sync: ClientSync{
			Region:         cfg.Sync.Region,
			RoleArn:        cfg.Sync.RoleArn,
			IdentityPoolID: cfg.Sync.IdentityPoolID,
			IdentityID:     cfg.Sync.IdentityID,
			IdentityToken:  cfg.Sync.IdentityToken,
			Datasets:       cfg.Sync.Datasets,
		},
		Workers: ClientWorkers{SyncInterval: cfg.Workers.SyncInterval},
	}
}
