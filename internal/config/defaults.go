package config

import "time"

const (
	defaultAdapterTimeout = 15 * time.Second
	defaultServerTimeout  = 30 * time.Second
	defaultSyncInterval   = 5 * time.Minute
	defaultTokenDuration  = time.Hour
	defaultTokenIssuer    = "dataset-sync"
	defaultCacheDSN       = "dataset-sync.db"
	defaultPageSize       = 100
)

func defaults() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:   defaultTokenIssuer,
			TokenDuration: defaultTokenDuration,
		},
		Storage: Storage{
			Cache: Cache{DSN: defaultCacheDSN},
		},
		Server: Server{
			RequestTimeout: defaultServerTimeout,
			PageSize:       defaultPageSize,
		},
		Adapter: Adapter{RequestTimeout: defaultAdapterTimeout},
		Workers: Workers{SyncInterval: defaultSyncInterval},
	}
}
