// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container shared by the
// client and the server. It is populated by merging defaults, environment
// variables, command-line flags, and an optional JSON file.
//
// Struct tags:
//   - envPrefix - prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       - direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds keys, token parameters and the application version.
	App App `envPrefix:"APP_"`

	// Storage holds the server record database and the client cache.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the listen address and timeouts of the record store.
	Server Server `envPrefix:"SERVER_"`

	// Adapter holds the remote record store endpoint used by the client.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Sync holds the identity context and the datasets the client pulls
	// on start.
	Sync Sync `envPrefix:"SYNC_"`

	// Workers holds configuration for background worker processes.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / --config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// HashKey is the HMAC key used for patch batch integrity checking.
	// Env: APP_HASH_KEY
	HashKey string `env:"HASH_KEY"`

	// TokenSignKey signs server-issued session credentials.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim of session credentials.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration is the lifetime of session credentials (e.g. "1h").
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// LogFile is where the client writes its logs.
	// Env: APP_LOG_FILE
	LogFile string `env:"LOG_FILE"`

	// Version is the semantic version string of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the configuration for all storage backends.
type Storage struct {
	// DB holds the server record database settings.
	DB DB `envPrefix:"DB_"`

	// Cache holds the client persistent cache settings.
	Cache Cache `envPrefix:"CACHE_"`
}

// DB holds connection settings for the record database.
type DB struct {
	// DSN is the PostgreSQL connection string, or "memory" for the
	// in-process repository.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Cache holds settings of the client slot store.
type Cache struct {
	// DSN selects the backend: "memory", "file://<path>" or a SQLite
	// database path.
	// Env: STORAGE_CACHE_DSN
	DSN string `env:"DSN"`
}

// Server holds network and timeout settings of the record store server.
type Server struct {
	// HTTPAddress is the "host:port" the HTTP server listens on.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// PageSize is the default ListRecords page size.
	// Env: SERVER_PAGE_SIZE
	PageSize int `env:"PAGE_SIZE"`
}

// Adapter holds the client's view of the remote record store.
type Adapter struct {
	// HTTPAddress is the base URL (or host:port) of the record store.
	// Env: ADAPTER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the deadline of every remote call.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Sync holds the identity context passed to the sync engine on init.
type Sync struct {
	// Env: SYNC_REGION
	Region string `env:"REGION"`
	// Env: SYNC_ROLE_ARN
	RoleArn string `env:"ROLE_ARN"`
	// Env: SYNC_IDENTITY_POOL_ID
	IdentityPoolID string `env:"IDENTITY_POOL_ID"`
	// Env: SYNC_IDENTITY_ID
	IdentityID string `env:"IDENTITY_ID"`
	// Env: SYNC_IDENTITY_TOKEN
	IdentityToken string `env:"IDENTITY_TOKEN"`
	// Datasets is a comma-separated list in the environment.
	// Env: SYNC_DATASETS
	Datasets []string `env:"DATASETS" envSeparator:","`
}

// Workers holds configuration for background worker processes.
type Workers struct {
	// SyncInterval defines how often the client sync job runs.
	// Env: WORKERS_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`
}

// GetStructuredConfig loads, merges, and validates the configuration from
// all available sources. flags may be nil when no command line is bound.
func GetStructuredConfig(flags *Flags) (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags(flags).
		withJSON().
		build()
}
