package config

import (
	"fmt"
	"time"
)

// ServerApp holds server-side keys and token parameters.
type ServerApp struct {
	HashKey       string
	TokenSignKey  string
	TokenIssuer   string
	TokenDuration time.Duration
	Version       string
}

// ServerConfig is the record store server view of [StructuredConfig].
type ServerConfig struct {
	App    ServerApp
	DB     DB
	Server Server
}

// GetServerConfig builds and validates the server config view.
func GetServerConfig(flags *Flags) (*ServerConfig, error) {
	cfg, err := GetStructuredConfig(flags)
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := &ServerConfig{
		App: ServerApp{
			HashKey:       cfg.App.HashKey,
			TokenSignKey:  cfg.App.TokenSignKey,
			TokenIssuer:   cfg.App.TokenIssuer,
			TokenDuration: cfg.App.TokenDuration,
			Version:       cfg.App.Version,
		},
		DB:     cfg.Storage.DB,
		Server: cfg.Server,
	}

	return serverCfg, serverCfg.validate()
}
