// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseTestFlags(t *testing.T, args ...string) *Flags {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f := BindFlags(fs)
	require.NoError(t, fs.Parse(args))
	return f
}

func TestFlags_Config_AllFlags(t *testing.T) {
	f := parseTestFlags(t,
		"-a", "127.0.0.1:8080",
		"-r", "http://remote:8080",
		"-d", "memory",
		"--cache-dsn", "memory",
		"-c", "/etc/sync.json",
		"--token-sign-key", "sign",
		"--token-issuer", "issuer",
		"--token-duration", "2h",
		"--request-timeout", "20s",
		"--remote-timeout", "5s",
		"--hash-key", "hash",
		"--log-file", "/tmp/log",
		"--identity-pool-id", "pool",
		"--identity-id", "id",
		"--identity-token", "tok",
		"--role-arn", "arn",
		"--region", "eu",
		"--datasets", "prefs,profile",
		"--sync-interval", "1m",
	)

	cfg := f.Config()

	assert.Equal(t, "127.0.0.1:8080", cfg.Server.HTTPAddress)
	assert.Equal(t, "http://remote:8080", cfg.Adapter.HTTPAddress)
	assert.Equal(t, "memory", cfg.Storage.DB.DSN)
	assert.Equal(t, "memory", cfg.Storage.Cache.DSN)
	assert.Equal(t, "/etc/sync.json", cfg.JSONFilePath)
	assert.Equal(t, "sign", cfg.App.TokenSignKey)
	assert.Equal(t, "issuer", cfg.App.TokenIssuer)
	assert.Equal(t, 2*time.Hour, cfg.App.TokenDuration)
	assert.Equal(t, 20*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, "hash", cfg.App.HashKey)
	assert.Equal(t, "/tmp/log", cfg.App.LogFile)
	assert.Equal(t, "pool", cfg.Sync.IdentityPoolID)
	assert.Equal(t, "id", cfg.Sync.IdentityID)
	assert.Equal(t, "tok", cfg.Sync.IdentityToken)
	assert.Equal(t, "arn", cfg.Sync.RoleArn)
	assert.Equal(t, "eu", cfg.Sync.Region)
	assert.Equal(t, []string{"prefs", "profile"}, cfg.Sync.Datasets)
	assert.Equal(t, time.Minute, cfg.Workers.SyncInterval)
}

func TestFlags_Config_NoFlags(t *testing.T) {
	cfg := parseTestFlags(t).Config()

	assert.Empty(t, cfg.Server.HTTPAddress)
	assert.Empty(t, cfg.Adapter.HTTPAddress)
	assert.Nil(t, cfg.Sync.Datasets)
	assert.Zero(t, cfg.Workers.SyncInterval)
}

func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "ip and port", input: "127.0.0.1:8080", want: "127.0.0.1:8080"},
		{name: "localhost", input: "localhost:9000", want: "localhost:9000"},
		{name: "all interfaces", input: ":8080", want: ":8080"},
		{name: "no port", input: "localhost", wantErr: true},
		{name: "bad port", input: "localhost:abc", wantErr: true},
		{name: "zero port", input: "localhost:0", wantErr: true},
		{name: "port too large", input: "localhost:70000", wantErr: true},
		{name: "bad host", input: "not-an-ip:80", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a NetAddress
			err := a.Set(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.String())
		})
	}
}

func TestNetAddress_EmptyString(t *testing.T) {
	var a NetAddress
	assert.Equal(t, "", a.String())
	assert.Equal(t, "address", a.Type())
}
