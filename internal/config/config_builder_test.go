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

// ── build ─────────────────────────────────────────────────────────────────────

func TestNewConfigBuilder_InitialState(t *testing.T) {
	b := newConfigBuilder()
	require.NotNil(t, b)
	assert.NoError(t, b.err)
	assert.Empty(t, b.configs)
}

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

// TestBuild_LaterSourcesOverride verifies that non-zero fields of later
// configs win while zero fields keep earlier values.
func TestBuild_LaterSourcesOverride(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs,
		&StructuredConfig{
			Adapter: Adapter{HTTPAddress: "http://first", RequestTimeout: time.Second},
			Sync:    Sync{Datasets: []string{"a"}},
		},
		&StructuredConfig{
			Adapter: Adapter{HTTPAddress: "http://second"},
		},
	)

	cfg, err := b.build()
	require.NoError(t, err)

	assert.Equal(t, "http://second", cfg.Adapter.HTTPAddress)
	assert.Equal(t, time.Second, cfg.Adapter.RequestTimeout)
	assert.Equal(t, []string{"a"}, cfg.Sync.Datasets)
}

func TestBuild_RejectsNegativeDurations(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{Workers: Workers{SyncInterval: -time.Second}})

	_, err := b.build()
	assert.ErrorIs(t, err, ErrNegativeDuration)
}

// ── withJSON ──────────────────────────────────────────────────────────────────

func TestWithJSON_NoPathSkips(t *testing.T) {
	b := newConfigBuilder().withDefaults().withJSON()
	assert.NoError(t, b.err)
	assert.Len(t, b.configs, 1)
}

func TestWithJSON_MissingFileSetsError(t *testing.T) {
	b := newConfigBuilder()
	b.configs = append(b.configs, &StructuredConfig{JSONFilePath: "/definitely/missing.json"})

	b.withJSON()
	assert.Error(t, b.err)
}

// ── GetClientConfig / GetServerConfig ─────────────────────────────────────────

func TestGetClientConfig_EnvFlagsAndJSON(t *testing.T) {
	jsonPath := writeTempJSONConfig(t, map[string]any{
		"sync": map[string]any{"datasets": []string{"from-json"}},
	})
	setEnvVars(t, map[string]string{
		"ADAPTER_ADDRESS":       "http://env:8080",
		"SYNC_IDENTITY_POOL_ID": "env-pool",
		"STORAGE_CACHE_DSN":     "memory",
	})

	fs := pflag.NewFlagSet("client", pflag.ContinueOnError)
	flags := BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"-r", "http://flag:8080", "-c", jsonPath}))

	cfg, err := GetClientConfig(flags)
	require.NoError(t, err)

	assert.Equal(t, "http://flag:8080", cfg.Adapter.HTTPAddress)
	assert.Equal(t, defaultAdapterTimeout, cfg.Adapter.RequestTimeout)
	assert.Equal(t, "env-pool", cfg.Sync.IdentityPoolID)
	assert.Equal(t, "memory", cfg.Storage.Cache.DSN)
	assert.Equal(t, []string{"from-json"}, cfg.Sync.Datasets)
	assert.Equal(t, defaultSyncInterval, cfg.Workers.SyncInterval)
}

func TestGetClientConfig_MissingPool(t *testing.T) {
	setEnvVars(t, map[string]string{"ADAPTER_ADDRESS": "http://env:8080"})

	_, err := GetClientConfig(nil)
	assert.ErrorIs(t, err, ErrInvalidSyncConfigs)
}

func TestGetServerConfig_Defaults(t *testing.T) {
	setEnvVars(t, map[string]string{
		"SERVER_ADDRESS":          "localhost:8080",
		"APP_TOKEN_SIGN_KEY":      "secret",
		"STORAGE_DB_DATABASE_URI": "memory",
	})

	cfg, err := GetServerConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress)
	assert.Equal(t, defaultServerTimeout, cfg.Server.RequestTimeout)
	assert.Equal(t, defaultPageSize, cfg.Server.PageSize)
	assert.Equal(t, defaultTokenIssuer, cfg.App.TokenIssuer)
	assert.Equal(t, defaultTokenDuration, cfg.App.TokenDuration)
}

func TestGetServerConfig_MissingSignKey(t *testing.T) {
	setEnvVars(t, map[string]string{
		"SERVER_ADDRESS":          "localhost:8080",
		"STORAGE_DB_DATABASE_URI": "memory",
	})

	_, err := GetServerConfig(nil)
	assert.ErrorIs(t, err, ErrInvalidAppConfigs)
}

func TestClientConfig_Validate(t *testing.T) {
	valid := func() *ClientConfig {
		return &ClientConfig{
			Adapter: ClientAdapter{HTTPAddress: "http://x", RequestTimeout: time.Second},
			Storage: ClientStorage{Cache: ClientCache{DSN: "memory"}},
			Sync:    ClientSync{IdentityPoolID: "pool"},
			Workers: ClientWorkers{SyncInterval: time.Minute},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *ClientConfig)
		want   error
	}{
		{name: "valid", mutate: func(c *ClientConfig) {}},
		{name: "no cache", mutate: func(c *ClientConfig) { c.Storage.Cache.DSN = "" }, want: ErrInvalidStorageConfigs},
		{name: "no address", mutate: func(c *ClientConfig) { c.Adapter.HTTPAddress = "" }, want: ErrInvalidAdapterConfigs},
		{name: "no timeout", mutate: func(c *ClientConfig) { c.Adapter.RequestTimeout = 0 }, want: ErrInvalidAdapterConfigs},
		{name: "authenticated without role", mutate: func(c *ClientConfig) {
			c.Sync.IdentityID = "id"
			c.Sync.IdentityToken = "tok"
		}, want: ErrInvalidSyncConfigs},
		{name: "tiny interval", mutate: func(c *ClientConfig) { c.Workers.SyncInterval = time.Millisecond }, want: ErrInvalidWorkerConfigs},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
