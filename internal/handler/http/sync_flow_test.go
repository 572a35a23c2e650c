package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MKhiriev/go-dataset-sync/internal/adapter"
	"github.com/MKhiriev/go-dataset-sync/internal/config"
	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/internal/service"
	"github.com/MKhiriev/go-dataset-sync/internal/store"
	"github.com/MKhiriev/go-dataset-sync/internal/utils"
	"github.com/MKhiriev/go-dataset-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	flowHashKey = "integrity-key"
	flowPoolID  = "eu-west-1:pool"
)

// newRecordStoreServer starts the full router over an in-memory repository
// with a small page size so listings span several pages.
func newRecordStoreServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.ServerConfig{
		App: config.ServerApp{
			HashKey:       flowHashKey,
			TokenSignKey:  "sign-key",
			TokenIssuer:   "record-store",
			TokenDuration: time.Hour,
			Version:       "v-test",
		},
		Server: config.Server{PageSize: 2},
	}

	services, err := service.NewServices(&store.Storages{RecordRepository: store.NewMemoryRecordRepository()}, cfg, logger.Nop())
	require.NoError(t, err)

	srv := httptest.NewServer(NewHandler(services, cfg.App.HashKey, logger.Nop()).Init())
	t.Cleanup(srv.Close)
	return srv
}

func newFlowEngine(t *testing.T, srv *httptest.Server) service.ClientSyncEngine {
	t.Helper()

	adapterCfg := config.ClientAdapter{HTTPAddress: srv.URL, RequestTimeout: 5 * time.Second}
	identity, err := adapter.NewHTTPIdentityProvider(adapterCfg, logger.Nop())
	require.NoError(t, err)

	return service.NewClientSyncEngine(service.ClientEngineDeps{
		Identity:      identity,
		ClientFactory: adapter.NewHTTPRecordStoreClientFactory(adapterCfg, config.ClientApp{HashKey: flowHashKey}, logger.Nop()),
		Logger:        logger.Nop(),
	}, service.ClientEngineOptions{})
}

func webIdentityToken(t *testing.T, subject string) string {
	t.Helper()
	token, err := utils.GenerateJWTToken("idp", subject, time.Hour, "idp-key")
	require.NoError(t, err)
	return token.SignedString
}

func initAuthenticated(t *testing.T, engine service.ClientSyncEngine, subject string, datasets ...string) {
	t.Helper()
	require.NoError(t, engine.Init(context.Background(), models.InitParams{
		IdentityID:     subject,
		IdentityToken:  webIdentityToken(t, subject),
		Region:         "eu-west-1",
		RoleArn:        "arn:role/app",
		IdentityPoolID: flowPoolID,
		DatasetsToSync: datasets,
	}))
}

func mustValue(t *testing.T, engine service.ClientSyncEngine, dataset, key string) any {
	t.Helper()
	value, found, err := engine.GetValue(dataset, key)
	require.NoError(t, err)
	require.True(t, found, "key %q not found in %q", key, dataset)
	return value
}

func TestSyncFlow_GuestWritesAndSyncs(t *testing.T) {
	ctx := context.Background()
	srv := newRecordStoreServer(t)
	engine := newFlowEngine(t, srv)

	require.NoError(t, engine.Init(ctx, models.InitParams{
		Region:         "eu-west-1",
		IdentityPoolID: flowPoolID,
		DatasetsToSync: []string{"prefs"},
	}))

	creds, ok := engine.Credentials()
	require.True(t, ok)
	assert.False(t, creds.Authenticated)
	assert.Regexp(t, `^eu-west-1:`, creds.IdentityID)

	engine.SetValue("prefs", "theme", "dark")
	engine.SetValue("prefs", "volume", float64(7))
	require.True(t, engine.ShouldSync("prefs"))

	require.NoError(t, engine.Sync(ctx, "prefs"))

	assert.False(t, engine.ShouldSync("prefs"))
	assert.Equal(t, 0, engine.PendingCount("prefs"))
	assert.Equal(t, "dark", mustValue(t, engine, "prefs", "theme"))
	assert.Equal(t, float64(7), mustValue(t, engine, "prefs", "volume"))
}

func TestSyncFlow_SecondDeviceSeesMultiPageDataset(t *testing.T) {
	ctx := context.Background()
	srv := newRecordStoreServer(t)

	first := newFlowEngine(t, srv)
	initAuthenticated(t, first, "user-1", "prefs")
	for _, key := range []string{"a", "b", "c", "d", "e"} {
		first.SetValue("prefs", key, key+"-value")
	}
	require.NoError(t, first.Sync(ctx, "prefs"))

	second := newFlowEngine(t, srv)
	initAuthenticated(t, second, "user-1", "prefs")

	values, err := second.GetValues("prefs")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": "a-value",
		"b": "b-value",
		"c": "c-value",
		"d": "d-value",
		"e": "e-value",
	}, values)
}

func TestSyncFlow_ConflictThenRefresh(t *testing.T) {
	ctx := context.Background()
	srv := newRecordStoreServer(t)

	first := newFlowEngine(t, srv)
	initAuthenticated(t, first, "user-1", "prefs")
	first.SetValue("prefs", "theme", "light")
	require.NoError(t, first.Sync(ctx, "prefs"))

	second := newFlowEngine(t, srv)
	initAuthenticated(t, second, "user-1", "prefs")

	first.SetValue("prefs", "theme", "dark")
	require.NoError(t, first.Sync(ctx, "prefs"))

	second.SetValue("prefs", "theme", "blue")
	err := second.Sync(ctx, "prefs")

	var failure *service.SyncFailure
	require.True(t, errors.As(err, &failure))
	assert.True(t, failure.Conflict())
	assert.Equal(t, 1, second.PendingCount("prefs"), "journal must survive a rejected batch")

	require.NoError(t, second.Refresh(ctx, "prefs"))
	require.NoError(t, second.Sync(ctx, "prefs"))
	assert.Equal(t, "blue", mustValue(t, second, "prefs", "theme"))

	require.NoError(t, first.Refresh(ctx, "prefs"))
	assert.Equal(t, "blue", mustValue(t, first, "prefs", "theme"))
}

func TestSyncFlow_RemoveReachesOtherDevice(t *testing.T) {
	ctx := context.Background()
	srv := newRecordStoreServer(t)

	first := newFlowEngine(t, srv)
	initAuthenticated(t, first, "user-1", "prefs")
	first.SetValue("prefs", "theme", "dark")
	require.NoError(t, first.Sync(ctx, "prefs"))

	first.SetValue("prefs", "theme", nil)
	require.NoError(t, first.Sync(ctx, "prefs"))

	second := newFlowEngine(t, srv)
	initAuthenticated(t, second, "user-1", "prefs")

	_, found, err := second.GetValue("prefs", "theme")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSyncFlow_IdentitiesAreIsolated(t *testing.T) {
	ctx := context.Background()
	srv := newRecordStoreServer(t)

	alice := newFlowEngine(t, srv)
	initAuthenticated(t, alice, "alice", "prefs")
	alice.SetValue("prefs", "theme", "dark")
	require.NoError(t, alice.Sync(ctx, "prefs"))

	bob := newFlowEngine(t, srv)
	initAuthenticated(t, bob, "bob", "prefs")

	values, err := bob.GetValues("prefs")
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestRoutes_RejectMissingCredentials(t *testing.T) {
	srv := newRecordStoreServer(t)

	resp, err := http.Post(srv.URL+"/api/datasets/prefs/records", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(traceIDHeader))
}

func TestRoutes_VersionAndUnknownMethod(t *testing.T) {
	srv := newRecordStoreServer(t)

	resp, err := http.Get(srv.URL + "/api/version")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/identity/assume")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
