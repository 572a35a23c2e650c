package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-dataset-sync/internal/adapter"
	"github.com/MKhiriev/go-dataset-sync/internal/cache"
	"github.com/MKhiriev/go-dataset-sync/internal/codec"
	"github.com/MKhiriev/go-dataset-sync/internal/config"
	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/internal/store"
)

// ClientServices is the wired client side: one engine, its background
// job, and the slot store the engine persists to.
type ClientServices struct {
	Engine  ClientSyncEngine
	SyncJob ClientSyncJob

	slots store.SlotStore
}

// NewClientServices opens the configured cache backend and builds the HTTP
// collaborators of the engine.
func NewClientServices(ctx context.Context, cfg *config.ClientConfig, log *logger.Logger) (*ClientServices, error) {
	slots, err := store.NewSlotStore(ctx, cfg.Storage.Cache, log)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	identity, err := adapter.NewHTTPIdentityProvider(cfg.Adapter, log)
	if err != nil {
		slots.Close()
		return nil, err
	}

	c := codec.New(log)
	engine := NewClientSyncEngine(ClientEngineDeps{
		Identity:      identity,
		ClientFactory: adapter.NewHTTPRecordStoreClientFactory(cfg.Adapter, cfg.App, log),
		Cache:         cache.NewBridge(slots, c, log),
		Codec:         c,
		Logger:        log,
	}, ClientEngineOptions{
		RemoteTimeout: cfg.Adapter.RequestTimeout,
	})

	return &ClientServices{
		Engine:  engine,
		SyncJob: NewClientSyncJob(engine, cfg.Workers.SyncInterval, log),
		slots:   slots,
	}, nil
}

// Close stops the background job and releases the cache backend.
func (s *ClientServices) Close() error {
	s.SyncJob.Stop()
	return s.slots.Close()
}
