package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-dataset-sync/internal/config"
	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/internal/service"
	"github.com/MKhiriev/go-dataset-sync/internal/workers"
	"github.com/MKhiriev/go-dataset-sync/models"
)

type App struct {
	services *service.ClientServices
	workers  *workers.Workers
	params   models.InitParams

	mu      sync.Mutex
	authErr error

	logger *logger.Logger
}

func NewApp(services *service.ClientServices, cfg *config.ClientConfig, log *logger.Logger) (*App, error) {
	if services == nil || services.Engine == nil {
		return nil, errNoClientServices
	}

	return &App{
		services: services,
		workers:  workers.NewWorkers(services.SyncJob),
		params: models.InitParams{
			IdentityID:     cfg.Sync.IdentityID,
			IdentityToken:  cfg.Sync.IdentityToken,
			Region:         cfg.Sync.Region,
			RoleArn:        cfg.Sync.RoleArn,
			IdentityPoolID: cfg.Sync.IdentityPoolID,
			DatasetsToSync: cfg.Sync.Datasets,
		},
		logger: log,
	}, nil
}

// Engine returns the sync engine driven by the app.
func (a *App) Engine() service.ClientSyncEngine {
	return a.services.Engine
}

// Start restores the cached tables and initializes the engine. A rejected
// identity or an unreachable remote does not fail Start: the app keeps
// working on the cached tables and Offline reports the cause.
func (a *App) Start(ctx context.Context) error {
	engine := a.services.Engine
	engine.Restore(ctx)

	params := a.params
	params.OnAuthFailed = func(err error) {
		a.mu.Lock()
		a.authErr = err
		a.mu.Unlock()
	}

	err := engine.Init(ctx, params)

	var failure *service.SyncFailure
	switch {
	case err == nil:
	case errors.As(err, &failure):
		a.logger.Warn().Err(err).Str("func", "*App.Start").Msg("initial pull failed, working on cached data")
	default:
		return fmt.Errorf("init sync engine: %w", err)
	}

	if offline := a.Offline(); offline != nil {
		a.logger.Warn().Err(offline).Str("func", "*App.Start").Msg("no remote identity, working offline")
	}

	return nil
}

// Offline returns the identity failure of the last Start, if any.
func (a *App) Offline() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.authErr
}

// Watch runs the background workers until ctx is done.
func (a *App) Watch(ctx context.Context) error {
	a.workers.Run(ctx)
	<-ctx.Done()
	a.workers.Stop()

	return nil
}

// Close persists the engine tables and releases the cache.
func (a *App) Close(ctx context.Context) error {
	storeErr := a.services.Engine.Store(ctx)
	if storeErr != nil {
		a.logger.Err(storeErr).Str("func", "*App.Close").Msg("failed to store engine state")
	}
	return errors.Join(storeErr, a.services.Close())
}
