package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-dataset-sync/internal/logger"
)

const defaultSyncInterval = 5 * time.Minute

type clientSyncJob struct {
	engine   ClientSyncEngine
	interval time.Duration
	logger   *logger.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewClientSyncJob creates a job that calls engine.SyncAll and then
// engine.Store every interval. A non-positive interval defaults to 5
// minutes. The job is idle until Run is called.
func NewClientSyncJob(engine ClientSyncEngine, interval time.Duration, log *logger.Logger) ClientSyncJob {
	if interval <= 0 {
		interval = defaultSyncInterval
	}
	return &clientSyncJob{engine: engine, interval: interval, logger: log}
}

// Run implements ClientSyncJob.
func (j *clientSyncJob) Run(ctx context.Context) {
	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(j.interval)
		defer t.Stop()

		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.tick(jobCtx)
			}
		}
	}()
}

func (j *clientSyncJob) tick(ctx context.Context) {
	if err := j.engine.SyncAll(ctx); err != nil {
		j.logger.Warn().Err(err).Str("func", "clientSyncJob.tick").Msg("background sync finished with failures")
	}
	if err := j.engine.Store(ctx); err != nil {
		j.logger.Err(err).Str("func", "clientSyncJob.tick").Msg("failed to store engine state")
	}
}

// Stop implements ClientSyncJob.
func (j *clientSyncJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
