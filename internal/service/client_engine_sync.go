package service

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/MKhiriev/go-dataset-sync/internal/adapter"
	"github.com/MKhiriev/go-dataset-sync/models"
)

// syncAllLimit bounds the number of datasets synced at once by SyncAll.
const syncAllLimit = 4

func (e *syncEngine) Sync(ctx context.Context, dataset string) error {
	client, err := e.readyClient()
	if err != nil {
		return err
	}

	e.mu.RLock()
	_, known := e.datasets[dataset]
	e.mu.RUnlock()
	if !known {
		return datasetError(ErrDatasetUninitialized, dataset)
	}

	log := e.logger.WithDataset(dataset)

	// pre-sync safety snapshot
	if err = e.Store(ctx); err != nil {
		log.Warn().Err(err).Str("func", "syncEngine.Sync").Msg("failed to store pre-sync snapshot")
	}

	unlock, err := e.lockDataset(ctx, dataset)
	if err != nil {
		return &SyncFailure{Dataset: dataset, Err: err}
	}
	defer unlock()

	e.setInFlight(dataset, true)
	defer e.setInFlight(dataset, false)

	e.mu.RLock()
	batch := slices.Clone(e.journal[dataset])
	e.mu.RUnlock()

	if len(batch) == 0 {
		log.Debug().Str("func", "syncEngine.Sync").Msg("nothing to sync, journal is empty")
		return nil
	}

	if err = e.fetchSessionToken(ctx, client, dataset); err != nil {
		return &SyncFailure{Dataset: dataset, Err: err}
	}

	resp, err := e.updateRecords(ctx, client, dataset, batch)
	if err != nil {
		return &SyncFailure{Dataset: dataset, Err: err}
	}

	e.applyAcknowledged(dataset, batch, resp.Records)

	log.Info().
		Str("func", "syncEngine.Sync").
		Int("patches", len(batch)).
		Int("acknowledged", len(resp.Records)).
		Msg("dataset synced")
	return nil
}

func (e *syncEngine) SyncAll(ctx context.Context) error {
	var pending []string
	for _, ds := range e.Datasets() {
		if e.ShouldSync(ds) {
			pending = append(pending, ds)
		}
	}

	errs := make([]error, len(pending))
	sem := make(chan struct{}, syncAllLimit)

	var wg sync.WaitGroup
	for i, ds := range pending {
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer func() {
				<-sem
				wg.Done()
			}()

			err := e.Sync(ctx, ds)

			var failure *SyncFailure
			if errors.As(err, &failure) && failure.Conflict() {
				if refreshErr := e.Refresh(ctx, ds); refreshErr != nil {
					err = errors.Join(err, refreshErr)
				}
			}
			errs[i] = err
		}()
	}
	wg.Wait()

	return errors.Join(errs...)
}

func (e *syncEngine) Refresh(ctx context.Context, dataset string) error {
	client, err := e.readyClient()
	if err != nil {
		return err
	}
	return e.refresh(ctx, client, dataset)
}

func (e *syncEngine) refresh(ctx context.Context, client adapter.RecordStoreClient, dataset string) error {
	unlock, err := e.lockDataset(ctx, dataset)
	if err != nil {
		return &SyncFailure{Dataset: dataset, Err: err}
	}
	defer unlock()

	pages, err := e.listRecords(ctx, client, dataset)
	if err != nil {
		return &SyncFailure{Dataset: dataset, Err: err}
	}

	e.mergePulled(dataset, slices.Concat(pages...))
	return nil
}

// applyAcknowledged merges the records returned for a pushed batch.
//
// Only journal entries identical to the pushed ones are settled. A patch
// written while the batch was in flight stays pending; when the server
// rewrote its key it is rebased onto the new SyncCount and the snapshot
// keeps its optimistic value. Snapshot records the server did not return
// are retained unchanged.
func (e *syncEngine) applyAcknowledged(dataset string, batch []models.Patch, acknowledged []models.Record) {
	pushed := make(map[string]models.Patch, len(batch))
	for _, p := range batch {
		pushed[p.Key] = p
	}
	server := recordsByKey(acknowledged)

	e.mu.Lock()
	defer e.mu.Unlock()

	remaining := make([]models.Patch, 0)
	pending := make(map[string]bool)
	for _, p := range e.journal[dataset] {
		if sent, ok := pushed[p.Key]; ok && patchesEqual(sent, p) {
			continue
		}
		if rec, ok := server[p.Key]; ok {
			p.SyncCount = rec.SyncCount
		}
		remaining = append(remaining, p)
		pending[p.Key] = true
	}
	e.setJournal(dataset, remaining)

	e.datasets[dataset] = mergeSnapshot(e.datasets[dataset], server, pending)
}

// mergePulled folds a full listing into the tables. An unknown dataset is
// seeded with the listing as is.
func (e *syncEngine) mergePulled(dataset string, listed []models.Record) {
	e.mu.Lock()
	defer e.mu.Unlock()

	records, known := e.datasets[dataset]
	if !known {
		if listed == nil {
			listed = []models.Record{}
		}
		e.datasets[dataset] = listed
		return
	}

	server := recordsByKey(listed)

	pending := make(map[string]bool)
	journal := slices.Clone(e.journal[dataset])
	for i, p := range journal {
		if rec, ok := server[p.Key]; ok {
			journal[i].SyncCount = rec.SyncCount
		}
		pending[p.Key] = true
	}
	e.setJournal(dataset, journal)

	local := recordsByKey(records)
	merged := mergeSnapshot(records, server, pending)
	for _, rec := range listed {
		if _, found := local[rec.Key]; !found {
			merged = append(merged, rec)
		}
	}
	e.datasets[dataset] = merged
}

// mergeSnapshot replaces every record the server returned with the server
// version. A record with a pending patch keeps its optimistic value and
// only adopts the server SyncCount.
func mergeSnapshot(records []models.Record, server map[string]models.Record, pending map[string]bool) []models.Record {
	merged := make([]models.Record, 0, len(records))
	for _, r := range records {
		rec, ok := server[r.Key]
		switch {
		case !ok:
			merged = append(merged, r)
		case pending[r.Key]:
			r.SyncCount = rec.SyncCount
			merged = append(merged, r)
		default:
			merged = append(merged, rec)
		}
	}
	return merged
}

// setJournal must be called with e.mu held.
func (e *syncEngine) setJournal(dataset string, patches []models.Patch) {
	if len(patches) == 0 {
		delete(e.journal, dataset)
		return
	}
	e.journal[dataset] = patches
}

func recordsByKey(records []models.Record) map[string]models.Record {
	byKey := make(map[string]models.Record, len(records))
	for _, r := range records {
		byKey[r.Key] = r
	}
	return byKey
}

func patchesEqual(a, b models.Patch) bool {
	if a.Op != b.Op || a.Key != b.Key || a.Value != b.Value || a.SyncCount != b.SyncCount {
		return false
	}
	if a.DeviceLastModifiedDate == nil || b.DeviceLastModifiedDate == nil {
		return a.DeviceLastModifiedDate == b.DeviceLastModifiedDate
	}
	return a.DeviceLastModifiedDate.Equal(*b.DeviceLastModifiedDate)
}
