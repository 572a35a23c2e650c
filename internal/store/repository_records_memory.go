package store

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-dataset-sync/models"
)

type datasetKey struct {
	identityID string
	dataset    string
}

// memoryRecordRepository keeps records in process memory. It backs the
// reference server when started with the "memory" database DSN and the
// end-to-end tests of the sync engine.
type memoryRecordRepository struct {
	mu       sync.Mutex
	datasets map[datasetKey]map[string]models.Record
}

// NewMemoryRecordRepository returns an empty in-memory [RecordRepository].
func NewMemoryRecordRepository() RecordRepository {
	return &memoryRecordRepository{datasets: make(map[datasetKey]map[string]models.Record)}
}

func (m *memoryRecordRepository) ListRecords(_ context.Context, identityID, dataset string, offset, limit int) ([]models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := m.datasets[datasetKey{identityID, dataset}]
	records := make([]models.Record, 0, len(stored))
	for _, rec := range stored {
		records = append(records, rec)
	}
	slices.SortFunc(records, func(a, b models.Record) int {
		return strings.Compare(a.Key, b.Key)
	})

	if offset >= len(records) {
		return []models.Record{}, nil
	}
	records = records[max(offset, 0):]
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}

	return records, nil
}

func (m *memoryRecordRepository) DatasetSyncCount(_ context.Context, identityID, dataset string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var count int64
	for _, rec := range m.datasets[datasetKey{identityID, dataset}] {
		count = max(count, rec.SyncCount)
	}
	return count, nil
}

func (m *memoryRecordRepository) ApplyPatches(_ context.Context, identityID, dataset string, patches []models.Patch, now time.Time) ([]models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dk := datasetKey{identityID, dataset}
	stored := m.datasets[dk]

	// validate the whole batch before touching anything; a later patch of
	// the same key is checked against the generation the earlier one writes
	pending := make(map[string]int64, len(patches))
	for idx, patch := range patches {
		if patch.Key == "" || !patch.Op.Valid() {
			return nil, fmt.Errorf("patch at index %d: %w", idx, ErrInvalidPatch)
		}

		current, ok := pending[patch.Key]
		if !ok {
			current = stored[patch.Key].SyncCount
		}
		if current != patch.SyncCount {
			return nil, fmt.Errorf("patch %q at index %d: %w", patch.Key, idx, ErrVersionConflict)
		}
		pending[patch.Key] = current + 1
	}

	if stored == nil {
		stored = make(map[string]models.Record)
		m.datasets[dk] = stored
	}

	applied := make([]models.Record, 0, len(patches))
	for _, patch := range patches {
		modified := now
		rec := models.Record{
			Key:                    patch.Key,
			Value:                  patch.Value,
			SyncCount:              patch.SyncCount + 1,
			LastModifiedDate:       &modified,
			DeviceLastModifiedDate: patch.DeviceLastModifiedDate,
		}
		if patch.Op == models.OpRemove {
			rec.Value = ""
		}
		stored[patch.Key] = rec
		applied = append(applied, rec)
	}

	return applied, nil
}
