package store

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/go-dataset-sync/internal/config"
	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRecordRepository_ApplyAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRecordRepository()
	now := time.Now()

	applied, err := repo.ApplyPatches(ctx, "id", "notes", []models.Patch{
		{Op: models.OpReplace, Key: "b", Value: `"2"`},
		{Op: models.OpReplace, Key: "a", Value: `"1"`},
		{Op: models.OpReplace, Key: "c", Value: `"3"`},
	}, now)
	require.NoError(t, err)
	require.Len(t, applied, 3)
	assert.Equal(t, "b", applied[0].Key)

	page, err := repo.ListRecords(ctx, "id", "notes", 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "a", page[0].Key)
	assert.Equal(t, "b", page[1].Key)

	page, err = repo.ListRecords(ctx, "id", "notes", 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "c", page[0].Key)

	page, err = repo.ListRecords(ctx, "id", "notes", 5, 2)
	require.NoError(t, err)
	assert.Empty(t, page)

	// other identities are isolated
	page, err = repo.ListRecords(ctx, "other", "notes", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestMemoryRecordRepository_RemoveLeavesTombstone(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRecordRepository()

	_, err := repo.ApplyPatches(ctx, "id", "notes", []models.Patch{{Op: models.OpReplace, Key: "a", Value: `"1"`}}, time.Now())
	require.NoError(t, err)

	applied, err := repo.ApplyPatches(ctx, "id", "notes", []models.Patch{{Op: models.OpRemove, Key: "a", Value: `"1"`, SyncCount: 1}}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "", applied[0].Value)
	assert.Equal(t, int64(2), applied[0].SyncCount)

	count, err := repo.DatasetSyncCount(ctx, "id", "notes")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestMemoryRecordRepository_ConflictRejectsWholeBatch(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRecordRepository()

	_, err := repo.ApplyPatches(ctx, "id", "notes", []models.Patch{{Op: models.OpReplace, Key: "a", Value: `"1"`}}, time.Now())
	require.NoError(t, err)

	_, err = repo.ApplyPatches(ctx, "id", "notes", []models.Patch{
		{Op: models.OpReplace, Key: "new", Value: `"n"`},
		{Op: models.OpReplace, Key: "a", Value: `"stale"`, SyncCount: 0},
	}, time.Now())
	require.ErrorIs(t, err, ErrVersionConflict)

	records, err := repo.ListRecords(ctx, "id", "notes", 0, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, `"1"`, records[0].Value)
}

func TestMemoryRecordRepository_InvalidPatch(t *testing.T) {
	_, err := NewMemoryRecordRepository().ApplyPatches(context.Background(), "id", "notes",
		[]models.Patch{{Op: models.OpReplace, Key: ""}}, time.Now())
	assert.ErrorIs(t, err, ErrInvalidPatch)
}

func TestNewStorages_Memory(t *testing.T) {
	s, err := NewStorages(context.Background(), config.DB{DSN: "memory"}, logger.Nop())
	require.NoError(t, err)
	require.NotNil(t, s.RecordRepository)
	assert.NoError(t, s.Close())
}
