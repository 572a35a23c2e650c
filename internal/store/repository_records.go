package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/models"
)

// recordRepository is the PostgreSQL-backed [RecordRepository]. Rows live
// in the "records" table keyed by (identity_id, dataset_name, record_key).
type recordRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewRecordRepository constructs a [RecordRepository] over db.
func NewRecordRepository(db *DB, log *logger.Logger) RecordRepository {
	return &recordRepository{db: db, logger: log}
}

func (r *recordRepository) ListRecords(ctx context.Context, identityID, dataset string, offset, limit int) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListRecordsQuery(identityID, dataset, offset, limit)
	if err != nil {
		log.Err(err).Str("func", "recordRepository.ListRecords").Msg("failed to build query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.ListRecords").
			Str("identity_id", identityID).
			Str("dataset", dataset).
			Msg("failed to execute list query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	records := make([]models.Record, 0, max(limit, 0))
	for rows.Next() {
		rec, scanErr := scanRecord(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "recordRepository.ListRecords").
				Str("dataset", dataset).
				Msg("failed to scan record row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, scanErr)
		}
		records = append(records, rec)
	}

	if err = rows.Err(); err != nil {
		log.Err(err).
			Str("func", "recordRepository.ListRecords").
			Str("dataset", dataset).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return records, nil
}

func (r *recordRepository) DatasetSyncCount(ctx context.Context, identityID, dataset string) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildDatasetSyncCountQuery(identityID, dataset)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var count int64
	if err = r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Err(err).
			Str("func", "recordRepository.DatasetSyncCount").
			Str("dataset", dataset).
			Msg("failed to read dataset sync count")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return count, nil
}

// ApplyPatches runs the batch in one transaction. Every key is locked and
// its stored SyncCount compared with the patch before the new generation is
// written; the first mismatch rolls the whole batch back. A transient
// failure is retried once.
func (r *recordRepository) ApplyPatches(ctx context.Context, identityID, dataset string, patches []models.Patch, now time.Time) ([]models.Record, error) {
	records, err := r.applyPatches(ctx, identityID, dataset, patches, now)
	if err != nil && r.db.Retryable(err) {
		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "recordRepository.ApplyPatches").
			Str("dataset", dataset).
			Msg("transient failure, retrying batch")
		records, err = r.applyPatches(ctx, identityID, dataset, patches, now)
	}
	return records, err
}

func (r *recordRepository) applyPatches(ctx context.Context, identityID, dataset string, patches []models.Patch, now time.Time) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.ApplyPatches").
			Int("patches_count", len(patches)).
			Msg("failed to begin transaction")
		return nil, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	applied := make([]models.Record, 0, len(patches))
	for idx, patch := range patches {
		if patch.Key == "" || !patch.Op.Valid() {
			return nil, fmt.Errorf("patch at index %d: %w", idx, ErrInvalidPatch)
		}

		stored, lockErr := lockRecord(ctx, tx, identityID, dataset, patch.Key)
		if lockErr != nil {
			log.Err(lockErr).
				Str("func", "recordRepository.ApplyPatches").
				Int("iteration", idx+1).
				Str("key", patch.Key).
				Msg("failed to read stored sync count")
			return nil, lockErr
		}

		if stored != patch.SyncCount {
			log.Warn().
				Str("func", "recordRepository.ApplyPatches").
				Str("dataset", dataset).
				Str("key", patch.Key).
				Int64("stored_sync_count", stored).
				Int64("provided_sync_count", patch.SyncCount).
				Msg("optimistic lock failed: sync count mismatch")
			return nil, fmt.Errorf("patch %q at index %d: %w", patch.Key, idx, ErrVersionConflict)
		}

		query, args, buildErr := buildUpsertRecordQuery(identityID, dataset, patch, now)
		if buildErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, buildErr)
		}

		rec, scanErr := scanRecord(tx.QueryRowContext(ctx, query, args...))
		// a key created concurrently has no row to lock; the guarded upsert
		// then returns nothing
		if errors.Is(scanErr, sql.ErrNoRows) {
			log.Warn().
				Str("func", "recordRepository.ApplyPatches").
				Str("dataset", dataset).
				Str("key", patch.Key).
				Int64("provided_sync_count", patch.SyncCount).
				Msg("optimistic lock failed: record changed concurrently")
			return nil, fmt.Errorf("patch %q at index %d: %w", patch.Key, idx, ErrVersionConflict)
		}
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "recordRepository.ApplyPatches").
				Int("iteration", idx+1).
				Str("key", patch.Key).
				Msg("failed to write record")
			return nil, fmt.Errorf("%w: %w", ErrExecutingStatement, scanErr)
		}

		applied = append(applied, rec)
	}

	if err = tx.Commit(); err != nil {
		log.Err(err).
			Str("func", "recordRepository.ApplyPatches").
			Msg("failed to commit transaction")
		return nil, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	log.Debug().
		Str("func", "recordRepository.ApplyPatches").
		Str("dataset", dataset).
		Int("patches_count", len(patches)).
		Msg("patches applied")

	return applied, nil
}

// lockRecord returns the stored SyncCount of key, or zero for a key that
// was never written.
func lockRecord(ctx context.Context, tx *sql.Tx, identityID, dataset, key string) (int64, error) {
	query, args, err := buildLockRecordQuery(identityID, dataset, key)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var stored int64
	err = tx.QueryRowContext(ctx, query, args...).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return stored, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (models.Record, error) {
	var (
		rec        models.Record
		modified   sql.NullTime
		deviceTime sql.NullTime
	)

	if err := row.Scan(&rec.Key, &rec.Value, &rec.SyncCount, &modified, &deviceTime); err != nil {
		return models.Record{}, err
	}

	if modified.Valid {
		t := modified.Time
		rec.LastModifiedDate = &t
	}
	if deviceTime.Valid {
		t := deviceTime.Time
		rec.DeviceLastModifiedDate = &t
	}

	return rec, nil
}
