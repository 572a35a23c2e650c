package store

import (
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/go-dataset-sync/models"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const recordsTable = "records"

var recordColumns = []string{
	"record_key",
	"value",
	"sync_count",
	"last_modified_date",
	"device_last_modified_date",
}

func buildListRecordsQuery(identityID, dataset string, offset, limit int) (string, []any, error) {
	b := psql.Select(recordColumns...).
		From(recordsTable).
		Where(sq.Eq{"identity_id": identityID, "dataset_name": dataset}).
		OrderBy("record_key")

	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	if offset > 0 {
		b = b.Offset(uint64(offset))
	}

	return b.ToSql()
}

func buildDatasetSyncCountQuery(identityID, dataset string) (string, []any, error) {
	return psql.Select("COALESCE(MAX(sync_count), 0)").
		From(recordsTable).
		Where(sq.Eq{"identity_id": identityID, "dataset_name": dataset}).
		ToSql()
}

// buildLockRecordQuery reads the stored SyncCount of one key and holds the
// row lock until the transaction ends.
func buildLockRecordQuery(identityID, dataset, key string) (string, []any, error) {
	return psql.Select("sync_count").
		From(recordsTable).
		Where(sq.Eq{"identity_id": identityID, "dataset_name": dataset, "record_key": key}).
		Suffix("FOR UPDATE").
		ToSql()
}

// buildUpsertRecordQuery writes the next generation of a record. Removals
// keep the row as an empty-valued tombstone so that other devices observe
// the deletion.
func buildUpsertRecordQuery(identityID, dataset string, patch models.Patch, now time.Time) (string, []any, error) {
	value := patch.Value
	if patch.Op == models.OpRemove {
		value = ""
	}

	return psql.Insert(recordsTable).
		Columns(
			"identity_id",
			"dataset_name",
			"record_key",
			"value",
			"sync_count",
			"last_modified_date",
			"device_last_modified_date",
		).
		Values(identityID, dataset, patch.Key, value, patch.SyncCount+1, now, patch.DeviceLastModifiedDate).
		Suffix(`ON CONFLICT (identity_id, dataset_name, record_key) DO UPDATE SET
			value = EXCLUDED.value,
			sync_count = EXCLUDED.sync_count,
			last_modified_date = EXCLUDED.last_modified_date,
			device_last_modified_date = EXCLUDED.device_last_modified_date
		WHERE records.sync_count = ?
		RETURNING record_key, value, sync_count, last_modified_date, device_last_modified_date`, patch.SyncCount).
		ToSql()
}

const (
	getSlot = `SELECT value FROM cache_slots WHERE name = ?;`

	putSlot = `INSERT INTO cache_slots (name, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at;`
)
