package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var recordRowColumns = []string{"record_key", "value", "sync_count", "last_modified_date", "device_last_modified_date"}

func newTestRecordRepo(t *testing.T) (*recordRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	l := logger.Nop()
	repo := &recordRepository{
		db:     &DB{DB: db, logger: l, errorClassificator: NewPostgresErrorClassifier()},
		logger: l,
	}
	return repo, mock
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func TestListRecords_Success(t *testing.T) {
	repo, mock := newTestRecordRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT record_key, value, sync_count, last_modified_date, device_last_modified_date FROM records")).
		WithArgs("notes", "eu-west-1:abc").
		WillReturnRows(sqlmock.NewRows(recordRowColumns).
			AddRow("a", `"1"`, int64(1), now, nil).
			AddRow("b", "", int64(3), now, now))

	records, err := repo.ListRecords(context.Background(), "eu-west-1:abc", "notes", 0, 100)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "a", records[0].Key)
	assert.Equal(t, int64(1), records[0].SyncCount)
	assert.Nil(t, records[0].DeviceLastModifiedDate)
	require.NotNil(t, records[1].DeviceLastModifiedDate)
	assert.Equal(t, "", records[1].Value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRecords_QueryError(t *testing.T) {
	repo, mock := newTestRecordRepo(t)
	mock.ExpectQuery("SELECT").WillReturnError(errors.New("boom"))

	_, err := repo.ListRecords(context.Background(), "id", "notes", 0, 10)
	assert.ErrorIs(t, err, ErrExecutingQuery)
}

func TestListRecords_ScanError(t *testing.T) {
	repo, mock := newTestRecordRepo(t)
	mock.ExpectQuery("SELECT").
		WillReturnRows(sqlmock.NewRows(recordRowColumns).AddRow("a", "v", "not-a-number", nil, nil))

	_, err := repo.ListRecords(context.Background(), "id", "notes", 0, 10)
	assert.ErrorIs(t, err, ErrScanningRows)
}

func TestDatasetSyncCount(t *testing.T) {
	repo, mock := newTestRecordRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(MAX(sync_count), 0) FROM records")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(7)))

	count, err := repo.DatasetSyncCount(context.Background(), "id", "notes")
	require.NoError(t, err)
	assert.Equal(t, int64(7), count)
}

func TestApplyPatches_Success(t *testing.T) {
	repo, mock := newTestRecordRepo(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	// new key: nothing stored yet
	mock.ExpectQuery(regexp.QuoteMeta("SELECT sync_count FROM records")).
		WithArgs("notes", "id", "a").
		WillReturnRows(sqlmock.NewRows([]string{"sync_count"}))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO records")).
		WithArgs("id", "notes", "a", `"x"`, int64(1), now, nil, int64(0)).
		WillReturnRows(sqlmock.NewRows(recordRowColumns).AddRow("a", `"x"`, int64(1), now, nil))
	// existing key removed
	mock.ExpectQuery(regexp.QuoteMeta("SELECT sync_count FROM records")).
		WithArgs("notes", "id", "b").
		WillReturnRows(sqlmock.NewRows([]string{"sync_count"}).AddRow(int64(4)))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO records")).
		WithArgs("id", "notes", "b", "", int64(5), now, nil, int64(4)).
		WillReturnRows(sqlmock.NewRows(recordRowColumns).AddRow("b", "", int64(5), now, nil))
	mock.ExpectCommit()

	applied, err := repo.ApplyPatches(context.Background(), "id", "notes", []models.Patch{
		{Op: models.OpReplace, Key: "a", Value: `"x"`, SyncCount: 0},
		{Op: models.OpRemove, Key: "b", Value: `"old"`, SyncCount: 4},
	}, now)
	require.NoError(t, err)
	require.Len(t, applied, 2)
	assert.Equal(t, int64(1), applied[0].SyncCount)
	assert.Equal(t, "", applied[1].Value)
	assert.Equal(t, int64(5), applied[1].SyncCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPatches_VersionConflictRollsBack(t *testing.T) {
	repo, mock := newTestRecordRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT sync_count FROM records")).
		WillReturnRows(sqlmock.NewRows([]string{"sync_count"}).AddRow(int64(2)))
	mock.ExpectRollback()

	_, err := repo.ApplyPatches(context.Background(), "id", "notes", []models.Patch{
		{Op: models.OpReplace, Key: "a", Value: `"x"`, SyncCount: 1},
	}, time.Now())
	assert.ErrorIs(t, err, ErrVersionConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPatches_ConcurrentCreateIsConflict(t *testing.T) {
	repo, mock := newTestRecordRepo(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT sync_count FROM records")).
		WithArgs("notes", "id", "a").
		WillReturnRows(sqlmock.NewRows([]string{"sync_count"}))
	// another transaction created the key first: the guarded update matches nothing
	mock.ExpectQuery(regexp.QuoteMeta("WHERE records.sync_count = $8")).
		WithArgs("id", "notes", "a", `"x"`, int64(1), now, nil, int64(0)).
		WillReturnRows(sqlmock.NewRows(recordRowColumns))
	mock.ExpectRollback()

	_, err := repo.ApplyPatches(context.Background(), "id", "notes", []models.Patch{
		{Op: models.OpReplace, Key: "a", Value: `"x"`, SyncCount: 0},
	}, now)
	assert.ErrorIs(t, err, ErrVersionConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPatches_InvalidPatch(t *testing.T) {
	repo, mock := newTestRecordRepo(t)

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := repo.ApplyPatches(context.Background(), "id", "notes", []models.Patch{
		{Op: "upsert", Key: "a"},
	}, time.Now())
	assert.ErrorIs(t, err, ErrInvalidPatch)
}

func TestApplyPatches_BeginError(t *testing.T) {
	repo, mock := newTestRecordRepo(t)
	mock.ExpectBegin().WillReturnError(errors.New("no connection"))

	_, err := repo.ApplyPatches(context.Background(), "id", "notes", []models.Patch{
		{Op: models.OpReplace, Key: "a"},
	}, time.Now())
	assert.ErrorIs(t, err, ErrBeginningTransaction)
}

func TestApplyPatches_RetriesSerializationFailureOnce(t *testing.T) {
	repo, mock := newTestRecordRepo(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT sync_count FROM records")).
		WillReturnError(pgError(pgerrcode.SerializationFailure))
	mock.ExpectRollback()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT sync_count FROM records")).
		WillReturnRows(sqlmock.NewRows([]string{"sync_count"}))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO records")).
		WillReturnRows(sqlmock.NewRows(recordRowColumns).AddRow("a", `"x"`, int64(1), now, nil))
	mock.ExpectCommit()

	applied, err := repo.ApplyPatches(context.Background(), "id", "notes", []models.Patch{
		{Op: models.OpReplace, Key: "a", Value: `"x"`},
	}, now)
	require.NoError(t, err)
	assert.Len(t, applied, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyPatches_NonRetryableNotRetried(t *testing.T) {
	repo, mock := newTestRecordRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT sync_count FROM records")).
		WillReturnError(pgError(pgerrcode.UndefinedTable))
	mock.ExpectRollback()

	_, err := repo.ApplyPatches(context.Background(), "id", "notes", []models.Patch{
		{Op: models.OpReplace, Key: "a"},
	}, time.Now())
	assert.ErrorIs(t, err, ErrExecutingQuery)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassifyPgError(t *testing.T) {
	c := NewPostgresErrorClassifier()

	assert.Equal(t, Retryable, c.Classify(pgError(pgerrcode.DeadlockDetected)))
	assert.Equal(t, Retryable, c.Classify(pgError(pgerrcode.ConnectionFailure)))
	assert.Equal(t, NonRetryable, c.Classify(pgError(pgerrcode.UniqueViolation)))
	assert.Equal(t, NonRetryable, c.Classify(errors.New("plain")))
	assert.Equal(t, NonRetryable, c.Classify(nil))
}
