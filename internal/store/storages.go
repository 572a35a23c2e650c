package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-dataset-sync/internal/config"
	"github.com/MKhiriev/go-dataset-sync/internal/logger"
)

const (
	// MemoryDSN selects the in-process backend for both the client cache
	// and the server record store.
	MemoryDSN = "memory"

	fileDSNPrefix = "file://"
)

// NewSlotStore opens the client slot store selected by cfg.DSN:
// "memory" is process-local, "file://<path>" is an atomically rewritten
// JSON file and anything else is a SQLite database path.
func NewSlotStore(ctx context.Context, cfg config.ClientCache, log *logger.Logger) (SlotStore, error) {
	dsn := strings.TrimSpace(cfg.DSN)

	switch {
	case dsn == "":
		return nil, fmt.Errorf("%w: empty cache dsn", ErrUnsupportedDSN)
	case dsn == MemoryDSN:
		return NewMemorySlotStore(), nil
	case strings.HasPrefix(dsn, fileDSNPrefix):
		path := strings.TrimPrefix(dsn, fileDSNPrefix)
		if path == "" {
			return nil, fmt.Errorf("%w: %q has no path", ErrUnsupportedDSN, dsn)
		}
		return NewFileSlotStore(path, log)
	default:
		db, err := NewConnectSQLite(ctx, dsn, log)
		if err != nil {
			return nil, err
		}
		return NewSQLiteSlotStore(db), nil
	}
}

// Storages groups the repositories of the reference record store server.
type Storages struct {
	RecordRepository RecordRepository

	db *DB
}

// NewStorages opens the server record repository selected by cfg.DSN:
// "memory" or a PostgreSQL connection string.
func NewStorages(ctx context.Context, cfg config.DB, log *logger.Logger) (*Storages, error) {
	if strings.TrimSpace(cfg.DSN) == MemoryDSN {
		log.Warn().Str("func", "NewStorages").Msg("using in-memory record repository, data is lost on exit")
		return &Storages{RecordRepository: NewMemoryRecordRepository()}, nil
	}

	db, err := NewConnectPostgres(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	return &Storages{
		RecordRepository: NewRecordRepository(db, log),
		db:               db,
	}, nil
}

// Close releases the database connection, if any.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
