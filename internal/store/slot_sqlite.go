package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/migrations"
)

// sqliteSlotStore keeps slots in the cache_slots table of a local SQLite
// database.
type sqliteSlotStore struct {
	db *DB
}

// NewConnectSQLite opens the SQLite database file at dsn, creating it and
// its directory when missing, and applies the slot schema.
func NewConnectSQLite(ctx context.Context, dsn string, log *logger.Logger) (*DB, error) {
	if err := createLocalDBFileIfNotExists(dsn); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error creating database file")
		return nil, fmt.Errorf("error creating database file: %w", err)
	}

	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database")
		return nil, fmt.Errorf("error opening connection to DB: %w", err)
	}
	// sqlite allows a single writer
	conn.SetMaxOpenConns(1)

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database (ping)")
		conn.Close()
		return nil, err
	}

	if err = migrations.MigrateSQLite(conn); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error migrating database")
		conn.Close()
		return nil, err
	}
	log.Debug().Str("func", "NewConnectSQLite").Str("dsn", dsn).Msg("connected to database successfully")

	return &DB{DB: conn, logger: log}, nil
}

// NewSQLiteSlotStore returns a [SlotStore] over an open SQLite connection.
func NewSQLiteSlotStore(db *DB) SlotStore {
	return &sqliteSlotStore{db: db}
}

func (s *sqliteSlotStore) GetSlot(ctx context.Context, name string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, getSlot, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		s.db.logger.Err(err).
			Str("func", "sqliteSlotStore.GetSlot").
			Str("slot", name).
			Msg("failed to read slot")
		return "", false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return value, true, nil
}

func (s *sqliteSlotStore) PutSlot(ctx context.Context, name string, value string) error {
	if _, err := s.db.ExecContext(ctx, putSlot, name, value); err != nil {
		s.db.logger.Err(err).
			Str("func", "sqliteSlotStore.PutSlot").
			Str("slot", name).
			Msg("failed to write slot")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	return nil
}

func (s *sqliteSlotStore) Close() error {
	return s.db.Close()
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		if dir := filepath.Dir(dbFile); dir != "." {
			if err = os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("error creating DB dir: %w", err)
			}
		}
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	return nil
}
