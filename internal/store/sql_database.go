package store

import (
	"database/sql"

	"github.com/MKhiriev/go-dataset-sync/internal/logger"
)

// DB wraps a database handle together with the driver-specific error
// classifier and the logger used by repositories built on top of it.
type DB struct {
	*sql.DB
	errorClassificator ErrorClassificator
	logger             *logger.Logger
}

// ErrorClassificator decides whether a failed database operation may be
// retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// Retryable reports whether err is a transient database failure.
func (db *DB) Retryable(err error) bool {
	if db == nil || db.errorClassificator == nil {
		return false
	}
	return db.errorClassificator.Classify(err) == Retryable
}
