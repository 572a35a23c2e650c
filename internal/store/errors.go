package store

import "errors"

// Sentinel errors returned by repositories and slot stores. Callers should
// use [errors.Is] to match against these values.
var (
	// ErrVersionConflict is returned when an optimistic-locking check fails:
	// the SyncCount supplied with a patch does not match the stored record.
	ErrVersionConflict = errors.New("record sync count conflict occurred")

	// ErrInvalidPatch is returned for a patch with an unknown op or an
	// empty key.
	ErrInvalidPatch = errors.New("invalid record patch")

	// ErrUnsupportedDSN is returned when a DSN selects no known backend.
	ErrUnsupportedDSN = errors.New("unsupported storage dsn")
)

// Low-level database operation errors.
var (
	// ErrBuildingSQLQuery is returned when constructing a SQL query fails.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the driver cannot start a
	// transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing a transaction fails.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrExecutingStatement is returned when executing a DML statement fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRows is returned when scanning result rows fails.
	ErrScanningRows = errors.New("failed to scan record rows")
)
