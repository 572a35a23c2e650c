package service

import (
	"errors"
	"fmt"

	"github.com/MKhiriev/go-dataset-sync/internal/adapter"
)

// Engine errors. Callers should use [errors.Is] to match against these
// values; a failed remote round trip is reported as [*SyncFailure].
var (
	// ErrAuthNotReady is returned when a remote operation is attempted
	// before Init established credentials.
	ErrAuthNotReady = errors.New("credentials are not established, call Init first")

	// ErrClientNotReady is returned when no record store client is bound.
	ErrClientNotReady = errors.New("record store client is not initialized, call Init first")

	// ErrDatasetUninitialized is returned by strict reads and writes of a
	// dataset that was neither pulled, restored nor refreshed.
	ErrDatasetUninitialized = errors.New("dataset is not initialized, use Restore or Refresh to load it")

	// ErrAuthAssume wraps identity provider failures returned from Init.
	ErrAuthAssume = errors.New("failed to establish identity")

	// ErrEmptyKey is returned for a write without a record key.
	ErrEmptyKey = errors.New("record key is empty")

	// ErrPaginationStalled is returned when the remote store repeats a
	// page cursor.
	ErrPaginationStalled = errors.New("remote store returned the same page cursor twice")
)

// SyncFailure reports a failed remote round trip for one dataset. The
// dataset journal is left untouched, so a later Sync retries the same
// pending patches.
type SyncFailure struct {
	Dataset string
	Err     error
}

func (f *SyncFailure) Error() string {
	return fmt.Sprintf("sync of dataset %q failed: %v", f.Dataset, f.Err)
}

func (f *SyncFailure) Unwrap() error {
	return f.Err
}

// Retryable reports whether repeating the sync can succeed without a new
// Init. Rejected credentials and malformed requests cannot.
func (f *SyncFailure) Retryable() bool {
	switch {
	case errors.Is(f.Err, adapter.ErrUnauthorized),
		errors.Is(f.Err, adapter.ErrForbidden),
		errors.Is(f.Err, adapter.ErrBadRequest):
		return false
	}
	return true
}

// Conflict reports whether the remote store rejected the batch because a
// SyncCount or the session token was stale.
func (f *SyncFailure) Conflict() bool {
	return errors.Is(f.Err, adapter.ErrConflict)
}

func datasetError(err error, dataset string) error {
	return fmt.Errorf("%w: %q", err, dataset)
}
