package validators

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrNoIdentityID     = errors.New("no identity ID provided")
	ErrNoDatasetName    = errors.New("no dataset name provided")
	ErrNegativePageSize = errors.New("page size must not be negative")
	ErrNoPatches        = errors.New("no record patches provided")
	ErrDuplicateKey     = errors.New("more than one patch for the same key")

	// ErrInvalidPatch is wrapped by every error about a single patch.
	ErrInvalidPatch      = errors.New("invalid record patch")
	ErrEmptyKey          = fmt.Errorf("%w: empty key", ErrInvalidPatch)
	ErrInvalidOp         = fmt.Errorf("%w: unknown op", ErrInvalidPatch)
	ErrNegativeSyncCount = fmt.Errorf("%w: negative sync count", ErrInvalidPatch)
)
