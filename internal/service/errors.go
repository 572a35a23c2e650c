package service

import (
	"errors"

	"github.com/MKhiriev/go-dataset-sync/internal/validators"
)

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")

	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrInvalidWebIdentityToken = errors.New("web identity token is not a valid JWT")

	ErrStaleSessionToken = errors.New("sync session token is stale, list records again")
	ErrInvalidPageToken  = errors.New("invalid page token")

	ErrUnauthorizedAccessToDifferentIdentity = errors.New("access to a different identity is forbidden")
	ErrVersionIsNotSpecified                 = errors.New("app version is not specified")

	ErrValidationNoDatasetName     = validators.ErrNoDatasetName
	ErrValidationNoIdentityID      = validators.ErrNoIdentityID
	ErrValidationNoPatchesProvided = validators.ErrNoPatches
	ErrValidationDuplicateKey      = validators.ErrDuplicateKey
	ErrValidationNegativePageSize  = validators.ErrNegativePageSize
)
