package validators

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-dataset-sync/models"
)

// Field name constants used to restrict validation to a subset of fields.
const (
	// FieldIdentityID targets the identity the request acts for.
	FieldIdentityID = "identity_id"

	// FieldDatasetName targets the dataset the request addresses.
	FieldDatasetName = "dataset_name"

	// FieldMaxResults targets the requested page size of a listing.
	FieldMaxResults = "max_results"

	// FieldRecordPatches targets the patch batch of an update request:
	// it must be non-empty, every patch must be valid and no key may
	// appear twice.
	FieldRecordPatches = "record_patches"

	// FieldKey targets the record key of a patch.
	FieldKey = "key"

	// FieldOp targets the operation of a patch.
	FieldOp = "op"

	// FieldSyncCount targets the generation a patch was based on.
	FieldSyncCount = "sync_count"
)

// RecordValidator implements the Validator interface for the record store
// requests: ListRecordsRequest, UpdateRecordsRequest and Patch, in value
// and pointer form.
type RecordValidator struct{}

func NewRecordValidator() Validator {
	return &RecordValidator{}
}

// Validate dispatches on the dynamic type of obj. Without fields every
// field of the type is validated. Returns ErrUnsupportedType for any other
// type.
func (v *RecordValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.ListRecordsRequest:
		return v.validateListRequest(value, fields...)
	case *models.ListRecordsRequest:
		return v.validateListRequest(*value, fields...)

	case models.UpdateRecordsRequest:
		return v.validateUpdateRequest(ctx, value, fields...)
	case *models.UpdateRecordsRequest:
		return v.validateUpdateRequest(ctx, *value, fields...)

	case models.Patch:
		return v.validatePatch(value, fields...)
	case *models.Patch:
		return v.validatePatch(*value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *RecordValidator) validateListRequest(req models.ListRecordsRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldIdentityID, FieldDatasetName, FieldMaxResults}
	}

	for _, f := range fields {
		switch f {
		case FieldIdentityID:
			if req.IdentityID == "" {
				return ErrNoIdentityID
			}
		case FieldDatasetName:
			if req.DatasetName == "" {
				return ErrNoDatasetName
			}
		case FieldMaxResults:
			if req.MaxResults < 0 {
				return ErrNegativePageSize
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RecordValidator) validateUpdateRequest(ctx context.Context, req models.UpdateRecordsRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldIdentityID, FieldDatasetName, FieldRecordPatches}
	}

	for _, f := range fields {
		switch f {
		case FieldIdentityID:
			if req.IdentityID == "" {
				return ErrNoIdentityID
			}
		case FieldDatasetName:
			if req.DatasetName == "" {
				return ErrNoDatasetName
			}
		case FieldRecordPatches:
			if err := v.validatePatches(ctx, req.RecordPatches); err != nil {
				return err
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *RecordValidator) validatePatches(ctx context.Context, patches []models.Patch) error {
	if len(patches) == 0 {
		return ErrNoPatches
	}

	seen := make(map[string]struct{}, len(patches))
	for idx, patch := range patches {
		if err := v.Validate(ctx, patch); err != nil {
			return fmt.Errorf("patch at index %d: %w", idx, err)
		}
		if _, dup := seen[patch.Key]; dup {
			return fmt.Errorf("patch %q: %w", patch.Key, ErrDuplicateKey)
		}
		seen[patch.Key] = struct{}{}
	}

	return nil
}

func (v *RecordValidator) validatePatch(patch models.Patch, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldKey, FieldOp, FieldSyncCount}
	}

	for _, f := range fields {
		switch f {
		case FieldKey:
			if patch.Key == "" {
				return ErrEmptyKey
			}
		case FieldOp:
			if !patch.Op.Valid() {
				return ErrInvalidOp
			}
		case FieldSyncCount:
			if patch.SyncCount < 0 {
				return ErrNegativeSyncCount
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
