package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-dataset-sync/internal/validators"
	"github.com/MKhiriev/go-dataset-sync/models"
)

// RecordValidationService rejects malformed requests before they reach the
// wrapped RecordService.
type RecordValidationService struct {
	inner     RecordService
	validator validators.Validator
}

func NewRecordValidationService() RecordServiceWrapper {
	return &RecordValidationService{validator: validators.NewRecordValidator()}
}

func (v *RecordValidationService) ListRecords(ctx context.Context, req models.ListRecordsRequest) (models.ListRecordsResponse, error) {
	if err := v.validator.Validate(ctx, req); err != nil {
		return models.ListRecordsResponse{}, classify(err)
	}

	return v.inner.ListRecords(ctx, req)
}

func (v *RecordValidationService) UpdateRecords(ctx context.Context, req models.UpdateRecordsRequest) (models.UpdateRecordsResponse, error) {
	if err := v.validator.Validate(ctx, req); err != nil {
		return models.UpdateRecordsResponse{}, classify(err)
	}

	return v.inner.UpdateRecords(ctx, req)
}

func (v *RecordValidationService) Wrap(inner RecordService) RecordService {
	v.inner = inner
	return v
}

// classify tags single-patch failures as invalid data.
func classify(err error) error {
	if errors.Is(err, validators.ErrInvalidPatch) {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}
	return err
}
