// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"context"
	"testing"

	"github.com/MKhiriev/go-dataset-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validUpdateRequest() models.UpdateRecordsRequest {
	return models.UpdateRecordsRequest{
		DatasetName:      "prefs",
		IdentityID:       "eu-west-1:abc",
		SyncSessionToken: "sess",
		RecordPatches: []models.Patch{
			{Op: models.OpReplace, Key: "theme", Value: `"dark"`, SyncCount: 2},
			{Op: models.OpRemove, Key: "font"},
		},
	}
}

func TestNewRecordValidator(t *testing.T) {
	v := NewRecordValidator()
	require.NotNil(t, v)
}

func TestValidate_Dispatch(t *testing.T) {
	v := NewRecordValidator()
	ctx := context.Background()

	list := models.ListRecordsRequest{DatasetName: "prefs", IdentityID: "id"}
	update := validUpdateRequest()
	patch := models.Patch{Op: models.OpReplace, Key: "k"}

	assert.NoError(t, v.Validate(ctx, list))
	assert.NoError(t, v.Validate(ctx, &list))
	assert.NoError(t, v.Validate(ctx, update))
	assert.NoError(t, v.Validate(ctx, &update))
	assert.NoError(t, v.Validate(ctx, patch))
	assert.NoError(t, v.Validate(ctx, &patch))

	assert.ErrorIs(t, v.Validate(ctx, "string"), ErrUnsupportedType)
	assert.ErrorIs(t, v.Validate(ctx, nil), ErrUnsupportedType)
}

func TestValidate_ListRecordsRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     models.ListRecordsRequest
		fields  []string
		wantErr error
	}{
		{name: "valid", req: models.ListRecordsRequest{DatasetName: "d", IdentityID: "i", MaxResults: 10}},
		{name: "no identity", req: models.ListRecordsRequest{DatasetName: "d"}, wantErr: ErrNoIdentityID},
		{name: "no dataset", req: models.ListRecordsRequest{IdentityID: "i"}, wantErr: ErrNoDatasetName},
		{name: "negative page size", req: models.ListRecordsRequest{DatasetName: "d", IdentityID: "i", MaxResults: -1}, wantErr: ErrNegativePageSize},
		{name: "scoped to dataset", req: models.ListRecordsRequest{DatasetName: "d"}, fields: []string{FieldDatasetName}},
		{name: "unknown field", req: models.ListRecordsRequest{}, fields: []string{"nope"}, wantErr: ErrUnknownField},
	}

	v := NewRecordValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(context.Background(), tt.req, tt.fields...)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_UpdateRecordsRequest(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *models.UpdateRecordsRequest)
		wantErr error
	}{
		{name: "valid", mutate: func(*models.UpdateRecordsRequest) {}},
		{name: "no identity", mutate: func(r *models.UpdateRecordsRequest) { r.IdentityID = "" }, wantErr: ErrNoIdentityID},
		{name: "no dataset", mutate: func(r *models.UpdateRecordsRequest) { r.DatasetName = "" }, wantErr: ErrNoDatasetName},
		{name: "no patches", mutate: func(r *models.UpdateRecordsRequest) { r.RecordPatches = nil }, wantErr: ErrNoPatches},
		{
			name:    "empty key",
			mutate:  func(r *models.UpdateRecordsRequest) { r.RecordPatches[1].Key = "" },
			wantErr: ErrEmptyKey,
		},
		{
			name:    "unknown op",
			mutate:  func(r *models.UpdateRecordsRequest) { r.RecordPatches[0].Op = "add" },
			wantErr: ErrInvalidOp,
		},
		{
			name:    "negative sync count",
			mutate:  func(r *models.UpdateRecordsRequest) { r.RecordPatches[0].SyncCount = -1 },
			wantErr: ErrNegativeSyncCount,
		},
		{
			name:    "duplicate key",
			mutate:  func(r *models.UpdateRecordsRequest) { r.RecordPatches[1].Key = "theme" },
			wantErr: ErrDuplicateKey,
		},
	}

	v := NewRecordValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validUpdateRequest()
			tt.mutate(&req)

			err := v.Validate(context.Background(), req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidate_PatchErrorsAreInvalidPatch(t *testing.T) {
	for _, err := range []error{ErrEmptyKey, ErrInvalidOp, ErrNegativeSyncCount} {
		assert.ErrorIs(t, err, ErrInvalidPatch)
	}
	assert.NotErrorIs(t, ErrDuplicateKey, ErrInvalidPatch)
}

func TestValidate_PatchScopedFields(t *testing.T) {
	v := NewRecordValidator()
	patch := models.Patch{Op: "bogus", SyncCount: -3}

	assert.ErrorIs(t, v.Validate(context.Background(), patch, FieldKey), ErrEmptyKey)
	assert.ErrorIs(t, v.Validate(context.Background(), patch, FieldOp), ErrInvalidOp)
	assert.ErrorIs(t, v.Validate(context.Background(), patch, FieldSyncCount), ErrNegativeSyncCount)
	assert.ErrorIs(t, v.Validate(context.Background(), patch, "value"), ErrUnknownField)
}
