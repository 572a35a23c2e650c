// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store holds the persistence layers of both sides: the client
// slot stores backing the persistent cache, and the server record
// repositories backing the reference record store.
package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-dataset-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// SlotStore is a string-keyed persistent store of opaque string blobs.
// The client cache uses exactly two slots.
type SlotStore interface {
	// GetSlot returns the value stored under name. found is false when the
	// slot was never written.
	GetSlot(ctx context.Context, name string) (value string, found bool, err error)

	// PutSlot overwrites the value stored under name.
	PutSlot(ctx context.Context, name string, value string) error

	// Close releases the underlying resources.
	Close() error
}

// RecordRepository persists dataset records of the reference record store.
// Records are scoped by identity and dataset.
type RecordRepository interface {
	// ListRecords returns up to limit records of the dataset ordered by key,
	// starting at offset.
	ListRecords(ctx context.Context, identityID, dataset string, offset, limit int) ([]models.Record, error)

	// DatasetSyncCount returns the highest record generation of the
	// dataset, or zero for an empty dataset.
	DatasetSyncCount(ctx context.Context, identityID, dataset string) (int64, error)

	// ApplyPatches atomically validates every patch against the stored
	// SyncCount and applies the batch. A mismatch rejects the whole batch
	// with [ErrVersionConflict]. The returned records are the post-patch
	// state of every patched key, in patch order.
	ApplyPatches(ctx context.Context, identityID, dataset string, patches []models.Patch, now time.Time) ([]models.Record, error)
}
