// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service contains the offline-first dataset sync engine used by
// the client and the record and identity services of the reference
// record store server.
package service

import (
	"context"

	"github.com/MKhiriev/go-dataset-sync/models"
)

// ClientSyncEngine keeps a local replica of named datasets, accepts reads
// and writes while offline and reconciles pending writes with the remote
// record store.
//
// Local reads and writes never wait on the network. Remote operations on
// the same dataset are serialized; different datasets proceed
// independently.
type ClientSyncEngine interface {
	// Init establishes credentials and binds the record store client. With
	// both IdentityID and IdentityToken set it assumes that identity and
	// pulls every DatasetsToSync dataset; otherwise it obtains guest
	// credentials, pulls nothing and opens the DatasetsToSync datasets
	// empty. Identity failures, including a record store client that
	// cannot be built, go to OnAuthFailed when set and are returned wrapped
	// in [ErrAuthAssume] otherwise.
	Init(ctx context.Context, params models.InitParams) error

	// GetValue returns the decoded value stored under key. found is false
	// for a missing key or a value that cannot be decoded. Returns
	// [ErrDatasetUninitialized] for an unknown dataset.
	GetValue(dataset, key string) (value any, found bool, err error)

	// GetValues returns every decodable key/value pair of the dataset.
	// Returns [ErrDatasetUninitialized] for an unknown dataset.
	GetValues(dataset string) (map[string]any, error)

	// SetValue writes value under key and records a pending patch. Writes
	// to an unknown dataset are logged and ignored. Writing a value equal
	// to the current one is a no-op. nil, "" and empty collections
	// record a removal.
	SetValue(dataset, key string, value any)

	// SetValueStrict is SetValue that reports an unknown dataset or an
	// empty key as an error.
	SetValueStrict(dataset, key string, value any) error

	// ShouldSync reports whether the dataset has pending patches and no
	// sync is in flight for it.
	ShouldSync(dataset string) bool

	// Sync pushes the pending patches of the dataset and merges the
	// records acknowledged by the remote store. Remote failures are
	// returned as [*SyncFailure] with the journal left intact.
	Sync(ctx context.Context, dataset string) error

	// SyncAll syncs every dataset for which ShouldSync holds and joins the
	// failures. A dataset rejected with a conflict is refreshed so that
	// the next attempt is based on the current server generations.
	SyncAll(ctx context.Context) error

	// Refresh pulls the full dataset listing. Records without a pending
	// patch take the server state; pending patches are rebased onto the
	// server SyncCount. An unknown dataset is created.
	Refresh(ctx context.Context, dataset string) error

	// Restore loads the snapshot and journal tables from the persistent
	// cache. Absent or corrupt slots leave the current tables in place.
	Restore(ctx context.Context)

	// Store writes the snapshot and journal tables to the persistent cache.
	Store(ctx context.Context) error

	// Datasets lists the known dataset names in lexical order.
	Datasets() []string

	// PendingCount returns the number of pending patches of the dataset.
	PendingCount(dataset string) int

	// Credentials returns the established credentials, if any.
	Credentials() (models.Credentials, bool)
}

// ClientSyncJob periodically syncs all datasets and persists the engine
// state in the background.
type ClientSyncJob interface {
	// Run starts the job. It stops any previously started run first and
	// returns immediately; the job ends when ctx is cancelled or Stop is
	// called.
	Run(ctx context.Context)

	// Stop cancels the running job and waits for it to exit. Safe to call
	// when the job is not running.
	Stop()
}
