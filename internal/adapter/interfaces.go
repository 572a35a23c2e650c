// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport layer between the sync engine and
// the remote record store.
//
// [RecordStoreClient] moves single pages and patch batches; pagination and
// session-token bookkeeping live in the service layer. [IdentityProvider]
// exchanges identity tokens for the session credentials that authenticate
// record store calls.
//
// HTTP status codes are mapped by mapHTTPError to the sentinel errors in
// errors.go, so callers can use [errors.Is] (e.g. [ErrConflict] for 409,
// [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-dataset-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/adapter_mock.go -package=mock

// RecordStoreClient is one identity's view of the remote record store.
type RecordStoreClient interface {
	// ListRecords fetches one page of a dataset. The response carries the
	// cursor of the next page, if any, and a fresh sync session token.
	ListRecords(ctx context.Context, req models.ListRecordsRequest) (models.ListRecordsResponse, error)

	// UpdateRecords submits a patch batch tagged with a sync session token.
	// A transport integrity hash over the patches is attached automatically.
	// Returns [ErrConflict] (wrapped) when the server rejects the batch
	// because a SyncCount or the session token is stale.
	UpdateRecords(ctx context.Context, req models.UpdateRecordsRequest) (models.UpdateRecordsResponse, error)
}

// IdentityProvider issues session credentials.
type IdentityProvider interface {
	// AssumeIdentity exchanges a web identity token for authenticated
	// credentials bound to req.RoleArn.
	AssumeIdentity(ctx context.Context, req models.AssumeIdentityRequest) (models.Credentials, error)

	// Unauthenticated returns guest credentials for a fresh identity in the
	// given pool.
	Unauthenticated(ctx context.Context, identityPoolID string) (models.Credentials, error)
}

// RecordStoreClientFactory binds a [RecordStoreClient] to a credential set.
type RecordStoreClientFactory func(creds models.Credentials) (RecordStoreClient, error)
