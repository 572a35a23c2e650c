// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// record store server handlers and middleware.
//
// All Msg* constants are human-readable message strings written into HTTP
// response bodies. The client adapter includes them in the errors it
// returns, so the wording reaches end users.
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded or fails basic validation.
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgTokenIsExpiredOrInvalid is returned when session credentials are
	// expired or cannot be verified.
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgInvalidWebIdentityToken is returned by the assume route when the
	// web identity token is not a JWT with a subject.
	MsgInvalidWebIdentityToken = "invalid web identity token"

	// MsgNoDatasetName is returned when the dataset path segment is empty.
	MsgNoDatasetName = "no dataset name provided"

	// MsgNoIdentityIDProvided is returned when a record route runs without
	// an identity in the request context.
	MsgNoIdentityIDProvided = "no identity ID provided"

	// MsgNoPatchesProvided is returned for an update without patches.
	MsgNoPatchesProvided = "no record patches provided"

	// MsgDuplicatePatchKey is returned when a batch holds two patches for
	// one key.
	MsgDuplicatePatchKey = "more than one patch for the same key"

	// MsgInvalidPageToken is returned when NextToken was not issued by
	// this server.
	MsgInvalidPageToken = "invalid page token"

	// MsgAccessDenied is returned when the IdentityId of a request differs
	// from the identity of its credentials.
	MsgAccessDenied = "access denied"

	// MsgStaleSessionToken is returned when the sync session token is not
	// the latest one issued for the dataset. The client should list the
	// dataset again before retrying.
	MsgStaleSessionToken = "sync session token is stale, please list records again"

	// MsgVersionConflict is returned when a patch SyncCount no longer
	// matches the stored record. The client should refresh before retrying.
	MsgVersionConflict = "record sync count conflict, please refresh"

	// MsgIntegrityCheckFailed is returned when the patch batch hash does
	// not match.
	MsgIntegrityCheckFailed = "integrity check failed"
)
