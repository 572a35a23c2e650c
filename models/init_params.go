// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// InitParams configures the identity context of a sync engine.
type InitParams struct {
	// IdentityID and IdentityToken select the authenticated path. When
	// either is empty the engine falls back to guest credentials and skips
	// the initial pull.
	IdentityID    string
	IdentityToken string

	Region         string
	RoleArn        string
	IdentityPoolID string

	// DatasetsToSync are pulled from the remote store on authenticated init.
	DatasetsToSync []string

	// OnAuthFailed, when set, receives identity errors instead of Init
	// returning them.
	OnAuthFailed func(err error)
}
