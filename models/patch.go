// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// PatchOp is the mutation kind carried by a [Patch].
type PatchOp string

const (
	// OpReplace writes Value under Key.
	OpReplace PatchOp = "replace"
	// OpRemove deletes Key.
	OpRemove PatchOp = "remove"
)

// Valid reports whether op is one of the supported operations.
func (op PatchOp) Valid() bool {
	return op == OpReplace || op == OpRemove
}

// Patch is one pending mutation awaiting acknowledgement by the remote
// record store. A dataset journal holds at most one Patch per key.
type Patch struct {
	Op    PatchOp `json:"Op"`
	Key   string  `json:"Key"`
	Value string  `json:"Value"`

	// SyncCount is the generation of the record this patch is based on.
	// The server rejects the patch when it no longer matches.
	SyncCount int64 `json:"SyncCount"`

	DeviceLastModifiedDate *time.Time `json:"DeviceLastModifiedDate,omitempty"`
}

// Journal maps a dataset name to its pending patches.
type Journal map[string][]Patch
