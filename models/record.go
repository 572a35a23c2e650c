// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// Record is a single key/value entry of a dataset as known to the local
// replica or returned by the remote record store.
type Record struct {
	// Key identifies the record inside its dataset.
	Key string `json:"Key"`

	// Value is the codec-serialized value. An empty Value on a record
	// returned by the server marks a removed key.
	Value string `json:"Value"`

	// SyncCount is the server-assigned generation counter used for
	// optimistic-concurrency patching. Zero means the server has never
	// acknowledged this key.
	SyncCount int64 `json:"SyncCount"`

	// LastModifiedDate is set by the server when the record was last written.
	LastModifiedDate *time.Time `json:"LastModifiedDate,omitempty"`

	// DeviceLastModifiedDate is the client clock reading that accompanied
	// the last accepted patch.
	DeviceLastModifiedDate *time.Time `json:"DeviceLastModifiedDate,omitempty"`
}

// Datasets maps a dataset name to the ordered records of its last-known
// local snapshot.
type Datasets map[string][]Record

// FindRecord returns the first record in records with the given key.
func FindRecord(records []Record, key string) (Record, bool) {
	for _, r := range records {
		if r.Key == key {
			return r, true
		}
	}
	return Record{}, false
}
