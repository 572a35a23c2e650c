// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// ListRecordsRequest asks the remote store for one page of a dataset.
type ListRecordsRequest struct {
	DatasetName    string `json:"DatasetName"`
	IdentityID     string `json:"IdentityId"`
	IdentityPoolID string `json:"IdentityPoolId"`

	// SyncSessionToken is the last token seen for the dataset, if any.
	SyncSessionToken string `json:"SyncSessionToken,omitempty"`

	// NextToken is the pagination cursor returned by the previous page.
	NextToken string `json:"NextToken,omitempty"`

	// MaxResults limits the page size; zero lets the server decide.
	MaxResults int `json:"MaxResults,omitempty"`
}

// ListRecordsResponse is one page of dataset records.
type ListRecordsResponse struct {
	Records []Record `json:"Records"`

	// NextToken is empty on the last page.
	NextToken string `json:"NextToken,omitempty"`

	// SyncSessionToken must accompany the next UpdateRecords call.
	SyncSessionToken string `json:"SyncSessionToken"`

	// DatasetSyncCount is the highest record generation in the dataset.
	DatasetSyncCount int64 `json:"DatasetSyncCount"`

	Count int `json:"Count"`
}

// UpdateRecordsRequest submits a dataset journal as one patch batch.
type UpdateRecordsRequest struct {
	DatasetName      string  `json:"DatasetName"`
	IdentityID       string  `json:"IdentityId"`
	IdentityPoolID   string  `json:"IdentityPoolId"`
	SyncSessionToken string  `json:"SyncSessionToken"`
	RecordPatches    []Patch `json:"RecordPatches"`

	// Hash is the HMAC-SHA256 (hex) of the JSON-encoded RecordPatches.
	// Empty when no hash key is configured.
	Hash string `json:"Hash,omitempty"`
}

// UpdateRecordsResponse carries the authoritative post-patch records for
// every key touched by the batch.
type UpdateRecordsResponse struct {
	Records []Record `json:"Records"`
}
