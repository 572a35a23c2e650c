package service

import (
	"context"

	"github.com/MKhiriev/go-dataset-sync/internal/adapter"
	"github.com/MKhiriev/go-dataset-sync/models"
)

// listRecords pages through a dataset until the remote store returns no
// cursor. The session token of every page replaces the stored one.
func (e *syncEngine) listRecords(ctx context.Context, client adapter.RecordStoreClient, dataset string) ([][]models.Record, error) {
	req := e.listRequest(dataset)

	var pages [][]models.Record
	for {
		page, err := e.listPage(ctx, client, req)
		if err != nil {
			return nil, err
		}
		pages = append(pages, page.Records)

		if page.NextToken == "" {
			break
		}
		if page.NextToken == req.NextToken {
			return nil, ErrPaginationStalled
		}
		req.NextToken = page.NextToken
	}

	e.logger.Debug().
		Str("func", "syncEngine.listRecords").
		Str("dataset", dataset).
		Int("pages", len(pages)).
		Msg("dataset listing completed")

	return pages, nil
}

// fetchSessionToken pulls a single page to obtain a fresh session token.
func (e *syncEngine) fetchSessionToken(ctx context.Context, client adapter.RecordStoreClient, dataset string) error {
	_, err := e.listPage(ctx, client, e.listRequest(dataset))
	return err
}

func (e *syncEngine) listPage(ctx context.Context, client adapter.RecordStoreClient, req models.ListRecordsRequest) (models.ListRecordsResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.remoteTimeout)
	defer cancel()

	page, err := client.ListRecords(callCtx, req)
	if err != nil {
		e.logger.Err(err).
			Str("func", "syncEngine.listPage").
			Str("dataset", req.DatasetName).
			Str("next_token", req.NextToken).
			Msg("failed to list records")
		return models.ListRecordsResponse{}, err
	}

	e.mu.Lock()
	e.sessionTokens[req.DatasetName] = page.SyncSessionToken
	e.mu.Unlock()

	return page, nil
}

// updateRecords submits patches tagged with the last session token seen
// for the dataset.
func (e *syncEngine) updateRecords(ctx context.Context, client adapter.RecordStoreClient, dataset string, patches []models.Patch) (models.UpdateRecordsResponse, error) {
	e.mu.RLock()
	req := models.UpdateRecordsRequest{
		DatasetName:      dataset,
		IdentityID:       e.identityID(),
		IdentityPoolID:   e.poolID,
		SyncSessionToken: e.sessionTokens[dataset],
		RecordPatches:    patches,
	}
	e.mu.RUnlock()

	callCtx, cancel := context.WithTimeout(ctx, e.remoteTimeout)
	defer cancel()

	resp, err := client.UpdateRecords(callCtx, req)
	if err != nil {
		e.logger.Err(err).
			Str("func", "syncEngine.updateRecords").
			Str("dataset", dataset).
			Int("patches", len(patches)).
			Msg("patch batch rejected")
		return models.UpdateRecordsResponse{}, err
	}

	return resp, nil
}

func (e *syncEngine) listRequest(dataset string) models.ListRecordsRequest {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return models.ListRecordsRequest{
		DatasetName:      dataset,
		IdentityID:       e.identityID(),
		IdentityPoolID:   e.poolID,
		SyncSessionToken: e.sessionTokens[dataset],
		MaxResults:       e.pageSize,
	}
}

// identityID must be called with e.mu held.
func (e *syncEngine) identityID() string {
	if e.creds == nil {
		return ""
	}
	return e.creds.IdentityID
}
