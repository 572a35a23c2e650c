package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/MKhiriev/go-dataset-sync/internal/config"
	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/internal/utils"
	"github.com/MKhiriev/go-dataset-sync/models"
	"github.com/go-resty/resty/v2"
)

const (
	listRecordsPath   = "/api/datasets/{dataset}/records"
	updateRecordsPath = "/api/datasets/{dataset}/records/patch"
)

type httpRecordStoreClient struct {
	client *utils.HTTPClient
	hasher *utils.Hasher

	token string

	logger *logger.Logger
}

// NewHTTPRecordStoreClient constructs an HTTP/REST [RecordStoreClient]
// authenticated with creds.SessionToken. Patch batches are signed with
// appCfg.HashKey when one is configured.
//
// Returns an error if adapterCfg.HTTPAddress is not a valid URL or creds
// carry no session token.
func NewHTTPRecordStoreClient(adapterCfg config.ClientAdapter, appCfg config.ClientApp, creds models.Credentials, log *logger.Logger) (RecordStoreClient, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	token := strings.TrimSpace(creds.SessionToken)
	if token == "" {
		return nil, ErrMissingSessionToken
	}

	return &httpRecordStoreClient{
		client: utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout),
		hasher: utils.NewHasher(appCfg.HashKey),
		token:  token,
		logger: log,
	}, nil
}

// NewHTTPRecordStoreClientFactory returns a [RecordStoreClientFactory]
// building [NewHTTPRecordStoreClient] instances from the same settings.
func NewHTTPRecordStoreClientFactory(adapterCfg config.ClientAdapter, appCfg config.ClientApp, log *logger.Logger) RecordStoreClientFactory {
	return func(creds models.Credentials) (RecordStoreClient, error) {
		return NewHTTPRecordStoreClient(adapterCfg, appCfg, creds, log)
	}
}

// ListRecords implements [RecordStoreClient] via
// POST /api/datasets/{dataset}/records.
func (h *httpRecordStoreClient) ListRecords(ctx context.Context, req models.ListRecordsRequest) (models.ListRecordsResponse, error) {
	var page models.ListRecordsResponse

	resp, err := h.authedRequest(ctx).
		SetPathParam("dataset", req.DatasetName).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&page).
		Post(listRecordsPath)
	if err != nil {
		return models.ListRecordsResponse{}, fmt.Errorf("list records request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.ListRecordsResponse{}, err
	}

	h.logger.Debug().
		Str("func", "httpRecordStoreClient.ListRecords").
		Str("dataset", req.DatasetName).
		Int("records", len(page.Records)).
		Bool("has_next", page.NextToken != "").
		Msg("records page received")

	return page, nil
}

// UpdateRecords implements [RecordStoreClient] via
// POST /api/datasets/{dataset}/records/patch. It computes the transport
// integrity hash over req.RecordPatches before sending.
func (h *httpRecordStoreClient) UpdateRecords(ctx context.Context, req models.UpdateRecordsRequest) (models.UpdateRecordsResponse, error) {
	req.Hash = h.hasher.HashJSON(req.RecordPatches)

	var result models.UpdateRecordsResponse

	resp, err := h.authedRequest(ctx).
		SetPathParam("dataset", req.DatasetName).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&result).
		Post(updateRecordsPath)
	if err != nil {
		return models.UpdateRecordsResponse{}, fmt.Errorf("update records request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.UpdateRecordsResponse{}, err
	}

	return result, nil
}

func (h *httpRecordStoreClient) authedRequest(ctx context.Context) *resty.Request {
	return h.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+h.token)
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}
