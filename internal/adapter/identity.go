package adapter

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-dataset-sync/internal/config"
	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/internal/utils"
	"github.com/MKhiriev/go-dataset-sync/models"
)

const (
	assumeIdentityPath  = "/api/identity/assume"
	unauthenticatedPath = "/api/identity/unauthenticated"
)

type httpIdentityProvider struct {
	client *utils.HTTPClient
	logger *logger.Logger
}

// NewHTTPIdentityProvider constructs an HTTP/REST [IdentityProvider].
func NewHTTPIdentityProvider(adapterCfg config.ClientAdapter, log *logger.Logger) (IdentityProvider, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	return &httpIdentityProvider{
		client: utils.NewHTTPClient(baseURL, adapterCfg.RequestTimeout),
		logger: log,
	}, nil
}

// AssumeIdentity implements [IdentityProvider] via POST /api/identity/assume.
func (h *httpIdentityProvider) AssumeIdentity(ctx context.Context, req models.AssumeIdentityRequest) (models.Credentials, error) {
	return h.requestCredentials(ctx, assumeIdentityPath, req)
}

// Unauthenticated implements [IdentityProvider] via
// POST /api/identity/unauthenticated.
func (h *httpIdentityProvider) Unauthenticated(ctx context.Context, identityPoolID string) (models.Credentials, error) {
	return h.requestCredentials(ctx, unauthenticatedPath, models.UnauthenticatedIdentityRequest{IdentityPoolID: identityPoolID})
}

func (h *httpIdentityProvider) requestCredentials(ctx context.Context, path string, body any) (models.Credentials, error) {
	var result models.CredentialsResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&result).
		Post(path)
	if err != nil {
		return models.Credentials{}, fmt.Errorf("identity request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.Credentials{}, err
	}

	creds := result.Credentials
	if creds.IdentityID == "" && creds.SessionToken != "" {
		// the token subject carries the identity when IdentityId is omitted
		if sub, subErr := utils.ParseSubjectFromJWT(creds.SessionToken); subErr == nil {
			creds.IdentityID = sub
		}
	}

	h.logger.Debug().
		Str("func", "httpIdentityProvider.requestCredentials").
		Str("path", path).
		Str("identity_id", creds.IdentityID).
		Bool("authenticated", creds.Authenticated).
		Msg("credentials issued")

	return creds, nil
}
