package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/internal/service"
	"github.com/MKhiriev/go-dataset-sync/internal/utils"
	"github.com/MKhiriev/go-dataset-sync/models"
	"github.com/stretchr/testify/require"
)

// ---- Fakes ----

type fakeIdentityService struct {
	assumeFn          func(ctx context.Context, req models.AssumeIdentityRequest) (models.Credentials, error)
	unauthenticatedFn func(ctx context.Context, req models.UnauthenticatedIdentityRequest) (models.Credentials, error)
	parseTokenFn      func(ctx context.Context, token string) (models.Token, error)
}

func (f *fakeIdentityService) AssumeIdentity(ctx context.Context, req models.AssumeIdentityRequest) (models.Credentials, error) {
	if f.assumeFn != nil {
		return f.assumeFn(ctx, req)
	}
	return models.Credentials{}, nil
}

func (f *fakeIdentityService) Unauthenticated(ctx context.Context, req models.UnauthenticatedIdentityRequest) (models.Credentials, error) {
	if f.unauthenticatedFn != nil {
		return f.unauthenticatedFn(ctx, req)
	}
	return models.Credentials{}, nil
}

func (f *fakeIdentityService) ParseToken(ctx context.Context, token string) (models.Token, error) {
	if f.parseTokenFn != nil {
		return f.parseTokenFn(ctx, token)
	}
	return models.Token{}, service.ErrTokenIsExpiredOrInvalid
}

type fakeRecordService struct {
	listFn   func(ctx context.Context, req models.ListRecordsRequest) (models.ListRecordsResponse, error)
	updateFn func(ctx context.Context, req models.UpdateRecordsRequest) (models.UpdateRecordsResponse, error)
}

func (f *fakeRecordService) ListRecords(ctx context.Context, req models.ListRecordsRequest) (models.ListRecordsResponse, error) {
	if f.listFn != nil {
		return f.listFn(ctx, req)
	}
	return models.ListRecordsResponse{}, nil
}

func (f *fakeRecordService) UpdateRecords(ctx context.Context, req models.UpdateRecordsRequest) (models.UpdateRecordsResponse, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, req)
	}
	return models.UpdateRecordsResponse{}, nil
}

type fakeAppInfoService struct {
	version string
}

func (f *fakeAppInfoService) GetAppVersion(context.Context) string {
	return f.version
}

// ---- Helpers ----

func newTestHandler(identity service.IdentityService, records service.RecordService) *Handler {
	if identity == nil {
		identity = &fakeIdentityService{}
	}
	if records == nil {
		records = &fakeRecordService{}
	}
	return &Handler{
		services: &service.Services{
			IdentityService: identity,
			RecordService:   records,
			AppInfoService:  &fakeAppInfoService{version: "test"},
		},
		hasher: utils.NewHasher(""),
		logger: logger.Nop(),
	}
}

// injectNopLogger puts a nop logger into the request context.
func injectNopLogger(r *http.Request) *http.Request {
	nop := logger.Nop()
	return r.WithContext(nop.Logger.WithContext(r.Context()))
}

// withIdentity returns r carrying identityID the way the auth middleware
// stores it.
func withIdentity(r *http.Request, identityID string) *http.Request {
	return r.WithContext(utils.WithIdentityID(r.Context(), identityID))
}

func encodeBody(t *testing.T, v any) io.Reader {
	t.Helper()
	buf := &bytes.Buffer{}
	require.NoError(t, json.NewEncoder(buf).Encode(v))
	return buf
}
