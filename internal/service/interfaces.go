package service

import (
	"context"

	"github.com/MKhiriev/go-dataset-sync/models"
)

// RecordService serves the record store operations of the reference
// server. Identity ids are trusted: the transport checks them against the
// bearer credentials before calling in.
type RecordService interface {
	ListRecords(ctx context.Context, req models.ListRecordsRequest) (models.ListRecordsResponse, error)
	UpdateRecords(ctx context.Context, req models.UpdateRecordsRequest) (models.UpdateRecordsResponse, error)
}

type IdentityService interface {
	AssumeIdentity(ctx context.Context, req models.AssumeIdentityRequest) (models.Credentials, error)
	Unauthenticated(ctx context.Context, req models.UnauthenticatedIdentityRequest) (models.Credentials, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}

// RecordServiceWrapper defines middleware composition for RecordService.
// Implementations wrap an existing RecordService to add behavior such as
// validation.
type RecordServiceWrapper interface {
	Wrap(RecordService) RecordService
}
