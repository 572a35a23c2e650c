package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-dataset-sync/internal/config"
	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/internal/utils"
	"github.com/MKhiriev/go-dataset-sync/models"
)

// identityService issues session credentials for web identities and guests.
// The session token inside the credentials is an HS256 JWT whose subject
// is the identity id; the record routes accept it as a bearer token.
type identityService struct {
	tokenSignKey  string
	tokenIssuer   string
	tokenDuration time.Duration

	ids    *utils.UUIDGenerator
	logger *logger.Logger
}

func NewIdentityService(cfg config.ServerApp, logger *logger.Logger) IdentityService {
	return &identityService{
		tokenSignKey:  cfg.TokenSignKey,
		tokenIssuer:   cfg.TokenIssuer,
		tokenDuration: cfg.TokenDuration,
		ids:           utils.NewUUIDGenerator(),
		logger:        logger,
	}
}

// AssumeIdentity exchanges a web identity token for session credentials.
// The web token is not verified; its sub claim becomes the identity id.
func (s *identityService) AssumeIdentity(ctx context.Context, req models.AssumeIdentityRequest) (models.Credentials, error) {
	log := logger.FromContext(ctx)

	if req.WebIdentityToken == "" {
		log.Error().Str("func", "identityService.AssumeIdentity").Msg("no web identity token provided")
		return models.Credentials{}, ErrInvalidDataProvided
	}

	identityID, err := utils.ParseSubjectFromJWT(req.WebIdentityToken)
	if err != nil {
		log.Err(err).Str("func", "identityService.AssumeIdentity").Msg("web identity token cannot be parsed")
		return models.Credentials{}, fmt.Errorf("%w: %w", ErrInvalidWebIdentityToken, err)
	}

	return s.issue(ctx, identityID, true)
}

// Unauthenticated creates a fresh guest identity "<region>:<uuid>" in the
// region of the identity pool.
func (s *identityService) Unauthenticated(ctx context.Context, req models.UnauthenticatedIdentityRequest) (models.Credentials, error) {
	if req.IdentityPoolID == "" {
		logger.FromContext(ctx).Error().Str("func", "identityService.Unauthenticated").Msg("no identity pool ID provided")
		return models.Credentials{}, ErrInvalidDataProvided
	}

	region, _, _ := strings.Cut(req.IdentityPoolID, ":")
	return s.issue(ctx, region+":"+s.ids.Generate(), false)
}

func (s *identityService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, s.tokenSignKey, s.tokenIssuer)
	if err != nil {
		logger.FromContext(ctx).Debug().Err(err).Str("func", "identityService.ParseToken").Msg("token rejected")
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}

func (s *identityService) issue(ctx context.Context, identityID string, authenticated bool) (models.Credentials, error) {
	token, err := utils.GenerateJWTToken(s.tokenIssuer, identityID, s.tokenDuration, s.tokenSignKey)
	if err != nil {
		return models.Credentials{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	accessKeyID := s.ids.Generate()

	logger.FromContext(ctx).Info().
		Str("func", "identityService.issue").
		Str("identity_id", identityID).
		Bool("authenticated", authenticated).
		Msg("session credentials issued")

	return models.Credentials{
		AccessKeyID:     accessKeyID,
		SecretAccessKey: utils.HashString(accessKeyID, s.tokenSignKey),
		SessionToken:    token.SignedString,
		Expiration:      token.ExpiresAt.Time,
		IdentityID:      identityID,
		Authenticated:   authenticated,
	}, nil
}
