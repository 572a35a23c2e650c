package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/MKhiriev/go-dataset-sync/internal/config"
	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/internal/store"
	"github.com/MKhiriev/go-dataset-sync/internal/utils"
	"github.com/MKhiriev/go-dataset-sync/models"
)

// maxPageSize caps MaxResults of a single ListRecords call.
const maxPageSize = 1000

type sessionKey struct {
	identityID string
	dataset    string
}

// recordService pages dataset listings and applies patch batches. Every
// listing issues a new sync session token for (identity, dataset); an
// update is accepted only with the latest one, which it consumes.
type recordService struct {
	repository store.RecordRepository
	pageSize   int

	ids *utils.UUIDGenerator
	now func() time.Time

	mu       sync.Mutex
	sessions map[sessionKey]string

	logger *logger.Logger
}

func NewRecordService(repository store.RecordRepository, cfg config.Server, logger *logger.Logger) RecordService {
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	return &recordService{
		repository: repository,
		pageSize:   pageSize,
		ids:        utils.NewUUIDGenerator(),
		now:        time.Now,
		sessions:   make(map[sessionKey]string),
		logger:     logger,
	}
}

// ListRecords returns one page of the dataset ordered by key. NextToken is
// the offset of the following page and is empty on the last one.
func (s *recordService) ListRecords(ctx context.Context, req models.ListRecordsRequest) (models.ListRecordsResponse, error) {
	log := logger.FromContext(ctx)

	offset := 0
	if req.NextToken != "" {
		var err error
		offset, err = strconv.Atoi(req.NextToken)
		if err != nil || offset < 0 {
			log.Error().Str("func", "recordService.ListRecords").Str("next_token", req.NextToken).Msg("invalid page token")
			return models.ListRecordsResponse{}, ErrInvalidPageToken
		}
	}

	limit := s.pageSize
	if req.MaxResults > 0 && req.MaxResults < limit {
		limit = req.MaxResults
	}

	// one extra row tells whether another page exists
	records, err := s.repository.ListRecords(ctx, req.IdentityID, req.DatasetName, offset, limit+1)
	if err != nil {
		log.Err(err).Str("func", "recordService.ListRecords").Str("dataset", req.DatasetName).Msg("listing records failed")
		return models.ListRecordsResponse{}, fmt.Errorf("listing records failed: %w", err)
	}

	var nextToken string
	if len(records) > limit {
		records = records[:limit]
		nextToken = strconv.Itoa(offset + limit)
	}

	syncCount, err := s.repository.DatasetSyncCount(ctx, req.IdentityID, req.DatasetName)
	if err != nil {
		log.Err(err).Str("func", "recordService.ListRecords").Str("dataset", req.DatasetName).Msg("reading dataset sync count failed")
		return models.ListRecordsResponse{}, fmt.Errorf("reading dataset sync count failed: %w", err)
	}

	if records == nil {
		records = []models.Record{}
	}

	return models.ListRecordsResponse{
		Records:          records,
		NextToken:        nextToken,
		SyncSessionToken: s.openSession(req.IdentityID, req.DatasetName),
		DatasetSyncCount: syncCount,
		Count:            len(records),
	}, nil
}

// UpdateRecords applies the batch all or nothing and returns the stored
// records of the patched keys.
func (s *recordService) UpdateRecords(ctx context.Context, req models.UpdateRecordsRequest) (models.UpdateRecordsResponse, error) {
	log := logger.FromContext(ctx)
	key := sessionKey{identityID: req.IdentityID, dataset: req.DatasetName}

	s.mu.Lock()
	current, ok := s.sessions[key]
	fresh := ok && current == req.SyncSessionToken
	if fresh {
		delete(s.sessions, key)
	}
	s.mu.Unlock()

	if !fresh {
		log.Warn().
			Str("func", "recordService.UpdateRecords").
			Str("dataset", req.DatasetName).
			Bool("session_open", ok).
			Msg("stale sync session token")
		return models.UpdateRecordsResponse{}, ErrStaleSessionToken
	}

	records, err := s.repository.ApplyPatches(ctx, req.IdentityID, req.DatasetName, req.RecordPatches, s.now().UTC())
	if err != nil {
		log.Err(err).
			Str("func", "recordService.UpdateRecords").
			Str("dataset", req.DatasetName).
			Int("patches", len(req.RecordPatches)).
			Msg("patch batch rejected")
		s.restoreSession(key, req.SyncSessionToken)
		return models.UpdateRecordsResponse{}, fmt.Errorf("applying patches failed: %w", err)
	}

	log.Info().
		Str("func", "recordService.UpdateRecords").
		Str("dataset", req.DatasetName).
		Int("patches", len(req.RecordPatches)).
		Msg("patch batch applied")

	return models.UpdateRecordsResponse{Records: records}, nil
}

func (s *recordService) openSession(identityID, dataset string) string {
	token := s.ids.Generate()

	s.mu.Lock()
	s.sessions[sessionKey{identityID: identityID, dataset: dataset}] = token
	s.mu.Unlock()

	return token
}

// restoreSession gives a rejected batch its token back unless a newer
// listing has already replaced it.
func (s *recordService) restoreSession(key sessionKey, token string) {
	s.mu.Lock()
	if _, ok := s.sessions[key]; !ok {
		s.sessions[key] = token
	}
	s.mu.Unlock()
}
