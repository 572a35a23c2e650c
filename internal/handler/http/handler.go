package http

import (
	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/internal/service"
	"github.com/MKhiriev/go-dataset-sync/internal/utils"
)

type Handler struct {
	services *service.Services
	hasher   *utils.Hasher

	logger *logger.Logger
}

// NewHandler creates the HTTP handler. Patch batches are checked against
// hashKey when it is not empty.
func NewHandler(services *service.Services, hashKey string, logger *logger.Logger) *Handler {
	logger.Info().Bool("integrity_check", hashKey != "").Msg("http handler created")
	return &Handler{
		services: services,
		hasher:   utils.NewHasher(hashKey),
		logger:   logger,
	}
}
