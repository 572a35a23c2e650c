package service

import (
	"github.com/MKhiriev/go-dataset-sync/internal/config"
	"github.com/MKhiriev/go-dataset-sync/internal/logger"
	"github.com/MKhiriev/go-dataset-sync/internal/store"
)

type Services struct {
	IdentityService IdentityService
	RecordService   RecordService
	AppInfoService  AppInfoService
}

func NewServices(storages *store.Storages, cfg *config.ServerConfig, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App.Version, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		IdentityService: NewIdentityService(cfg.App, logger),
		RecordService:   NewRecordValidationService().Wrap(NewRecordService(storages.RecordRepository, cfg.Server, logger)),
		AppInfoService:  appInfo,
	}, nil
}
