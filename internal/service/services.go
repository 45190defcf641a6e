package service

import (
	"fmt"

	"github.com/MKhiriev/go-field-sync/internal/config"
	"github.com/MKhiriev/go-field-sync/internal/logger"
	"github.com/MKhiriev/go-field-sync/internal/store"
	"github.com/MKhiriev/go-field-sync/internal/validators"
)

type Services struct {
	AuthService    AuthService
	RecordService  RecordService
	AppInfoService AppInfoService
	Validator      validators.Validator
}

func NewServices(storages *store.Storages, cfg config.App, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("error creating app info service: %w", err)
	}

	validator := validators.NewRequestValidator()
	records := NewRecordValidationService(validator, logger).Wrap(NewRecordService(storages.RecordRepository, logger))

	return &Services{
		AuthService:    NewAuthService(storages.UserRepository, cfg, logger),
		RecordService:  records,
		AppInfoService: appInfo,
		Validator:      validator,
	}, nil
}
