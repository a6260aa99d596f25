package service

import (
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/gestorvip/fila/internal/config"
	"github.com/gestorvip/fila/internal/queue"
	"github.com/gestorvip/fila/internal/repository"
)

type Service struct {
	Clients   ClientService
	Export    ExportService
	Settings  SettingsService
	Alerts    AlertService
	Scheduler SchedulerService
	Health    HealthService
}

func NewService(
	cfg *config.Config,
	store *queue.Store,
	repo repository.Repository,
	redisClient *redis.Client,
	logger *zap.Logger,
) *Service {
	settingsService := NewSettingsService(repo.Settings(), logger)
	clientService := NewClientService(cfg, store, settingsService, logger)
	exportService := NewExportService(cfg, store, logger)
	alertService := NewAlertService(cfg, store, redisClient, logger)
	schedulerService := NewSchedulerService(cfg, alertService, logger)
	healthService := NewHealthService(repo, redisClient, schedulerService, alertService)

	return &Service{
		Clients:   clientService,
		Export:    exportService,
		Settings:  settingsService,
		Alerts:    alertService,
		Scheduler: schedulerService,
		Health:    healthService,
	}
}
