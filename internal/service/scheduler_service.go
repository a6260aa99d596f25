package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/gestorvip/fila/internal/config"
	"github.com/gestorvip/fila/internal/scheduler"
)

type schedulerService struct {
	scheduler    *scheduler.Scheduler
	alertService AlertService
	logger       *zap.Logger
}

func NewSchedulerService(
	cfg *config.Config,
	alertService AlertService,
	logger *zap.Logger,
) SchedulerService {
	interval := time.Duration(cfg.Queue.SweepIntervalSeconds) * time.Second

	svc := &schedulerService{
		alertService: alertService,
		logger:       logger,
	}

	svc.scheduler = scheduler.NewScheduler(logger, interval, svc.executeSweepTask)
	return svc
}

func (s *schedulerService) Start() error {
	ctx := context.Background()
	return s.scheduler.Start(ctx)
}

func (s *schedulerService) Stop() error {
	return s.scheduler.Stop()
}

func (s *schedulerService) IsRunning() bool {
	return s.scheduler.IsRunning()
}

func (s *schedulerService) executeSweepTask(ctx context.Context) error {
	return s.alertService.SweepOverdue(ctx)
}
