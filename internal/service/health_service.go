package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/gestorvip/fila/internal/repository"
)

type healthService struct {
	repo             repository.Repository
	redisClient      *redis.Client
	schedulerService SchedulerService
	alertService     AlertService
}

func NewHealthService(
	repo repository.Repository,
	redisClient *redis.Client,
	schedulerService SchedulerService,
	alertService AlertService,
) HealthService {
	return &healthService{
		repo:             repo,
		redisClient:      redisClient,
		schedulerService: schedulerService,
		alertService:     alertService,
	}
}

func (s *healthService) GetHealth(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status: HealthStatusHealthy,
	}

	if s.schedulerService.IsRunning() {
		status.SchedulerStatus = SchedulerStatusRunning
	} else {
		status.SchedulerStatus = SchedulerStatusStopped
	}

	status.StorageStatus = s.checkStorageHealth(ctx)
	status.RedisStatus = s.checkRedisHealth(ctx)

	state, requests, failures := s.alertService.GetCircuitBreakerStatus()
	status.CircuitBreakerState = state
	if requests > 0 {
		failureRate := float64(failures) / float64(requests) * 100
		status.CircuitBreakerStatus = fmt.Sprintf("Requests: %d, Failures: %d (%.1f%%)", requests, failures, failureRate)
	} else {
		status.CircuitBreakerStatus = "No requests yet"
	}

	if status.StorageStatus != ComponentConnected || status.RedisStatus != ComponentConnected {
		status.Status = HealthStatusUnhealthy
	}

	// An open breaker means alerts are being dropped, but the queue itself
	// still works.
	if state == CircuitOpen {
		status.Status = HealthStatusDegraded
	}

	return status
}

func (s *healthService) checkStorageHealth(ctx context.Context) string {
	if err := s.repo.Ping(ctx); err != nil {
		return ComponentDisconnected
	}
	return ComponentConnected
}

func (s *healthService) checkRedisHealth(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.redisClient.Ping(ctx).Err(); err != nil {
		return ComponentDisconnected
	}

	return ComponentConnected
}
