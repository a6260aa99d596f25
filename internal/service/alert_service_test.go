package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/gestorvip/fila/internal/models"
	"github.com/gestorvip/fila/internal/service"
)

func TestAlertService_SweepOverdue_NoWebhookConfigured(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	overdueAt := time.Now().Add(-3 * time.Hour).UnixMilli()
	cfg := testConfig()
	store := newTestStore(t, ctrl, cfg, []models.Client{
		{ID: "late", Name: "Bruno", Phone: "1", CreatedAt: overdueAt, Status: models.StatusPending},
	})

	// Without a webhook URL the sweep only logs; redis is never touched.
	svc := service.NewAlertService(cfg, store, disconnectedRedis(), zap.NewNop())

	err := svc.SweepOverdue(context.Background())
	assert.NoError(t, err)
}

func TestAlertService_SweepOverdue_EmptyQueue(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := testConfig()
	store := newTestStore(t, ctrl, cfg, nil)

	svc := service.NewAlertService(cfg, store, disconnectedRedis(), zap.NewNop())

	err := svc.SweepOverdue(context.Background())
	assert.NoError(t, err)
}

func TestAlertService_SweepOverdue_RedisUnavailable(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	overdueAt := time.Now().Add(-3 * time.Hour).UnixMilli()
	cfg := testConfig()
	cfg.Alert.WebhookURL = "http://localhost:9998/alerts"
	store := newTestStore(t, ctrl, cfg, []models.Client{
		{ID: "late", Name: "Bruno", Phone: "1", CreatedAt: overdueAt, Status: models.StatusPending},
	})

	// A failed de-dup write skips the client instead of failing the sweep;
	// the next tick will pick the record up again.
	svc := service.NewAlertService(cfg, store, disconnectedRedis(), zap.NewNop())

	err := svc.SweepOverdue(context.Background())
	assert.NoError(t, err)
}

func TestAlertService_GetCircuitBreakerStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := testConfig()
	store := newTestStore(t, ctrl, cfg, nil)

	svc := service.NewAlertService(cfg, store, disconnectedRedis(), zap.NewNop())

	state, requests, failures := svc.GetCircuitBreakerStatus()
	assert.Equal(t, service.CircuitClosed, state)
	assert.Equal(t, uint32(0), requests)
	assert.Equal(t, uint32(0), failures)
}
