package service

import (
	"context"

	"github.com/gestorvip/fila/internal/models"
)

type ClientService interface {
	Add(ctx context.Context, input AddClientInput) (models.Client, error)
	MarkCalled(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error
	SetIboUpdated(ctx context.Context, id string, updated bool) error
	List(ctx context.Context, input ListInput) (*ClientListResult, error)
	WhatsAppLink(ctx context.Context, id string, native bool) (string, error)
}

type ExportService interface {
	ExportCSV(ctx context.Context, input ListInput) (filename string, content string, err error)
	ImportCSV(ctx context.Context, text string) (*ImportResult, error)
}

type SettingsService interface {
	Get(ctx context.Context) (models.Settings, error)
	Update(ctx context.Context, settings models.Settings) error
}

type AlertService interface {
	SweepOverdue(ctx context.Context) error
	GetCircuitBreakerStatus() (state CircuitState, requests uint32, failures uint32)
}

type SchedulerService interface {
	Start() error
	Stop() error
	IsRunning() bool
}

type HealthService interface {
	GetHealth(ctx context.Context) *HealthStatus
}
