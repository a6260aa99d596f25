package service

import (
	"errors"

	"github.com/gestorvip/fila/internal/models"
	"github.com/gestorvip/fila/internal/queue"
)

// ErrClientNotFound is returned by operations that need an existing record,
// unlike the transition operations which treat unknown ids as no-ops.
var ErrClientNotFound = errors.New("client not found")

// AddClientInput carries an add request into the queue.
type AddClientInput struct {
	Name             string
	Phone            string
	ReplaceDuplicate bool
	TestDurationMs   *int64
}

// ListInput selects a tab and its filters.
type ListInput struct {
	Status  models.Status
	Filters queue.Filters
}

// ClientView is a record decorated with its derived overdue state.
type ClientView struct {
	models.Client
	Overdue       bool   `json:"overdue"`
	RemainingText string `json:"remaining_text,omitempty"`
}

// Counts are the tab badges: how many records sit in each status.
type Counts struct {
	Pending int `json:"pending"`
	Called  int `json:"called"`
}

// ClientListResult is the derived view of one tab.
type ClientListResult struct {
	Clients []ClientView `json:"clients"`
	Counts  Counts       `json:"counts"`
}

// ImportResult reports what a CSV import did.
type ImportResult struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

// CircuitState mirrors the breaker's state for health reporting.
type CircuitState string

const (
	CircuitClosed   CircuitState = "closed"
	CircuitHalfOpen CircuitState = "half-open"
	CircuitOpen     CircuitState = "open"
)

// HealthStatus aggregates component health for the health endpoint.
type HealthStatus struct {
	Status               string       `json:"status"`
	SchedulerStatus      string       `json:"scheduler_status"`
	StorageStatus        string       `json:"storage_status"`
	RedisStatus          string       `json:"redis_status"`
	CircuitBreakerStatus string       `json:"circuit_breaker_status,omitempty"`
	CircuitBreakerState  CircuitState `json:"circuit_breaker_state,omitempty"`
}

const (
	HealthStatusHealthy   = "healthy"
	HealthStatusDegraded  = "degraded"
	HealthStatusUnhealthy = "unhealthy"

	SchedulerStatusRunning = "running"
	SchedulerStatusStopped = "stopped"

	ComponentConnected    = "connected"
	ComponentDisconnected = "disconnected"
)
