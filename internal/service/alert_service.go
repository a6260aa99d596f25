package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/gestorvip/fila/internal/config"
	"github.com/gestorvip/fila/internal/models"
	"github.com/gestorvip/fila/internal/queue"
)

// alertedSetKey is the redis set holding ids that already triggered an
// alert, so a client alerts once even though the sweep re-evaluates
// everyone on every tick.
const alertedSetKey = "fila:overdue_alerted"

// OverdueAlert is the webhook payload for one newly-overdue client.
type OverdueAlert struct {
	ClientID       string `json:"client_id"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	CreatedAt      int64  `json:"created_at"`
	WaitingMinutes int64  `json:"waiting_minutes"`
}

type alertService struct {
	cfg            *config.Config
	store          *queue.Store
	redisClient    *redis.Client
	httpClient     *http.Client
	threshold      time.Duration
	logger         *zap.Logger
	circuitBreaker *CircuitBreaker
}

func NewAlertService(
	cfg *config.Config,
	store *queue.Store,
	redisClient *redis.Client,
	logger *zap.Logger,
) AlertService {
	cb := NewCircuitBreaker(&cfg.Alert.CircuitBreaker, logger)

	return &alertService{
		cfg:         cfg,
		store:       store,
		redisClient: redisClient,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.Alert.Timeout) * time.Second,
		},
		threshold:      time.Duration(cfg.Queue.OverdueThresholdMinutes) * time.Minute,
		logger:         logger,
		circuitBreaker: cb,
	}
}

// SweepOverdue re-evaluates every pending client against its threshold and
// alerts the configured webhook about newly-overdue ones. The sweep reads
// the store but never mutates records; de-duplication lives in redis.
func (s *alertService) SweepOverdue(ctx context.Context) error {
	clients := s.store.List()
	now := time.Now()

	overdue := 0
	alerted := 0

	for _, c := range clients {
		if !queue.IsOverdue(c, now, s.threshold) {
			continue
		}
		overdue++

		if s.cfg.Alert.WebhookURL == "" {
			continue
		}

		added, err := s.redisClient.SAdd(ctx, alertedSetKey, c.ID).Result()
		if err != nil {
			s.logger.Warn("Failed to record alerted client in redis",
				zap.String("clientID", c.ID),
				zap.Error(err))
			continue
		}
		if added == 0 {
			// already alerted on an earlier sweep
			continue
		}

		if err := s.sendAlert(ctx, c, now); err != nil {
			// drop the marker so the next sweep retries
			if remErr := s.redisClient.SRem(ctx, alertedSetKey, c.ID).Err(); remErr != nil {
				s.logger.Warn("Failed to unmark alerted client",
					zap.String("clientID", c.ID),
					zap.Error(remErr))
			}

			requests, failures := s.circuitBreaker.GetCounts()
			s.logger.Error("Failed to send overdue alert",
				zap.String("clientID", c.ID),
				zap.Error(err),
				zap.String("circuitBreakerState", string(s.circuitBreaker.GetState())),
				zap.Uint32("totalRequests", requests),
				zap.Uint32("totalFailures", failures))
			continue
		}

		alerted++
	}

	s.logger.Info("Overdue sweep completed",
		zap.Int("clients", len(clients)),
		zap.Int("overdue", overdue),
		zap.Int("alerted", alerted))

	return nil
}

func (s *alertService) sendAlert(ctx context.Context, c models.Client, now time.Time) error {
	return s.circuitBreaker.Execute(ctx, func() error {
		payload := OverdueAlert{
			ClientID:       c.ID,
			Name:           c.Name,
			Phone:          c.Phone,
			CreatedAt:      c.CreatedAt,
			WaitingMinutes: (now.UnixMilli() - c.CreatedAt) / 60000,
		}

		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal alert: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Alert.WebhookURL, bytes.NewBuffer(jsonData))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		if s.cfg.Alert.AuthKey != "" {
			req.Header.Set("X-Auth-Key", s.cfg.Alert.AuthKey)
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("failed to send alert: %w", err)
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				s.logger.Warn("Failed to close response body", zap.Error(err))
			}
		}()

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		s.logger.Info("Overdue alert sent",
			zap.String("clientID", c.ID),
			zap.Int64("waitingMinutes", payload.WaitingMinutes))

		return nil
	})
}

func (s *alertService) GetCircuitBreakerStatus() (state CircuitState, requests uint32, failures uint32) {
	state = s.circuitBreaker.GetState()
	requests, failures = s.circuitBreaker.GetCounts()
	return
}
