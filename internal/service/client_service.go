package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gestorvip/fila/internal/config"
	"github.com/gestorvip/fila/internal/models"
	"github.com/gestorvip/fila/internal/queue"
	"github.com/gestorvip/fila/internal/whatsapp"
)

type clientService struct {
	cfg       *config.Config
	store     *queue.Store
	settings  SettingsService
	threshold time.Duration
	logger    *zap.Logger
}

func NewClientService(
	cfg *config.Config,
	store *queue.Store,
	settings SettingsService,
	logger *zap.Logger,
) ClientService {
	return &clientService{
		cfg:       cfg,
		store:     store,
		settings:  settings,
		threshold: time.Duration(cfg.Queue.OverdueThresholdMinutes) * time.Minute,
		logger:    logger,
	}
}

func (s *clientService) Add(ctx context.Context, input AddClientInput) (models.Client, error) {
	return s.store.Add(ctx, queue.AddRequest{
		Name:             input.Name,
		Phone:            input.Phone,
		ReplaceDuplicate: input.ReplaceDuplicate,
		TestDurationMs:   input.TestDurationMs,
	})
}

func (s *clientService) MarkCalled(ctx context.Context, id string) error {
	return s.store.MarkCalled(ctx, id)
}

func (s *clientService) Remove(ctx context.Context, id string) error {
	return s.store.Remove(ctx, id)
}

func (s *clientService) SetIboUpdated(ctx context.Context, id string, updated bool) error {
	return s.store.SetIboUpdated(ctx, id, updated)
}

// List derives the view for one tab: status filter, optional date narrowing,
// order, plus the per-record overdue decoration and the tab counts.
func (s *clientService) List(_ context.Context, input ListInput) (*ClientListResult, error) {
	status := input.Status
	if !status.Valid() {
		status = models.StatusPending
	}

	now := time.Now()
	selected := queue.Select(s.store.List(), status, input.Filters, now)

	views := make([]ClientView, 0, len(selected))
	for _, c := range selected {
		views = append(views, ClientView{
			Client:        c,
			Overdue:       queue.IsOverdue(c, now, s.threshold),
			RemainingText: queue.RemainingText(c, now, s.threshold),
		})
	}

	pending, called := s.store.Counts()

	return &ClientListResult{
		Clients: views,
		Counts:  Counts{Pending: pending, Called: called},
	}, nil
}

// WhatsAppLink renders the configured approach message for the client and
// wraps it in a wa.me link, or the native app link when asked.
func (s *clientService) WhatsAppLink(ctx context.Context, id string, native bool) (string, error) {
	client, ok := s.store.Get(id)
	if !ok {
		return "", ErrClientNotFound
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load settings: %w", err)
	}

	message := whatsapp.RenderTemplate(settings.WhatsappMessage, client.Name)

	if native {
		return whatsapp.NativeLink(s.cfg.Queue.CountryCode, client.Phone, message), nil
	}
	return whatsapp.Link(s.cfg.Queue.CountryCode, client.Phone, message), nil
}
