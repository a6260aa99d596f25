package queue

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gestorvip/fila/internal/models"
	"github.com/gestorvip/fila/internal/repository"
)

// Options control store-level policies.
type Options struct {
	// MinPhoneDigits rejects adds whose phone normalizes to fewer digits.
	MinPhoneDigits int
	// RequireIboForDelete gates Remove on the record's IBO flag.
	RequireIboForDelete bool
}

// AddRequest carries the inputs of an add operation.
type AddRequest struct {
	Name  string
	Phone string
	// ReplaceDuplicate deletes an existing record with the same phone and
	// inserts the new one. Without it a duplicate phone is an error.
	ReplaceDuplicate bool
	// TestDurationMs optionally overrides the overdue threshold per record.
	TestDurationMs *int64
}

// Store owns the client list. The in-memory slice is the source of truth;
// every mutation writes the whole list through to the repository before
// returning. Reads hand out copies so callers never alias internal state.
type Store struct {
	mu      sync.RWMutex
	clients []models.Client
	repo    repository.ClientRepository
	opts    Options
	logger  *zap.Logger
	now     func() time.Time
}

// Load builds a store from whatever the repository holds.
func Load(ctx context.Context, repo repository.ClientRepository, opts Options, logger *zap.Logger) (*Store, error) {
	clients, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load client list: %w", err)
	}

	return &Store{
		clients: clients,
		repo:    repo,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// Add creates a pending record with a fresh id and the current timestamp.
// Newest records go to the front, matching insertion order the view relies
// on for tie-breaking.
func (s *Store) Add(ctx context.Context, req AddRequest) (models.Client, error) {
	name := strings.TrimSpace(req.Name)
	phone := models.Digits(req.Phone)

	if len(phone) < s.opts.MinPhoneDigits {
		return models.Client{}, ErrPhoneTooShort
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexByPhone(phone); idx >= 0 {
		if !req.ReplaceDuplicate {
			return models.Client{}, ErrDuplicatePhone
		}
		replaced := s.clients[idx]
		s.clients = append(s.clients[:idx], s.clients[idx+1:]...)
		s.logger.Info("Replacing client with duplicate phone",
			zap.String("old_id", replaced.ID),
			zap.String("phone", phone))
	}

	client := models.Client{
		ID:             uuid.New().String(),
		Name:           name,
		Phone:          phone,
		CreatedAt:      s.now().UnixMilli(),
		Status:         models.StatusPending,
		TestDurationMs: req.TestDurationMs,
	}

	s.clients = append([]models.Client{client}, s.clients...)

	if err := s.persist(ctx); err != nil {
		return models.Client{}, err
	}

	s.logger.Info("Client added to queue",
		zap.String("id", client.ID),
		zap.String("name", client.Name))

	return client, nil
}

// MarkCalled transitions a pending record to called and stamps calledAt.
// Unknown ids and already-called records are no-ops.
func (s *Store) MarkCalled(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexByID(id)
	if idx < 0 || s.clients[idx].Status == models.StatusCalled {
		return nil
	}

	calledAt := s.now().UnixMilli()
	s.clients[idx].Status = models.StatusCalled
	s.clients[idx].CalledAt = &calledAt

	if err := s.persist(ctx); err != nil {
		return err
	}

	s.logger.Info("Client marked as called", zap.String("id", id))
	return nil
}

// Remove deletes a record. Unknown ids are no-ops. When the delete gate is
// enabled, a called record must have its IBO flag set first.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexByID(id)
	if idx < 0 {
		return nil
	}

	if s.opts.RequireIboForDelete && s.clients[idx].Status == models.StatusCalled && !s.clients[idx].IboUpdated {
		return ErrIboNotUpdated
	}

	s.clients = append(s.clients[:idx], s.clients[idx+1:]...)

	if err := s.persist(ctx); err != nil {
		return err
	}

	s.logger.Info("Client removed", zap.String("id", id))
	return nil
}

// SetIboUpdated flips the IBO flag on a record. Unknown ids are no-ops.
func (s *Store) SetIboUpdated(ctx context.Context, id string, updated bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexByID(id)
	if idx < 0 {
		return nil
	}

	s.clients[idx].IboUpdated = updated

	return s.persist(ctx)
}

// ImportMerge appends records whose ids are not present yet and returns how
// many were inserted. Existing records are never overwritten.
func (s *Store) ImportMerge(ctx context.Context, records []models.Client) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(s.clients))
	for _, c := range s.clients {
		seen[c.ID] = struct{}{}
	}

	inserted := 0
	for _, rec := range records {
		if _, ok := seen[rec.ID]; ok {
			continue
		}
		seen[rec.ID] = struct{}{}
		s.clients = append(s.clients, rec)
		inserted++
	}

	if inserted == 0 {
		return 0, nil
	}

	if err := s.persist(ctx); err != nil {
		return 0, err
	}

	s.logger.Info("Clients imported", zap.Int("inserted", inserted))
	return inserted, nil
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (models.Client, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexByID(id)
	if idx < 0 {
		return models.Client{}, false
	}
	return s.clients[idx], true
}

// List returns a copy of the full client list in store order.
func (s *Store) List() []models.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Client, len(s.clients))
	copy(out, s.clients)
	return out
}

// Counts returns how many records sit in each tab.
func (s *Store) Counts() (pending, called int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.clients {
		if c.Status == models.StatusPending {
			pending++
		} else {
			called++
		}
	}
	return pending, called
}

// persist writes the full list through. Callers hold the write lock.
func (s *Store) persist(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.clients); err != nil {
		return fmt.Errorf("failed to persist client list: %w", err)
	}
	return nil
}

func (s *Store) indexByID(id string) int {
	for i, c := range s.clients {
		if c.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) indexByPhone(phone string) int {
	for i, c := range s.clients {
		if c.Phone == phone {
			return i
		}
	}
	return -1
}
