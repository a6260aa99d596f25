// Package repository provides persistence backends for the client queue.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/gestorvip/fila/internal/models"
)

// redisRepository stores the whole client list as one JSON array under a
// single key and the settings object under a second key. Reads and writes
// always cover the full list, so the blob stays internally consistent.
type redisRepository struct {
	client   *redis.Client
	clients  ClientRepository
	settings SettingsRepository
}

// NewRedisRepository creates a repository backed by two redis keys.
func NewRedisRepository(client *redis.Client, dataKey, settingsKey string) Repository {
	return &redisRepository{
		client:   client,
		clients:  &redisClientRepository{client: client, key: dataKey},
		settings: &redisSettingsRepository{client: client, key: settingsKey},
	}
}

func (r *redisRepository) Clients() ClientRepository {
	return r.clients
}

func (r *redisRepository) Settings() SettingsRepository {
	return r.settings
}

// Ping checks if the redis connection is healthy.
func (r *redisRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return r.client.Ping(ctx).Err()
}

type redisClientRepository struct {
	client *redis.Client
	key    string
}

func (r *redisClientRepository) Load(ctx context.Context) ([]models.Client, error) {
	raw, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load clients from redis: %w", err)
	}

	var clients []models.Client
	if err := json.Unmarshal([]byte(raw), &clients); err != nil {
		return nil, fmt.Errorf("failed to decode stored client list: %w", err)
	}

	return clients, nil
}

func (r *redisClientRepository) Save(ctx context.Context, clients []models.Client) error {
	if clients == nil {
		clients = []models.Client{}
	}

	raw, err := json.Marshal(clients)
	if err != nil {
		return fmt.Errorf("failed to encode client list: %w", err)
	}

	if err := r.client.Set(ctx, r.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to save clients to redis: %w", err)
	}

	return nil
}

type redisSettingsRepository struct {
	client *redis.Client
	key    string
}

func (r *redisSettingsRepository) Load(ctx context.Context) (models.Settings, bool, error) {
	raw, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return models.Settings{}, false, nil
	}
	if err != nil {
		return models.Settings{}, false, fmt.Errorf("failed to load settings from redis: %w", err)
	}

	var settings models.Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return models.Settings{}, false, fmt.Errorf("failed to decode stored settings: %w", err)
	}

	return settings, true, nil
}

func (r *redisSettingsRepository) Save(ctx context.Context, settings models.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := r.client.Set(ctx, r.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to save settings to redis: %w", err)
	}

	return nil
}
