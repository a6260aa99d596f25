package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gestorvip/fila/internal/models"
)

// postgresRepository keeps clients in a regular table and settings in a
// single keyed row. Save still replaces the whole list inside one
// transaction so the write-through contract matches the redis backend.
type postgresRepository struct {
	db       *sqlx.DB
	clients  ClientRepository
	settings SettingsRepository
}

// NewPostgresRepository creates a repository backed by postgres tables.
func NewPostgresRepository(db *sqlx.DB, settingsKey string) Repository {
	return &postgresRepository{
		db:       db,
		clients:  &postgresClientRepository{db: db},
		settings: &postgresSettingsRepository{db: db, key: settingsKey},
	}
}

func (r *postgresRepository) Clients() ClientRepository {
	return r.clients
}

func (r *postgresRepository) Settings() SettingsRepository {
	return r.settings
}

// Ping checks if the database connection is healthy.
func (r *postgresRepository) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	return r.db.PingContext(ctx)
}

type postgresClientRepository struct {
	db *sqlx.DB
}

func (r *postgresClientRepository) Load(ctx context.Context) ([]models.Client, error) {
	query := `
		SELECT id, name, phone, created_at, status, called_at, test_duration_ms, ibo_updated
		FROM clients
		ORDER BY position ASC
	`

	var clients []models.Client
	if err := r.db.SelectContext(ctx, &clients, query); err != nil {
		return nil, fmt.Errorf("failed to load clients: %w", err)
	}

	return clients, nil
}

func (r *postgresClientRepository) Save(ctx context.Context, clients []models.Client) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM clients`); err != nil {
		return fmt.Errorf("failed to clear clients: %w", err)
	}

	query := `
		INSERT INTO clients (id, name, phone, created_at, status, called_at, test_duration_ms, ibo_updated, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	for i, c := range clients {
		var calledAt, testDuration sql.NullInt64
		if c.CalledAt != nil {
			calledAt = sql.NullInt64{Int64: *c.CalledAt, Valid: true}
		}
		if c.TestDurationMs != nil {
			testDuration = sql.NullInt64{Int64: *c.TestDurationMs, Valid: true}
		}

		if _, err := tx.ExecContext(ctx, query,
			c.ID, c.Name, c.Phone, c.CreatedAt, c.Status, calledAt, testDuration, c.IboUpdated, i); err != nil {
			return fmt.Errorf("failed to insert client %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit client list: %w", err)
	}

	return nil
}

type postgresSettingsRepository struct {
	db  *sqlx.DB
	key string
}

func (r *postgresSettingsRepository) Load(ctx context.Context) (models.Settings, bool, error) {
	var message string
	query := `SELECT whatsapp_message FROM settings WHERE key = $1`

	err := r.db.GetContext(ctx, &message, query, r.key)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Settings{}, false, nil
	}
	if err != nil {
		return models.Settings{}, false, fmt.Errorf("failed to load settings: %w", err)
	}

	return models.Settings{WhatsappMessage: message}, true, nil
}

func (r *postgresSettingsRepository) Save(ctx context.Context, settings models.Settings) error {
	query := `
		INSERT INTO settings (key, whatsapp_message)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET whatsapp_message = EXCLUDED.whatsapp_message
	`

	if _, err := r.db.ExecContext(ctx, query, r.key, settings.WhatsappMessage); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	return nil
}
