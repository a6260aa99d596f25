package repository

import (
	"context"

	"github.com/gestorvip/fila/internal/models"
)

// Repository interface defines all repository operations.
type Repository interface {
	// Ping checks backend connectivity
	Ping(ctx context.Context) error

	// Clients returns the client list repository
	Clients() ClientRepository

	// Settings returns the settings repository
	Settings() SettingsRepository
}

// ClientRepository persists the full client list as a unit. The in-memory
// store is the source of truth; Save replaces whatever was stored before.
type ClientRepository interface {
	Load(ctx context.Context) ([]models.Client, error)
	Save(ctx context.Context, clients []models.Client) error
}

// SettingsRepository persists the admin settings. Load reports found=false
// when nothing has been saved yet so callers can fall back to defaults.
type SettingsRepository interface {
	Load(ctx context.Context) (settings models.Settings, found bool, err error)
	Save(ctx context.Context, settings models.Settings) error
}
