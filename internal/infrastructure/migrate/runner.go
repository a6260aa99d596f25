// Package migrate provides utilities for running database migrations when
// the postgres storage backend is selected.
package migrate

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file" // file source for migrations
)

type Config struct {
	DatabaseURL    string
	MigrationsPath string
}

type Runner struct {
	config *Config
}

func NewRunner(config *Config) *Runner {
	return &Runner{
		config: config,
	}
}

func (r *Runner) open() (*sql.DB, *migrate.Migrate, error) {
	db, err := sql.Open("postgres", r.config.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", r.config.MigrationsPath),
		"postgres",
		driver,
	)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return db, m, nil
}

// Run executes pending migrations.
func (r *Runner) Run() error {
	db, m, err := r.open()
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	if upErr := m.Up(); upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", upErr)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get version: %w", err)
	}

	if dirty {
		return fmt.Errorf("database is in dirty state at version %d", version)
	}

	return nil
}

// Rollback rolls back the last migration.
func (r *Runner) Rollback() error {
	db, m, err := r.open()
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}

	return nil
}

// Version returns the current migration version.
func (r *Runner) Version() (uint, bool, error) {
	db, m, err := r.open()
	if err != nil {
		return 0, false, err
	}
	defer func() {
		_ = db.Close()
	}()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get version: %w", err)
	}

	return version, dirty, nil
}
