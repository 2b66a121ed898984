package database

import (
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// MigrationStatus is the schema version after a migration command.
type MigrationStatus struct {
	Version uint `json:"version"`
	Dirty   bool `json:"dirty"`
}

// Migrator applies the SQL files under a migrations directory.
type Migrator struct {
	m *migrate.Migrate
}

func NewMigrator(dsn string, migrationsPath string) (*Migrator, error) {
	m, err := migrate.New(fmt.Sprintf("file://%s", migrationsPath), dsn)
	if err != nil {
		return nil, fmt.Errorf("migration init: %w", err)
	}
	return &Migrator{m: m}, nil
}

// Up applies every pending migration.
func (mg *Migrator) Up() (MigrationStatus, error) {
	if err := mg.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return MigrationStatus{}, fmt.Errorf("migration up: %w", err)
	}
	return mg.Status()
}

// Steps moves n migrations up (n > 0) or down (n < 0).
func (mg *Migrator) Steps(n int) (MigrationStatus, error) {
	if n == 0 {
		return mg.Status()
	}
	if err := mg.m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return MigrationStatus{}, fmt.Errorf("migration steps %d: %w", n, err)
	}
	return mg.Status()
}

// Status reports the current version; a schema with no migration applied is
// version 0.
func (mg *Migrator) Status() (MigrationStatus, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return MigrationStatus{}, nil
	}
	if err != nil {
		return MigrationStatus{}, fmt.Errorf("migration version: %w", err)
	}
	return MigrationStatus{Version: version, Dirty: dirty}, nil
}

func (mg *Migrator) Close() {
	srcErr, dbErr := mg.m.Close()
	if err := errors.Join(srcErr, dbErr); err != nil {
		log.Printf("⚠️ migration close: %v", err)
	}
}

// RunMigrations applies all pending migrations from migrationsPath.
func RunMigrations(dsn string, migrationsPath string) error {
	mg, err := NewMigrator(dsn, migrationsPath)
	if err != nil {
		return err
	}
	defer mg.Close()

	status, err := mg.Up()
	if err != nil {
		return err
	}
	log.Printf("✅ Migrations applied (version=%d, dirty=%v)", status.Version, status.Dirty)
	return nil
}
