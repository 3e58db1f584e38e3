// Package migrations applies the embedded, versioned url_mappings schema
// with golang-migrate. Applied versions are tracked in schema_migrations.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

// Postgres migrates the database at connString to the latest version.
// It uses its own short-lived connection.
func Postgres(ctx context.Context, connString string) error {
	db, err := sql.Open("pgx", connString)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping postgres: %w", err)
	}

	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{})
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("postgres migrate driver: %w", err)
	}

	m, _, err := newMigrate("postgres", "pgx5", driver)
	if err != nil {
		_ = db.Close()
		return err
	}
	// Closes the driver and with it db.
	defer m.Close()

	return up(m)
}

// SQLite migrates db to the latest version. db stays open: closing the
// migrate instance would close it, so only the source is released.
func SQLite(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping sqlite: %w", err)
	}

	driver, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("sqlite migrate driver: %w", err)
	}

	m, src, err := newMigrate("sqlite", "sqlite", driver)
	if err != nil {
		return err
	}
	defer src.Close()

	return up(m)
}

func newMigrate(dir, driverName string, driver database.Driver) (*migrate.Migrate, source.Driver, error) {
	src, err := iofs.New(files, dir)
	if err != nil {
		return nil, nil, fmt.Errorf("load %s migrations: %w", dir, err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driverName, driver)
	if err != nil {
		_ = src.Close()
		return nil, nil, fmt.Errorf("init %s migrations: %w", dir, err)
	}
	return m, src, nil
}

func up(m *migrate.Migrate) error {
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
