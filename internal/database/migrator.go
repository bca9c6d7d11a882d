package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const (
	DefaultMigrationsPath = "db/migrations"
	DefaultSeedsPath      = "db/seeds"
)

var (
	maxRetries    = 30
	retryInterval = 2 * time.Second
)

var ErrMigrationsNotFound = errors.New("migrations directory not found")

// MigrationRunner applies the SQL schema migrations and the seed scripts
type MigrationRunner struct {
	db             *sql.DB
	migrationsPath string
	seedsPath      string
}

// NewMigrationRunner creates a runner; empty paths fall back to the defaults
func NewMigrationRunner(db *sql.DB, migrationsDir, seedsDir string) *MigrationRunner {
	if migrationsDir == "" {
		migrationsDir = DefaultMigrationsPath
	}
	if seedsDir == "" {
		seedsDir = DefaultSeedsPath
	}
	return &MigrationRunner{
		db:             db,
		migrationsPath: migrationsDir,
		seedsPath:      seedsDir,
	}
}

// WaitForDatabase pings until the database answers, the retries run out or ctx ends
func (mr *MigrationRunner) WaitForDatabase(ctx context.Context) error {
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := mr.db.PingContext(ctx)
		if err == nil {
			return nil
		}

		log.Printf("database not reachable yet (attempt %d/%d): %v", attempt, maxRetries, err)
		if attempt == maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retryInterval):
		}
	}

	return fmt.Errorf("database not ready after %d attempts", maxRetries)
}

func (mr *MigrationRunner) newMigrate() (*migrate.Migrate, error) {
	absPath, err := filepath.Abs(mr.migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve migrations path: %w", err)
	}

	driver, err := postgres.WithInstance(mr.db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+absPath, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	return m, nil
}

// Up applies every pending migration. A missing migrations directory is not an error.
func (mr *MigrationRunner) Up() error {
	if _, err := os.Stat(mr.migrationsPath); os.IsNotExist(err) {
		log.Printf("no migrations at %s, skipping", mr.migrationsPath)
		return nil
	}

	m, err := mr.newMigrate()
	if err != nil {
		return err
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if dirty {
		// A dirty version means the last run died halfway; retry it from the previous version
		log.Printf("schema version %d is dirty, forcing it before retrying", version)
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("failed to force schema version: %w", err)
		}
	}

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		log.Printf("schema up to date at version %d", version)
		return nil
	case err != nil:
		return fmt.Errorf("migration failed: %w", err)
	}

	newVersion, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to read new schema version: %w", err)
	}
	log.Printf("schema migrated from version %d to %d", version, newVersion)
	return nil
}

// Seed executes the seed scripts in file name order. A script that fails to
// execute is logged and skipped; an unreadable script aborts seeding.
func (mr *MigrationRunner) Seed(ctx context.Context) (int, error) {
	if _, err := os.Stat(mr.seedsPath); os.IsNotExist(err) {
		log.Printf("no seeds at %s, skipping", mr.seedsPath)
		return 0, nil
	}

	files, err := filepath.Glob(filepath.Join(mr.seedsPath, "*.sql"))
	if err != nil {
		return 0, fmt.Errorf("failed to list seed files: %w", err)
	}
	sort.Strings(files)

	applied := 0
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			return applied, fmt.Errorf("failed to read seed file %s: %w", file, err)
		}

		if _, err := mr.db.ExecContext(ctx, string(content)); err != nil {
			log.Printf("seed %s failed: %v", filepath.Base(file), err)
			continue
		}
		applied++
		log.Printf("seed %s applied", filepath.Base(file))
	}

	return applied, nil
}

// Status returns the current schema version
func (mr *MigrationRunner) Status() (version uint, dirty bool, err error) {
	if _, statErr := os.Stat(mr.migrationsPath); os.IsNotExist(statErr) {
		return 0, false, ErrMigrationsNotFound
	}

	m, err := mr.newMigrate()
	if err != nil {
		return 0, false, err
	}
	return m.Version()
}

// MigrateOptions selects what Migrate runs
type MigrateOptions struct {
	MigrationsPath string
	SeedsPath      string
	Seed           bool
}

// Migrate waits for the database, applies migrations and optionally the seeds
func Migrate(ctx context.Context, db *sql.DB, opts MigrateOptions) error {
	runner := NewMigrationRunner(db, opts.MigrationsPath, opts.SeedsPath)

	if err := runner.WaitForDatabase(ctx); err != nil {
		return fmt.Errorf("database readiness check failed: %w", err)
	}

	if err := runner.Up(); err != nil {
		return fmt.Errorf("migration execution failed: %w", err)
	}

	if opts.Seed {
		if _, err := runner.Seed(ctx); err != nil {
			log.Printf("seeding incomplete: %v", err)
		}
	}

	return nil
}
