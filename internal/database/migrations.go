package database

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dfirmansy/userledger/internal/logging"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Migration represents a single SQL migration file.
type Migration struct {
	Version    string
	Filename   string
	SQLContent string
	Checksum   string
}

// calculateChecksum computes SHA256 checksum of migration content
func calculateChecksum(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// MigrationRunner executes SQL migrations from a directory, tracking
// applied versions and verifying checksums against what was executed.
type MigrationRunner struct {
	db     *pgxpool.Pool
	dir    string
	logger *logging.Logger
}

// NewMigrationRunner creates a new migration runner
func NewMigrationRunner(db *pgxpool.Pool, migrationsDir string, logger *logging.Logger) *MigrationRunner {
	return &MigrationRunner{db: db, dir: migrationsDir, logger: logger}
}

// RunMigrations executes all pending migrations in version order.
func (m *MigrationRunner) RunMigrations(ctx context.Context) error {
	start := time.Now()
	m.logger.Database("starting migrations", "dir", m.dir)

	if err := m.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations, err := m.loadMigrationFiles()
	if err != nil {
		return fmt.Errorf("failed to load migration files: %w", err)
	}

	executed, err := m.getExecutedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get executed migrations: %w", err)
	}

	pending := 0
	for _, migration := range migrations {
		if _, done := executed[migration.Version]; done {
			continue
		}
		pending++
		m.logger.Database("executing migration", "version", migration.Version, "file", migration.Filename)
		if err := m.executeMigration(ctx, migration); err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", migration.Version, err)
		}
	}

	if err := m.verifyMigrationIntegrity(ctx, migrations); err != nil {
		return fmt.Errorf("migration integrity verification failed: %w", err)
	}

	m.logger.Database("migrations completed", "pending_executed", pending, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

// createMigrationsTable creates the table that tracks applied migrations
func (m *MigrationRunner) createMigrationsTable(ctx context.Context) error {
	_, err := m.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			executed_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			checksum VARCHAR(64)
		)
	`)
	return err
}

// loadMigrationFiles reads *.sql files from the migrations directory,
// sorted by version prefix ("001_create_users.sql" has version "001").
func (m *MigrationRunner) loadMigrationFiles() ([]Migration, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations directory %s: %w", m.dir, err)
	}

	var migrations []Migration
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}

		version, _, found := strings.Cut(entry.Name(), "_")
		if !found {
			return nil, fmt.Errorf("migration file %s has no version prefix", entry.Name())
		}

		content, err := os.ReadFile(filepath.Join(m.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %s: %w", entry.Name(), err)
		}

		migrations = append(migrations, Migration{
			Version:    version,
			Filename:   entry.Name(),
			SQLContent: string(content),
			Checksum:   calculateChecksum(string(content)),
		})
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

// getExecutedMigrations returns the checksums of already-applied versions
func (m *MigrationRunner) getExecutedMigrations(ctx context.Context) (map[string]string, error) {
	rows, err := m.db.Query(ctx, `SELECT version, COALESCE(checksum, '') FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	executed := make(map[string]string)
	for rows.Next() {
		var version, checksum string
		if err := rows.Scan(&version, &checksum); err != nil {
			return nil, err
		}
		executed[version] = checksum
	}
	return executed, rows.Err()
}

// executeMigration applies one migration and records it in a single transaction
func (m *MigrationRunner) executeMigration(ctx context.Context, migration Migration) error {
	tx, err := m.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, migration.SQLContent); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO schema_migrations (version, checksum) VALUES ($1, $2)`,
		migration.Version, migration.Checksum); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// MigrationStatus describes applied and pending migrations.
type MigrationStatus struct {
	Executed []string
	Pending  []Migration
}

// Status reports which migration files have been applied.
func (m *MigrationRunner) Status(ctx context.Context) (*MigrationStatus, error) {
	migrations, err := m.loadMigrationFiles()
	if err != nil {
		return nil, err
	}

	executed, err := m.getExecutedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	status := &MigrationStatus{}
	for _, migration := range migrations {
		if _, done := executed[migration.Version]; done {
			status.Executed = append(status.Executed, migration.Version)
		} else {
			status.Pending = append(status.Pending, migration)
		}
	}
	return status, nil
}

// verifyMigrationIntegrity checks that applied migrations still match the
// files on disk.
func (m *MigrationRunner) verifyMigrationIntegrity(ctx context.Context, migrations []Migration) error {
	executed, err := m.getExecutedMigrations(ctx)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		recorded, ok := executed[migration.Version]
		if !ok {
			return fmt.Errorf("migration %s was not recorded as executed", migration.Version)
		}
		if recorded != "" && recorded != migration.Checksum {
			return fmt.Errorf("migration %s checksum mismatch: file was modified after execution", migration.Version)
		}
	}

	return nil
}
