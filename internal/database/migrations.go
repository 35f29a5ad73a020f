package database

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Migration represents a single versioned schema change
type Migration struct {
	Version  string
	Title    string
	UpSQL    string
	DownSQL  string
	Checksum string
}

// MigrationState describes a migration and whether it has been applied
type MigrationState struct {
	Version   string
	Title     string
	AppliedAt *time.Time
}

// MigrationExecutor applies *.up.sql / *.down.sql files tracked in schema_migrations
type MigrationExecutor struct {
	db *sql.DB
}

// NewMigrationExecutor creates a new migration executor
func NewMigrationExecutor(db *sql.DB) *MigrationExecutor {
	return &MigrationExecutor{db: db}
}

// RunMigrations executes all pending migrations from the migrations directory
// and returns the versions it applied.
func (m *MigrationExecutor) RunMigrations(ctx context.Context, migrationsPath string) ([]string, error) {
	if err := m.createMigrationsTable(ctx); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations, err := ReadMigrationFiles(migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration files: %w", err)
	}

	applied, err := m.appliedMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	if err := validateChecksums(migrations, applied); err != nil {
		return nil, fmt.Errorf("migration validation failed: %w", err)
	}

	var ran []string
	for _, migration := range migrations {
		if _, ok := applied[migration.Version]; ok {
			continue
		}
		if err := m.executeMigration(ctx, migration); err != nil {
			return ran, fmt.Errorf("failed to execute migration %s: %w", migration.Version, err)
		}
		slog.Info("Applied migration", "version", migration.Version, "title", migration.Title)
		ran = append(ran, migration.Version)
	}

	return ran, nil
}

// Rollback reverts the most recently applied migration that has a down file.
// It returns the reverted version, or "" when nothing was applied.
func (m *MigrationExecutor) Rollback(ctx context.Context, migrationsPath string) (string, error) {
	if err := m.createMigrationsTable(ctx); err != nil {
		return "", fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations, err := ReadMigrationFiles(migrationsPath)
	if err != nil {
		return "", fmt.Errorf("failed to read migration files: %w", err)
	}

	applied, err := m.appliedMigrations(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for i := len(migrations) - 1; i >= 0; i-- {
		migration := migrations[i]
		if _, ok := applied[migration.Version]; !ok {
			continue
		}
		if migration.DownSQL == "" {
			return "", fmt.Errorf("migration %s has no down file", migration.Version)
		}

		err := WithTx(ctx, m.db, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, migration.DownSQL); err != nil {
				return fmt.Errorf("down migration SQL failed: %w", err)
			}
			_, err := tx.ExecContext(ctx, `DELETE FROM schema_migrations WHERE version = $1`, migration.Version)
			return err
		})
		if err != nil {
			return "", err
		}
		slog.Info("Rolled back migration", "version", migration.Version, "title", migration.Title)
		return migration.Version, nil
	}

	return "", nil
}

// Status lists every migration file together with its applied timestamp
func (m *MigrationExecutor) Status(ctx context.Context, migrationsPath string) ([]MigrationState, error) {
	if err := m.createMigrationsTable(ctx); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrations, err := ReadMigrationFiles(migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read migration files: %w", err)
	}

	applied, err := m.appliedMigrations(ctx)
	if err != nil {
		return nil, err
	}

	states := make([]MigrationState, 0, len(migrations))
	for _, migration := range migrations {
		state := MigrationState{Version: migration.Version, Title: migration.Title}
		if rec, ok := applied[migration.Version]; ok {
			at := rec.appliedAt
			state.AppliedAt = &at
		}
		states = append(states, state)
	}
	return states, nil
}

func (m *MigrationExecutor) createMigrationsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			title VARCHAR(500),
			checksum VARCHAR(64),
			applied_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
		)
	`
	_, err := m.db.ExecContext(ctx, query)
	return err
}

// ReadMigrationFiles reads and pairs all migration files from the directory,
// sorted by version. Files must be named NNNNNN_title.up.sql / .down.sql.
func ReadMigrationFiles(migrationsPath string) ([]Migration, error) {
	files, err := os.ReadDir(migrationsPath)
	if err != nil {
		return nil, err
	}

	byVersion := make(map[string]*Migration)

	for _, file := range files {
		if file.IsDir() {
			continue
		}

		filename := file.Name()
		isUp := strings.HasSuffix(filename, ".up.sql")
		isDown := strings.HasSuffix(filename, ".down.sql")
		if !isUp && !isDown {
			continue
		}

		version, rest, ok := strings.Cut(filename, "_")
		if !ok || version == "" {
			continue
		}

		content, err := os.ReadFile(filepath.Join(migrationsPath, filename))
		if err != nil {
			return nil, err
		}

		mig := byVersion[version]
		if mig == nil {
			title := strings.TrimSuffix(strings.TrimSuffix(rest, ".up.sql"), ".down.sql")
			mig = &Migration{Version: version, Title: strings.ReplaceAll(title, "_", " ")}
			byVersion[version] = mig
		}

		if isUp {
			mig.UpSQL = string(content)
			mig.Checksum = calculateChecksum(mig.UpSQL)
		} else {
			mig.DownSQL = string(content)
		}
	}

	var migrations []Migration
	for _, mig := range byVersion {
		if mig.UpSQL != "" {
			migrations = append(migrations, *mig)
		}
	}

	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})

	return migrations, nil
}

type appliedMigration struct {
	title     string
	checksum  string
	appliedAt time.Time
}

func (m *MigrationExecutor) appliedMigrations(ctx context.Context) (map[string]appliedMigration, error) {
	rows, err := m.db.QueryContext(ctx, `SELECT version, COALESCE(title, ''), COALESCE(checksum, ''), applied_at FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]appliedMigration)
	for rows.Next() {
		var version string
		var rec appliedMigration
		if err := rows.Scan(&version, &rec.title, &rec.checksum, &rec.appliedAt); err != nil {
			return nil, err
		}
		applied[version] = rec
	}
	return applied, rows.Err()
}

func (m *MigrationExecutor) executeMigration(ctx context.Context, migration Migration) error {
	return WithTx(ctx, m.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, migration.UpSQL); err != nil {
			return fmt.Errorf("migration SQL failed: %w", err)
		}

		query := `INSERT INTO schema_migrations (version, title, checksum) VALUES ($1, $2, $3)`
		if _, err := tx.ExecContext(ctx, query, migration.Version, migration.Title, migration.Checksum); err != nil {
			return fmt.Errorf("failed to record migration: %w", err)
		}
		return nil
	})
}

// ErrChecksumMismatch is returned when an applied migration file was edited afterwards
var ErrChecksumMismatch = errors.New("applied migrations have been modified")

func validateChecksums(migrations []Migration, applied map[string]appliedMigration) error {
	var mismatches []string
	for _, migration := range migrations {
		rec, ok := applied[migration.Version]
		if !ok || rec.checksum == "" {
			continue
		}
		if rec.checksum != migration.Checksum {
			mismatches = append(mismatches, fmt.Sprintf(
				"\n  Migration %s (%s):\n    Expected checksum: %s\n    Current checksum:  %s",
				migration.Version, migration.Title, rec.checksum, migration.Checksum,
			))
		}
	}

	if len(mismatches) > 0 {
		return fmt.Errorf("%w:%s\n\nRestore the original files or add a new migration instead.",
			ErrChecksumMismatch, strings.Join(mismatches, ""))
	}
	return nil
}

func calculateChecksum(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
