// Package testutil starts throwaway containers and seeds data for integration tests.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cfp-engine/internal/database"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/vault"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/lib/pq"
)

// VaultToken is the root token of the dev-mode Vault container
const VaultToken = "test-token"

// TestDB holds a migrated Postgres container
type TestDB struct {
	Container    *postgres.PostgresContainer
	DB           *sql.DB
	DBConnString string
}

// StartPostgres starts PostgreSQL and applies the migrations in migrationsDir.
// Callers own the returned TestDB and must call Terminate.
func StartPostgres(ctx context.Context, migrationsDir string) (*TestDB, error) {
	postgresContainer, err := postgres.Run(ctx,
		"postgres:18",
		postgres.WithDatabase("cfp_test"),
		postgres.WithUsername("cfp_test"),
		postgres.WithPassword("cfp_test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start PostgreSQL container: %w", err)
	}
	tdb := &TestDB{Container: postgresContainer}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		tdb.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}
	tdb.DBConnString = connStr

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		tdb.Terminate(ctx)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	tdb.DB = db

	if err := db.PingContext(ctx); err != nil {
		tdb.Terminate(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := database.NewMigrationExecutor(db).RunMigrations(ctx, migrationsDir); err != nil {
		tdb.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return tdb, nil
}

// Terminate closes the connection and stops the container
func (tdb *TestDB) Terminate(ctx context.Context) error {
	if tdb.DB != nil {
		tdb.DB.Close()
	}
	if tdb.Container != nil {
		return tdb.Container.Terminate(ctx)
	}
	return nil
}

// SetupTestDB starts a migrated PostgreSQL for a single test and registers cleanup
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	tdb, err := StartPostgres(context.Background(), MigrationsDir(t))
	if err != nil {
		t.Fatalf("%v", err)
	}
	t.Cleanup(func() {
		if err := tdb.Terminate(context.Background()); err != nil {
			t.Errorf("Failed to terminate PostgreSQL container: %v", err)
		}
	})
	return tdb
}

// Reset truncates every domain table between subtests
func (tdb *TestDB) Reset(t *testing.T) {
	t.Helper()
	_, err := tdb.DB.Exec(`
		TRUNCATE audit_logs, scheduled_emails, decision_records, reviews, reviewers,
		         submission_status_history, submission_tags, submissions, tags, speakers
		RESTART IDENTITY CASCADE
	`)
	if err != nil {
		t.Fatalf("Failed to reset database: %v", err)
	}
}

// SetupVault starts a dev-mode Vault container and returns its address
func SetupVault(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	vaultContainer, err := vault.Run(ctx,
		"hashicorp/vault:1.15",
		vault.WithToken(VaultToken),
		testcontainers.WithWaitStrategy(
			wait.ForLog("Vault server started!").
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start Vault container: %v", err)
	}
	t.Cleanup(func() {
		if err := vaultContainer.Terminate(context.Background()); err != nil {
			t.Errorf("Failed to terminate Vault container: %v", err)
		}
	})

	vaultAddr, err := vaultContainer.HttpHostAddress(ctx)
	if err != nil {
		t.Fatalf("Failed to get Vault address: %v", err)
	}
	return fmt.Sprintf("http://%s", vaultAddr)
}

// MigrationsDir locates the repository's migrations directory from the test's working directory
func MigrationsDir(t *testing.T) string {
	t.Helper()
	dir, err := FindMigrationsDir()
	if err != nil {
		t.Fatalf("%v", err)
	}
	return dir
}

// FindMigrationsDir walks up from the working directory to the module root
func FindMigrationsDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return filepath.Join(dir, "migrations"), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("failed to locate migrations directory")
		}
		dir = parent
	}
}
