// Package dbtest starts a throwaway PostgreSQL for store integration tests.
package dbtest

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/MrJamesThe3rd/aion/internal/database"
)

var (
	pgOnce sync.Once
	pgDSN  string
	pgErr  error
)

// Postgres returns a migrated database backed by a container shared by the whole test binary.
// The test is skipped under -short or when no container runtime is reachable.
func Postgres(t *testing.T) *sql.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping database integration test in short mode")
	}

	pgOnce.Do(func() {
		pgDSN, pgErr = start(context.Background())
	})

	if pgErr != nil {
		t.Skipf("postgres container unavailable: %v", pgErr)
	}

	ctx := context.Background()

	db, err := database.New(ctx, pgDSN)
	if err != nil {
		t.Fatalf("connecting to postgres: %v", err)
	}

	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(ctx, db); err != nil {
		t.Fatalf("migrating: %v", err)
	}

	if _, err := db.ExecContext(ctx, `TRUNCATE transactions, cards, goals, categories, settings`); err != nil {
		t.Fatalf("truncating: %v", err)
	}

	return db
}

func start(ctx context.Context) (dsn string, err error) {
	defer func() {
		// testcontainers panics when no Docker host can be found.
		if r := recover(); r != nil {
			err = fmt.Errorf("starting container: %v", r)
		}
	}()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:17-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "aion",
			"POSTGRES_PASSWORD": "aion",
			"POSTGRES_DB":       "aion",
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("5432/tcp"),
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		).WithDeadline(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return "", fmt.Errorf("starting container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx)
		return "", fmt.Errorf("getting host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		container.Terminate(ctx)
		return "", fmt.Errorf("getting port: %w", err)
	}

	return fmt.Sprintf("postgres://aion:aion@%s:%s/aion?sslmode=disable", host, port.Port()), nil
}
