package db

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v4/pgxpool"
)

// CreateTestPool connects to TEST_POSTGRESQL_URL with migrations applied
// from TEST_MIGRATIONS_PATH. The test is skipped when no database is set up.
func CreateTestPool(t *testing.T) *pgxpool.Pool {
	connString := os.Getenv("TEST_POSTGRESQL_URL")
	if connString == "" {
		t.Skip("TEST_POSTGRESQL_URL is not set.")
	}
	migrationsPath := os.Getenv("TEST_MIGRATIONS_PATH")
	if migrationsPath == "" {
		migrationsPath = "../../../migrations"
	}
	if err := ApplyMigrations(migrationsPath, connString); err != nil {
		t.Fatal(err)
	}

	pool, err := pgxpool.Connect(context.Background(), connString)
	if err != nil {
		t.Fatalf("Could not connect to the database: %v", err)
	}
	return pool
}

func ResetEventStore(pool *pgxpool.Pool) {
	_, err := pool.Exec(context.Background(), "UPDATE event_store SET data = '[]'::json WHERE id = 1")
	if err != nil {
		panic("Could not reset the event store.")
	}
}
