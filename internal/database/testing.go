package database

import (
	"context"
	"os"
	"testing"
	"time"
)

// TestDSNEnv names the environment variable holding the test database DSN.
const TestDSNEnv = "BIDSIGHT_TEST_DB_DSN"

// SetupTestDB creates a test database connection and ensures the schema
// exists. Tests are skipped when no test database is configured.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv(TestDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set, skipping database test", TestDSNEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDBFromDSN(ctx, dsn)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}

	if err := db.InitSchema(ctx); err != nil {
		db.Close()
		t.Fatalf("failed to initialize test schema: %v", err)
	}

	return db
}

// TeardownTestDB closes the database connection cleanly
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()
	db.Close()
}

// ResetTestDB truncates all tables so each test starts from a clean state
func ResetTestDB(t *testing.T, db *DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.Exec(ctx, "TRUNCATE bids, customers, model_registry CASCADE"); err != nil {
		t.Fatalf("failed to reset test database: %v", err)
	}
}
