package store

import (
	"context"
	"earn-server/internal/observability"
	"fmt"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"
)

// TestDB wraps a test database instance
type TestDB struct {
	db    *sqlx.DB
	Store *Store
}

// SetupTestDB connects to the PostgreSQL instance described by TEST_DB_* and
// migrates it. The test is skipped when TEST_DB_HOST is not set.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	dbHost := os.Getenv("TEST_DB_HOST")
	if dbHost == "" {
		t.Skip("TEST_DB_HOST not set")
	}
	dbPort := getenv("TEST_DB_PORT", "5432")
	dbUser := getenv("TEST_DB_USER", "earn_user")
	dbPass := getenv("TEST_DB_PASSWORD", "earn_password")
	dbName := getenv("TEST_DB_NAME", "earn_db")

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbUser, dbPass, dbHost, dbPort, dbName)

	db, err := sqlx.Open("pgx", connStr)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Fatalf("failed to ping database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	s := &Store{db: db, logger: observability.NewNopLogger()}
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return &TestDB{db: db, Store: s}
}

// Truncate clears all entries while preserving schema
func (tdb *TestDB) Truncate(t *testing.T) {
	t.Helper()
	if _, err := tdb.db.Exec("TRUNCATE TABLE kv_entries"); err != nil {
		t.Fatalf("failed to truncate kv_entries: %v", err)
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
