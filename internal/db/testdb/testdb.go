// Package testdb provides an in-memory database for tests.
package testdb

import (
	"context"
	"testing"
	"time"

	"database/sql"

	"github.com/mdewinter/gatehouse/internal/db"
)

// RunWhile runs a database while the provided test is executing.
// It returns an empty database with all migrations applied.
func RunWhile(t *testing.T, write bool) *sql.DB {
	t.Helper()

	conn, err := db.OpenSQLite(":memory:", write)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	t.Cleanup(func() {
		if err := conn.Close(); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.Migrate(ctx, conn); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return conn
}
