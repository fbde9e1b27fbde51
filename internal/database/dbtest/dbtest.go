// Package dbtest provides sqlite database setup for tests: a fresh
// file-backed database per test with the full migration set applied.
package dbtest

import (
	"database/sql"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/trafficlab/speeds-backend-go/internal/database"
)

// migrationsDir resolves the repository's migrations directory relative to
// this source file, so tests work from any package directory.
func migrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "migrations")
}

// New opens a fresh migrated database in the test's temp directory.
func New(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Open(database.Config{
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	migrations := database.NewMigrationManager(db, migrationsDir())
	if err := migrations.RunMigrations(); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	return db
}
