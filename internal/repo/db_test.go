package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tbourn/go-crm-backend/internal/domain"
)

func TestOpenSQLite_CreatesAndMigrates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	db, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}

	// All registry and warning tables exist after migration.
	for _, table := range []string{
		"leads", "pipeline_items", "companies", "contacts",
		"duplicate_warnings", "potential_matches", "audit_log", "idempotency",
	} {
		if !db.Migrator().HasTable(table) {
			t.Errorf("missing table %q", table)
		}
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("db file not created: %v", err)
	}
}

func TestOpenSQLite_MissingParentDir(t *testing.T) {
	_, err := OpenSQLite(filepath.Join(t.TempDir(), "nope", "test.db"))
	if err == nil {
		t.Fatal("expected error for missing parent directory")
	}
}

func TestAutoMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t, &domain.Lead{})
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("second AutoMigrate: %v", err)
	}
}
