// ABOUTME: Tests for database opening and initialization
// ABOUTME: Verifies file creation, WAL mode, and schema bootstrap
package db

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenDatabase(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	database, err := OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("OpenDatabase failed: %v", err)
	}
	defer database.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}

	var count int
	err = database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table'").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query tables: %v", err)
	}
	if count < 3 {
		t.Errorf("Expected at least 3 tables, got %d", count)
	}

	var mode string
	err = database.QueryRow("PRAGMA journal_mode").Scan(&mode)
	if err != nil {
		t.Fatalf("Failed to query journal mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("Expected WAL mode, got %s", mode)
	}
}

func TestOpenDatabaseInvalidPath(t *testing.T) {
	_, err := OpenDatabase("/proc/invalid/nonexistent/test.db")
	if err == nil {
		t.Error("Expected error for invalid path, but OpenDatabase succeeded")
	}
}

func TestOpenDatabaseReopen(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	database, err := OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("Initial OpenDatabase failed: %v", err)
	}
	database.Close()

	database, err = OpenDatabase(dbPath)
	if err != nil {
		t.Fatalf("Reopening database failed: %v", err)
	}
	defer database.Close()
}
