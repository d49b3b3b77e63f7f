package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewTestDSN(t *testing.T) {
	dsn := NewTestDSN("TestName")
	if !strings.HasPrefix(dsn, "file:TestName-") {
		t.Errorf("NewTestDSN did not keep the test name, got: %s", dsn)
	}
	if !strings.HasSuffix(dsn, "?mode=memory&cache=shared") {
		t.Errorf("NewTestDSN did not generate an in-memory DSN, got: %s", dsn)
	}
	if dsn == NewTestDSN("TestName") {
		t.Error("Expected distinct DSNs for repeated calls")
	}
}

func TestSetupTestDB(t *testing.T) {
	db, cleanup := SetupTestDB(t, "TestSetupTestDB")
	defer cleanup()

	if db == nil {
		t.Fatal("Expected non-nil database")
	}

	if err := db.Ping(); err != nil {
		t.Errorf("Database ping failed: %v", err)
	}

	var result string
	if err := db.QueryRow("SELECT 'test'").Scan(&result); err != nil {
		t.Errorf("Test query failed: %v", err)
	}
	if result != "test" {
		t.Errorf("Expected 'test', got '%s'", result)
	}
}

func TestSetupTestDBWithMigrations(t *testing.T) {
	db, cleanup := SetupTestDBWithMigrations(t, "TestSetupTestDBWithMigrations")
	defer cleanup()

	for _, table := range []string{"schema_migrations", "item"} {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		if err != nil {
			t.Errorf("Error checking for table %s: %v", table, err)
		}
		if count == 0 {
			t.Errorf("Expected table %s to exist", table)
		}
	}

	if _, err := db.Exec("INSERT INTO item (name, description) VALUES (?, ?)", "Widget", "blue"); err != nil {
		t.Errorf("Failed to insert into item table: %v", err)
	}
}

func TestSetupTestDB_MultipleInstances(t *testing.T) {
	db1, cleanup1 := SetupTestDB(t, "TestSetupTestDB_MultipleInstances")
	defer cleanup1()

	db2, cleanup2 := SetupTestDB(t, "TestSetupTestDB_MultipleInstances")
	defer cleanup2()

	if _, err := db1.Exec("CREATE TABLE only_here (id INTEGER)"); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	// Same test name, separate databases
	var count int
	if err := db2.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE name='only_here'").Scan(&count); err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if count != 0 {
		t.Error("Expected databases to be isolated")
	}
}

func TestCleanupTestDB(t *testing.T) {
	if err := CleanupTestDB(NewTestDSN("test-cleanup")); err != nil {
		t.Errorf("CleanupTestDB should not error on in-memory database: %v", err)
	}

	if err := CleanupTestDB("invalid-dsn"); err == nil {
		t.Error("Expected error for invalid DSN")
	}
}

func TestCleanupTestDB_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.db")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	if err := CleanupTestDB("file:" + path); err != nil {
		t.Fatalf("CleanupTestDB failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected database file to be removed")
	}

	// Second call on a missing file is safe
	if err := CleanupTestDB("file:" + path); err != nil {
		t.Errorf("Second cleanup call failed: %v", err)
	}
}
