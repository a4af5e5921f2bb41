package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLedgerMigrationShape(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_processed_checkouts.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no processed_checkouts migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE processed_checkouts",
		"session_id        TEXT PRIMARY KEY",
		"DROP TABLE IF EXISTS processed_checkouts",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestMigrationsCarryGooseHeaders(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("no migration files found")
	}

	for _, match := range matches {
		data, err := os.ReadFile(match)
		if err != nil {
			t.Fatalf("read %s: %v", match, err)
		}
		content := string(data)
		if !strings.Contains(content, "-- +goose Up") {
			t.Errorf("%s missing +goose Up header", match)
		}
		if !strings.Contains(content, "-- +goose Down") {
			t.Errorf("%s missing +goose Down header", match)
		}
	}
}
