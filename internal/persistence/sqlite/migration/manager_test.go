package migration

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.TempDir()+"/migration_test.db")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewManager_RejectsBadVersionOrder(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		migrations []Migration
		wantErr    error
	}{
		{
			name: "duplicate version",
			migrations: []Migration{
				{Version: 1, Statements: []string{"CREATE TABLE a (id TEXT)"}},
				{Version: 1, Statements: []string{"CREATE TABLE b (id TEXT)"}},
			},
			wantErr: ErrDuplicateVersion,
		},
		{
			name: "decreasing version",
			migrations: []Migration{
				{Version: 2, Statements: []string{"CREATE TABLE a (id TEXT)"}},
				{Version: 1, Statements: []string{"CREATE TABLE b (id TEXT)"}},
			},
			wantErr: ErrOutOfOrder,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewManager(tc.migrations)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("NewManager error = %v; want %v", err, tc.wantErr)
			}
		})
	}
}

func TestApply_AppliesPendingAndIsIdempotent(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	manager, err := NewManager([]Migration{
		{Version: 1, Description: "base table", Statements: []string{
			"CREATE TABLE things (id TEXT PRIMARY KEY, name TEXT NOT NULL)",
		}},
		{Version: 2, Description: "add column", Statements: []string{
			"ALTER TABLE things ADD COLUMN note TEXT",
		}},
	})
	if err != nil {
		t.Fatalf("NewManager returned error: %v", err)
	}

	ctx := context.Background()
	if err := manager.Apply(ctx, db); err != nil {
		t.Fatalf("first Apply returned error: %v", err)
	}
	if err := manager.Apply(ctx, db); err != nil {
		t.Fatalf("second Apply returned error: %v", err)
	}

	records, err := manager.Applied(ctx, db)
	if err != nil {
		t.Fatalf("Applied returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("applied %d migrations; want 2", len(records))
	}
	if records[0].Version != 1 || records[1].Version != 2 {
		t.Fatalf("applied versions = %d, %d; want 1, 2", records[0].Version, records[1].Version)
	}

	if _, err := db.Exec("INSERT INTO things (id, name, note) VALUES ('t1', 'thing', 'n')"); err != nil {
		t.Fatalf("schema incomplete after Apply: %v", err)
	}
}

func TestApply_StopsAtFailingMigration(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	manager, err := NewManager([]Migration{
		{Version: 1, Description: "base table", Statements: []string{
			"CREATE TABLE things (id TEXT PRIMARY KEY)",
		}},
		{Version: 2, Description: "broken", Statements: []string{
			"THIS IS NOT SQL",
		}},
	})
	if err != nil {
		t.Fatalf("NewManager returned error: %v", err)
	}

	err = manager.Apply(context.Background(), db)
	var applyErr *ApplyError
	if !errors.As(err, &applyErr) || applyErr.Version != 2 {
		t.Fatalf("Apply error = %v; want ApplyError for version 2", err)
	}

	records, err := manager.Applied(context.Background(), db)
	if err != nil {
		t.Fatalf("Applied returned error: %v", err)
	}
	if len(records) != 1 || records[0].Version != 1 {
		t.Fatalf("applied records = %+v; want only version 1", records)
	}
}
