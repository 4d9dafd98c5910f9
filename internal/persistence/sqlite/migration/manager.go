package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const trackingTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version     INTEGER PRIMARY KEY,
	description TEXT NOT NULL,
	applied_at  TEXT NOT NULL
)`

// Manager applies registered migrations to a database.
type Manager struct {
	migrations []Migration
	now        func() time.Time
}

// NewManager validates the registered migration set and returns a manager.
func NewManager(migrations []Migration) (*Manager, error) {
	lastVersion := 0
	for _, m := range migrations {
		if m.Version == lastVersion && lastVersion != 0 {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateVersion, m.Version)
		}
		if m.Version <= lastVersion {
			return nil, fmt.Errorf("%w: %d after %d", ErrOutOfOrder, m.Version, lastVersion)
		}
		lastVersion = m.Version
	}
	return &Manager{migrations: migrations, now: time.Now}, nil
}

// Apply brings the database up to the latest registered version. Each pending
// migration runs in its own transaction together with its tracking row, so a
// failure leaves the database at the last fully applied version.
func (m *Manager) Apply(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, trackingTable); err != nil {
		return fmt.Errorf("migration: create tracking table: %w", err)
	}

	current, err := m.currentVersion(ctx, db)
	if err != nil {
		return err
	}

	for _, pending := range m.migrations {
		if pending.Version <= current {
			continue
		}
		if err := m.applyOne(ctx, db, pending); err != nil {
			return &ApplyError{Version: pending.Version, Err: err}
		}
	}
	return nil
}

// Applied lists the migrations recorded in the tracking table.
func (m *Manager) Applied(ctx context.Context, db *sql.DB) ([]Record, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT version, description, applied_at FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("migration: list applied: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var record Record
		var appliedAt string
		if err := rows.Scan(&record.Version, &record.Description, &appliedAt); err != nil {
			return nil, fmt.Errorf("migration: scan applied row: %w", err)
		}
		if parsed, perr := time.Parse(time.RFC3339, appliedAt); perr == nil {
			record.AppliedAt = parsed
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (m *Manager) currentVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version sql.NullInt64
	err := db.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("migration: read current version: %w", err)
	}
	return int(version.Int64), nil
}

func (m *Manager) applyOne(ctx context.Context, db *sql.DB, pending Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, statement := range pending.Statements {
		if _, err := tx.ExecContext(ctx, statement); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)",
		pending.Version, pending.Description, m.now().UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	return tx.Commit()
}
