package sqlite

import (
	"context"

	"github.com/Hazem7575/alamiya-sub000/internal/persistence/sqlite/migration"
)

// Migrations returns the ordered schema history for the scheduling database.
func Migrations() []migration.Migration {
	return []migration.Migration{
		{
			Version:     1,
			Description: "scheduling core: cities, venues, event types, resources, distances, events",
			Statements: []string{
				`CREATE TABLE cities (
					id         TEXT PRIMARY KEY,
					name       TEXT NOT NULL COLLATE NOCASE UNIQUE,
					is_active  INTEGER NOT NULL DEFAULT 1,
					created_at TEXT NOT NULL,
					updated_at TEXT NOT NULL
				)`,
				`CREATE TABLE venues (
					id         TEXT PRIMARY KEY,
					name       TEXT NOT NULL COLLATE NOCASE,
					city_id    TEXT NOT NULL REFERENCES cities(id),
					created_at TEXT NOT NULL,
					updated_at TEXT NOT NULL,
					UNIQUE (city_id, name)
				)`,
				`CREATE TABLE event_types (
					id         TEXT PRIMARY KEY,
					name       TEXT NOT NULL COLLATE NOCASE UNIQUE,
					created_at TEXT NOT NULL,
					updated_at TEXT NOT NULL
				)`,
				`CREATE TABLE resources (
					id         TEXT PRIMARY KEY,
					kind       TEXT NOT NULL CHECK (kind IN ('observer', 'sng', 'generator')),
					code       TEXT NOT NULL COLLATE NOCASE,
					is_active  INTEGER NOT NULL DEFAULT 1,
					created_at TEXT NOT NULL,
					updated_at TEXT NOT NULL,
					UNIQUE (kind, code)
				)`,
				`CREATE TABLE city_distances (
					id                TEXT PRIMARY KEY,
					city_a            TEXT NOT NULL REFERENCES cities(id),
					city_b            TEXT NOT NULL REFERENCES cities(id),
					travel_time_hours REAL NOT NULL CHECK (travel_time_hours >= 0),
					notes             TEXT NOT NULL DEFAULT '',
					created_at        TEXT NOT NULL,
					updated_at        TEXT NOT NULL,
					CHECK (city_a < city_b),
					UNIQUE (city_a, city_b)
				)`,
				`CREATE TABLE events (
					id            TEXT PRIMARY KEY,
					title         TEXT NOT NULL,
					description   TEXT NOT NULL DEFAULT '',
					event_date    TEXT NOT NULL,
					event_time    TEXT NOT NULL DEFAULT '00:00',
					status        TEXT NOT NULL DEFAULT 'scheduled'
						CHECK (status IN ('scheduled', 'ongoing', 'completed', 'cancelled', 'postponed')),
					city_id       TEXT NOT NULL REFERENCES cities(id),
					venue_id      TEXT REFERENCES venues(id),
					event_type_id TEXT REFERENCES event_types(id),
					created_at    TEXT NOT NULL,
					updated_at    TEXT NOT NULL
				)`,
				`CREATE INDEX idx_events_date ON events(event_date)`,
				`CREATE TABLE event_resources (
					event_id    TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
					resource_id TEXT NOT NULL REFERENCES resources(id),
					PRIMARY KEY (event_id, resource_id)
				)`,
				`CREATE INDEX idx_event_resources_resource ON event_resources(resource_id)`,
			},
		},
	}
}

// Migrate applies the full schema history to the pool's database.
func Migrate(ctx context.Context, pool *ConnectionPool) error {
	manager, err := migration.NewManager(Migrations())
	if err != nil {
		return err
	}
	return manager.Apply(ctx, pool.DB())
}
