package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Hazem7575/alamiya-sub000/internal/persistence"
)

// VenueRepository implements persistence.VenueRepository using SQLite.
type VenueRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
}

// NewVenueRepository creates a new SQLite venue repository.
func NewVenueRepository(pool *ConnectionPool) *VenueRepository {
	return &VenueRepository{pool: pool, mapper: NewErrorMapper()}
}

// CreateVenue inserts a new venue.
func (r *VenueRepository) CreateVenue(ctx context.Context, venue persistence.Venue) error {
	if venue.ID == "" || venue.CityID == "" {
		return persistence.ErrConstraintViolation
	}
	now := formatTime(time.Now())
	_, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO venues (id, name, city_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		venue.ID, venue.Name, venue.CityID, now, now)
	return r.mapper.MapError(err)
}

// GetVenue retrieves a venue by ID.
func (r *VenueRepository) GetVenue(ctx context.Context, id string) (persistence.Venue, error) {
	row := r.pool.db.QueryRowContext(ctx,
		`SELECT id, name, city_id, created_at, updated_at FROM venues WHERE id = ?`, id)
	return scanVenue(row, r.mapper)
}

// GetVenueByName retrieves a venue by its (city, name) natural key.
func (r *VenueRepository) GetVenueByName(ctx context.Context, cityID, name string) (persistence.Venue, error) {
	row := r.pool.db.QueryRowContext(ctx,
		`SELECT id, name, city_id, created_at, updated_at FROM venues WHERE city_id = ? AND name = ?`,
		cityID, name)
	return scanVenue(row, r.mapper)
}

// ListVenues returns venues, optionally filtered to one city, ordered by name.
func (r *VenueRepository) ListVenues(ctx context.Context, cityID string) ([]persistence.Venue, error) {
	query := `SELECT id, name, city_id, created_at, updated_at FROM venues`
	args := []any{}
	if cityID != "" {
		query += ` WHERE city_id = ?`
		args = append(args, cityID)
	}
	query += ` ORDER BY name`

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	venues := make([]persistence.Venue, 0)
	for rows.Next() {
		var venue persistence.Venue
		var createdAt, updatedAt string
		if err := rows.Scan(&venue.ID, &venue.Name, &venue.CityID, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		venue.CreatedAt = parseTime(createdAt)
		venue.UpdatedAt = parseTime(updatedAt)
		venues = append(venues, venue)
	}
	return venues, rows.Err()
}

func scanVenue(row *sql.Row, mapper *ErrorMapper) (persistence.Venue, error) {
	var venue persistence.Venue
	var createdAt, updatedAt string
	err := row.Scan(&venue.ID, &venue.Name, &venue.CityID, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Venue{}, persistence.ErrNotFound
		}
		return persistence.Venue{}, mapper.MapError(err)
	}
	venue.CreatedAt = parseTime(createdAt)
	venue.UpdatedAt = parseTime(updatedAt)
	return venue, nil
}

// EventTypeRepository implements persistence.EventTypeRepository using SQLite.
type EventTypeRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
}

// NewEventTypeRepository creates a new SQLite event type repository.
func NewEventTypeRepository(pool *ConnectionPool) *EventTypeRepository {
	return &EventTypeRepository{pool: pool, mapper: NewErrorMapper()}
}

// CreateEventType inserts a new event type.
func (r *EventTypeRepository) CreateEventType(ctx context.Context, eventType persistence.EventType) error {
	if eventType.ID == "" {
		return persistence.ErrConstraintViolation
	}
	now := formatTime(time.Now())
	_, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO event_types (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		eventType.ID, eventType.Name, now, now)
	return r.mapper.MapError(err)
}

// GetEventType retrieves an event type by ID.
func (r *EventTypeRepository) GetEventType(ctx context.Context, id string) (persistence.EventType, error) {
	row := r.pool.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM event_types WHERE id = ?`, id)
	return scanEventType(row, r.mapper)
}

// GetEventTypeByName retrieves an event type by its unique name.
func (r *EventTypeRepository) GetEventTypeByName(ctx context.Context, name string) (persistence.EventType, error) {
	row := r.pool.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM event_types WHERE name = ?`, name)
	return scanEventType(row, r.mapper)
}

// ListEventTypes returns all event types ordered by name.
func (r *EventTypeRepository) ListEventTypes(ctx context.Context) ([]persistence.EventType, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM event_types ORDER BY name`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	eventTypes := make([]persistence.EventType, 0)
	for rows.Next() {
		var eventType persistence.EventType
		var createdAt, updatedAt string
		if err := rows.Scan(&eventType.ID, &eventType.Name, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		eventType.CreatedAt = parseTime(createdAt)
		eventType.UpdatedAt = parseTime(updatedAt)
		eventTypes = append(eventTypes, eventType)
	}
	return eventTypes, rows.Err()
}

func scanEventType(row *sql.Row, mapper *ErrorMapper) (persistence.EventType, error) {
	var eventType persistence.EventType
	var createdAt, updatedAt string
	err := row.Scan(&eventType.ID, &eventType.Name, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.EventType{}, persistence.ErrNotFound
		}
		return persistence.EventType{}, mapper.MapError(err)
	}
	eventType.CreatedAt = parseTime(createdAt)
	eventType.UpdatedAt = parseTime(updatedAt)
	return eventType, nil
}
