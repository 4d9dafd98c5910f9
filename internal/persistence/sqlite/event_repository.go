package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Hazem7575/alamiya-sub000/internal/persistence"
)

// EventRepository implements persistence.EventRepository using SQLite.
type EventRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
}

// NewEventRepository creates a new SQLite event repository.
func NewEventRepository(pool *ConnectionPool) *EventRepository {
	return &EventRepository{pool: pool, mapper: NewErrorMapper()}
}

// CreateEvent inserts an event and its resource associations in one transaction.
func (r *EventRepository) CreateEvent(ctx context.Context, event persistence.Event) error {
	if event.ID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO events (id, title, description, event_date, event_time, status, city_id, venue_id, event_type_id, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			event.ID, event.Title, event.Description, event.EventDate, event.EventTime, event.Status,
			event.CityID, nullString(event.VenueID), nullString(event.EventTypeID),
			formatTime(event.CreatedAt), formatTime(event.UpdatedAt))
		if err != nil {
			return r.mapper.MapError(err)
		}
		return r.insertAssociations(ctx, tx, event.ID, event.ResourceIDs)
	})
}

// UpdateEvent updates an event's fields and replaces its resource
// associations in one transaction.
func (r *EventRepository) UpdateEvent(ctx context.Context, event persistence.Event) error {
	if event.ID == "" {
		return persistence.ErrConstraintViolation
	}
	event.UpdatedAt = time.Now().UTC()

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE events SET title = ?, description = ?, event_date = ?, event_time = ?, status = ?,
				city_id = ?, venue_id = ?, event_type_id = ?, updated_at = ?
			 WHERE id = ?`,
			event.Title, event.Description, event.EventDate, event.EventTime, event.Status,
			event.CityID, nullString(event.VenueID), nullString(event.EventTypeID),
			formatTime(event.UpdatedAt), event.ID)
		if err != nil {
			return r.mapper.MapError(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM event_resources WHERE event_id = ?`, event.ID); err != nil {
			return r.mapper.MapError(err)
		}
		return r.insertAssociations(ctx, tx, event.ID, event.ResourceIDs)
	})
}

// GetEvent retrieves an event and its associated resource IDs.
func (r *EventRepository) GetEvent(ctx context.Context, id string) (persistence.Event, error) {
	row := r.pool.db.QueryRowContext(ctx,
		`SELECT id, title, description, event_date, event_time, status, city_id, venue_id, event_type_id, created_at, updated_at
		 FROM events WHERE id = ?`, id)

	event, err := scanEventRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Event{}, persistence.ErrNotFound
		}
		return persistence.Event{}, r.mapper.MapError(err)
	}

	event.ResourceIDs, err = r.resourceIDs(ctx, id)
	if err != nil {
		return persistence.Event{}, err
	}
	return event, nil
}

// ListEvents returns events matching the filter ordered by date, time, id.
func (r *EventRepository) ListEvents(ctx context.Context, filter persistence.EventFilter) ([]persistence.Event, error) {
	query := `SELECT id, title, description, event_date, event_time, status, city_id, venue_id, event_type_id, created_at, updated_at FROM events`
	conditions := make([]string, 0, 3)
	args := make([]any, 0, 3)
	if filter.EventDate != nil {
		conditions = append(conditions, `event_date = ?`)
		args = append(args, *filter.EventDate)
	}
	if filter.CityID != nil {
		conditions = append(conditions, `city_id = ?`)
		args = append(args, *filter.CityID)
	}
	if filter.Status != nil {
		conditions = append(conditions, `status = ?`)
		args = append(args, *filter.Status)
	}
	for i, condition := range conditions {
		if i == 0 {
			query += ` WHERE ` + condition
		} else {
			query += ` AND ` + condition
		}
	}
	query += ` ORDER BY event_date, event_time, id`

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	events := make([]persistence.Event, 0)
	for rows.Next() {
		event, err := scanEventRows(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range events {
		events[i].ResourceIDs, err = r.resourceIDs(ctx, events[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return events, nil
}

// DeleteEvent removes an event; associations cascade.
func (r *EventRepository) DeleteEvent(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// ListResourceTimeline returns the resource's same-day assignments joined
// with city names for conflict diagnostics, ordered by time.
func (r *EventRepository) ListResourceTimeline(ctx context.Context, resourceID, eventDate, excludeEventID string) ([]persistence.TimelineEntry, error) {
	query := `
		SELECT e.id, e.title, e.event_date, e.event_time, e.city_id, c.name
		FROM events e
		JOIN event_resources er ON er.event_id = e.id
		JOIN cities c ON c.id = e.city_id
		WHERE er.resource_id = ? AND e.event_date = ?`
	args := []any{resourceID, eventDate}
	if excludeEventID != "" {
		query += ` AND e.id != ?`
		args = append(args, excludeEventID)
	}
	query += ` ORDER BY e.event_time, e.id`

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	entries := make([]persistence.TimelineEntry, 0)
	for rows.Next() {
		var entry persistence.TimelineEntry
		if err := rows.Scan(&entry.EventID, &entry.EventTitle, &entry.EventDate,
			&entry.EventTime, &entry.CityID, &entry.CityName); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *EventRepository) insertAssociations(ctx context.Context, tx *sql.Tx, eventID string, resourceIDs []string) error {
	seen := make(map[string]struct{}, len(resourceIDs))
	for _, resourceID := range resourceIDs {
		if resourceID == "" {
			continue
		}
		if _, ok := seen[resourceID]; ok {
			continue
		}
		seen[resourceID] = struct{}{}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO event_resources (event_id, resource_id) VALUES (?, ?)`,
			eventID, resourceID); err != nil {
			return r.mapper.MapError(err)
		}
	}
	return nil
}

func (r *EventRepository) resourceIDs(ctx context.Context, eventID string) ([]string, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT resource_id FROM event_resources WHERE event_id = ? ORDER BY resource_id`, eventID)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEventRow(row *sql.Row) (persistence.Event, error) {
	return scanEvent(row)
}

func scanEventRows(rows *sql.Rows) (persistence.Event, error) {
	return scanEvent(rows)
}

func scanEvent(scanner rowScanner) (persistence.Event, error) {
	var event persistence.Event
	var venueID, eventTypeID sql.NullString
	var createdAt, updatedAt string
	err := scanner.Scan(&event.ID, &event.Title, &event.Description, &event.EventDate,
		&event.EventTime, &event.Status, &event.CityID, &venueID, &eventTypeID,
		&createdAt, &updatedAt)
	if err != nil {
		return persistence.Event{}, err
	}
	if venueID.Valid {
		event.VenueID = &venueID.String
	}
	if eventTypeID.Valid {
		event.EventTypeID = &eventTypeID.String
	}
	event.CreatedAt = parseTime(createdAt)
	event.UpdatedAt = parseTime(updatedAt)
	return event, nil
}

func nullString(value *string) any {
	if value == nil || *value == "" {
		return nil
	}
	return *value
}
