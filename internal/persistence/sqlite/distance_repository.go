package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Hazem7575/alamiya-sub000/internal/persistence"
)

// DistanceRepository implements persistence.DistanceRepository using SQLite.
// Edges are stored with city_a < city_b so the unique index rejects a
// duplicate pair regardless of the orientation the caller supplies.
type DistanceRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
}

// NewDistanceRepository creates a new SQLite distance repository.
func NewDistanceRepository(pool *ConnectionPool) *DistanceRepository {
	return &DistanceRepository{pool: pool, mapper: NewErrorMapper()}
}

func canonicalPair(cityA, cityB string) (string, string) {
	if cityB < cityA {
		return cityB, cityA
	}
	return cityA, cityB
}

// CreateDistance inserts a new travel-time edge.
func (r *DistanceRepository) CreateDistance(ctx context.Context, distance persistence.CityDistance) error {
	if distance.ID == "" || distance.CityA == distance.CityB {
		return persistence.ErrConstraintViolation
	}
	cityA, cityB := canonicalPair(distance.CityA, distance.CityB)
	now := formatTime(time.Now())
	_, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO city_distances (id, city_a, city_b, travel_time_hours, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		distance.ID, cityA, cityB, distance.TravelTimeHours, distance.Notes, now, now)
	return r.mapper.MapError(err)
}

// UpdateDistance updates the hours and notes of an existing edge. The pair
// itself is immutable; callers delete and re-create to move an edge.
func (r *DistanceRepository) UpdateDistance(ctx context.Context, distance persistence.CityDistance) error {
	result, err := r.pool.db.ExecContext(ctx,
		`UPDATE city_distances SET travel_time_hours = ?, notes = ?, updated_at = ? WHERE id = ?`,
		distance.TravelTimeHours, distance.Notes, formatTime(time.Now()), distance.ID)
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

// GetDistance retrieves an edge by ID.
func (r *DistanceRepository) GetDistance(ctx context.Context, id string) (persistence.CityDistance, error) {
	row := r.pool.db.QueryRowContext(ctx,
		`SELECT id, city_a, city_b, travel_time_hours, notes, created_at, updated_at
		 FROM city_distances WHERE id = ?`, id)
	return r.scanDistance(row)
}

// GetDistanceByPair retrieves the edge for an unordered pair.
func (r *DistanceRepository) GetDistanceByPair(ctx context.Context, cityA, cityB string) (persistence.CityDistance, error) {
	a, b := canonicalPair(cityA, cityB)
	row := r.pool.db.QueryRowContext(ctx,
		`SELECT id, city_a, city_b, travel_time_hours, notes, created_at, updated_at
		 FROM city_distances WHERE city_a = ? AND city_b = ?`, a, b)
	return r.scanDistance(row)
}

// ListDistances returns all edges in canonical pair order.
func (r *DistanceRepository) ListDistances(ctx context.Context) ([]persistence.CityDistance, error) {
	rows, err := r.pool.db.QueryContext(ctx,
		`SELECT id, city_a, city_b, travel_time_hours, notes, created_at, updated_at
		 FROM city_distances ORDER BY city_a, city_b`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	distances := make([]persistence.CityDistance, 0)
	for rows.Next() {
		var distance persistence.CityDistance
		var createdAt, updatedAt string
		if err := rows.Scan(&distance.ID, &distance.CityA, &distance.CityB,
			&distance.TravelTimeHours, &distance.Notes, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		distance.CreatedAt = parseTime(createdAt)
		distance.UpdatedAt = parseTime(updatedAt)
		distances = append(distances, distance)
	}
	return distances, rows.Err()
}

// DeleteDistance removes an edge; the pair may be re-created afterwards.
func (r *DistanceRepository) DeleteDistance(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM city_distances WHERE id = ?`, id)
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

func (r *DistanceRepository) scanDistance(row *sql.Row) (persistence.CityDistance, error) {
	var distance persistence.CityDistance
	var createdAt, updatedAt string
	err := row.Scan(&distance.ID, &distance.CityA, &distance.CityB,
		&distance.TravelTimeHours, &distance.Notes, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.CityDistance{}, persistence.ErrNotFound
		}
		return persistence.CityDistance{}, r.mapper.MapError(err)
	}
	distance.CreatedAt = parseTime(createdAt)
	distance.UpdatedAt = parseTime(updatedAt)
	return distance, nil
}
