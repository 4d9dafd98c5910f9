package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Hazem7575/alamiya-sub000/internal/persistence"
)

// CityRepository implements persistence.CityRepository using SQLite.
type CityRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
}

// NewCityRepository creates a new SQLite city repository.
func NewCityRepository(pool *ConnectionPool) *CityRepository {
	return &CityRepository{pool: pool, mapper: NewErrorMapper()}
}

// CreateCity inserts a new city.
func (r *CityRepository) CreateCity(ctx context.Context, city persistence.City) error {
	if city.ID == "" {
		return persistence.ErrConstraintViolation
	}

	now := time.Now().UTC()
	if city.CreatedAt.IsZero() {
		city.CreatedAt = now
	}
	city.UpdatedAt = now

	_, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO cities (id, name, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		city.ID, city.Name, boolToInt(city.IsActive), formatTime(city.CreatedAt), formatTime(city.UpdatedAt))
	return r.mapper.MapError(err)
}

// UpdateCity updates an existing city's name and active flag.
func (r *CityRepository) UpdateCity(ctx context.Context, city persistence.City) error {
	result, err := r.pool.db.ExecContext(ctx,
		`UPDATE cities SET name = ?, is_active = ?, updated_at = ? WHERE id = ?`,
		city.Name, boolToInt(city.IsActive), formatTime(time.Now()), city.ID)
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

// GetCity retrieves a city by ID.
func (r *CityRepository) GetCity(ctx context.Context, id string) (persistence.City, error) {
	row := r.pool.db.QueryRowContext(ctx,
		`SELECT id, name, is_active, created_at, updated_at FROM cities WHERE id = ?`, id)
	return r.scanCity(row)
}

// GetCityByName retrieves a city by its unique, case-insensitive name.
func (r *CityRepository) GetCityByName(ctx context.Context, name string) (persistence.City, error) {
	row := r.pool.db.QueryRowContext(ctx,
		`SELECT id, name, is_active, created_at, updated_at FROM cities WHERE name = ?`, name)
	return r.scanCity(row)
}

// ListCities returns cities ordered by name, optionally only active ones.
func (r *CityRepository) ListCities(ctx context.Context, activeOnly bool) ([]persistence.City, error) {
	query := `SELECT id, name, is_active, created_at, updated_at FROM cities`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY name`

	rows, err := r.pool.db.QueryContext(ctx, query)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	cities := make([]persistence.City, 0)
	for rows.Next() {
		var city persistence.City
		var isActive int
		var createdAt, updatedAt string
		if err := rows.Scan(&city.ID, &city.Name, &isActive, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		city.IsActive = isActive != 0
		city.CreatedAt = parseTime(createdAt)
		city.UpdatedAt = parseTime(updatedAt)
		cities = append(cities, city)
	}
	return cities, rows.Err()
}

// DeleteCity removes a city. Referencing events or distances block deletion
// through foreign keys.
func (r *CityRepository) DeleteCity(ctx context.Context, id string) error {
	result, err := r.pool.db.ExecContext(ctx, `DELETE FROM cities WHERE id = ?`, id)
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

func (r *CityRepository) scanCity(row *sql.Row) (persistence.City, error) {
	var city persistence.City
	var isActive int
	var createdAt, updatedAt string
	err := row.Scan(&city.ID, &city.Name, &isActive, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.City{}, persistence.ErrNotFound
		}
		return persistence.City{}, r.mapper.MapError(err)
	}
	city.IsActive = isActive != 0
	city.CreatedAt = parseTime(createdAt)
	city.UpdatedAt = parseTime(updatedAt)
	return city, nil
}
