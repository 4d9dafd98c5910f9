package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Hazem7575/alamiya-sub000/internal/persistence"
)

// ResourceRepository implements persistence.ResourceRepository using SQLite.
type ResourceRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
}

// NewResourceRepository creates a new SQLite resource repository.
func NewResourceRepository(pool *ConnectionPool) *ResourceRepository {
	return &ResourceRepository{pool: pool, mapper: NewErrorMapper()}
}

// CreateResource inserts a new resource.
func (r *ResourceRepository) CreateResource(ctx context.Context, resource persistence.Resource) error {
	if resource.ID == "" {
		return persistence.ErrConstraintViolation
	}
	now := formatTime(time.Now())
	_, err := r.pool.db.ExecContext(ctx,
		`INSERT INTO resources (id, kind, code, is_active, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		resource.ID, resource.Kind, resource.Code, boolToInt(resource.IsActive), now, now)
	return r.mapper.MapError(err)
}

// UpdateResource updates an existing resource's code and active flag.
func (r *ResourceRepository) UpdateResource(ctx context.Context, resource persistence.Resource) error {
	result, err := r.pool.db.ExecContext(ctx,
		`UPDATE resources SET code = ?, is_active = ?, updated_at = ? WHERE id = ?`,
		resource.Code, boolToInt(resource.IsActive), formatTime(time.Now()), resource.ID)
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

// GetResource retrieves a resource by ID.
func (r *ResourceRepository) GetResource(ctx context.Context, id string) (persistence.Resource, error) {
	row := r.pool.db.QueryRowContext(ctx,
		`SELECT id, kind, code, is_active, created_at, updated_at FROM resources WHERE id = ?`, id)
	return r.scanResource(row)
}

// GetResourceByCode retrieves a resource by its (kind, code) natural key.
func (r *ResourceRepository) GetResourceByCode(ctx context.Context, kind, code string) (persistence.Resource, error) {
	row := r.pool.db.QueryRowContext(ctx,
		`SELECT id, kind, code, is_active, created_at, updated_at FROM resources WHERE kind = ? AND code = ?`,
		kind, code)
	return r.scanResource(row)
}

// ListResources returns resources ordered by code, optionally one kind only.
func (r *ResourceRepository) ListResources(ctx context.Context, kind string) ([]persistence.Resource, error) {
	query := `SELECT id, kind, code, is_active, created_at, updated_at FROM resources`
	args := []any{}
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY kind, code`

	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	resources := make([]persistence.Resource, 0)
	for rows.Next() {
		var resource persistence.Resource
		var isActive int
		var createdAt, updatedAt string
		if err := rows.Scan(&resource.ID, &resource.Kind, &resource.Code, &isActive, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		resource.IsActive = isActive != 0
		resource.CreatedAt = parseTime(createdAt)
		resource.UpdatedAt = parseTime(updatedAt)
		resources = append(resources, resource)
	}
	return resources, rows.Err()
}

func (r *ResourceRepository) scanResource(row *sql.Row) (persistence.Resource, error) {
	var resource persistence.Resource
	var isActive int
	var createdAt, updatedAt string
	err := row.Scan(&resource.ID, &resource.Kind, &resource.Code, &isActive, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return persistence.Resource{}, persistence.ErrNotFound
		}
		return persistence.Resource{}, r.mapper.MapError(err)
	}
	resource.IsActive = isActive != 0
	resource.CreatedAt = parseTime(createdAt)
	resource.UpdatedAt = parseTime(updatedAt)
	return resource, nil
}
