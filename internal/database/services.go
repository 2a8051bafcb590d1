package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/models"
)

// GetServices returns the active service catalog.
func (db *DB) GetServices(ctx context.Context) ([]models.Service, error) {
	return db.queryServices(ctx, `
		SELECT id, name, description, price, duration_minutes, category, active, popular, created_at, updated_at
		FROM services WHERE active = 1 ORDER BY name`,
	)
}

// GetServicesByIDs resolves services by id. Unknown ids are simply
// absent from the result, they are not an error.
func (db *DB) GetServicesByIDs(ctx context.Context, ids []string) ([]models.Service, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT id, name, description, price, duration_minutes, category, active, popular, created_at, updated_at
		FROM services WHERE id IN (`
	args := make([]any, 0, len(ids))
	for i, id := range ids {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, id)
	}
	query += ")"

	return db.queryServices(ctx, query, args...)
}

// CreateService adds a service to the catalog.
func (db *DB) CreateService(ctx context.Context, s *models.Service) error {
	now := time.Now()
	s.ID = uuid.NewString()
	s.CreatedAt = now
	s.UpdatedAt = now

	_, err := db.ExecContext(ctx, `
		INSERT INTO services (id, name, description, price, duration_minutes, category, active, popular, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Description, s.Price, s.DurationMinutes, s.Category, s.Active, s.Popular, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert service: %w", err)
	}
	return nil
}

// UpdateService overwrites the service's editable fields. Returns the
// updated record, or nil when the id is unknown.
func (db *DB) UpdateService(ctx context.Context, id string, s models.Service) (*models.Service, error) {
	res, err := db.ExecContext(ctx, `
		UPDATE services SET name = ?, description = ?, price = ?, duration_minutes = ?,
			category = ?, active = ?, popular = ?, updated_at = ?
		WHERE id = ?`,
		s.Name, s.Description, s.Price, s.DurationMinutes, s.Category, s.Active, s.Popular, time.Now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update service: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return nil, err
	}

	services, err := db.GetServicesByIDs(ctx, []string{id})
	if err != nil || len(services) == 0 {
		return nil, err
	}
	return &services[0], nil
}

// DeleteService removes a service from the catalog. Bookings keep
// their price snapshots in booking_services regardless.
func (db *DB) DeleteService(ctx context.Context, id string) error {
	_, err := db.ExecContext(ctx, "DELETE FROM services WHERE id = ?", id)
	return err
}

func (db *DB) queryServices(ctx context.Context, query string, args ...any) ([]models.Service, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []models.Service
	for rows.Next() {
		var s models.Service
		var desc, category sql.NullString
		err := rows.Scan(&s.ID, &s.Name, &desc, &s.Price, &s.DurationMinutes, &category,
			&s.Active, &s.Popular, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, err
		}
		if desc.Valid {
			s.Description = desc.String
		}
		if category.Valid {
			s.Category = category.String
		}
		services = append(services, s)
	}
	return services, rows.Err()
}
