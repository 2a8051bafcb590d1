package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/models"
)

// Seed populates the salon profile, the service catalog and the weekly
// working hours with their defaults. Each collection is only seeded
// when empty, so repeated startups never duplicate or overwrite data.
func (db *DB) Seed(ctx context.Context) error {
	if err := db.seedSalon(ctx); err != nil {
		return fmt.Errorf("seed salon: %w", err)
	}
	if err := db.seedServices(ctx); err != nil {
		return fmt.Errorf("seed services: %w", err)
	}
	if err := db.seedWorkingHours(ctx); err != nil {
		return fmt.Errorf("seed working hours: %w", err)
	}
	return nil
}

func (db *DB) seedSalon(ctx context.Context) error {
	empty, err := db.tableEmpty(ctx, "salon")
	if err != nil || !empty {
		return err
	}

	now := time.Now()
	_, err = db.ExecContext(ctx, `
		INSERT INTO salon (id, name, description, address, phone, email, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)`,
		uuid.NewString(),
		"Centro Terapêutico",
		"Seu espaço de bem-estar e saúde",
		"Rua Principal, 123",
		"(69) 99283-9458",
		"contato@centroterapeutico.com",
		now, now,
	)
	return err
}

func (db *DB) seedServices(ctx context.Context) error {
	empty, err := db.tableEmpty(ctx, "services")
	if err != nil || !empty {
		return err
	}

	defaults := []models.Service{
		{
			Name:            "Massagem Relaxante",
			Description:     "Massagem terapêutica para alívio de tensões",
			Price:           120,
			DurationMinutes: 60,
			Category:        "Massoterapia",
			Active:          true,
			Popular:         true,
		},
		{
			Name:            "Reflexologia",
			Description:     "Técnica de massagem nos pés",
			Price:           80,
			DurationMinutes: 45,
			Category:        "Massoterapia",
			Active:          true,
		},
		{
			Name:            "Acupuntura",
			Description:     "Tratamento com agulhas",
			Price:           150,
			DurationMinutes: 60,
			Category:        "Medicina Chinesa",
			Active:          true,
			Popular:         true,
		},
	}

	for i := range defaults {
		if err := db.CreateService(ctx, &defaults[i]); err != nil {
			return err
		}
	}
	return nil
}

func (db *DB) seedWorkingHours(ctx context.Context) error {
	empty, err := db.tableEmpty(ctx, "working_hours")
	if err != nil || !empty {
		return err
	}

	now := time.Now()
	for day := 0; day <= 6; day++ {
		_, err := db.ExecContext(ctx, `
			INSERT INTO working_hours (id, day_of_week, is_open, open_time, close_time,
				break_start, break_end, slot_duration, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			uuid.NewString(), day, day != 0,
			"08:00", "18:00", "12:00", "13:00", 30, now, now,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetSalon returns the center's profile record, or nil when absent.
func (db *DB) GetSalon(ctx context.Context) (*models.Salon, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, name, description, address, phone, email, instagram, facebook, active, created_at, updated_at
		FROM salon LIMIT 1`,
	)

	var s models.Salon
	var desc, addr, phone, email, instagram, facebook sql.NullString
	err := row.Scan(&s.ID, &s.Name, &desc, &addr, &phone, &email, &instagram, &facebook,
		&s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.Description = desc.String
	s.Address = addr.String
	s.Phone = phone.String
	s.Email = email.String
	s.Instagram = instagram.String
	s.Facebook = facebook.String
	return &s, nil
}

func (db *DB) tableEmpty(ctx context.Context, table string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count)
	return count == 0, err
}
