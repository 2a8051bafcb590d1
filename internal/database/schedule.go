package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/models"
)

// DefaultScheduleConfig provides fallback values when no Monday
// template entry exists yet.
var DefaultScheduleConfig = models.DefaultSchedule{
	OpenTime:     "08:00",
	CloseTime:    "18:00",
	SlotDuration: 30,
}

// GetDefaultSchedule returns the effective schedule for slot
// generation, sourced from the Monday entry with hard-coded fallbacks.
func (db *DB) GetDefaultSchedule(ctx context.Context) (models.DefaultSchedule, error) {
	monday, err := db.GetWorkingHoursByDay(ctx, 1)
	if err != nil {
		return models.DefaultSchedule{}, err
	}
	if monday == nil {
		return DefaultScheduleConfig, nil
	}

	sched := models.DefaultSchedule{
		OpenTime:     monday.OpenTime,
		CloseTime:    monday.CloseTime,
		SlotDuration: monday.SlotDuration,
		BreakStart:   monday.BreakStart,
		BreakEnd:     monday.BreakEnd,
	}
	if sched.OpenTime == "" {
		sched.OpenTime = DefaultScheduleConfig.OpenTime
	}
	if sched.CloseTime == "" {
		sched.CloseTime = DefaultScheduleConfig.CloseTime
	}
	if sched.SlotDuration <= 0 {
		sched.SlotDuration = DefaultScheduleConfig.SlotDuration
	}
	return sched, nil
}

// SaveDefaultSchedule writes the schedule values into all seven
// weekday entries. Sunday is unconditionally closed and every other
// day open; the center does not support per-day hour variation beyond
// that rule, so prior per-day customization is overwritten.
func (db *DB) SaveDefaultSchedule(ctx context.Context, sched models.DefaultSchedule) error {
	if err := sched.Validate(); err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save schedule: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for day := 0; day <= 6; day++ {
		isOpen := day != 0
		_, err := tx.ExecContext(ctx, `
			INSERT INTO working_hours (id, day_of_week, is_open, open_time, close_time,
				break_start, break_end, slot_duration, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(day_of_week) DO UPDATE SET
				is_open = excluded.is_open,
				open_time = excluded.open_time,
				close_time = excluded.close_time,
				break_start = excluded.break_start,
				break_end = excluded.break_end,
				slot_duration = excluded.slot_duration,
				updated_at = excluded.updated_at`,
			uuid.NewString(), day, isOpen, sched.OpenTime, sched.CloseTime,
			sched.BreakStart, sched.BreakEnd, sched.SlotDuration, now, now,
		)
		if err != nil {
			return fmt.Errorf("save working hours for day %d: %w", day, err)
		}
	}
	return tx.Commit()
}

// GetWorkingHoursByDay returns the template entry for one weekday
// (0=Sunday .. 6=Saturday), or nil when absent.
func (db *DB) GetWorkingHoursByDay(ctx context.Context, dayOfWeek int) (*models.WorkingHours, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, day_of_week, is_open, open_time, close_time, break_start, break_end,
			slot_duration, created_at, updated_at
		FROM working_hours WHERE day_of_week = ?`, dayOfWeek,
	)
	w, err := scanWorkingHours(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return w, err
}

// ListWorkingHours returns the full weekly template ordered by weekday.
func (db *DB) ListWorkingHours(ctx context.Context) ([]models.WorkingHours, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, day_of_week, is_open, open_time, close_time, break_start, break_end,
			slot_duration, created_at, updated_at
		FROM working_hours ORDER BY day_of_week`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hours []models.WorkingHours
	for rows.Next() {
		w, err := scanWorkingHours(rows)
		if err != nil {
			return nil, err
		}
		hours = append(hours, *w)
	}
	return hours, rows.Err()
}

func scanWorkingHours(row rowScanner) (*models.WorkingHours, error) {
	var w models.WorkingHours
	var open, close_, breakStart, breakEnd sql.NullString
	var slotDuration sql.NullInt64
	err := row.Scan(&w.ID, &w.DayOfWeek, &w.IsOpen, &open, &close_, &breakStart, &breakEnd,
		&slotDuration, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if open.Valid {
		w.OpenTime = open.String
	}
	if close_.Valid {
		w.CloseTime = close_.String
	}
	if breakStart.Valid {
		w.BreakStart = breakStart.String
	}
	if breakEnd.Valid {
		w.BreakEnd = breakEnd.String
	}
	if slotDuration.Valid {
		w.SlotDuration = int(slotDuration.Int64)
	}
	return &w, nil
}
