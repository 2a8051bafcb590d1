package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/models"
)

// SlotUpdate carries the fields merged into a slot by UpdateSlot.
// Nil pointers leave the field untouched. ClearBookingID removes the
// booking link regardless of BookingID.
type SlotUpdate struct {
	Status         *string
	BookingID      *string
	ClearBookingID bool
	BlockedReason  *string
}

// FindSlot returns the slot at (date, time), or nil when absent.
func (db *DB) FindSlot(ctx context.Context, date, timeSlot string) (*models.Slot, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, date, time_slot, status, booking_id, blocked_reason, created_at, updated_at
		FROM slots WHERE date = ? AND time_slot = ?`,
		date, timeSlot,
	)
	slot, err := scanSlot(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return slot, err
}

// GetAvailableSlots returns the date's available slots ordered by time.
func (db *DB) GetAvailableSlots(ctx context.Context, date string) ([]models.Slot, error) {
	return db.querySlots(ctx, `
		SELECT id, date, time_slot, status, booking_id, blocked_reason, created_at, updated_at
		FROM slots WHERE date = ? AND status = ? ORDER BY time_slot`,
		date, models.SlotStatusAvailable,
	)
}

// GetAllSlots returns all of the date's slots ordered by time.
func (db *DB) GetAllSlots(ctx context.Context, date string) ([]models.Slot, error) {
	return db.querySlots(ctx, `
		SELECT id, date, time_slot, status, booking_id, blocked_reason, created_at, updated_at
		FROM slots WHERE date = ? ORDER BY time_slot`,
		date,
	)
}

// InsertSlotIfAbsent inserts an available slot at (date, time) unless a
// slot already occupies that position. Existing slots are left
// untouched, which makes grid generation idempotent and additive.
func (db *DB) InsertSlotIfAbsent(ctx context.Context, date, timeSlot string) (bool, error) {
	now := time.Now()
	res, err := db.ExecContext(ctx, `
		INSERT INTO slots (id, date, time_slot, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(date, time_slot) DO NOTHING`,
		uuid.NewString(), date, timeSlot, models.SlotStatusAvailable, now, now,
	)
	if err != nil {
		return false, fmt.Errorf("insert slot %s %s: %w", date, timeSlot, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateSlot merges the given fields into the slot and refreshes
// updated_at. Unknown ids are a silent no-op.
func (db *DB) UpdateSlot(ctx context.Context, id string, upd SlotUpdate) error {
	query := "UPDATE slots SET updated_at = ?"
	args := []any{time.Now()}

	if upd.Status != nil {
		query += ", status = ?"
		args = append(args, *upd.Status)
	}
	if upd.ClearBookingID {
		query += ", booking_id = NULL"
	} else if upd.BookingID != nil {
		query += ", booking_id = ?"
		args = append(args, *upd.BookingID)
	}
	if upd.BlockedReason != nil {
		query += ", blocked_reason = ?"
		args = append(args, *upd.BlockedReason)
	}

	query += " WHERE id = ?"
	args = append(args, id)

	_, err := db.ExecContext(ctx, query, args...)
	return err
}

// SaveBlockedSlots creates or updates the slots at (date, time) to
// blocked with the given reason. Existing slots keep their id and
// created_at; any booking link is dropped, matching the admin
// "block these times" semantics.
func (db *DB) SaveBlockedSlots(ctx context.Context, date string, times []string, reason string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin block slots: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for _, t := range times {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO slots (id, date, time_slot, status, blocked_reason, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(date, time_slot) DO UPDATE SET
				status = excluded.status,
				blocked_reason = excluded.blocked_reason,
				booking_id = NULL,
				updated_at = excluded.updated_at`,
			uuid.NewString(), date, t, models.SlotStatusBlocked, reason, now, now,
		)
		if err != nil {
			return fmt.Errorf("block slot %s %s: %w", date, t, err)
		}
	}
	return tx.Commit()
}

// DeleteAllSlots removes every slot that is not booked. Slots tied to
// a live reservation survive the reset.
func (db *DB) DeleteAllSlots(ctx context.Context) (int64, error) {
	res, err := db.ExecContext(ctx,
		"DELETE FROM slots WHERE status != ?", models.SlotStatusBooked,
	)
	if err != nil {
		return 0, fmt.Errorf("delete slots: %w", err)
	}
	return res.RowsAffected()
}

// ReserveSlot marks the slot at (date, time) as booked by bookingID.
// The status guard makes the reservation conflict-free: of two
// concurrent attempts only one can flip the row out of 'available'.
// Returns false when no available slot occupies that position.
func (db *DB) ReserveSlot(ctx context.Context, date, timeSlot, bookingID string) (bool, error) {
	res, err := db.ExecContext(ctx, `
		UPDATE slots SET status = ?, booking_id = ?, updated_at = ?
		WHERE date = ? AND time_slot = ? AND status = ?`,
		models.SlotStatusBooked, bookingID, time.Now(),
		date, timeSlot, models.SlotStatusAvailable,
	)
	if err != nil {
		return false, fmt.Errorf("reserve slot %s %s: %w", date, timeSlot, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ReleaseSlotByBooking returns the slot reserved by bookingID to
// available and clears the booking link. No-op when no slot references
// the booking.
func (db *DB) ReleaseSlotByBooking(ctx context.Context, bookingID string) error {
	_, err := db.ExecContext(ctx, `
		UPDATE slots SET status = ?, booking_id = NULL, updated_at = ?
		WHERE booking_id = ?`,
		models.SlotStatusAvailable, time.Now(), bookingID,
	)
	if err != nil {
		return fmt.Errorf("release slot for booking %s: %w", bookingID, err)
	}
	return nil
}

func (db *DB) querySlots(ctx context.Context, query string, args ...any) ([]models.Slot, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slots []models.Slot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, *s)
	}
	return slots, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSlot(row rowScanner) (*models.Slot, error) {
	var s models.Slot
	var bookingID, blockedReason sql.NullString
	err := row.Scan(&s.ID, &s.Date, &s.TimeSlot, &s.Status, &bookingID, &blockedReason, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if bookingID.Valid {
		s.BookingID = bookingID.String
	}
	if blockedReason.Valid {
		s.BlockedReason = blockedReason.String
	}
	return &s, nil
}
