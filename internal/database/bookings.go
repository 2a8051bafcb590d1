package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/models"
)

// CreateBooking inserts the booking, its line items and the slot
// reservation in one transaction. The returned flag reports whether a
// slot at the booking's (date, time) was reserved; when no slot
// occupies that position the booking commits without linkage. A slot
// that exists but is not available fails the whole transaction with
// ErrSlotUnavailable, so a lost reservation never leaves a committed
// booking behind.
func (db *DB) CreateBooking(ctx context.Context, b *models.Booking, items []models.BookingService) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin create booking: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bookings (id, customer_id, booking_date, booking_time, status,
			total_price, total_duration_minutes, notes, reminder_sent, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?)`,
		b.ID, b.CustomerID, b.BookingDate, b.BookingTime, b.Status,
		b.TotalPrice, b.TotalDurationMinutes, b.Notes, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("insert booking: %w", err)
	}

	for _, item := range items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO booking_services (id, booking_id, service_id, price, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			item.ID, item.BookingID, item.ServiceID, item.Price, item.CreatedAt,
		)
		if err != nil {
			return false, fmt.Errorf("insert booking service %s: %w", item.ServiceID, err)
		}
	}

	var slotID, slotStatus string
	err = tx.QueryRowContext(ctx,
		"SELECT id, status FROM slots WHERE date = ? AND time_slot = ?",
		b.BookingDate, b.BookingTime,
	).Scan(&slotID, &slotStatus)
	if err == sql.ErrNoRows {
		return false, tx.Commit()
	}
	if err != nil {
		return false, fmt.Errorf("find slot for booking: %w", err)
	}

	// The status guard makes the reservation conflict-free: of two
	// concurrent attempts only one can flip the row out of 'available',
	// and the loser's booking rolls back with the failed reservation.
	res, err := tx.ExecContext(ctx, `
		UPDATE slots SET status = ?, booking_id = ?, updated_at = ?
		WHERE id = ? AND status = ?`,
		models.SlotStatusBooked, b.ID, time.Now(), slotID, models.SlotStatusAvailable,
	)
	if err != nil {
		return false, fmt.Errorf("reserve slot %s %s: %w", b.BookingDate, b.BookingTime, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, ErrSlotUnavailable
	}

	return true, tx.Commit()
}

// GetBooking returns a booking by id, or nil when absent.
func (db *DB) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	row := db.QueryRowContext(ctx, `
		SELECT id, customer_id, booking_date, booking_time, status,
			total_price, total_duration_minutes, notes, reminder_sent, created_at, updated_at
		FROM bookings WHERE id = ?`, id,
	)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return b, err
}

// UpdateBookingStatus sets the booking's status and refreshes
// updated_at. Returns false when the id is unknown.
func (db *DB) UpdateBookingStatus(ctx context.Context, id, status string) (bool, error) {
	res, err := db.ExecContext(ctx,
		"UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?",
		status, time.Now(), id,
	)
	if err != nil {
		return false, fmt.Errorf("update booking status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListBookings returns bookings, optionally filtered to one date,
// ordered by date then time ascending. The zero-padded date/time text
// columns make the textual sort equal the chronological one.
func (db *DB) ListBookings(ctx context.Context, date string) ([]models.Booking, error) {
	query := `
		SELECT id, customer_id, booking_date, booking_time, status,
			total_price, total_duration_minutes, notes, reminder_sent, created_at, updated_at
		FROM bookings`
	var args []any
	if date != "" {
		query += " WHERE booking_date = ?"
		args = append(args, date)
	}
	query += " ORDER BY booking_date, booking_time"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// ListBookingServices returns the line items of the given bookings.
func (db *DB) ListBookingServices(ctx context.Context, bookingIDs []string) ([]models.BookingService, error) {
	if len(bookingIDs) == 0 {
		return nil, nil
	}

	query := "SELECT id, booking_id, service_id, price, created_at FROM booking_services WHERE booking_id IN ("
	args := make([]any, 0, len(bookingIDs))
	for i, id := range bookingIDs {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, id)
	}
	query += ") ORDER BY created_at"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.BookingService
	for rows.Next() {
		var it models.BookingService
		if err := rows.Scan(&it.ID, &it.BookingID, &it.ServiceID, &it.Price, &it.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListBookingsForReminder returns confirmed bookings on the given date
// that have not been reminded yet.
func (db *DB) ListBookingsForReminder(ctx context.Context, date string) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, customer_id, booking_date, booking_time, status,
			total_price, total_duration_minutes, notes, reminder_sent, created_at, updated_at
		FROM bookings
		WHERE booking_date = ? AND status = ? AND reminder_sent = 0
		ORDER BY booking_time`,
		date, models.BookingStatusConfirmed,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// MarkReminderSent flags the booking as reminded.
func (db *DB) MarkReminderSent(ctx context.Context, id string) error {
	_, err := db.ExecContext(ctx,
		"UPDATE bookings SET reminder_sent = 1, updated_at = ? WHERE id = ?",
		time.Now(), id,
	)
	return err
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	var notes sql.NullString
	err := row.Scan(&b.ID, &b.CustomerID, &b.BookingDate, &b.BookingTime, &b.Status,
		&b.TotalPrice, &b.TotalDurationMinutes, &notes, &b.ReminderSent, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if notes.Valid {
		b.Notes = notes.String
	}
	return &b, nil
}
