// Package database implements sqlite-backed storage for the
// scheduling service.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

// DB wraps the sql.DB connection for the scheduling service.
type DB struct {
	*sql.DB
	logger *zerolog.Logger
}

var (
	// ErrSlotUnavailable is returned when a booking targets a slot
	// that exists but is blocked or already booked.
	ErrSlotUnavailable = errors.New("slot is not available")
)

// New opens the database at path and creates tables if they don't exist.
// Use ":memory:" for an in-memory database (tests).
func New(path string, logger *zerolog.Logger) (*DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	// WAL mode and busy timeout keep concurrent readers happy.
	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if path == ":memory:" {
		// Every sqlite connection gets its own in-memory database, so
		// the pool must stay on a single connection.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(time.Hour)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	instance := &DB{DB: db, logger: logger}
	if err := instance.createTables(); err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("database initialized")
	return instance, nil
}

func (db *DB) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS salon (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			address TEXT,
			phone TEXT,
			email TEXT,
			instagram TEXT,
			facebook TEXT,
			active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS services (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			price REAL NOT NULL,
			duration_minutes INTEGER NOT NULL,
			category TEXT,
			active BOOLEAN NOT NULL DEFAULT 1,
			popular BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS customers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			phone TEXT UNIQUE NOT NULL,
			email TEXT,
			notes TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS bookings (
			id TEXT PRIMARY KEY,
			customer_id TEXT NOT NULL,
			booking_date TEXT NOT NULL,
			booking_time TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			total_price REAL NOT NULL DEFAULT 0,
			total_duration_minutes INTEGER NOT NULL DEFAULT 0,
			notes TEXT,
			reminder_sent BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			FOREIGN KEY (customer_id) REFERENCES customers(id)
		)`,

		`CREATE TABLE IF NOT EXISTS booking_services (
			id TEXT PRIMARY KEY,
			booking_id TEXT NOT NULL,
			service_id TEXT NOT NULL,
			price REAL NOT NULL,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (booking_id) REFERENCES bookings(id)
		)`,

		`CREATE TABLE IF NOT EXISTS slots (
			id TEXT PRIMARY KEY,
			date TEXT NOT NULL,
			time_slot TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'available',
			booking_id TEXT,
			blocked_reason TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS working_hours (
			id TEXT PRIMARY KEY,
			day_of_week INTEGER UNIQUE NOT NULL,
			is_open BOOLEAN NOT NULL DEFAULT 1,
			open_time TEXT,
			close_time TEXT,
			break_start TEXT,
			break_end TEXT,
			slot_duration INTEGER,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS reviews (
			id TEXT PRIMARY KEY,
			customer_name TEXT NOT NULL,
			customer_identifier TEXT NOT NULL,
			rating INTEGER NOT NULL,
			comment TEXT,
			approved BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,

		// One slot per (date, time) is the structural invariant of
		// the slot store.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_slots_date_time ON slots(date, time_slot)`,
		`CREATE INDEX IF NOT EXISTS idx_slots_status ON slots(status)`,
		`CREATE INDEX IF NOT EXISTS idx_slots_booking ON slots(booking_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_date_time ON bookings(booking_date, booking_time)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_reminder ON bookings(reminder_sent, booking_date)`,
		`CREATE INDEX IF NOT EXISTS idx_booking_services_booking ON booking_services(booking_id)`,
		`CREATE INDEX IF NOT EXISTS idx_services_active ON services(active)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_approved ON reviews(approved)`,
	}

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("exec migration %s: %w", trimSQL(q), err)
		}
	}
	return nil
}

func trimSQL(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 60 {
		return s[:60] + "..."
	}
	return s
}

func (db *DB) Close() error {
	return db.DB.Close()
}
