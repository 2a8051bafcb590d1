// Package models defines the persisted records of the scheduling service.
package models

import (
	"fmt"
	"time"
)

// Booking statuses.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
	BookingStatusNoShow    = "no_show"
)

// Slot statuses.
const (
	SlotStatusAvailable = "available"
	SlotStatusBlocked   = "blocked"
	SlotStatusBooked    = "booked"
)

// Service is a bookable service from the catalog.
type Service struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Price           float64   `json:"price"`
	DurationMinutes int       `json:"duration_minutes"`
	Category        string    `json:"category"`
	Active          bool      `json:"active"`
	Popular         bool      `json:"popular"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Customer is a client record. Phone is the natural key used for
// deduplication on booking creation.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Booking is a customer's reservation of services at a date/time.
// BookingDate/BookingTime are copies of the reserved slot's values, so
// history survives later slot changes.
type Booking struct {
	ID                   string    `json:"id"`
	CustomerID           string    `json:"customer_id"`
	BookingDate          string    `json:"booking_date"` // YYYY-MM-DD
	BookingTime          string    `json:"booking_time"` // HH:MM
	Status               string    `json:"status"`
	TotalPrice           float64   `json:"total_price"`
	TotalDurationMinutes int       `json:"total_duration_minutes"`
	Notes                string    `json:"notes,omitempty"`
	ReminderSent         bool      `json:"reminder_sent"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`

	// Populated by the booking engine on reads.
	Customer *Customer        `json:"customer,omitempty"`
	Services []BookingService `json:"booking_services,omitempty"`
}

// BookingService is one line item of a booking. Price is a snapshot
// taken at booking time; later service price changes do not touch it.
type BookingService struct {
	ID        string    `json:"id"`
	BookingID string    `json:"booking_id"`
	ServiceID string    `json:"service_id"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`

	Service *Service `json:"service,omitempty"`
}

// Slot is one bookable unit of time on a specific date.
type Slot struct {
	ID            string    `json:"id"`
	Date          string    `json:"date"`      // YYYY-MM-DD
	TimeSlot      string    `json:"time_slot"` // HH:MM
	Status        string    `json:"status"`
	BookingID     string    `json:"booking_id,omitempty"`
	BlockedReason string    `json:"blocked_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// WorkingHours is the weekly schedule template entry for one weekday
// (0=Sunday .. 6=Saturday).
type WorkingHours struct {
	ID           string    `json:"id"`
	DayOfWeek    int       `json:"day_of_week"`
	IsOpen       bool      `json:"is_open"`
	OpenTime     string    `json:"open_time,omitempty"`
	CloseTime    string    `json:"close_time,omitempty"`
	BreakStart   string    `json:"break_start,omitempty"`
	BreakEnd     string    `json:"break_end,omitempty"`
	SlotDuration int       `json:"slot_duration,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DefaultSchedule is the effective open/close/break/duration set used
// for slot generation, sourced from the Monday template entry.
type DefaultSchedule struct {
	OpenTime     string `json:"open_time"`
	CloseTime    string `json:"close_time"`
	SlotDuration int    `json:"slot_duration"`
	BreakStart   string `json:"break_start,omitempty"`
	BreakEnd     string `json:"break_end,omitempty"`
}

// Salon holds the center's profile record.
type Salon struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Address     string    `json:"address,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Instagram   string    `json:"instagram,omitempty"`
	Facebook    string    `json:"facebook,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Review is a customer review of the center.
type Review struct {
	ID                 string    `json:"id"`
	CustomerName       string    `json:"customer_name"`
	CustomerIdentifier string    `json:"customer_identifier"`
	Rating             int       `json:"rating"`
	Comment            string    `json:"comment"`
	Approved           bool      `json:"approved"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ValidBookingStatus reports whether s is a known booking status.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled,
		BookingStatusCompleted, BookingStatusNoShow:
		return true
	}
	return false
}

// ReleasesSlot reports whether transitioning a booking to status frees
// its reserved slot. Cancelled bookings keep their slot reserved; that
// mirrors the current product behavior and is asserted by tests.
func ReleasesSlot(status string) bool {
	return status == BookingStatusCompleted || status == BookingStatusNoShow
}

// ValidateClock checks a zero-padded 24h "HH:MM" string. Slot ordering
// relies on lexicographic comparison of these strings, so fixed width
// is enforced, not just parseability.
func ValidateClock(s string) error {
	if len(s) != 5 || s[2] != ':' {
		return fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	if _, err := time.Parse("15:04", s); err != nil {
		return fmt.Errorf("invalid time %q: %w", s, err)
	}
	return nil
}

// ValidateDate checks a "YYYY-MM-DD" calendar date string.
func ValidateDate(s string) error {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return nil
}

// Validate checks the template values used for slot generation.
func (s DefaultSchedule) Validate() error {
	if err := ValidateClock(s.OpenTime); err != nil {
		return fmt.Errorf("open_time: %w", err)
	}
	if err := ValidateClock(s.CloseTime); err != nil {
		return fmt.Errorf("close_time: %w", err)
	}
	if s.OpenTime >= s.CloseTime {
		return fmt.Errorf("open_time %s must be before close_time %s", s.OpenTime, s.CloseTime)
	}
	if s.SlotDuration <= 0 {
		return fmt.Errorf("slot_duration must be positive, got %d", s.SlotDuration)
	}
	if (s.BreakStart == "") != (s.BreakEnd == "") {
		return fmt.Errorf("break_start and break_end must be set together")
	}
	if s.BreakStart != "" {
		if err := ValidateClock(s.BreakStart); err != nil {
			return fmt.Errorf("break_start: %w", err)
		}
		if err := ValidateClock(s.BreakEnd); err != nil {
			return fmt.Errorf("break_end: %w", err)
		}
		if s.BreakStart >= s.BreakEnd {
			return fmt.Errorf("break_start %s must be before break_end %s", s.BreakStart, s.BreakEnd)
		}
	}
	return nil
}

// HasBreak reports whether the schedule defines a break window.
func (s DefaultSchedule) HasBreak() bool {
	return s.BreakStart != "" && s.BreakEnd != ""
}
