package scheduling

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/database"
	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/events"
	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/metrics"
	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/models"
)

// Engine coordinates the slot store and the booking collection. Every
// composite operation runs under a single mutex so that two concurrent
// booking attempts for the same (date, time) cannot both observe the
// slot as available.
type Engine struct {
	db     *database.DB
	bus    *events.Bus
	logger *zerolog.Logger
	mu     sync.Mutex
}

// CustomerInfo identifies the customer on a booking request. Phone is
// the deduplication key.
type CustomerInfo struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// CreateBookingRequest carries the input of CreateBooking.
type CreateBookingRequest struct {
	Customer   CustomerInfo `json:"customer"`
	Date       string       `json:"date"`
	Time       string       `json:"time"`
	ServiceIDs []string     `json:"service_ids"`
	Notes      string       `json:"notes,omitempty"`
}

// NewEngine creates the scheduling engine.
func NewEngine(db *database.DB, bus *events.Bus, logger *zerolog.Logger) *Engine {
	return &Engine{db: db, bus: bus, logger: logger}
}

// GenerateSlots walks each calendar date from startDate to endDate
// inclusive and fills in the missing available slots from the default
// schedule. Sundays are skipped entirely. Existing slots at a grid
// position are left untouched, so generation is idempotent and
// additive; it never deletes or downgrades a blocked or booked slot.
// Returns the number of slots created.
func (e *Engine) GenerateSlots(ctx context.Context, startDate, endDate string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	dates, err := datesInRange(startDate, endDate)
	if err != nil {
		return 0, err
	}

	sched, err := e.db.GetDefaultSchedule(ctx)
	if err != nil {
		return 0, fmt.Errorf("load default schedule: %w", err)
	}

	grid, err := GridTimes(sched)
	if err != nil {
		return 0, fmt.Errorf("build slot grid: %w", err)
	}

	created := 0
	for _, d := range dates {
		// The center never opens on Sundays, regardless of the
		// template's own is_open flag.
		if d.Weekday() == time.Sunday {
			continue
		}

		dateStr := d.Format("2006-01-02")
		for _, t := range grid {
			inserted, err := e.db.InsertSlotIfAbsent(ctx, dateStr, t)
			if err != nil {
				return created, err
			}
			if inserted {
				created++
			}
		}
	}

	e.logger.Info().
		Str("start", startDate).
		Str("end", endDate).
		Int("created", created).
		Msg("slot generation completed")
	metrics.AddSlotsGenerated(created)
	e.bus.Publish(events.TypeSlotsGenerated, events.SlotsEvent{
		StartDate: startDate, EndDate: endDate, Count: created,
	})
	return created, nil
}

// FindSlot returns the slot at (date, time), or nil when absent.
func (e *Engine) FindSlot(ctx context.Context, date, timeSlot string) (*models.Slot, error) {
	return e.db.FindSlot(ctx, date, timeSlot)
}

// GetAvailableSlots returns the date's available slots sorted by time.
func (e *Engine) GetAvailableSlots(ctx context.Context, date string) ([]models.Slot, error) {
	return e.db.GetAvailableSlots(ctx, date)
}

// GetAllSlots returns all of the date's slots sorted by time.
func (e *Engine) GetAllSlots(ctx context.Context, date string) ([]models.Slot, error) {
	return e.db.GetAllSlots(ctx, date)
}

// UpdateSlot merges the given fields into the slot; unknown ids are a
// silent no-op.
func (e *Engine) UpdateSlot(ctx context.Context, id string, upd database.SlotUpdate) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.db.UpdateSlot(ctx, id, upd)
}

// SaveBlockedSlots blocks the given times on a date with a reason.
// Existing slots keep their identity and creation timestamp.
func (e *Engine) SaveBlockedSlots(ctx context.Context, date string, times []string, reason string) error {
	if err := models.ValidateDate(date); err != nil {
		return err
	}
	for _, t := range times {
		if err := models.ValidateClock(t); err != nil {
			return err
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.db.SaveBlockedSlots(ctx, date, times, reason); err != nil {
		return err
	}

	e.logger.Info().Str("date", date).Int("count", len(times)).Str("reason", reason).Msg("slots blocked")
	metrics.AddSlotsBlocked(len(times))
	e.bus.Publish(events.TypeSlotsBlocked, events.SlotsEvent{
		StartDate: date, EndDate: date, Count: len(times),
	})
	return nil
}

// DeleteAllSlots clears future availability: every slot that is not
// booked is removed, booked slots survive untouched.
func (e *Engine) DeleteAllSlots(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	deleted, err := e.db.DeleteAllSlots(ctx)
	if err != nil {
		return err
	}
	e.logger.Info().Int64("deleted", deleted).Msg("slot store reset")
	return nil
}

// GetDefaultSchedule returns the effective generation schedule.
func (e *Engine) GetDefaultSchedule(ctx context.Context) (models.DefaultSchedule, error) {
	return e.db.GetDefaultSchedule(ctx)
}

// SaveDefaultSchedule validates and persists the schedule into all
// seven weekday entries, Sunday forced closed.
func (e *Engine) SaveDefaultSchedule(ctx context.Context, sched models.DefaultSchedule) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.db.SaveDefaultSchedule(ctx, sched)
}

// CreateBooking creates a booking for the requested date/time.
//
// The customer is resolved or created by phone number. Unknown service
// ids are silently dropped; a service id requested twice is billed
// twice. The price/duration totals cover exactly the resolved line
// items, snapshotting each price. The booking is created pre-confirmed.
//
// Slot linkage is best-effort: when no slot exists at (date, time) the
// booking is still created without linkage, so booking intake never
// depends on the grid having been generated. A slot that exists but is
// blocked or already booked rejects the request with
// database.ErrSlotUnavailable. The booking insert and the slot
// reservation commit in one transaction, so a rejected reservation
// leaves no booking behind.
func (e *Engine) CreateBooking(ctx context.Context, req CreateBookingRequest) (*models.Booking, error) {
	if err := models.ValidateDate(req.Date); err != nil {
		return nil, err
	}
	if err := models.ValidateClock(req.Time); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	slot, err := e.db.FindSlot(ctx, req.Date, req.Time)
	if err != nil {
		return nil, fmt.Errorf("find slot: %w", err)
	}
	if slot != nil && slot.Status != models.SlotStatusAvailable {
		return nil, database.ErrSlotUnavailable
	}

	customer, err := e.db.FindOrCreateCustomer(ctx, req.Customer.Name, req.Customer.Phone, req.Customer.Email)
	if err != nil {
		return nil, fmt.Errorf("resolve customer: %w", err)
	}

	services, err := e.db.GetServicesByIDs(ctx, req.ServiceIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve services: %w", err)
	}
	serviceByID := make(map[string]models.Service, len(services))
	for _, s := range services {
		serviceByID[s.ID] = s
	}

	// Resolve per requested id so a service booked twice is billed
	// twice.
	resolved := make([]models.Service, 0, len(req.ServiceIDs))
	var totalPrice float64
	var totalDuration int
	for _, id := range req.ServiceIDs {
		s, ok := serviceByID[id]
		if !ok {
			continue
		}
		resolved = append(resolved, s)
		totalPrice += s.Price
		totalDuration += s.DurationMinutes
	}

	now := time.Now()
	booking := &models.Booking{
		ID:                   uuid.NewString(),
		CustomerID:           customer.ID,
		BookingDate:          req.Date,
		BookingTime:          req.Time,
		Status:               models.BookingStatusConfirmed,
		TotalPrice:           totalPrice,
		TotalDurationMinutes: totalDuration,
		Notes:                req.Notes,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	items := make([]models.BookingService, 0, len(resolved))
	for i := range resolved {
		items = append(items, models.BookingService{
			ID:        uuid.NewString(),
			BookingID: booking.ID,
			ServiceID: resolved[i].ID,
			Price:     resolved[i].Price,
			CreatedAt: now,
			Service:   &resolved[i],
		})
	}

	linked, err := e.db.CreateBooking(ctx, booking, items)
	if err != nil {
		return nil, err
	}
	if !linked {
		e.logger.Warn().
			Str("date", req.Date).
			Str("time", req.Time).
			Str("booking_id", booking.ID).
			Msg("no slot at requested time; booking created without slot linkage")
	}

	booking.Customer = customer
	booking.Services = items

	e.logger.Info().
		Str("booking_id", booking.ID).
		Str("date", req.Date).
		Str("time", req.Time).
		Float64("total_price", totalPrice).
		Msg("booking created")
	metrics.IncBookingCreated(booking.Status)
	e.bus.Publish(events.TypeBookingCreated, events.BookingEvent{
		BookingID: booking.ID, Date: req.Date, Time: req.Time, Status: booking.Status,
	})
	return booking, nil
}

// GetBookings returns bookings, optionally filtered to one date,
// sorted by date then time ascending. Each booking is enriched with
// its customer and its line items, each line item with its service.
// The joins run against read-only snapshots of the customer and
// service collections.
func (e *Engine) GetBookings(ctx context.Context, date string) ([]models.Booking, error) {
	if date != "" {
		if err := models.ValidateDate(date); err != nil {
			return nil, err
		}
	}

	bookings, err := e.db.ListBookings(ctx, date)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return bookings, nil
	}

	customerIDs := make([]string, 0, len(bookings))
	bookingIDs := make([]string, 0, len(bookings))
	for _, b := range bookings {
		customerIDs = append(customerIDs, b.CustomerID)
		bookingIDs = append(bookingIDs, b.ID)
	}

	customers, err := e.db.GetCustomersByIDs(ctx, customerIDs)
	if err != nil {
		return nil, err
	}

	items, err := e.db.ListBookingServices(ctx, bookingIDs)
	if err != nil {
		return nil, err
	}

	serviceIDs := make([]string, 0, len(items))
	for _, it := range items {
		serviceIDs = append(serviceIDs, it.ServiceID)
	}
	services, err := e.db.GetServicesByIDs(ctx, serviceIDs)
	if err != nil {
		return nil, err
	}
	serviceByID := make(map[string]models.Service, len(services))
	for _, s := range services {
		serviceByID[s.ID] = s
	}

	itemsByBooking := make(map[string][]models.BookingService, len(bookings))
	for _, it := range items {
		if svc, ok := serviceByID[it.ServiceID]; ok {
			s := svc
			it.Service = &s
		}
		itemsByBooking[it.BookingID] = append(itemsByBooking[it.BookingID], it)
	}

	for i := range bookings {
		if c, ok := customers[bookings[i].CustomerID]; ok {
			customer := c
			bookings[i].Customer = &customer
		}
		bookings[i].Services = itemsByBooking[bookings[i].ID]
	}

	return bookings, nil
}

// UpdateBookingStatus transitions the booking to the given status.
// Completed and no-show bookings free their reserved slot back to
// available with the booking link cleared; every other transition,
// including cancellation, leaves the slot untouched. Unknown ids
// return (nil, nil).
func (e *Engine) UpdateBookingStatus(ctx context.Context, id, status string) (*models.Booking, error) {
	if !models.ValidBookingStatus(status) {
		return nil, fmt.Errorf("unknown booking status %q", status)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	updated, err := e.db.UpdateBookingStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, nil
	}

	if models.ReleasesSlot(status) {
		if err := e.db.ReleaseSlotByBooking(ctx, id); err != nil {
			return nil, err
		}
	}

	booking, err := e.db.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	e.logger.Info().Str("booking_id", id).Str("status", status).Msg("booking status updated")
	metrics.IncBookingTransition(status)
	e.bus.Publish(events.TypeBookingStatusChanged, events.BookingEvent{
		BookingID: id, Date: booking.BookingDate, Time: booking.BookingTime, Status: status,
	})
	return booking, nil
}
