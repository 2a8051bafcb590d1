// Package reminders sends next-day appointment reminders to customers
// with confirmed bookings.
package reminders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/database"
	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/models"
)

// Notifier delivers one reminder message to a customer.
type Notifier interface {
	Notify(ctx context.Context, customer models.Customer, booking models.Booking) error
}

// LogNotifier writes reminders to the log. It stands in until a real
// delivery channel (WhatsApp, SMS) is integrated.
type LogNotifier struct {
	Logger *zerolog.Logger
}

func (n *LogNotifier) Notify(ctx context.Context, customer models.Customer, booking models.Booking) error {
	n.Logger.Info().
		Str("customer", customer.Name).
		Str("phone", customer.Phone).
		Str("date", booking.BookingDate).
		Str("time", booking.BookingTime).
		Msg("appointment reminder")
	return nil
}

// SchedulerConfig holds the daily run time.
type SchedulerConfig struct {
	DailyHour     int
	DailyMinute   int
	CheckInterval time.Duration
}

// Scheduler runs the daily reminder pass. Once per day at the
// configured time it fetches tomorrow's confirmed bookings that have
// not been reminded yet and notifies each customer.
type Scheduler struct {
	config      SchedulerConfig
	db          *database.DB
	notifier    Notifier
	limiter     *RateLimiter
	logger      *zerolog.Logger
	mu          sync.Mutex
	lastRunDate string
}

// NewScheduler creates the reminder scheduler.
func NewScheduler(config SchedulerConfig, db *database.DB, notifier Notifier, logger *zerolog.Logger) *Scheduler {
	if config.CheckInterval <= 0 {
		config.CheckInterval = time.Minute
	}
	return &Scheduler{
		config:   config,
		db:       db,
		notifier: notifier,
		limiter:  NewRateLimiter(5, 10),
		logger:   logger,
	}
}

// Start runs the scheduler loop until the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info().
		Str("daily_time", fmt.Sprintf("%02d:%02d", s.config.DailyHour, s.config.DailyMinute)).
		Msg("reminder scheduler started")

	ticker := time.NewTicker(s.config.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("reminder scheduler stopped")
			return
		case <-ticker.C:
			s.checkAndRun(ctx)
		}
	}
}

func (s *Scheduler) checkAndRun(ctx context.Context) {
	now := time.Now()
	today := now.Format("2006-01-02")

	s.mu.Lock()
	alreadyRan := s.lastRunDate == today
	s.mu.Unlock()

	if alreadyRan {
		return
	}
	if now.Hour() != s.config.DailyHour || now.Minute() != s.config.DailyMinute {
		return
	}

	s.mu.Lock()
	s.lastRunDate = today
	s.mu.Unlock()

	s.ProcessDailyReminders(ctx)
}

// ProcessDailyReminders notifies every customer with a confirmed
// booking tomorrow that has not yet received a reminder. Each booking
// is marked sent only after successful delivery, so failures retry on
// the next run.
func (s *Scheduler) ProcessDailyReminders(ctx context.Context) {
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	bookings, err := s.db.ListBookingsForReminder(ctx, tomorrow)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch bookings for reminders")
		return
	}
	if len(bookings) == 0 {
		return
	}

	customerIDs := make([]string, 0, len(bookings))
	for _, b := range bookings {
		customerIDs = append(customerIDs, b.CustomerID)
	}
	customers, err := s.db.GetCustomersByIDs(ctx, customerIDs)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to resolve reminder customers")
		return
	}

	sent, failed := 0, 0
	for _, b := range bookings {
		customer, ok := customers[b.CustomerID]
		if !ok {
			continue
		}

		if err := s.limiter.Wait(ctx); err != nil {
			return
		}

		if err := s.notifier.Notify(ctx, customer, b); err != nil {
			s.logger.Error().Err(err).Str("booking_id", b.ID).Msg("reminder delivery failed")
			failed++
			continue
		}
		if err := s.db.MarkReminderSent(ctx, b.ID); err != nil {
			s.logger.Error().Err(err).Str("booking_id", b.ID).Msg("failed to mark reminder sent")
		}
		sent++
	}

	s.logger.Info().
		Str("date", tomorrow).
		Int("sent", sent).
		Int("failed", failed).
		Msg("daily reminder pass completed")
}
