package reminders

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/database"
	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/models"
)

type captureNotifier struct {
	mu       sync.Mutex
	notified []string // booking ids
	fail     map[string]bool
}

func (n *captureNotifier) Notify(_ context.Context, _ models.Customer, booking models.Booking) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail[booking.ID] {
		return assert.AnError
	}
	n.notified = append(n.notified, booking.ID)
	return nil
}

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	logger := zerolog.Nop()
	db, err := database.New(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createBooking(t *testing.T, db *database.DB, date, status string) *models.Booking {
	t.Helper()
	ctx := context.Background()

	customer, err := db.FindOrCreateCustomer(ctx, "Maria Silva", "+5511999990001", "")
	require.NoError(t, err)

	now := time.Now()
	booking := &models.Booking{
		ID:          uuid.NewString(),
		CustomerID:  customer.ID,
		BookingDate: date,
		BookingTime: "09:00",
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	_, err = db.CreateBooking(ctx, booking, nil)
	require.NoError(t, err)
	return booking
}

func TestProcessDailyReminders(t *testing.T) {
	db := newTestDB(t)
	logger := zerolog.Nop()
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	dayAfter := time.Now().AddDate(0, 0, 2).Format("2006-01-02")

	due := createBooking(t, db, tomorrow, models.BookingStatusConfirmed)
	createBooking(t, db, tomorrow, models.BookingStatusCancelled)
	createBooking(t, db, dayAfter, models.BookingStatusConfirmed)

	notifier := &captureNotifier{}
	scheduler := NewScheduler(SchedulerConfig{DailyHour: 9}, db, notifier, &logger)

	scheduler.ProcessDailyReminders(context.Background())

	assert.Equal(t, []string{due.ID}, notifier.notified)

	// A second pass finds nothing: the booking is marked sent.
	notifier.notified = nil
	scheduler.ProcessDailyReminders(context.Background())
	assert.Empty(t, notifier.notified)
}

func TestProcessDailyRemindersRetriesFailures(t *testing.T) {
	db := newTestDB(t)
	logger := zerolog.Nop()
	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	booking := createBooking(t, db, tomorrow, models.BookingStatusConfirmed)

	notifier := &captureNotifier{fail: map[string]bool{booking.ID: true}}
	scheduler := NewScheduler(SchedulerConfig{DailyHour: 9}, db, notifier, &logger)

	scheduler.ProcessDailyReminders(context.Background())
	assert.Empty(t, notifier.notified)

	// Delivery failure leaves reminder_sent unset, so the booking is
	// picked up again on the next run.
	notifier.fail = nil
	scheduler.ProcessDailyReminders(context.Background())
	assert.Equal(t, []string{booking.ID}, notifier.notified)
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(10, 2)

	assert.True(t, limiter.TryAcquire())
	assert.True(t, limiter.TryAcquire())
	assert.False(t, limiter.TryAcquire(), "burst exhausted")

	// Wait refills within the context deadline.
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, limiter.Wait(ctx))
}

func TestRateLimiterCancelledContext(t *testing.T) {
	limiter := NewRateLimiter(0.001, 1)
	require.True(t, limiter.TryAcquire())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, limiter.Wait(ctx))
}
