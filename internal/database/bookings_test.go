package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/models"
)

func makeBooking(customerID, date, timeSlot string) *models.Booking {
	now := time.Now()
	return &models.Booking{
		ID:          uuid.NewString(),
		CustomerID:  customerID,
		BookingDate: date,
		BookingTime: timeSlot,
		Status:      models.BookingStatusConfirmed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestCreateBookingReservesSlotAtomically(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	customer, err := db.FindOrCreateCustomer(ctx, "Maria Silva", "+5511999990001", "")
	require.NoError(t, err)

	svc := models.Service{Name: "Massagem Relaxante", Price: 120, DurationMinutes: 60, Active: true}
	require.NoError(t, db.CreateService(ctx, &svc))

	_, err = db.InsertSlotIfAbsent(ctx, "2025-06-02", "09:00")
	require.NoError(t, err)

	t.Run("reserves the available slot", func(t *testing.T) {
		b := makeBooking(customer.ID, "2025-06-02", "09:00")
		linked, err := db.CreateBooking(ctx, b, nil)
		require.NoError(t, err)
		assert.True(t, linked)

		slot, err := db.FindSlot(ctx, "2025-06-02", "09:00")
		require.NoError(t, err)
		assert.Equal(t, models.SlotStatusBooked, slot.Status)
		assert.Equal(t, b.ID, slot.BookingID)
	})

	t.Run("rolls the booking back when the slot is taken", func(t *testing.T) {
		b := makeBooking(customer.ID, "2025-06-02", "09:00")
		items := []models.BookingService{{
			ID:        uuid.NewString(),
			BookingID: b.ID,
			ServiceID: svc.ID,
			Price:     svc.Price,
			CreatedAt: time.Now(),
		}}

		_, err := db.CreateBooking(ctx, b, items)
		require.ErrorIs(t, err, ErrSlotUnavailable)

		// A failed reservation must not commit the booking or its
		// line items.
		stored, err := db.GetBooking(ctx, b.ID)
		require.NoError(t, err)
		assert.Nil(t, stored)

		orphans, err := db.ListBookingServices(ctx, []string{b.ID})
		require.NoError(t, err)
		assert.Empty(t, orphans)
	})

	t.Run("rolls the booking back when the slot is blocked", func(t *testing.T) {
		require.NoError(t, db.SaveBlockedSlots(ctx, "2025-06-02", []string{"09:30"}, "cleaning"))

		b := makeBooking(customer.ID, "2025-06-02", "09:30")
		_, err := db.CreateBooking(ctx, b, nil)
		require.ErrorIs(t, err, ErrSlotUnavailable)

		stored, err := db.GetBooking(ctx, b.ID)
		require.NoError(t, err)
		assert.Nil(t, stored)
	})

	t.Run("commits without linkage when no slot exists", func(t *testing.T) {
		b := makeBooking(customer.ID, "2025-06-02", "15:00")
		linked, err := db.CreateBooking(ctx, b, nil)
		require.NoError(t, err)
		assert.False(t, linked)

		stored, err := db.GetBooking(ctx, b.ID)
		require.NoError(t, err)
		require.NotNil(t, stored)
	})
}
