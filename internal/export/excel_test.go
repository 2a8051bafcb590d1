package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nexla-ia/Centro-Terap-utico-Bem-Estar/internal/models"
)

func TestBookingsReport(t *testing.T) {
	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	bookings := []models.Booking{
		{
			ID:                   "b1",
			BookingDate:          "2025-06-02",
			BookingTime:          "09:00",
			Status:               models.BookingStatusConfirmed,
			TotalPrice:           200,
			TotalDurationMinutes: 105,
			CreatedAt:            created,
			Customer:             &models.Customer{Name: "Maria Silva", Phone: "+5511999990001"},
			Services: []models.BookingService{
				{Service: &models.Service{Name: "Massagem Relaxante"}},
				{Service: &models.Service{Name: "Reflexologia"}},
			},
		},
		{
			ID:          "b2",
			BookingDate: "2025-06-02",
			BookingTime: "10:00",
			Status:      models.BookingStatusCancelled,
			TotalPrice:  80,
			CreatedAt:   created,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, BookingsReport(&buf, bookings))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bookings")
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 bookings

	assert.Equal(t, "Date", rows[0][0])
	assert.Equal(t, "2025-06-02", rows[1][0])
	assert.Equal(t, "09:00", rows[1][1])
	assert.Equal(t, "Maria Silva", rows[1][2])
	assert.Equal(t, "Massagem Relaxante, Reflexologia", rows[1][4])

	// Booking without customer or services still renders.
	assert.Equal(t, "10:00", rows[2][1])
	assert.Equal(t, models.BookingStatusCancelled, rows[2][5])
}

func TestBookingsReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, BookingsReport(&buf, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bookings")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
