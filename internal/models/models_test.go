package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateClock(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid morning", "08:00", false},
		{"valid afternoon", "13:30", false},
		{"valid midnight", "00:00", false},
		{"valid last minute", "23:59", false},
		{"missing zero padding", "8:00", true},
		{"hour out of range", "24:00", true},
		{"minute out of range", "12:60", true},
		{"no colon", "0800", true},
		{"with seconds", "08:00:00", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateClock(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, ValidateDate("2025-06-15"))
	assert.Error(t, ValidateDate("15-06-2025"))
	assert.Error(t, ValidateDate("2025-13-01"))
	assert.Error(t, ValidateDate(""))
}

func TestValidBookingStatus(t *testing.T) {
	for _, s := range []string{
		BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled,
		BookingStatusCompleted, BookingStatusNoShow,
	} {
		assert.True(t, ValidBookingStatus(s), s)
	}
	assert.False(t, ValidBookingStatus("done"))
	assert.False(t, ValidBookingStatus(""))
}

func TestReleasesSlot(t *testing.T) {
	assert.True(t, ReleasesSlot(BookingStatusCompleted))
	assert.True(t, ReleasesSlot(BookingStatusNoShow))

	// Cancellation keeps the slot reserved until staff frees it.
	assert.False(t, ReleasesSlot(BookingStatusCancelled))
	assert.False(t, ReleasesSlot(BookingStatusConfirmed))
	assert.False(t, ReleasesSlot(BookingStatusPending))
}

func TestDefaultScheduleValidate(t *testing.T) {
	valid := DefaultSchedule{
		OpenTime:     "08:00",
		CloseTime:    "18:00",
		SlotDuration: 30,
		BreakStart:   "12:00",
		BreakEnd:     "13:00",
	}
	assert.NoError(t, valid.Validate())

	noBreak := DefaultSchedule{OpenTime: "08:00", CloseTime: "18:00", SlotDuration: 30}
	assert.NoError(t, noBreak.Validate())
	assert.False(t, noBreak.HasBreak())

	tests := []struct {
		name  string
		sched DefaultSchedule
	}{
		{"open after close", DefaultSchedule{OpenTime: "18:00", CloseTime: "08:00", SlotDuration: 30}},
		{"open equals close", DefaultSchedule{OpenTime: "08:00", CloseTime: "08:00", SlotDuration: 30}},
		{"zero duration", DefaultSchedule{OpenTime: "08:00", CloseTime: "18:00", SlotDuration: 0}},
		{"negative duration", DefaultSchedule{OpenTime: "08:00", CloseTime: "18:00", SlotDuration: -15}},
		{"break start only", DefaultSchedule{OpenTime: "08:00", CloseTime: "18:00", SlotDuration: 30, BreakStart: "12:00"}},
		{"break inverted", DefaultSchedule{OpenTime: "08:00", CloseTime: "18:00", SlotDuration: 30, BreakStart: "13:00", BreakEnd: "12:00"}},
		{"unpadded open time", DefaultSchedule{OpenTime: "8:00", CloseTime: "18:00", SlotDuration: 30}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.sched.Validate())
		})
	}
}
