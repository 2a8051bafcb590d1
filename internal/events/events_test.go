package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDeliversToSubscribers(t *testing.T) {
	bus := NewBus()

	var got []Event
	bus.Subscribe(TypeBookingCreated, func(e Event) error {
		got = append(got, e)
		return nil
	})
	bus.Subscribe(TypeBookingCreated, func(e Event) error {
		got = append(got, e)
		return nil
	})

	bus.Publish(TypeBookingCreated, BookingEvent{BookingID: "b1", Status: "confirmed"})

	require.Len(t, got, 2)
	assert.Equal(t, TypeBookingCreated, got[0].Type)
	payload, ok := got[0].Payload.(BookingEvent)
	require.True(t, ok)
	assert.Equal(t, "b1", payload.BookingID)
	assert.False(t, got[0].CreatedAt.IsZero())
}

func TestBusIgnoresOtherEventTypes(t *testing.T) {
	bus := NewBus()

	calls := 0
	bus.Subscribe(TypeSlotsGenerated, func(Event) error {
		calls++
		return nil
	})

	bus.Publish(TypeSlotsBlocked, SlotsEvent{Count: 3})
	assert.Zero(t, calls)

	bus.Publish(TypeSlotsGenerated, SlotsEvent{Count: 3})
	assert.Equal(t, 1, calls)
}
