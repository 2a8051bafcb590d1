package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Seed(ctx))

	salon, err := db.GetSalon(ctx)
	require.NoError(t, err)
	require.NotNil(t, salon)
	assert.Equal(t, "Centro Terapêutico", salon.Name)
	assert.True(t, salon.Active)

	services, err := db.GetServices(ctx)
	require.NoError(t, err)
	require.Len(t, services, 3)

	byName := make(map[string]float64, len(services))
	for _, s := range services {
		byName[s.Name] = s.Price
	}
	assert.Equal(t, 120.0, byName["Massagem Relaxante"])
	assert.Equal(t, 80.0, byName["Reflexologia"])
	assert.Equal(t, 150.0, byName["Acupuntura"])

	hours, err := db.ListWorkingHours(ctx)
	require.NoError(t, err)
	require.Len(t, hours, 7)
	assert.False(t, hours[0].IsOpen) // Sunday
	assert.True(t, hours[1].IsOpen)
	assert.Equal(t, "08:00", hours[1].OpenTime)
	assert.Equal(t, 30, hours[1].SlotDuration)
}

func TestSeedIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Seed(ctx))
	require.NoError(t, db.Seed(ctx))

	services, err := db.GetServices(ctx)
	require.NoError(t, err)
	assert.Len(t, services, 3)
}

func TestSeedKeepsExistingData(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Seed(ctx))

	services, err := db.GetServices(ctx)
	require.NoError(t, err)
	edited := services[0]
	edited.Price = 999
	updated, err := db.UpdateService(ctx, services[0].ID, edited)
	require.NoError(t, err)
	require.NotNil(t, updated)

	// A second seed must not restore the original price.
	require.NoError(t, db.Seed(ctx))
	after, err := db.GetServicesByIDs(ctx, []string{services[0].ID})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, 999.0, after[0].Price)
}
