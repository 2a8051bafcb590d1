package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindOrCreateCustomer(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	created, err := db.FindOrCreateCustomer(ctx, "Maria Silva", "+5511999990001", "maria@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	// Same phone returns the existing record untouched, even when the
	// caller passes a different name.
	found, err := db.FindOrCreateCustomer(ctx, "M. Silva", "+5511999990001", "")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "Maria Silva", found.Name)
	assert.Equal(t, "maria@example.com", found.Email)

	other, err := db.FindOrCreateCustomer(ctx, "João Souza", "+5511999990002", "")
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, other.ID)
}

func TestGetCustomersByIDs(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	a, err := db.FindOrCreateCustomer(ctx, "Maria Silva", "+5511999990001", "")
	require.NoError(t, err)
	b, err := db.FindOrCreateCustomer(ctx, "João Souza", "+5511999990002", "")
	require.NoError(t, err)

	customers, err := db.GetCustomersByIDs(ctx, []string{a.ID, b.ID, a.ID, "missing"})
	require.NoError(t, err)
	require.Len(t, customers, 2)
	assert.Equal(t, "Maria Silva", customers[a.ID].Name)
	assert.Equal(t, "João Souza", customers[b.ID].Name)

	empty, err := db.GetCustomersByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
