package main

import (
	"context"
	"testing"

	"go-modelsdemo/apps/catalog/store"
	"go-modelsdemo/pkg/config"
	"go-modelsdemo/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed(t *testing.T) {
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite"})
	require.NoError(t, err)
	st := store.New(db)
	require.NoError(t, st.Migrate())

	ctx := context.Background()
	require.NoError(t, seed(ctx, st))

	d, err := st.Dashboard(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, d.TotalCategories)
	assert.EqualValues(t, 4, d.TotalProducts)
	assert.EqualValues(t, 2, d.TotalReviews)
	assert.EqualValues(t, 1, d.TotalOrders)
	assert.Len(t, d.Featured, 2)

	orders, err := st.ListOrders(ctx, store.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "51.00", orders[0].TotalAmount.StringFixed(2))

	// seeding twice collides on unique names
	assert.ErrorIs(t, seed(ctx, st), store.ErrConflict)
}

func TestCreateUserCommand(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"create-user", "admin"})
	assert.Error(t, cmd.Execute(), "password flag is required")
}
