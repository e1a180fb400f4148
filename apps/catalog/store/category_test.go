package store

import (
	"context"
	"testing"

	"go-modelsdemo/apps/catalog/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActiveCategories(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	books := seedCategory(t, s, "Books", true)
	seedCategory(t, s, "Archive", false)
	art := seedCategory(t, s, "Art", true)
	seedProduct(t, s, books, "Novel", "10.00", model.ProductPublished)
	seedProduct(t, s, books, "Draft", "10.00", model.ProductDraft)

	rows, err := s.ActiveCategories(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, art.ID, rows[0].ID)
	assert.Zero(t, rows[0].ProductCount)
	assert.Equal(t, "Books", rows[1].Name)
	assert.EqualValues(t, 2, rows[1].ProductCount, "counts every product of the category")
}

func TestSaveCategory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	c := seedCategory(t, s, "Books", true)

	desc := "Printed matter"
	c.Description = &desc
	c.IsActive = false
	require.NoError(t, s.SaveCategory(ctx, c))

	got, err := s.GetCategory(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	require.NotNil(t, got.Description)
	assert.Equal(t, desc, *got.Description)

	assert.ErrorIs(t, s.SaveCategory(ctx, &model.Category{Name: "Books"}), ErrConflict)
	assert.ErrorIs(t, s.SaveCategory(ctx, &model.Category{}), ErrInvalid)

	items, total, err := s.ListCategories(ctx, ListOptions{Filters: map[string]string{"is_active": "false"}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, "Books", items[0].Name)
}

func TestDashboard(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	books := seedCategory(t, s, "Books", true)
	alice := seedUser(t, s, "alice", false)

	for i := 0; i < 7; i++ {
		p := seedProduct(t, s, books, "Book "+string(rune('A'+i)), "1.00", model.ProductPublished)
		if i%2 == 0 {
			p.IsFeatured = true
			require.NoError(t, s.SaveProduct(ctx, p))
		}
	}
	draft := seedProduct(t, s, books, "Draft", "1.00", model.ProductDraft)
	draft.IsFeatured = true
	require.NoError(t, s.SaveProduct(ctx, draft))

	top, err := s.ListPublishedProducts(ctx, ProductFilter{Search: "Book C"})
	require.NoError(t, err)
	require.Len(t, top, 1)
	seedReview(t, s, &top[0], alice, 5)
	seedOrder(t, s, alice)

	d, err := s.Dashboard(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, d.TotalCategories)
	assert.EqualValues(t, 8, d.TotalProducts)
	assert.EqualValues(t, 1, d.TotalReviews)
	assert.EqualValues(t, 1, d.TotalOrders)
	assert.Len(t, d.Featured, 4)
	assert.Len(t, d.Recent, DashboardListSize)
	assert.Equal(t, "Book G", d.Recent[0].Name)
	require.Len(t, d.TopRated, DashboardListSize)
	assert.Equal(t, "Book C", d.TopRated[0].Name)
	for _, p := range d.Featured {
		assert.True(t, p.IsPublished())
	}
}
