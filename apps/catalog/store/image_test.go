package store

import (
	"context"
	"strconv"
	"testing"

	"go-modelsdemo/apps/catalog/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func primaryImages(t *testing.T, s *Store, productID uint) []uint {
	t.Helper()
	images, _, err := s.ListImages(context.Background(), ListOptions{Filters: map[string]string{
		"product_id": strconv.FormatUint(uint64(productID), 10),
		"is_primary": "true",
	}})
	require.NoError(t, err)
	ids := make([]uint, 0, len(images))
	for _, img := range images {
		ids = append(ids, img.ID)
	}
	return ids
}

func TestSaveImageKeepsSinglePrimary(t *testing.T) {
	pub := &recordingPublisher{}
	s := newTestStore(t, WithPublisher(pub))
	ctx := context.Background()
	books := seedCategory(t, s, "Books", true)
	p := seedProduct(t, s, books, "Novel", "10.00", model.ProductPublished)

	first := &model.ProductImage{ProductID: p.ID, Image: "products/a.jpg", IsPrimary: true}
	require.NoError(t, s.SaveImage(ctx, first))
	second := &model.ProductImage{ProductID: p.ID, Image: "products/b.jpg", IsPrimary: true, Order: 1}
	require.NoError(t, s.SaveImage(ctx, second))

	assert.Equal(t, []uint{second.ID}, primaryImages(t, s, p.ID))

	// promoting the first one again demotes the second
	require.NoError(t, s.SaveImage(ctx, first))
	assert.Equal(t, []uint{first.ID}, primaryImages(t, s, p.ID))

	// a non-primary save leaves the primary alone
	third := &model.ProductImage{ProductID: p.ID, Image: "products/c.jpg"}
	require.NoError(t, s.SaveImage(ctx, third))
	assert.Equal(t, []uint{first.ID}, primaryImages(t, s, p.ID))

	assert.Equal(t, []string{EventPrimaryImage, EventPrimaryImage, EventPrimaryImage}, pub.Keys())

	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Images, 3)
	assert.Equal(t, first.ID, got.Images[0].ID, "ordered by order, then created_at")
	assert.Equal(t, third.ID, got.Images[1].ID)
	assert.Equal(t, second.ID, got.Images[2].ID)
}

func TestSaveImageErrors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.SaveImage(ctx, &model.ProductImage{ProductID: 42, Image: "x.jpg", IsPrimary: true})
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.SaveImage(ctx, &model.ProductImage{ProductID: 42})
	assert.ErrorIs(t, err, ErrInvalid)

	assert.ErrorIs(t, s.DeleteImage(ctx, 42), ErrNotFound)
}
