package store

import (
	"context"
	"errors"
	"testing"

	"go-modelsdemo/apps/catalog/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSaveProductDefaults(t *testing.T) {
	s := newTestStore(t)
	books := seedCategory(t, s, "Books", true)

	p := &model.Product{Name: "Novel", CategoryID: books.ID, Price: dec("10.00"), Rating: 3}
	require.NoError(t, s.SaveProduct(context.Background(), p))

	assert.NotZero(t, p.ID)
	assert.Equal(t, "novel", p.Slug)
	assert.Equal(t, model.ProductDraft, p.Status)
	assert.Zero(t, p.Rating, "rating is derived from reviews")
}

func TestSaveProductUpdateKeepsRating(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	books := seedCategory(t, s, "Books", true)
	p := seedProduct(t, s, books, "Novel", "10.00", model.ProductPublished)
	seedReview(t, s, p, seedUser(t, s, "alice", false), 4)

	p.Name = "Novel (2nd edition)"
	p.Rating = 1
	require.NoError(t, s.SaveProduct(ctx, p))
	assert.Equal(t, 4.0, p.Rating)

	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Novel (2nd edition)", got.Name)
	assert.Equal(t, "novel", got.Slug)
	assert.Equal(t, 4.0, got.Rating)
}

func TestSaveProductErrors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	books := seedCategory(t, s, "Books", true)
	seedProduct(t, s, books, "Novel", "10.00", model.ProductPublished)

	err := s.SaveProduct(ctx, &model.Product{Name: "Ghost", CategoryID: 999, Price: dec("1")})
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.SaveProduct(ctx, &model.Product{Name: "Negative", CategoryID: books.ID, Price: dec("-1")})
	assert.ErrorIs(t, err, ErrInvalid)

	err = s.SaveProduct(ctx, &model.Product{Name: "Bad status", CategoryID: books.ID, Price: dec("1"), Status: "sold"})
	assert.ErrorIs(t, err, ErrInvalid)

	err = s.SaveProduct(ctx, &model.Product{Name: "Novel", CategoryID: books.ID, Price: dec("1")})
	assert.ErrorIs(t, err, ErrConflict)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))

	err = s.SaveProduct(ctx, &model.Product{ID: 999, Name: "Missing", CategoryID: books.ID, Price: dec("1")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListPublishedProducts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	books := seedCategory(t, s, "Books", true)
	food := seedCategory(t, s, "Food", true)

	novel := seedProduct(t, s, books, "Novel", "10.00", model.ProductPublished)
	atlas := seedProduct(t, s, books, "Atlas", "30.00", model.ProductPublished)
	seedProduct(t, s, books, "Draft novel", "5.00", model.ProductDraft)
	cookbook := seedProduct(t, s, food, "Cookbook 100%", "20.00", model.ProductPublished)

	names := func(ps []model.Product) []string {
		out := make([]string, len(ps))
		for i, p := range ps {
			out[i] = p.Name
		}
		return out
	}

	all, err := s.ListPublishedProducts(ctx, ProductFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{cookbook.Name, atlas.Name, novel.Name}, names(all))
	require.NotNil(t, all[0].Category)
	assert.Equal(t, "Food", all[0].Category.Name)

	got, err := s.ListPublishedProducts(ctx, ProductFilter{Search: "NOV"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Novel"}, names(got))

	// description matches too
	got, err = s.ListPublishedProducts(ctx, ProductFilter{Search: "atlas desc"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Atlas"}, names(got))

	// wildcards are literal
	got, err = s.ListPublishedProducts(ctx, ProductFilter{Search: "%"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cookbook 100%"}, names(got))

	got, err = s.ListPublishedProducts(ctx, ProductFilter{CategoryID: &books.ID, Sort: SortPriceAsc})
	require.NoError(t, err)
	assert.Equal(t, []string{"Novel", "Atlas"}, names(got))

	lo, hi := dec("10"), dec("20")
	got, err = s.ListPublishedProducts(ctx, ProductFilter{MinPrice: &lo, MaxPrice: &hi, Sort: SortPriceDesc})
	require.NoError(t, err)
	assert.Equal(t, []string{"Cookbook 100%", "Novel"}, names(got))
}

func TestGetPublishedProductAndRelated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	books := seedCategory(t, s, "Books", true)
	food := seedCategory(t, s, "Food", true)

	novel := seedProduct(t, s, books, "Novel", "10.00", model.ProductPublished)
	draft := seedProduct(t, s, books, "Draft", "10.00", model.ProductDraft)
	for _, name := range []string{"A", "B", "C", "D", "E"} {
		seedProduct(t, s, books, name, "1.00", model.ProductPublished)
	}
	seedProduct(t, s, food, "Soup", "1.00", model.ProductPublished)

	_, err := s.GetPublishedProduct(ctx, draft.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	p, err := s.GetPublishedProduct(ctx, novel.ID)
	require.NoError(t, err)
	assert.Equal(t, "Books", p.Category.Name)

	related, err := s.RelatedProducts(ctx, p, RelatedLimit)
	require.NoError(t, err)
	assert.Len(t, related, RelatedLimit)
	for _, r := range related {
		assert.NotEqual(t, novel.ID, r.ID)
		assert.NotEqual(t, draft.ID, r.ID)
		assert.Equal(t, books.ID, r.CategoryID)
	}
}

func TestSetProductTags(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	books := seedCategory(t, s, "Books", true)
	novel := seedProduct(t, s, books, "Novel", "10.00", model.ProductPublished)
	atlas := seedProduct(t, s, books, "Atlas", "10.00", model.ProductPublished)

	classic := &model.Tag{Name: "Classic"}
	sale := &model.Tag{Name: "On Sale", Color: "#ff0000"}
	unused := &model.Tag{Name: "Unused"}
	for _, tag := range []*model.Tag{classic, sale, unused} {
		require.NoError(t, s.SaveTag(ctx, tag))
	}
	assert.Equal(t, "on-sale", sale.Slug)
	assert.Equal(t, model.DefaultTagColor, classic.Color)

	p, err := s.SetProductTags(ctx, novel.ID, []uint{classic.ID, sale.ID})
	require.NoError(t, err)
	require.Len(t, p.Tags, 2)
	assert.Equal(t, "Classic", p.Tags[0].Name)

	_, err = s.SetProductTags(ctx, atlas.ID, []uint{sale.ID})
	require.NoError(t, err)

	_, err = s.SetProductTags(ctx, atlas.ID, []uint{sale.ID, 999})
	assert.ErrorIs(t, err, ErrInvalid)

	counts, err := s.TagsWithCounts(ctx)
	require.NoError(t, err)
	got := map[string]int64{}
	for _, c := range counts {
		got[c.Name] = c.ProductCount
	}
	assert.Equal(t, map[string]int64{"Classic": 1, "On Sale": 2, "Unused": 0}, got)

	// replacing drops the old links
	p, err = s.SetProductTags(ctx, novel.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, p.Tags)
}

func TestListProductsAdmin(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	books := seedCategory(t, s, "Books", true)
	for _, name := range []string{"One", "Two", "Three"} {
		seedProduct(t, s, books, name, "1.00", model.ProductPublished)
	}
	seedProduct(t, s, books, "Hidden", "1.00", model.ProductDraft)

	items, total, err := s.ListProducts(ctx, ListOptions{PageSize: 2, Filters: map[string]string{"status": "published"}})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, items, 2)

	items, total, err = s.ListProducts(ctx, ListOptions{Page: 2, PageSize: 2, Filters: map[string]string{"status": "published"}})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, items, 1)

	items, _, err = s.ListProducts(ctx, ListOptions{Search: "hid"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Hidden", items[0].Name)

	// unknown columns are ignored
	_, total, err = s.ListProducts(ctx, ListOptions{Filters: map[string]string{"password": "x"}})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)

	_, _, err = s.ListProducts(ctx, ListOptions{Filters: map[string]string{"is_featured": "maybe"}})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParseProductSort(t *testing.T) {
	assert.Equal(t, SortPriceAsc, ParseProductSort("price"))
	assert.Equal(t, SortPriceDesc, ParseProductSort("-price"))
	assert.Equal(t, SortRating, ParseProductSort("rating"))
	assert.Equal(t, SortNewest, ParseProductSort(""))
	assert.Equal(t, SortNewest, ParseProductSort("name; DROP TABLE"))
}

func TestListOptionsNormalize(t *testing.T) {
	o := ListOptions{}.Normalize()
	assert.Equal(t, 1, o.Page)
	assert.Equal(t, DefaultPageSize, o.PageSize)

	o = ListOptions{Page: 3, PageSize: 1000}.Normalize()
	assert.Equal(t, 3, o.Page)
	assert.Equal(t, MaxPageSize, o.PageSize)
}
