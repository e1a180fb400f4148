package store

import (
	"context"
	"sync"
	"testing"

	"go-modelsdemo/apps/catalog/model"
	"go-modelsdemo/pkg/config"
	"go-modelsdemo/pkg/database"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) Publish(_ context.Context, key string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) Keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.keys...)
}

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	s := New(db, opts...)
	require.NoError(t, s.Migrate())
	return s
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedCategory(t *testing.T, s *Store, name string, active bool) *model.Category {
	t.Helper()
	c := &model.Category{Name: name, IsActive: active}
	require.NoError(t, s.SaveCategory(context.Background(), c))
	return c
}

func seedProduct(t *testing.T, s *Store, c *model.Category, name, price string, status model.ProductStatus) *model.Product {
	t.Helper()
	p := &model.Product{
		Name:          name,
		CategoryID:    c.ID,
		Description:   name + " description",
		Price:         dec(price),
		StockQuantity: 5,
		Status:        status,
	}
	require.NoError(t, s.SaveProduct(context.Background(), p))
	return p
}

func seedUser(t *testing.T, s *Store, username string, staff bool) *model.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), username, "secret-"+username, staff)
	require.NoError(t, err)
	return u
}

func seedReview(t *testing.T, s *Store, p *model.Product, u *model.User, rating uint8) *model.Review {
	t.Helper()
	r := &model.Review{ProductID: p.ID, UserID: u.ID, Rating: rating, Title: "review", Comment: "text"}
	require.NoError(t, s.SaveReview(context.Background(), r))
	return r
}
