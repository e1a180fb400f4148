package store

import (
	"context"
	"testing"

	"go-modelsdemo/apps/catalog/model"
	"go-modelsdemo/pkg/sequence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedSequence struct{ n int64 }

func (f *fixedSequence) Next(context.Context) (string, error) {
	f.n++
	return sequence.Format("20261019", f.n), nil
}

func seedOrder(t *testing.T, s *Store, u *model.User, items ...model.OrderItem) *model.Order {
	t.Helper()
	o := &model.Order{UserID: u.ID, ShippingAddress: "1 Main St", Items: items}
	require.NoError(t, s.SaveOrder(context.Background(), o))
	return o
}

func TestSaveOrderGeneratesNumberAndTotal(t *testing.T) {
	pub := &recordingPublisher{}
	s := newTestStore(t, WithSequence(&fixedSequence{}), WithPublisher(pub))
	ctx := context.Background()
	books := seedCategory(t, s, "Books", true)
	novel := seedProduct(t, s, books, "Novel", "10.00", model.ProductPublished)
	alice := seedUser(t, s, "alice", false)

	o := seedOrder(t, s, alice,
		model.OrderItem{ProductID: novel.ID, Quantity: 3, UnitPrice: dec("2.50"), TotalPrice: dec("999")},
		model.OrderItem{ProductID: novel.ID, UnitPrice: dec("1.25")},
	)
	assert.Equal(t, "ORD20261019000001", o.OrderNumber)
	assert.Equal(t, model.OrderPending, o.Status)
	assert.Equal(t, "8.75", o.TotalAmount.StringFixed(2))

	got, err := s.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "7.50", got.Items[0].TotalPrice.StringFixed(2))
	assert.EqualValues(t, 1, got.Items[1].Quantity)
	assert.Equal(t, "Novel", got.Items[0].Product.Name)
	assert.Equal(t, "alice", got.User.Username)

	// number and total are not caller controlled on update
	got.OrderNumber = "HACKED"
	got.TotalAmount = dec("0")
	got.Notes = "leave at door"
	require.NoError(t, s.SaveOrder(ctx, got))
	assert.Equal(t, "ORD20261019000001", got.OrderNumber)
	assert.Equal(t, "8.75", got.TotalAmount.StringFixed(2))

	// an update may leave the number out
	got.OrderNumber = ""
	got.ShippingAddress = "2 Side St"
	require.NoError(t, s.SaveOrder(ctx, got))
	assert.Equal(t, "ORD20261019000001", got.OrderNumber)

	// cents that have no exact binary form still add up exactly
	cents := seedOrder(t, s, alice,
		model.OrderItem{ProductID: novel.ID, UnitPrice: dec("0.10")},
		model.OrderItem{ProductID: novel.ID, UnitPrice: dec("0.20")},
	)
	assert.Equal(t, "0.3", cents.TotalAmount.String())
	reloaded, err := s.GetOrder(ctx, cents.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.3", reloaded.TotalAmount.String())

	assert.Equal(t, []string{EventOrderSaved, EventOrderSaved, EventOrderSaved, EventOrderSaved}, pub.Keys())
}

func TestSaveOrderDefaultsToUUIDNumbers(t *testing.T) {
	s := newTestStore(t)
	alice := seedUser(t, s, "alice", false)

	a := seedOrder(t, s, alice)
	b := seedOrder(t, s, alice)
	assert.Len(t, a.OrderNumber, sequence.MaxLength)
	assert.NotEqual(t, a.OrderNumber, b.OrderNumber)
	assert.True(t, a.TotalAmount.IsZero())
}

func TestSaveOrderErrors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice", false)

	err := s.SaveOrder(ctx, &model.Order{UserID: alice.ID})
	assert.ErrorIs(t, err, ErrInvalid, "shipping address is required")

	err = s.SaveOrder(ctx, &model.Order{UserID: 999, ShippingAddress: "x"})
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.SaveOrder(ctx, &model.Order{UserID: alice.ID, ShippingAddress: "x", Status: "lost"})
	assert.ErrorIs(t, err, ErrInvalid)

	err = s.SaveOrder(ctx, &model.Order{UserID: alice.ID, ShippingAddress: "x", Items: []model.OrderItem{{ProductID: 999, UnitPrice: dec("1")}}})
	assert.ErrorIs(t, err, ErrNotFound)

	o := seedOrder(t, s, alice)
	err = s.SaveOrder(ctx, &model.Order{UserID: alice.ID, ShippingAddress: "x", OrderNumber: o.OrderNumber})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestOrderItemOverwritesTotal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	books := seedCategory(t, s, "Books", true)
	novel := seedProduct(t, s, books, "Novel", "10.00", model.ProductPublished)
	o := seedOrder(t, s, seedUser(t, s, "alice", false))

	item := &model.OrderItem{OrderID: o.ID, ProductID: novel.ID, Quantity: 3, UnitPrice: dec("2.50"), TotalPrice: dec("1.00")}
	require.NoError(t, s.SaveOrderItem(ctx, item))
	assert.Equal(t, "7.50", item.TotalPrice.StringFixed(2))

	got, err := s.GetOrderItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "7.50", got.TotalPrice.StringFixed(2))

	order, err := s.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "7.50", order.TotalAmount.StringFixed(2))

	item.Quantity = 4
	item.TotalPrice = dec("0")
	require.NoError(t, s.SaveOrderItem(ctx, item))
	order, err = s.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "10.00", order.TotalAmount.StringFixed(2))

	require.NoError(t, s.DeleteOrderItem(ctx, item.ID))
	order, err = s.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, order.TotalAmount.IsZero())
	assert.Zero(t, order.ItemsCount())

	err = s.SaveOrderItem(ctx, &model.OrderItem{OrderID: 999, ProductID: novel.ID, Quantity: 1, UnitPrice: dec("1")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelOrder(t *testing.T) {
	pub := &recordingPublisher{}
	s := newTestStore(t, WithPublisher(pub))
	ctx := context.Background()
	alice := seedUser(t, s, "alice", false)
	o := seedOrder(t, s, alice)

	cancelled, err := s.CancelOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderCancelled, cancelled.Status)

	_, err = s.CancelOrder(ctx, o.ID)
	assert.ErrorIs(t, err, ErrCannotCancel)

	shipped := seedOrder(t, s, alice)
	shipped.Status = model.OrderShipped
	require.NoError(t, s.SaveOrder(ctx, shipped))
	_, err = s.CancelOrder(ctx, shipped.ID)
	assert.ErrorIs(t, err, ErrCannotCancel)

	_, err = s.CancelOrder(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Contains(t, pub.Keys(), EventOrderCancelled)
}

func TestListOrders(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	alice := seedUser(t, s, "alice", false)
	seedOrder(t, s, alice)
	second := seedOrder(t, s, alice)
	_, err := s.CancelOrder(ctx, second.ID)
	require.NoError(t, err)

	all, err := s.ListOrders(ctx, OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")
	assert.Equal(t, "alice", all[0].User.Username)

	cancelled, err := s.ListOrders(ctx, OrderFilter{Status: model.OrderCancelled})
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, second.ID, cancelled[0].ID)
}
