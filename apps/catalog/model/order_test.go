package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanCancel(t *testing.T) {
	cases := map[OrderStatus]bool{
		OrderPending:    true,
		OrderProcessing: true,
		OrderShipped:    false,
		OrderDelivered:  false,
		OrderCancelled:  false,
	}
	for status, want := range cases {
		o := &Order{Status: status}
		assert.Equal(t, want, o.CanCancel(), string(status))
	}
}

func TestStatusDisplay(t *testing.T) {
	assert.Equal(t, "Shipped", OrderShipped.Display())
	assert.Equal(t, "unknown", OrderStatus("unknown").Display())
}

func TestOrderItemComputeTotalOverwrites(t *testing.T) {
	item := &OrderItem{Quantity: 3, UnitPrice: dec("2.50"), TotalPrice: dec("999")}
	assert.NoError(t, item.BeforeSave(nil))
	assert.True(t, item.TotalPrice.Equal(dec("7.50")))
}
