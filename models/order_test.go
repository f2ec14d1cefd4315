package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderJSONWritesMoneyAsNumbers(t *testing.T) {
	order := Order{
		ID:          1,
		TotalAmount: decimal.RequireFromString("31.50"),
		Status:      OrderStatusPending,
		Items: []OrderItem{
			{ID: 1, Quantity: 3, PriceAtPurchase: decimal.RequireFromString("10.50")},
		},
	}

	data, err := json.Marshal(order)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total_amount":31.5`)
	assert.Contains(t, string(data), `"price_at_purchase":10.5`)

	var back Order
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, order.TotalAmount.Equal(back.TotalAmount))
	assert.True(t, back.Items[0].Subtotal().Equal(back.TotalAmount))
}

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
	assert.True(t, OrderStatusDelivered.Known())
	assert.False(t, OrderStatus("on-hold").Known())
}
