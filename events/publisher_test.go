package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ecommerce-api/models"
	"ecommerce-api/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishOrder(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub := client.Subscribe(ctx, OrderChannel)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	NewPublisher(client, testutil.Logger()).PublishOrder(ctx, OrderCreated, &models.Order{
		ID:          42,
		UserID:      7,
		Status:      models.OrderStatusPending,
		TotalAmount: decimal.RequireFromString("30"),
	})

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var event OrderEvent
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &event))
	assert.Equal(t, OrderCreated, event.Event)
	assert.Equal(t, uint(42), event.OrderID)
	assert.Equal(t, uint(7), event.UserID)
	assert.Equal(t, models.OrderStatusPending, event.Status)
	assert.Equal(t, "30.00", event.TotalAmount)
	assert.False(t, event.At.IsZero())
}

func TestPublishOrder_WithoutRedis(t *testing.T) {
	assert.NotPanics(t, func() {
		NewPublisher(nil, testutil.Logger()).PublishOrder(context.Background(), OrderCreated, &models.Order{ID: 1})
		var p *Publisher
		p.PublishOrder(context.Background(), OrderCreated, &models.Order{ID: 1})
	})
}
