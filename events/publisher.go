// Package events publishes order lifecycle notifications on redis pub/sub.
package events

import (
	"context"
	"encoding/json"
	"time"

	"ecommerce-api/models"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	OrderChannel = "order_events"

	OrderCreated       = "order.created"
	OrderStatusChanged = "order.status_changed"
)

type OrderEvent struct {
	Event       string             `json:"event"`
	OrderID     uint               `json:"order_id"`
	UserID      uint               `json:"user_id"`
	Status      models.OrderStatus `json:"status"`
	TotalAmount string             `json:"total_amount"`
	At          time.Time          `json:"at"`
}

// Publisher is nil-safe: without a redis client Publish does nothing.
type Publisher struct {
	client *redis.Client
	log    logrus.FieldLogger
}

func NewPublisher(client *redis.Client, log logrus.FieldLogger) *Publisher {
	return &Publisher{client: client, log: log}
}

// PublishOrder sends event for order. Delivery is best effort and never
// fails the caller.
func (p *Publisher) PublishOrder(ctx context.Context, event string, order *models.Order) {
	if p == nil || p.client == nil {
		return
	}
	msg, err := json.Marshal(OrderEvent{
		Event:       event,
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount.StringFixed(2),
		At:          time.Now().UTC(),
	})
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := p.client.Publish(ctx, OrderChannel, msg).Err(); err != nil {
		p.log.WithError(err).WithFields(logrus.Fields{"event": event, "order_id": order.ID}).Warn("failed to publish order event")
	}
}
