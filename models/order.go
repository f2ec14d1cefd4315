package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// orderTransitions is the status machine enforced when strict status
// transitions are enabled. Statuses without an entry are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// Known reports whether s is one of the enumerated statuses.
func (s OrderStatus) Known() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status machine allows s -> next.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Order owns its items; deleting an order deletes them.
type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	User        *User           `gorm:"constraint:OnDelete:RESTRICT" json:"user,omitempty"`
	OrderDate   time.Time       `gorm:"not null;index;autoCreateTime" json:"order_date"`
	TotalAmount decimal.Decimal `gorm:"type:numeric;not null" json:"total_amount"`
	Status      OrderStatus     `gorm:"type:text;not null" json:"status"`
	Items       []OrderItem     `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem keeps the product price captured when the order was placed.
type OrderItem struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	OrderID         uint            `gorm:"not null;index" json:"order_id"`
	ProductID       uint            `gorm:"not null;index" json:"product_id"`
	Product         *Product        `gorm:"constraint:OnDelete:RESTRICT" json:"product,omitempty"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	PriceAtPurchase decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price_at_purchase"`
}

// Subtotal is quantity times the snapshot price.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
