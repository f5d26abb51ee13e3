// Package queue defines message payloads exchanged over the message broker.
package queue

import "github.com/stylish/clothing-store/internal/model"

// OrderCreatedEvent is published when a checkout succeeds. It carries the
// full line-item snapshot so downstream consumers can log or notify
// without querying the primary database.
type OrderCreatedEvent struct {
	OrderID         uint64            `json:"order_id"`
	UserID          uint64            `json:"user_id"`
	Status          string            `json:"status"`
	TotalAmount     string            `json:"total_amount"`
	ShippingAddress string            `json:"shipping_address,omitempty"`
	Items           []model.OrderItem `json:"items"`
	CreatedAt       string            `json:"created_at"`
}
