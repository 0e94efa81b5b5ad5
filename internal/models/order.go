package models

import (
	"time"
)

// OrderStatus represents the possible states of a menu order
type OrderStatus string

const (
	OrderStatusWaiting   OrderStatus = "WAITING"
	OrderStatusCooking   OrderStatus = "COOKING"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// MenuOrder represents one customer request in the queue. EnteredAt,
// ServedAt and RemoveAt are session durations.
type MenuOrder struct {
	ID             string         `json:"id"`
	MenuName       string         `json:"menu_name"`
	EnteredAt      time.Duration  `json:"entered_at"`
	Status         OrderStatus    `json:"status"`
	AssignedBurner *int           `json:"assigned_burner,omitempty"`
	ServedAt       *time.Duration `json:"served_at,omitempty"`
	RemoveAt       *time.Duration `json:"remove_at,omitempty"`
}

// Age returns how long the order has been in the queue at session time now
func (o *MenuOrder) Age(now time.Duration) time.Duration {
	return now - o.EnteredAt
}

// IsOpen reports whether the order still needs cooking
func (o *MenuOrder) IsOpen() bool {
	return o.Status == OrderStatusWaiting || o.Status == OrderStatusCooking
}
