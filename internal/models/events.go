package models

import "time"

// Event types
const (
	EventTypeOrderPlaced        = "ORDER_PLACED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderEvent carries an order snapshot after a lifecycle change
type OrderEvent struct {
	BaseEvent
	Order          Order       `json:"order"`
	PreviousStatus OrderStatus `json:"previous_status,omitempty"`
}
