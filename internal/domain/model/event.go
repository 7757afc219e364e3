package model

import "time"

// OrderEventType names a business event emitted for downstream consumers.
type OrderEventType string

const (
	OrderEventSubmitted     OrderEventType = "order.submitted"
	OrderEventStatusChanged OrderEventType = "order.status_changed"
	OrderEventDeleted       OrderEventType = "order.deleted"
)

// OrderEvent is published after a successful write to the order store.
type OrderEvent struct {
	Type           OrderEventType
	Order          Order
	PreviousStatus OrderStatus
	OccurredAt     time.Time
}
