package kafka

import "time"

// OrderStatusChangedEvent notifies downstream consumers that an order moved
// through its lifecycle. Delivery is fire-and-forget.
type OrderStatusChangedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	OrderID   uint      `json:"order_id"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	Timestamp time.Time `json:"timestamp"`
}

// PaymentStatusChangedEvent announces a payment outcome to the order side,
// which records it through its callback handler.
type PaymentStatusChangedEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	OrderID    uint      `json:"order_id"`
	PaymentID  string    `json:"payment_id"`
	Status     string    `json:"status"`
	RetryCount int       `json:"retry_count"`
	Timestamp  time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeOrderStatusChanged   = "order.status-changed"
	EventTypePaymentStatusChanged = "payment.status-changed"
)

// Kafka topics
const (
	TopicOrderStatusChanged   = "order-status-changed"
	TopicPaymentStatusChanged = "payment-status-changed"
)
