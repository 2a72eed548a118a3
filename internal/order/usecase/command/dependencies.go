package command

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/tair/food-delivery/internal/order/client"
	"github.com/tair/food-delivery/kafka"
)

// PaymentClient is the slice of the payment component the orchestrator
// drives. Every method is a network round-trip; no handler holds a local
// lock across a call.
type PaymentClient interface {
	CreatePayment(ctx context.Context, req client.CreatePaymentRequest, idempotencyToken string) (*client.PaymentResult, error)
	ProcessPayment(ctx context.Context, paymentID string) (*client.PaymentResult, error)
	Refund(ctx context.Context, paymentID string, amount decimal.Decimal, reason string) (*client.RefundResult, error)
	GetPayment(ctx context.Context, paymentID string) (*client.PaymentResult, error)
}

// Notifier is the fire-and-forget status-changed sink. A nil notifier
// disables notifications.
type Notifier interface {
	PublishOrderStatusChanged(ctx context.Context, event kafka.OrderStatusChangedEvent) error
}
