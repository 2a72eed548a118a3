package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tair/food-delivery/internal/payment/domain"
	"github.com/tair/food-delivery/internal/payment/gateway"
	"github.com/tair/food-delivery/kafka"
	"github.com/tair/food-delivery/pkg/apperrors"
	"github.com/tair/food-delivery/pkg/logger"
)

// EventPublisher is the fire-and-forget notification sink for payment
// outcomes. A nil publisher disables notifications.
type EventPublisher interface {
	PublishPaymentStatusChanged(ctx context.Context, event kafka.PaymentStatusChangedEvent) error
}

// ProcessPaymentCommand represents the command to process a payment.
type ProcessPaymentCommand struct {
	PaymentID string
}

// ProcessPaymentHandler drives a payment through the gateway and advances
// its state machine. Processing a settled payment is an idempotent no-op.
type ProcessPaymentHandler struct {
	store      domain.Store
	gateway    gateway.Client
	publisher  EventPublisher
	maxRetries int
}

// NewProcessPaymentHandler creates a new process payment handler. maxRetries
// caps gateway timeouts before the payment is parked in FAILED_PERMANENT;
// zero means unbounded retrying.
func NewProcessPaymentHandler(store domain.Store, gw gateway.Client, publisher EventPublisher, maxRetries int) *ProcessPaymentHandler {
	return &ProcessPaymentHandler{
		store:      store,
		gateway:    gw,
		publisher:  publisher,
		maxRetries: maxRetries,
	}
}

// Handle executes the process payment command.
func (h *ProcessPaymentHandler) Handle(ctx context.Context, cmd ProcessPaymentCommand) (*domain.Payment, error) {
	if cmd.PaymentID == "" {
		return nil, apperrors.New(apperrors.KindInvalidArgument, "payment_id is required")
	}

	payment, err := h.store.Payments().FindByID(ctx, cmd.PaymentID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperrors.Newf(apperrors.KindNotFound, "payment %s not found", cmd.PaymentID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}

	// Settled payments are left alone: no gateway call, no write.
	if payment.Settled() {
		logger.Info(ctx).
			Str("payment_id", payment.ID).
			Str("status", string(payment.Status)).
			Msg("Payment already settled, skipping gateway")
		return payment, nil
	}

	outcome, err := h.gateway.Process(ctx, payment)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnavailable, err, "gateway rejected processing request")
	}

	switch outcome {
	case gateway.OutcomeSuccess:
		payment.Status = domain.StatusSuccess
	case gateway.OutcomeFailure:
		payment.Status = domain.StatusFailed
	case gateway.OutcomeTimeout:
		payment.RetryCount++
		if h.maxRetries > 0 && payment.RetryCount > h.maxRetries {
			payment.Status = domain.StatusFailedPermanent
		} else {
			payment.Status = domain.StatusRetrying
		}
	default:
		return nil, apperrors.Newf(apperrors.KindUnavailable, "unexpected gateway outcome %q", outcome)
	}
	payment.UpdatedAt = time.Now()

	if err := h.store.Payments().Update(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to persist payment after gateway call: %w", err)
	}

	logger.Info(ctx).
		Str("payment_id", payment.ID).
		Str("outcome", string(outcome)).
		Str("status", string(payment.Status)).
		Int("retry_count", payment.RetryCount).
		Msg("Payment processed")

	h.notify(ctx, payment)

	return payment, nil
}

// notify announces the new payment status. Failures are logged and never
// propagated.
func (h *ProcessPaymentHandler) notify(ctx context.Context, payment *domain.Payment) {
	if h.publisher == nil {
		return
	}

	event := kafka.PaymentStatusChangedEvent{
		OrderID:    payment.OrderID,
		PaymentID:  payment.ID,
		Status:     string(payment.Status),
		RetryCount: payment.RetryCount,
		Timestamp:  payment.UpdatedAt,
	}
	if err := h.publisher.PublishPaymentStatusChanged(ctx, event); err != nil {
		logger.Error(ctx).
			Err(err).
			Str("payment_id", payment.ID).
			Msg("Failed to publish payment status event")
	}
}
