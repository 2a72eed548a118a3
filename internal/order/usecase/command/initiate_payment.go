package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tair/food-delivery/internal/order/client"
	"github.com/tair/food-delivery/internal/order/domain"
	"github.com/tair/food-delivery/internal/order/pricing"
	"github.com/tair/food-delivery/pkg/apperrors"
	"github.com/tair/food-delivery/pkg/logger"
)

// InitiatePaymentCommand represents the command to start collecting payment
// for an accepted order.
type InitiatePaymentCommand struct {
	OrderID  uint
	Method   string
	Currency string
}

// InitiatePaymentHandler drives payment creation on the payment component.
// The idempotency token is derived from the order identifier, so repeating
// the same initiate call cannot create a second payment.
type InitiatePaymentHandler struct {
	store      domain.Store
	calculator pricing.Calculator
	payments   PaymentClient
	// processTimeout bounds the async processing trigger.
	processTimeout time.Duration
}

// NewInitiatePaymentHandler creates a new initiate payment handler.
func NewInitiatePaymentHandler(store domain.Store, calculator pricing.Calculator, payments PaymentClient) *InitiatePaymentHandler {
	return &InitiatePaymentHandler{
		store:          store,
		calculator:     calculator,
		payments:       payments,
		processTimeout: 30 * time.Second,
	}
}

// IdempotencyToken derives the stable creation token for an order.
func IdempotencyToken(orderID uint) string {
	return fmt.Sprintf("order-%d", orderID)
}

// Handle executes the initiate payment command. The order's own status is
// not advanced by payment completion; operators drive that separately.
func (h *InitiatePaymentHandler) Handle(ctx context.Context, cmd InitiatePaymentCommand) (*client.PaymentResult, error) {
	order, err := h.store.Orders().FindByID(ctx, cmd.OrderID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperrors.Newf(apperrors.KindNotFound, "order %d not found", cmd.OrderID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if order.PaymentInitiated() {
		return nil, apperrors.Newf(apperrors.KindInvalidState,
			"payment already initiated for order %d (payment %s)", order.ID, *order.PaymentID)
	}
	if order.Status != domain.StatusAccepted {
		return nil, apperrors.Newf(apperrors.KindInvalidState,
			"order %d is %s, payment requires ACCEPTED", order.ID, order.Status)
	}

	breakdown, err := h.calculator.Calculate(order.Items)
	if err != nil {
		return nil, err
	}

	result, err := h.payments.CreatePayment(ctx, client.CreatePaymentRequest{
		OrderID:       order.ID,
		Method:        cmd.Method,
		Currency:      cmd.Currency,
		TotalAmount:   breakdown.ItemsTotal,
		TaxAmount:     breakdown.Tax,
		PayableAmount: breakdown.GrandTotal,
	}, IdempotencyToken(order.ID))
	if err != nil {
		return nil, err
	}

	order.PaymentID = &result.PaymentID
	order.PaymentStatus = result.Status
	if err := h.store.Orders().Update(ctx, order); err != nil {
		// The payment exists remotely; the deterministic token lets a retry
		// of this call converge instead of double-charging.
		return nil, fmt.Errorf("failed to store payment reference: %w", err)
	}

	logger.Info(ctx).
		Uint("order_id", order.ID).
		Str("payment_id", result.PaymentID).
		Str("payable_amount", breakdown.GrandTotal.StringFixed(2)).
		Msg("Payment initiated")

	h.triggerProcessing(ctx, order.ID, result.PaymentID)

	return result, nil
}

// triggerProcessing kicks off gateway processing without blocking the
// initiate call. Failures are logged; retryPayment covers them.
func (h *InitiatePaymentHandler) triggerProcessing(ctx context.Context, orderID uint, paymentID string) {
	detached := context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(detached, h.processTimeout)
		defer cancel()

		if _, err := h.payments.ProcessPayment(ctx, paymentID); err != nil {
			logger.Error(ctx).
				Err(err).
				Uint("order_id", orderID).
				Str("payment_id", paymentID).
				Msg("Async payment processing failed")
		}
	}()
}
