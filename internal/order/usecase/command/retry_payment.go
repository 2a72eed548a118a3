package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/food-delivery/internal/order/client"
	"github.com/tair/food-delivery/internal/order/domain"
	"github.com/tair/food-delivery/pkg/apperrors"
	"github.com/tair/food-delivery/pkg/logger"
)

// RetryPaymentCommand represents the command to re-drive processing of an
// order's payment.
type RetryPaymentCommand struct {
	OrderID uint
}

// RetryPaymentHandler re-invokes payment processing. Safety under repetition
// comes entirely from the payment side: settled payments are no-ops there.
type RetryPaymentHandler struct {
	store    domain.Store
	payments PaymentClient
}

// NewRetryPaymentHandler creates a new retry payment handler.
func NewRetryPaymentHandler(store domain.Store, payments PaymentClient) *RetryPaymentHandler {
	return &RetryPaymentHandler{store: store, payments: payments}
}

// Handle executes the retry payment command.
func (h *RetryPaymentHandler) Handle(ctx context.Context, cmd RetryPaymentCommand) (*client.PaymentResult, error) {
	order, err := h.store.Orders().FindByID(ctx, cmd.OrderID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperrors.Newf(apperrors.KindNotFound, "order %d not found", cmd.OrderID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if !order.PaymentInitiated() {
		return nil, apperrors.Newf(apperrors.KindInvalidState,
			"no payment initiated for order %d", order.ID)
	}

	result, err := h.payments.ProcessPayment(ctx, *order.PaymentID)
	if err != nil {
		return nil, err
	}

	order.PaymentStatus = result.Status
	if err := h.store.Orders().Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to record payment outcome: %w", err)
	}

	logger.Info(ctx).
		Uint("order_id", order.ID).
		Str("payment_id", result.PaymentID).
		Str("payment_status", result.Status).
		Msg("Payment retried")

	return result, nil
}
