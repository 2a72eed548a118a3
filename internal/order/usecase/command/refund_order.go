package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tair/food-delivery/internal/order/client"
	"github.com/tair/food-delivery/internal/order/domain"
	"github.com/tair/food-delivery/pkg/apperrors"
	"github.com/tair/food-delivery/pkg/logger"
)

// RefundOrderCommand represents the command to refund money collected for
// an order.
type RefundOrderCommand struct {
	OrderID uint
	Amount  decimal.Decimal
	Reason  string
}

// RefundOrderHandler delegates refunds to the payment component; the refund
// ledger there owns every limit check.
type RefundOrderHandler struct {
	store    domain.Store
	payments PaymentClient
}

// NewRefundOrderHandler creates a new refund order handler.
func NewRefundOrderHandler(store domain.Store, payments PaymentClient) *RefundOrderHandler {
	return &RefundOrderHandler{store: store, payments: payments}
}

// Handle executes the refund order command.
func (h *RefundOrderHandler) Handle(ctx context.Context, cmd RefundOrderCommand) (*client.RefundResult, error) {
	if cmd.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.Newf(apperrors.KindInvalidArgument,
			"refund amount must be greater than zero, got %s", cmd.Amount)
	}

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

	result, err := h.payments.Refund(ctx, *order.PaymentID, cmd.Amount, cmd.Reason)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Uint("order_id", order.ID).
		Str("refund_id", result.RefundID).
		Str("amount", result.Amount.StringFixed(2)).
		Msg("Refund delegated to payment service")

	return result, nil
}
