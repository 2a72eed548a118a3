package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/food-delivery/internal/order/domain"
	"github.com/tair/food-delivery/pkg/apperrors"
	"github.com/tair/food-delivery/pkg/logger"
)

// HandleCallbackCommand represents a payment outcome reported back to the
// order side, via HTTP callback or the event stream.
type HandleCallbackCommand struct {
	OrderID   uint
	PaymentID string
	Status    string
}

// HandleCallbackHandler records payment outcomes on the order. It never
// advances the order's own lifecycle: operators act on the recorded outcome
// explicitly.
type HandleCallbackHandler struct {
	store domain.Store
}

// NewHandleCallbackHandler creates a new callback handler.
func NewHandleCallbackHandler(store domain.Store) *HandleCallbackHandler {
	return &HandleCallbackHandler{store: store}
}

// Handle executes the callback command.
func (h *HandleCallbackHandler) Handle(ctx context.Context, cmd HandleCallbackCommand) error {
	if cmd.PaymentID == "" {
		return apperrors.New(apperrors.KindInvalidArgument, "payment_id is required")
	}

	return h.store.Transaction(ctx, func(tx domain.Store) error {
		order, err := tx.Orders().FindByID(ctx, cmd.OrderID)
		if errors.Is(err, domain.ErrNotFound) {
			return apperrors.Newf(apperrors.KindNotFound, "order %d not found", cmd.OrderID)
		}
		if err != nil {
			return fmt.Errorf("failed to load order: %w", err)
		}

		// Guard against cross-order callback confusion.
		if !order.PaymentInitiated() || *order.PaymentID != cmd.PaymentID {
			return apperrors.Newf(apperrors.KindInvalidArgument,
				"callback payment %s does not match order %d", cmd.PaymentID, cmd.OrderID)
		}

		order.PaymentStatus = cmd.Status
		if err := tx.Orders().Update(ctx, order); err != nil {
			return fmt.Errorf("failed to record payment outcome: %w", err)
		}

		logger.Info(ctx).
			Uint("order_id", order.ID).
			Str("payment_id", cmd.PaymentID).
			Str("payment_status", cmd.Status).
			Msg("Payment outcome recorded")

		return nil
	})
}
