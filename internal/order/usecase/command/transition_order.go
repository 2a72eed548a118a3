package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tair/food-delivery/internal/order/domain"
	"github.com/tair/food-delivery/kafka"
	"github.com/tair/food-delivery/pkg/apperrors"
	"github.com/tair/food-delivery/pkg/logger"
)

// TransitionOrderCommand represents the command to move an order to a new
// lifecycle state.
type TransitionOrderCommand struct {
	OrderID uint
	Target  domain.Status
}

// TransitionOrderHandler validates and executes lifecycle transitions,
// recording one immutable history row per executed transition.
type TransitionOrderHandler struct {
	store    domain.Store
	notifier Notifier
	now      func() time.Time
}

// NewTransitionOrderHandler creates a new transition handler.
func NewTransitionOrderHandler(store domain.Store, notifier Notifier) *TransitionOrderHandler {
	return &TransitionOrderHandler{
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

// Handle executes the transition. Transitioning to the current state is an
// idempotent no-op: no history row, no write, no notification.
func (h *TransitionOrderHandler) Handle(ctx context.Context, cmd TransitionOrderCommand) (*domain.Order, error) {
	if !cmd.Target.Valid() {
		return nil, apperrors.Newf(apperrors.KindInvalidArgument, "unknown order status %q", cmd.Target)
	}

	var order *domain.Order
	var oldStatus domain.Status
	var executed bool

	err := h.store.Transaction(ctx, func(tx domain.Store) error {
		var err error
		// Row lock: two racing transitions out of the same state must not
		// both commit against the stale status they each read.
		order, err = tx.Orders().FindByIDForUpdate(ctx, cmd.OrderID)
		if errors.Is(err, domain.ErrNotFound) {
			return apperrors.Newf(apperrors.KindNotFound, "order %d not found", cmd.OrderID)
		}
		if err != nil {
			return fmt.Errorf("failed to load order: %w", err)
		}

		if order.Status == cmd.Target {
			return nil
		}

		if !domain.CanTransition(order.Status, cmd.Target) {
			return apperrors.Wrap(apperrors.KindInvalidState,
				&domain.InvalidTransitionError{From: order.Status, To: cmd.Target},
				"order transition rejected")
		}

		oldStatus = order.Status
		order.Status = cmd.Target
		if err := tx.Orders().Update(ctx, order); err != nil {
			return fmt.Errorf("failed to persist order status: %w", err)
		}

		row := &domain.OrderStatusHistory{
			OrderID:   order.ID,
			OldStatus: oldStatus,
			NewStatus: cmd.Target,
			ChangedAt: h.now(),
		}
		if err := tx.History().Append(ctx, row); err != nil {
			return fmt.Errorf("failed to append status history: %w", err)
		}

		executed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !executed {
		logger.Debug(ctx).
			Uint("order_id", cmd.OrderID).
			Str("status", string(cmd.Target)).
			Msg("Order already in target state, no-op")
		return order, nil
	}

	logger.Info(ctx).
		Uint("order_id", order.ID).
		Str("old_status", string(oldStatus)).
		Str("new_status", string(order.Status)).
		Msg("Order transitioned")

	h.notify(ctx, order.ID, oldStatus, order.Status)

	return order, nil
}

// notify emits the status-changed notification. Failures are logged and
// never roll back the transition.
func (h *TransitionOrderHandler) notify(ctx context.Context, orderID uint, oldStatus, newStatus domain.Status) {
	if h.notifier == nil {
		return
	}

	event := kafka.OrderStatusChangedEvent{
		OrderID:   orderID,
		OldStatus: string(oldStatus),
		NewStatus: string(newStatus),
		Timestamp: h.now(),
	}
	if err := h.notifier.PublishOrderStatusChanged(ctx, event); err != nil {
		logger.Error(ctx).
			Err(err).
			Uint("order_id", orderID).
			Msg("Failed to publish status-changed notification")
	}
}
