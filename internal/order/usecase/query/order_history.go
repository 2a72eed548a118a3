package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/food-delivery/internal/order/domain"
	"github.com/tair/food-delivery/pkg/apperrors"
)

// OrderHistoryQuery represents the query for an order's audit trail.
type OrderHistoryQuery struct {
	OrderID uint
}

// OrderHistoryHandler handles audit trail queries.
type OrderHistoryHandler struct {
	store domain.Store
}

// NewOrderHistoryHandler creates a new order history handler.
func NewOrderHistoryHandler(store domain.Store) *OrderHistoryHandler {
	return &OrderHistoryHandler{store: store}
}

// Handle returns the full trail ordered by changed_at ascending, oldest
// first.
func (h *OrderHistoryHandler) Handle(ctx context.Context, q OrderHistoryQuery) ([]domain.OrderStatusHistory, error) {
	if _, err := h.store.Orders().FindByID(ctx, q.OrderID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperrors.Newf(apperrors.KindNotFound, "order %d not found", q.OrderID)
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	rows, err := h.store.History().FindByOrderID(ctx, q.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load status history: %w", err)
	}
	return rows, nil
}
