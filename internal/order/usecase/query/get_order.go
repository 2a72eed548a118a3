package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/food-delivery/internal/order/domain"
	"github.com/tair/food-delivery/pkg/apperrors"
)

// GetOrderQuery represents the query to get an order with its items.
type GetOrderQuery struct {
	ID uint
}

// GetOrderHandler handles get order queries.
type GetOrderHandler struct {
	store domain.Store
}

// NewGetOrderHandler creates a new get order handler.
func NewGetOrderHandler(store domain.Store) *GetOrderHandler {
	return &GetOrderHandler{store: store}
}

// Handle returns the order with its line items.
func (h *GetOrderHandler) Handle(ctx context.Context, q GetOrderQuery) (*domain.Order, error) {
	order, err := h.store.Orders().FindByID(ctx, q.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperrors.Newf(apperrors.KindNotFound, "order %d not found", q.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return order, nil
}
