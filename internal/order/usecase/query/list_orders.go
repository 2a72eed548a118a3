package query

import (
	"context"
	"fmt"

	"github.com/tair/food-delivery/internal/order/domain"
)

// ListOrdersQuery represents the query to list orders.
type ListOrdersQuery struct {
	Limit  int
	Offset int
}

// ListOrdersHandler handles list orders queries.
type ListOrdersHandler struct {
	store domain.Store
}

// NewListOrdersHandler creates a new list orders handler.
func NewListOrdersHandler(store domain.Store) *ListOrdersHandler {
	return &ListOrdersHandler{store: store}
}

// Handle returns a page of orders, newest first.
func (h *ListOrdersHandler) Handle(ctx context.Context, q ListOrdersQuery) ([]domain.Order, error) {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	orders, err := h.store.Orders().FindAll(ctx, q.Limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}
