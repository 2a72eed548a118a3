package query

import (
	"context"
	"fmt"

	"github.com/tair/food-delivery/internal/payment/domain"
)

// ListPaymentsQuery represents the query to list payments.
type ListPaymentsQuery struct {
	Limit  int
	Offset int
}

// ListPaymentsHandler handles list payments queries.
type ListPaymentsHandler struct {
	store domain.Store
}

// NewListPaymentsHandler creates a new list payments handler.
func NewListPaymentsHandler(store domain.Store) *ListPaymentsHandler {
	return &ListPaymentsHandler{store: store}
}

// Handle returns a page of payments, newest first.
func (h *ListPaymentsHandler) Handle(ctx context.Context, q ListPaymentsQuery) ([]domain.Payment, error) {
	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	payments, err := h.store.Payments().FindAll(ctx, q.Limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}
