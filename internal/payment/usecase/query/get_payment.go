package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/food-delivery/internal/payment/domain"
	"github.com/tair/food-delivery/pkg/apperrors"
)

// GetPaymentQuery represents the query to get a payment.
type GetPaymentQuery struct {
	ID string
}

// GetPaymentHandler handles get payment queries.
type GetPaymentHandler struct {
	store domain.Store
}

// NewGetPaymentHandler creates a new get payment handler.
func NewGetPaymentHandler(store domain.Store) *GetPaymentHandler {
	return &GetPaymentHandler{store: store}
}

// Handle returns the current payment snapshot.
func (h *GetPaymentHandler) Handle(ctx context.Context, q GetPaymentQuery) (*domain.Payment, error) {
	if q.ID == "" {
		return nil, apperrors.New(apperrors.KindInvalidArgument, "payment id is required")
	}

	payment, err := h.store.Payments().FindByID(ctx, q.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperrors.Newf(apperrors.KindNotFound, "payment %s not found", q.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}
	return payment, nil
}
