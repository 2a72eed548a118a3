package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/food-delivery/internal/payment/domain"
	"github.com/tair/food-delivery/pkg/apperrors"
)

// ListRefundsQuery represents the query for a payment's refund trail.
type ListRefundsQuery struct {
	PaymentID string
}

// ListRefundsHandler handles refund trail queries.
type ListRefundsHandler struct {
	store domain.Store
}

// NewListRefundsHandler creates a new list refunds handler.
func NewListRefundsHandler(store domain.Store) *ListRefundsHandler {
	return &ListRefundsHandler{store: store}
}

// Handle returns the refunds recorded against a payment, oldest first.
func (h *ListRefundsHandler) Handle(ctx context.Context, q ListRefundsQuery) ([]domain.Refund, error) {
	if q.PaymentID == "" {
		return nil, apperrors.New(apperrors.KindInvalidArgument, "payment id is required")
	}

	// Verify the payment exists so an empty trail is distinguishable from a
	// bad identifier.
	if _, err := h.store.Payments().FindByID(ctx, q.PaymentID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperrors.Newf(apperrors.KindNotFound, "payment %s not found", q.PaymentID)
		}
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}

	refunds, err := h.store.Refunds().FindByPaymentID(ctx, q.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list refunds: %w", err)
	}
	return refunds, nil
}
