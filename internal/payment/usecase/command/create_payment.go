package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tair/food-delivery/internal/payment/domain"
	"github.com/tair/food-delivery/pkg/apperrors"
	"github.com/tair/food-delivery/pkg/logger"
)

// CreatePaymentCommand represents the command to create a payment.
type CreatePaymentCommand struct {
	OrderID          uint
	Method           string
	Currency         string
	TotalAmount      decimal.Decimal
	TaxAmount        decimal.Decimal
	PayableAmount    decimal.Decimal
	IdempotencyToken string
}

// CreatePaymentHandler creates payments with at-most-once semantics under
// client retries: a token that already produced a payment always returns
// that payment unchanged.
type CreatePaymentHandler struct {
	store domain.Store
}

// NewCreatePaymentHandler creates a new create payment handler.
func NewCreatePaymentHandler(store domain.Store) *CreatePaymentHandler {
	return &CreatePaymentHandler{store: store}
}

// Handle executes the create payment command.
func (h *CreatePaymentHandler) Handle(ctx context.Context, cmd CreatePaymentCommand) (*domain.Payment, error) {
	if cmd.IdempotencyToken == "" {
		return nil, apperrors.New(apperrors.KindInvalidArgument, "idempotency token is required")
	}
	if cmd.OrderID == 0 {
		return nil, apperrors.New(apperrors.KindInvalidArgument, "order_id is required")
	}

	// A bound token short-circuits creation entirely.
	existing, err := h.findBound(ctx, cmd.IdempotencyToken)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		logger.Info(ctx).
			Str("payment_id", existing.ID).
			Str("token", cmd.IdempotencyToken).
			Msg("Idempotency token already bound, returning existing payment")
		return existing, nil
	}

	if err := domain.ValidateAmounts(cmd.TotalAmount, cmd.TaxAmount, cmd.PayableAmount); err != nil {
		return nil, err
	}

	if cmd.Currency == "" {
		cmd.Currency = "USD"
	}

	payment := &domain.Payment{
		ID:            fmt.Sprintf("PAY-%s", uuid.New().String()),
		OrderID:       cmd.OrderID,
		Method:        cmd.Method,
		Currency:      cmd.Currency,
		TotalAmount:   cmd.TotalAmount,
		TaxAmount:     cmd.TaxAmount,
		PayableAmount: cmd.PayableAmount,
		Status:        domain.StatusInitiated,
		RetryCount:    0,
	}

	err = h.store.Payments().Create(ctx, payment, cmd.IdempotencyToken)
	if errors.Is(err, domain.ErrDuplicateToken) {
		// Lost the race against an identical request. The winner's payment
		// is the authoritative one.
		winner, findErr := h.findBound(ctx, cmd.IdempotencyToken)
		if findErr != nil {
			return nil, findErr
		}
		if winner == nil {
			return nil, apperrors.Newf(apperrors.KindInconsistentState,
				"token %s bound concurrently but no payment found", cmd.IdempotencyToken)
		}
		return winner, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	logger.Info(ctx).
		Str("payment_id", payment.ID).
		Uint("order_id", payment.OrderID).
		Str("payable_amount", payment.PayableAmount.StringFixed(2)).
		Msg("Payment created")

	return payment, nil
}

// findBound returns the payment a token is bound to, nil when the token is
// free, and InconsistentState when the binding points at a missing payment.
func (h *CreatePaymentHandler) findBound(ctx context.Context, token string) (*domain.Payment, error) {
	record, err := h.store.Idempotency().FindByToken(ctx, token)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up idempotency token: %w", err)
	}

	payment, err := h.store.Payments().FindByID(ctx, record.PaymentID)
	if errors.Is(err, domain.ErrNotFound) {
		logger.Error(ctx).
			Str("token", token).
			Str("payment_id", record.PaymentID).
			Msg("Idempotency token bound to missing payment")
		return nil, apperrors.Newf(apperrors.KindInconsistentState,
			"token %s is bound to missing payment %s", token, record.PaymentID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load payment for token: %w", err)
	}
	return payment, nil
}
