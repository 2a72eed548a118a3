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

// RefundPaymentCommand represents the command to refund part or all of a
// settled payment.
type RefundPaymentCommand struct {
	PaymentID string
	Amount    decimal.Decimal
	Reason    string
}

// RefundPaymentHandler enforces the refund ledger invariant: cumulative
// refunds never exceed a payment's payable amount.
type RefundPaymentHandler struct {
	store domain.Store
}

// NewRefundPaymentHandler creates a new refund payment handler.
func NewRefundPaymentHandler(store domain.Store) *RefundPaymentHandler {
	return &RefundPaymentHandler{store: store}
}

// Handle executes the refund command. The limit check, refund insert and the
// possible flip to REFUNDED happen in one transaction.
func (h *RefundPaymentHandler) Handle(ctx context.Context, cmd RefundPaymentCommand) (*domain.Refund, error) {
	if cmd.PaymentID == "" {
		return nil, apperrors.New(apperrors.KindInvalidArgument, "payment_id is required")
	}
	if cmd.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, apperrors.Newf(apperrors.KindInvalidArgument,
			"refund amount must be greater than zero, got %s", cmd.Amount)
	}

	var refund *domain.Refund
	err := h.store.Transaction(ctx, func(tx domain.Store) error {
		// Row lock: the limit check below reads the refund sum, and two
		// unserialized refunds could each pass it and overshoot together.
		payment, err := tx.Payments().FindByIDForUpdate(ctx, cmd.PaymentID)
		if errors.Is(err, domain.ErrNotFound) {
			return apperrors.Newf(apperrors.KindNotFound, "payment %s not found", cmd.PaymentID)
		}
		if err != nil {
			return fmt.Errorf("failed to load payment: %w", err)
		}

		// Only a settled payment can be refunded. REFUNDED itself is
		// rejected so repeated partial calls cannot over-refund.
		if payment.Status != domain.StatusSuccess {
			return apperrors.Newf(apperrors.KindInvalidState,
				"payment %s is %s, refunds require SUCCESS", payment.ID, payment.Status)
		}

		alreadyRefunded, err := tx.Refunds().TotalRefunded(ctx, cmd.PaymentID)
		if err != nil {
			return fmt.Errorf("failed to sum existing refunds: %w", err)
		}

		cumulative := alreadyRefunded.Add(cmd.Amount)
		if cumulative.GreaterThan(payment.PayableAmount) {
			return apperrors.Newf(apperrors.KindLimitExceeded,
				"refund of %s would exceed payable amount %s (already refunded %s)",
				cmd.Amount, payment.PayableAmount, alreadyRefunded)
		}

		refund = &domain.Refund{
			ID:        fmt.Sprintf("REF-%s", uuid.New().String()),
			PaymentID: payment.ID,
			Amount:    cmd.Amount,
			Reason:    cmd.Reason,
			Status:    domain.RefundStatusSuccess,
		}
		if err := tx.Refunds().Create(ctx, refund); err != nil {
			return fmt.Errorf("failed to persist refund: %w", err)
		}

		// Exact decimal equality, never tolerance: the boundary refund flips
		// the payment to REFUNDED.
		if cumulative.Equal(payment.PayableAmount) {
			payment.Status = domain.StatusRefunded
			if err := tx.Payments().Update(ctx, payment); err != nil {
				return fmt.Errorf("failed to mark payment refunded: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx).
		Str("refund_id", refund.ID).
		Str("payment_id", refund.PaymentID).
		Str("amount", refund.Amount.StringFixed(2)).
		Msg("Refund recorded")

	return refund, nil
}
