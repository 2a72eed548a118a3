package command

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/food-delivery/internal/payment/domain"
	"github.com/tair/food-delivery/pkg/apperrors"
)

func TestRefundPartialThenFull(t *testing.T) {
	store := newTestStore(t)
	seeded := seedPayment(t, store, domain.StatusSuccess)
	handler := NewRefundPaymentHandler(store)
	ctx := context.Background()

	first, err := handler.Handle(ctx, RefundPaymentCommand{
		PaymentID: seeded.ID,
		Amount:    dec("40.00"),
		Reason:    "cold food",
	})
	require.NoError(t, err)
	assert.Contains(t, first.ID, "REF-")
	assert.Equal(t, domain.RefundStatusSuccess, first.Status)

	// A partial refund leaves the payment settled.
	payment, err := store.Payments().FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, payment.Status)

	_, err = handler.Handle(ctx, RefundPaymentCommand{
		PaymentID: seeded.ID,
		Amount:    dec("70.00"),
		Reason:    "order cancelled",
	})
	require.NoError(t, err)

	// The boundary refund flips the payment to REFUNDED.
	payment, err = store.Payments().FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRefunded, payment.Status)

	total, err := store.Refunds().TotalRefunded(ctx, seeded.ID)
	require.NoError(t, err)
	assert.True(t, total.Equal(dec("110.00")))
}

func TestRefundOverLimitRejected(t *testing.T) {
	store := newTestStore(t)
	seeded := seedPayment(t, store, domain.StatusSuccess)
	handler := NewRefundPaymentHandler(store)
	ctx := context.Background()

	_, err := handler.Handle(ctx, RefundPaymentCommand{
		PaymentID: seeded.ID,
		Amount:    dec("110.01"),
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindLimitExceeded, apperrors.KindOf(err))

	// Nothing was written.
	refunds, err := store.Refunds().FindByPaymentID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Empty(t, refunds)

	// The exact remainder still goes through afterwards.
	_, err = handler.Handle(ctx, RefundPaymentCommand{PaymentID: seeded.ID, Amount: dec("110.00")})
	require.NoError(t, err)
}

func TestRefundCumulativeLimit(t *testing.T) {
	store := newTestStore(t)
	seeded := seedPayment(t, store, domain.StatusSuccess)
	handler := NewRefundPaymentHandler(store)
	ctx := context.Background()

	_, err := handler.Handle(ctx, RefundPaymentCommand{PaymentID: seeded.ID, Amount: dec("60.00")})
	require.NoError(t, err)

	_, err = handler.Handle(ctx, RefundPaymentCommand{PaymentID: seeded.ID, Amount: dec("50.01")})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindLimitExceeded, apperrors.KindOf(err))
}

func TestRefundConcurrentRacersRespectLimit(t *testing.T) {
	store := newTestStore(t)
	seeded := seedPayment(t, store, domain.StatusSuccess)
	handler := NewRefundPaymentHandler(store)
	ctx := context.Background()

	// Two refunds of 60.00 race against a payable of 110.00. The row lock
	// taken before the limit check means at most one can land; without it
	// both read a refund sum of zero and commit 120.00 together.
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := handler.Handle(ctx, RefundPaymentCommand{
				PaymentID: seeded.ID,
				Amount:    dec("60.00"),
				Reason:    "order damaged",
			})
			errs <- err
		}()
	}
	var rejected int
	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			rejected++
		}
	}
	require.GreaterOrEqual(t, rejected, 1)

	total, err := store.Refunds().TotalRefunded(ctx, seeded.ID)
	require.NoError(t, err)
	assert.True(t, total.LessThanOrEqual(seeded.PayableAmount))

	refunds, err := store.Refunds().FindByPaymentID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(refunds), 1)
}

func TestRefundRequiresSettledPayment(t *testing.T) {
	tests := []struct {
		name   string
		status domain.Status
	}{
		{"initiated", domain.StatusInitiated},
		{"failed", domain.StatusFailed},
		{"retrying", domain.StatusRetrying},
		{"already fully refunded", domain.StatusRefunded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newTestStore(t)
			seeded := seedPayment(t, store, tt.status)
			handler := NewRefundPaymentHandler(store)

			_, err := handler.Handle(context.Background(), RefundPaymentCommand{
				PaymentID: seeded.ID,
				Amount:    dec("10.00"),
			})
			require.Error(t, err)
			assert.Equal(t, apperrors.KindInvalidState, apperrors.KindOf(err))
		})
	}
}

func TestRefundValidation(t *testing.T) {
	store := newTestStore(t)
	handler := NewRefundPaymentHandler(store)
	ctx := context.Background()

	_, err := handler.Handle(ctx, RefundPaymentCommand{PaymentID: "PAY-x", Amount: decimal.Zero})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidArgument, apperrors.KindOf(err))

	_, err = handler.Handle(ctx, RefundPaymentCommand{PaymentID: "PAY-x", Amount: dec("-1.00")})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidArgument, apperrors.KindOf(err))

	_, err = handler.Handle(ctx, RefundPaymentCommand{PaymentID: "PAY-missing", Amount: dec("1.00")})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
