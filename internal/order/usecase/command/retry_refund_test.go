package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/food-delivery/internal/order/domain"
	"github.com/tair/food-delivery/pkg/apperrors"
)

func TestRetryPayment(t *testing.T) {
	store := newTestStore(t)
	payments := &fakePaymentClient{}
	handler := NewRetryPaymentHandler(store, payments)
	ctx := context.Background()

	seeded := seedOrder(t, store, domain.StatusAccepted)
	withPayment(t, store, seeded, "PAY-1")

	result, err := handler.Handle(ctx, RetryPaymentCommand{OrderID: seeded.ID})
	require.NoError(t, err)
	assert.Equal(t, "PAY-1", result.PaymentID)

	_, process, _ := payments.counts()
	assert.Equal(t, 1, process)

	reloaded, err := store.Orders().FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "SUCCESS", reloaded.PaymentStatus)
}

func TestRetryPaymentWithoutInitiation(t *testing.T) {
	store := newTestStore(t)
	payments := &fakePaymentClient{}
	handler := NewRetryPaymentHandler(store, payments)

	seeded := seedOrder(t, store, domain.StatusAccepted)

	_, err := handler.Handle(context.Background(), RetryPaymentCommand{OrderID: seeded.ID})
	requireKind(t, err, apperrors.KindInvalidState)

	_, process, _ := payments.counts()
	assert.Equal(t, 0, process)
}

func TestRetryPaymentUnknownOrder(t *testing.T) {
	store := newTestStore(t)
	handler := NewRetryPaymentHandler(store, &fakePaymentClient{})

	_, err := handler.Handle(context.Background(), RetryPaymentCommand{OrderID: 7})
	requireKind(t, err, apperrors.KindNotFound)
}

func TestRefundOrder(t *testing.T) {
	store := newTestStore(t)
	payments := &fakePaymentClient{}
	handler := NewRefundOrderHandler(store, payments)
	ctx := context.Background()

	seeded := seedOrder(t, store, domain.StatusCancelled)
	withPayment(t, store, seeded, "PAY-1")

	result, err := handler.Handle(ctx, RefundOrderCommand{OrderID: seeded.ID, Amount: dec("10.00"), Reason: "cancelled"})
	require.NoError(t, err)
	assert.Equal(t, "PAY-1", result.PaymentID)
	assert.True(t, result.Amount.Equal(dec("10.00")))

	_, _, refund := payments.counts()
	assert.Equal(t, 1, refund)
}

func TestRefundOrderValidation(t *testing.T) {
	store := newTestStore(t)
	payments := &fakePaymentClient{}
	handler := NewRefundOrderHandler(store, payments)
	ctx := context.Background()

	seeded := seedOrder(t, store, domain.StatusCancelled)

	_, err := handler.Handle(ctx, RefundOrderCommand{OrderID: seeded.ID, Amount: dec("0.00")})
	requireKind(t, err, apperrors.KindInvalidArgument)

	// Refunds require an initiated payment.
	_, err = handler.Handle(ctx, RefundOrderCommand{OrderID: seeded.ID, Amount: dec("10.00")})
	requireKind(t, err, apperrors.KindInvalidState)

	_, err = handler.Handle(ctx, RefundOrderCommand{OrderID: 999, Amount: dec("10.00")})
	requireKind(t, err, apperrors.KindNotFound)

	_, _, refund := payments.counts()
	assert.Equal(t, 0, refund)
}

func TestRefundOrderPropagatesLedgerRejection(t *testing.T) {
	store := newTestStore(t)
	payments := &fakePaymentClient{
		refundErr: apperrors.New(apperrors.KindLimitExceeded, "refund would exceed payable amount"),
	}
	handler := NewRefundOrderHandler(store, payments)

	seeded := seedOrder(t, store, domain.StatusCancelled)
	withPayment(t, store, seeded, "PAY-1")

	_, err := handler.Handle(context.Background(), RefundOrderCommand{OrderID: seeded.ID, Amount: dec("999.00")})
	requireKind(t, err, apperrors.KindLimitExceeded)
}
