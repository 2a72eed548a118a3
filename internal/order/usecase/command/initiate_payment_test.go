package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/food-delivery/internal/order/client"
	"github.com/tair/food-delivery/internal/order/domain"
	"github.com/tair/food-delivery/internal/order/pricing"
	"github.com/tair/food-delivery/pkg/apperrors"
)

func newCalculator() pricing.Calculator {
	return pricing.NewStandardCalculator(dec("0.10"), dec("3.50"))
}

func TestInitiatePayment(t *testing.T) {
	store := newTestStore(t)
	payments := &fakePaymentClient{}
	handler := NewInitiatePaymentHandler(store, newCalculator(), payments)
	ctx := context.Background()

	seeded := seedOrder(t, store, domain.StatusAccepted)

	result, err := handler.Handle(ctx, InitiatePaymentCommand{OrderID: seeded.ID, Method: "card"})
	require.NoError(t, err)
	assert.Equal(t, "PAY-test", result.PaymentID)

	// The token is derived from the order, not generated per call.
	assert.Equal(t, IdempotencyToken(seeded.ID), payments.tokenSeen())

	reloaded, err := store.Orders().FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.PaymentID)
	assert.Equal(t, "PAY-test", *reloaded.PaymentID)
	assert.Equal(t, "INITIATED", reloaded.PaymentStatus)
	// The order's own lifecycle is untouched.
	assert.Equal(t, domain.StatusAccepted, reloaded.Status)
}

func TestInitiatePaymentRequiresAccepted(t *testing.T) {
	for _, status := range []domain.Status{domain.StatusCreated, domain.StatusPreparing, domain.StatusReady, domain.StatusDelivered, domain.StatusCancelled} {
		t.Run(string(status), func(t *testing.T) {
			store := newTestStore(t)
			payments := &fakePaymentClient{}
			handler := NewInitiatePaymentHandler(store, newCalculator(), payments)

			seeded := seedOrder(t, store, status)

			_, err := handler.Handle(context.Background(), InitiatePaymentCommand{OrderID: seeded.ID})
			requireKind(t, err, apperrors.KindInvalidState)

			create, _, _ := payments.counts()
			assert.Equal(t, 0, create)
		})
	}
}

func TestInitiatePaymentRejectsSecondInitiate(t *testing.T) {
	store := newTestStore(t)
	payments := &fakePaymentClient{}
	handler := NewInitiatePaymentHandler(store, newCalculator(), payments)
	ctx := context.Background()

	seeded := seedOrder(t, store, domain.StatusAccepted)

	_, err := handler.Handle(ctx, InitiatePaymentCommand{OrderID: seeded.ID})
	require.NoError(t, err)

	_, err = handler.Handle(ctx, InitiatePaymentCommand{OrderID: seeded.ID})
	requireKind(t, err, apperrors.KindInvalidState)

	create, _, _ := payments.counts()
	assert.Equal(t, 1, create)
}

func TestInitiatePaymentClientFailure(t *testing.T) {
	store := newTestStore(t)
	payments := &fakePaymentClient{
		createErr: apperrors.New(apperrors.KindUnavailable, "payment service unreachable"),
	}
	handler := NewInitiatePaymentHandler(store, newCalculator(), payments)
	ctx := context.Background()

	seeded := seedOrder(t, store, domain.StatusAccepted)

	_, err := handler.Handle(ctx, InitiatePaymentCommand{OrderID: seeded.ID})
	requireKind(t, err, apperrors.KindUnavailable)

	// No payment reference was stored, so a later initiate can converge.
	reloaded, err := store.Orders().FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.PaymentInitiated())

	payments.createErr = nil
	result, err := handler.Handle(ctx, InitiatePaymentCommand{OrderID: seeded.ID})
	require.NoError(t, err)
	assert.Equal(t, "PAY-test", result.PaymentID)
}

func TestInitiatePaymentUnknownOrder(t *testing.T) {
	store := newTestStore(t)
	handler := NewInitiatePaymentHandler(store, newCalculator(), &fakePaymentClient{})

	_, err := handler.Handle(context.Background(), InitiatePaymentCommand{OrderID: 42})
	requireKind(t, err, apperrors.KindNotFound)
}

func TestInitiatePaymentSendsBreakdownAmounts(t *testing.T) {
	store := newTestStore(t)
	captured := make(chan client.CreatePaymentRequest, 1)
	payments := &capturingPaymentClient{fakePaymentClient: &fakePaymentClient{}, requests: captured}
	handler := NewInitiatePaymentHandler(store, newCalculator(), payments)

	seeded := seedOrder(t, store, domain.StatusAccepted)

	_, err := handler.Handle(context.Background(), InitiatePaymentCommand{OrderID: seeded.ID, Currency: "USD"})
	require.NoError(t, err)

	req := <-captured
	assert.True(t, req.TotalAmount.Equal(dec("25.50")))
	assert.True(t, req.TaxAmount.Equal(dec("2.55")))
	// Items plus tax, delivery charge excluded.
	assert.True(t, req.PayableAmount.Equal(dec("28.05")))
}

type capturingPaymentClient struct {
	*fakePaymentClient
	requests chan client.CreatePaymentRequest
}

func (c *capturingPaymentClient) CreatePayment(ctx context.Context, req client.CreatePaymentRequest, token string) (*client.PaymentResult, error) {
	c.requests <- req
	return c.fakePaymentClient.CreatePayment(ctx, req, token)
}
