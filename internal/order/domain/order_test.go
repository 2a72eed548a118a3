package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusCreated, StatusAccepted},
		{StatusCreated, StatusCancelled},
		{StatusAccepted, StatusPreparing},
		{StatusAccepted, StatusCancelled},
		{StatusPreparing, StatusReady},
		{StatusPreparing, StatusCancelled},
		{StatusReady, StatusDelivered},
	}
	for _, tt := range allowed {
		assert.True(t, CanTransition(tt.from, tt.to), "%s -> %s should be allowed", tt.from, tt.to)
	}

	rejected := []struct{ from, to Status }{
		{StatusCreated, StatusPreparing},
		{StatusCreated, StatusReady},
		{StatusCreated, StatusDelivered},
		{StatusAccepted, StatusReady},
		{StatusAccepted, StatusCreated},
		{StatusPreparing, StatusDelivered},
		{StatusReady, StatusCancelled},
		{StatusReady, StatusCreated},
		{StatusDelivered, StatusCancelled},
		{StatusDelivered, StatusCreated},
		{StatusCancelled, StatusCreated},
		{StatusCancelled, StatusAccepted},
		{Status("UNKNOWN"), StatusAccepted},
	}
	for _, tt := range rejected {
		assert.False(t, CanTransition(tt.from, tt.to), "%s -> %s should be rejected", tt.from, tt.to)
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusCreated, StatusAccepted, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled} {
		assert.True(t, s.Valid())
	}
	assert.False(t, Status("PAID").Valid())
	assert.False(t, Status("").Valid())
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusDelivered.Terminal())
	assert.True(t, StatusCancelled.Terminal())

	for _, s := range []Status{StatusCreated, StatusAccepted, StatusPreparing, StatusReady} {
		assert.False(t, s.Terminal())
	}
	assert.False(t, Status("UNKNOWN").Terminal())
}

func TestInvalidTransitionError(t *testing.T) {
	err := &InvalidTransitionError{From: StatusCreated, To: StatusReady}
	assert.Equal(t, "transition CREATED -> READY is not allowed", err.Error())
}

func TestPaymentInitiated(t *testing.T) {
	order := &Order{}
	assert.False(t, order.PaymentInitiated())

	empty := ""
	order.PaymentID = &empty
	assert.False(t, order.PaymentInitiated())

	id := "PAY-1"
	order.PaymentID = &id
	assert.True(t, order.PaymentInitiated())
}
