package gateway

import (
	"context"
	"errors"
	"hash/fnv"

	"github.com/tair/food-delivery/internal/payment/domain"
	"github.com/tair/food-delivery/pkg/logger"
)

// Sandbox is the reference gateway used in tests and local environments.
// The outcome is derived from a hash of the payment identifier, so a given
// payment always settles the same way and every outcome class is reachable.
type Sandbox struct{}

// NewSandbox creates the deterministic sandbox gateway.
func NewSandbox() *Sandbox {
	return &Sandbox{}
}

func (s *Sandbox) Process(ctx context.Context, payment *domain.Payment) (Outcome, error) {
	if payment == nil {
		return OutcomeFailure, errors.New("payment is nil")
	}
	if err := ctx.Err(); err != nil {
		return OutcomeTimeout, nil
	}

	outcome := outcomeFor(payment.ID)

	logger.Debug(ctx).
		Str("payment_id", payment.ID).
		Str("outcome", string(outcome)).
		Msg("Sandbox gateway processed payment")

	return outcome, nil
}

// outcomeFor buckets the FNV-1a hash of the payment ID: 0-6 settle, 7-8 are
// declined, 9 times out.
func outcomeFor(paymentID string) Outcome {
	h := fnv.New32a()
	h.Write([]byte(paymentID))

	switch h.Sum32() % 10 {
	case 7, 8:
		return OutcomeFailure
	case 9:
		return OutcomeTimeout
	default:
		return OutcomeSuccess
	}
}
