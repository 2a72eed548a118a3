package gateway

import (
	"context"

	"github.com/tair/food-delivery/internal/payment/domain"
)

// Outcome is the three-way settlement result the ledger acts on. The
// classification boundary lives entirely in this package: callers never see
// transport-level detail.
type Outcome string

const (
	OutcomeSuccess Outcome = "SUCCESS"
	OutcomeFailure Outcome = "FAILURE"
	OutcomeTimeout Outcome = "TIMEOUT"
)

// Client settles a payment with the external gateway. Implementations must
// classify every transport error as OutcomeTimeout so the ledger can retry;
// the returned error is reserved for invalid input.
type Client interface {
	Process(ctx context.Context, payment *domain.Payment) (Outcome, error)
}
