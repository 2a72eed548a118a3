package gateway

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tair/food-delivery/internal/payment/domain"
	"github.com/tair/food-delivery/pkg/logger"
)

// ProviderConfig holds settlement provider settings.
type ProviderConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Provider calls an external settlement provider and maps its response into
// the three-way outcome. Timeouts and transport failures become
// OutcomeTimeout; everything the provider explicitly declines becomes
// OutcomeFailure.
type Provider struct {
	client *resty.Client
}

// NewProvider creates a settlement provider client with a per-request
// timeout and traced transport.
func NewProvider(cfg ProviderConfig) *Provider {
	client := resty.NewWithClient(&http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}).
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &Provider{client: client}
}

type chargeRequest struct {
	Reference string `json:"reference"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
	Method    string `json:"method"`
}

type chargeResponse struct {
	Status string `json:"status"`
}

func (p *Provider) Process(ctx context.Context, payment *domain.Payment) (Outcome, error) {
	if payment == nil {
		return OutcomeFailure, errors.New("payment is nil")
	}

	var result chargeResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(chargeRequest{
			Reference: payment.ID,
			Amount:    payment.PayableAmount.StringFixed(2),
			Currency:  payment.Currency,
			Method:    payment.Method,
		}).
		SetResult(&result).
		Post("/v1/charges")
	if err != nil {
		// Transport failure or deadline: retryable from the ledger's view.
		logger.Warn(ctx).
			Err(err).
			Str("payment_id", payment.ID).
			Msg("Settlement provider unreachable, classifying as timeout")
		return OutcomeTimeout, nil
	}

	switch {
	case resp.IsSuccess() && result.Status == "succeeded":
		return OutcomeSuccess, nil
	case resp.StatusCode() == http.StatusRequestTimeout,
		resp.StatusCode() == http.StatusTooManyRequests,
		resp.StatusCode() >= http.StatusInternalServerError:
		return OutcomeTimeout, nil
	default:
		logger.Warn(ctx).
			Str("payment_id", payment.ID).
			Int("status_code", resp.StatusCode()).
			Str("provider_status", result.Status).
			Msg("Settlement provider declined payment")
		return OutcomeFailure, nil
	}
}
