package client

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tair/food-delivery/pkg/apperrors"
	"github.com/tair/food-delivery/pkg/logger"
)

// Config holds the payment-service client settings. MaxAttempts bounds the
// whole call including retries; exhausting it surfaces as Unavailable.
type Config struct {
	BaseURL      string
	Timeout      time.Duration
	MaxAttempts  int
	RetryWait    time.Duration
	RetryMaxWait time.Duration
}

// CreatePaymentRequest is the creation payload sent to the payment service.
type CreatePaymentRequest struct {
	OrderID       uint            `json:"order_id"`
	Method        string          `json:"method"`
	Currency      string          `json:"currency"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	PayableAmount decimal.Decimal `json:"payable_amount"`
}

// PaymentResult is the payment snapshot the payment service answers with.
type PaymentResult struct {
	PaymentID     string          `json:"payment_id"`
	OrderID       uint            `json:"order_id"`
	Status        string          `json:"status"`
	PayableAmount decimal.Decimal `json:"payable_amount"`
	Currency      string          `json:"currency"`
	RetryCount    int             `json:"retry_count"`
	CreatedAt     time.Time       `json:"created_at"`
}

// RefundResult is the refund outcome the payment service answers with.
type RefundResult struct {
	RefundID  string          `json:"refund_id"`
	PaymentID string          `json:"payment_id"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

// PaymentServiceClient is the HTTP client for the payment component. Retries
// with backoff happen below the caller: a transport failure or a 5xx answer
// is retried up to the configured attempt budget, and only then surfaced.
// Retrying creation is safe because every create carries an idempotency
// token.
type PaymentServiceClient struct {
	client *resty.Client
	tokens TokenProvider
}

// NewPaymentServiceClient creates a payment-service client.
func NewPaymentServiceClient(cfg Config, tokens TokenProvider) *PaymentServiceClient {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = 200 * time.Millisecond
	}
	if cfg.RetryMaxWait <= 0 {
		cfg.RetryMaxWait = 2 * time.Second
	}

	client := resty.NewWithClient(&http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}).
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.MaxAttempts - 1).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(cfg.RetryMaxWait).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() >= http.StatusInternalServerError ||
				r.StatusCode() == http.StatusTooManyRequests
		}).
		SetHeader("Content-Type", "application/json")

	logger.Logger.Info().
		Str("base_url", cfg.BaseURL).
		Int("max_attempts", cfg.MaxAttempts).
		Msg("Payment service client initialized")

	return &PaymentServiceClient{client: client, tokens: tokens}
}

// CreatePayment asks the payment service to create a payment for an order.
// The idempotency token makes repeats of the same initiate call safe.
func (c *PaymentServiceClient) CreatePayment(ctx context.Context, req CreatePaymentRequest, idempotencyToken string) (*PaymentResult, error) {
	var result PaymentResult
	err := c.do(ctx, http.MethodPost, "/api/payments", req, idempotencyToken, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ProcessPayment triggers gateway processing for an existing payment.
func (c *PaymentServiceClient) ProcessPayment(ctx context.Context, paymentID string) (*PaymentResult, error) {
	var result PaymentResult
	err := c.do(ctx, http.MethodPost, "/api/payments/"+paymentID+"/process", nil, "", &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Refund asks the payment service to refund part or all of a payment.
func (c *PaymentServiceClient) Refund(ctx context.Context, paymentID string, amount decimal.Decimal, reason string) (*RefundResult, error) {
	body := map[string]string{
		"amount": amount.StringFixed(2),
		"reason": reason,
	}

	var result RefundResult
	err := c.do(ctx, http.MethodPost, "/api/payments/"+paymentID+"/refund", body, "", &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// GetPayment fetches the current payment snapshot.
func (c *PaymentServiceClient) GetPayment(ctx context.Context, paymentID string) (*PaymentResult, error) {
	var result PaymentResult
	err := c.do(ctx, http.MethodGet, "/api/payments/"+paymentID, nil, "", &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *PaymentServiceClient) do(ctx context.Context, method, path string, body interface{}, idempotencyToken string, out interface{}) error {
	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return apperrors.Wrap(apperrors.KindUnavailable, err, "failed to acquire access token")
	}

	req := c.client.R().
		SetContext(ctx).
		SetAuthToken(token)
	if body != nil {
		req.SetBody(body)
	}
	if idempotencyToken != "" {
		req.SetHeader("Idempotency-Key", idempotencyToken)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		// Attempt budget exhausted.
		logger.Error(ctx).
			Err(err).
			Str("method", method).
			Str("path", path).
			Msg("Payment service unreachable after retries")
		return apperrors.Wrap(apperrors.KindUnavailable, err, "payment service unreachable")
	}

	var env envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return apperrors.Wrap(apperrors.KindUnavailable, err, "malformed payment service response")
	}

	if !env.Success {
		kind := apperrors.KindFromString(env.Code)
		if kind == apperrors.KindUnknown {
			kind = kindFromStatus(resp.StatusCode())
		}
		return apperrors.Newf(kind, "payment service: %s", env.Error)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return apperrors.Wrap(apperrors.KindUnavailable, err, "malformed payment service payload")
		}
	}
	return nil
}

func kindFromStatus(status int) apperrors.Kind {
	switch {
	case status == http.StatusNotFound:
		return apperrors.KindNotFound
	case status == http.StatusConflict:
		return apperrors.KindInvalidState
	case status == http.StatusUnprocessableEntity:
		return apperrors.KindInvalidPayment
	case status >= http.StatusInternalServerError:
		return apperrors.KindUnavailable
	default:
		return apperrors.KindInvalidArgument
	}
}
