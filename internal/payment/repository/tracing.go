package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/food-delivery/internal/payment/domain"
)

var tracer = otel.Tracer("payment-store")

// TracingStore decorates a domain.Store with OpenTelemetry spans around
// every repository call.
type TracingStore struct {
	inner domain.Store
}

func NewTracingStore(inner domain.Store) *TracingStore {
	return &TracingStore{inner: inner}
}

func (s *TracingStore) Payments() domain.PaymentRepository {
	return &tracingPaymentRepository{inner: s.inner.Payments()}
}

func (s *TracingStore) Refunds() domain.RefundRepository {
	return &tracingRefundRepository{inner: s.inner.Refunds()}
}

func (s *TracingStore) Idempotency() domain.IdempotencyRepository {
	return &tracingIdempotencyRepository{inner: s.inner.Idempotency()}
}

func (s *TracingStore) Transaction(ctx context.Context, fn func(tx domain.Store) error) error {
	ctx, span := tracer.Start(ctx, "store.Transaction")
	defer span.End()

	err := s.inner.Transaction(ctx, func(tx domain.Store) error {
		return fn(&TracingStore{inner: tx})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

type tracingPaymentRepository struct {
	inner domain.PaymentRepository
}

func (r *tracingPaymentRepository) Create(ctx context.Context, payment *domain.Payment, token string) error {
	ctx, span := startSpan(ctx, "payments.Create",
		attribute.String("payment.id", payment.ID),
		attribute.Int64("order.id", int64(payment.OrderID)),
	)
	err := r.inner.Create(ctx, payment, token)
	endSpan(span, err)
	return err
}

func (r *tracingPaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	ctx, span := startSpan(ctx, "payments.FindByID", attribute.String("payment.id", id))
	payment, err := r.inner.FindByID(ctx, id)
	endSpan(span, err)
	return payment, err
}

func (r *tracingPaymentRepository) FindByIDForUpdate(ctx context.Context, id string) (*domain.Payment, error) {
	ctx, span := startSpan(ctx, "payments.FindByIDForUpdate", attribute.String("payment.id", id))
	payment, err := r.inner.FindByIDForUpdate(ctx, id)
	endSpan(span, err)
	return payment, err
}

func (r *tracingPaymentRepository) FindByOrderID(ctx context.Context, orderID uint) (*domain.Payment, error) {
	ctx, span := startSpan(ctx, "payments.FindByOrderID", attribute.Int64("order.id", int64(orderID)))
	payment, err := r.inner.FindByOrderID(ctx, orderID)
	endSpan(span, err)
	return payment, err
}

func (r *tracingPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	ctx, span := startSpan(ctx, "payments.Update",
		attribute.String("payment.id", payment.ID),
		attribute.String("payment.status", string(payment.Status)),
	)
	err := r.inner.Update(ctx, payment)
	endSpan(span, err)
	return err
}

func (r *tracingPaymentRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Payment, error) {
	ctx, span := startSpan(ctx, "payments.FindAll")
	payments, err := r.inner.FindAll(ctx, limit, offset)
	endSpan(span, err)
	return payments, err
}

type tracingRefundRepository struct {
	inner domain.RefundRepository
}

func (r *tracingRefundRepository) Create(ctx context.Context, refund *domain.Refund) error {
	ctx, span := startSpan(ctx, "refunds.Create",
		attribute.String("refund.id", refund.ID),
		attribute.String("payment.id", refund.PaymentID),
	)
	err := r.inner.Create(ctx, refund)
	endSpan(span, err)
	return err
}

func (r *tracingRefundRepository) FindByPaymentID(ctx context.Context, paymentID string) ([]domain.Refund, error) {
	ctx, span := startSpan(ctx, "refunds.FindByPaymentID", attribute.String("payment.id", paymentID))
	refunds, err := r.inner.FindByPaymentID(ctx, paymentID)
	endSpan(span, err)
	return refunds, err
}

func (r *tracingRefundRepository) TotalRefunded(ctx context.Context, paymentID string) (decimal.Decimal, error) {
	ctx, span := startSpan(ctx, "refunds.TotalRefunded", attribute.String("payment.id", paymentID))
	total, err := r.inner.TotalRefunded(ctx, paymentID)
	endSpan(span, err)
	return total, err
}

type tracingIdempotencyRepository struct {
	inner domain.IdempotencyRepository
}

func (r *tracingIdempotencyRepository) FindByToken(ctx context.Context, token string) (*domain.IdempotencyRecord, error) {
	ctx, span := startSpan(ctx, "idempotency.FindByToken")
	record, err := r.inner.FindByToken(ctx, token)
	endSpan(span, err)
	return record, err
}
