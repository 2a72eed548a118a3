package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/food-delivery/pkg/apperrors"
)

// Status is the payment lifecycle state.
type Status string

const (
	StatusInitiated       Status = "INITIATED"
	StatusProcessing      Status = "PROCESSING"
	StatusSuccess         Status = "SUCCESS"
	StatusFailed          Status = "FAILED"
	StatusRetrying        Status = "RETRYING"
	StatusFailedPermanent Status = "FAILED_PERMANENT"
	StatusRefunded        Status = "REFUNDED"
)

// Payment is an append-only financial record. Amounts are fixed-point
// decimals; the amount invariant is checked once at creation and never
// re-derived.
type Payment struct {
	ID            string          `json:"payment_id" gorm:"primaryKey;size:64"`
	OrderID       uint            `json:"order_id" gorm:"not null;index"`
	Method        string          `json:"method" gorm:"size:32"`
	Currency      string          `json:"currency" gorm:"size:8;default:'USD'"`
	TotalAmount   decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2);not null"`
	TaxAmount     decimal.Decimal `json:"tax_amount" gorm:"type:numeric(12,2);not null"`
	PayableAmount decimal.Decimal `json:"payable_amount" gorm:"type:numeric(12,2);not null"`
	Status        Status          `json:"status" gorm:"size:32;not null"`
	RetryCount    int             `json:"retry_count" gorm:"not null;default:0"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// TableName specifies the table name
func (Payment) TableName() string {
	return "payments"
}

// Settled reports whether the payment reached a terminal success state.
// Processing a settled payment is an idempotent no-op.
func (p *Payment) Settled() bool {
	return p.Status == StatusSuccess || p.Status == StatusRefunded
}

// ValidateAmounts enforces payableAmount == totalAmount + taxAmount and
// totalAmount > 0, by exact decimal comparison.
func ValidateAmounts(total, tax, payable decimal.Decimal) error {
	if total.LessThanOrEqual(decimal.Zero) {
		return apperrors.Newf(apperrors.KindInvalidPayment,
			"total amount must be greater than zero, got %s", total)
	}
	if !payable.Equal(total.Add(tax)) {
		return apperrors.Newf(apperrors.KindInvalidPayment,
			"payable amount %s does not equal total %s plus tax %s", payable, total, tax)
	}
	return nil
}

// IdempotencyRecord binds a caller-supplied token to the payment it created.
// Once bound the mapping is immutable.
type IdempotencyRecord struct {
	Token     string    `json:"token" gorm:"primaryKey;size:128"`
	PaymentID string    `json:"payment_id" gorm:"not null;size:64"`
	CreatedAt time.Time `json:"created_at"`
}

func (IdempotencyRecord) TableName() string {
	return "payment_idempotency_records"
}

// ErrDuplicateToken is returned by PaymentRepository.Create when a concurrent
// request already bound the idempotency token.
var ErrDuplicateToken = errors.New("idempotency token already bound")

// ErrNotFound is returned by repositories when the requested record is absent.
var ErrNotFound = errors.New("record not found")

// PaymentRepository is the payment ledger's data access contract.
type PaymentRepository interface {
	// Create persists a new payment and binds its idempotency token as one
	// atomic unit. Returns ErrDuplicateToken when the token is already bound.
	Create(ctx context.Context, payment *Payment, token string) error
	FindByID(ctx context.Context, id string) (*Payment, error)
	// FindByIDForUpdate loads the payment and holds a row lock until the
	// enclosing transaction ends. Only meaningful inside Transaction.
	FindByIDForUpdate(ctx context.Context, id string) (*Payment, error)
	FindByOrderID(ctx context.Context, orderID uint) (*Payment, error)
	Update(ctx context.Context, payment *Payment) error
	FindAll(ctx context.Context, limit, offset int) ([]Payment, error)
}

// IdempotencyRepository reads token bindings.
type IdempotencyRepository interface {
	FindByToken(ctx context.Context, token string) (*IdempotencyRecord, error)
}

// Store bundles the payment-side repositories behind one transactional
// boundary. Transaction runs fn against repositories scoped to a single
// database transaction; returning an error rolls everything back.
type Store interface {
	Payments() PaymentRepository
	Refunds() RefundRepository
	Idempotency() IdempotencyRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
