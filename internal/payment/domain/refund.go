package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RefundStatus is the refund outcome. Refunds are written once and never
// mutated, so only the settled state exists today.
type RefundStatus string

const (
	RefundStatusSuccess RefundStatus = "SUCCESS"
)

// Refund records one refund against a payment. For any payment the sum of
// refund amounts never exceeds the payment's payable amount.
type Refund struct {
	ID        string          `json:"refund_id" gorm:"primaryKey;size:64"`
	PaymentID string          `json:"payment_id" gorm:"not null;index;size:64"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	Reason    string          `json:"reason" gorm:"size:255"`
	Status    RefundStatus    `json:"status" gorm:"size:32;not null"`
	CreatedAt time.Time       `json:"created_at"`
}

func (Refund) TableName() string {
	return "refunds"
}

// RefundRepository is the refund ledger's data access contract.
type RefundRepository interface {
	Create(ctx context.Context, refund *Refund) error
	FindByPaymentID(ctx context.Context, paymentID string) ([]Refund, error)
	// TotalRefunded returns the running refunded sum for a payment, zero when
	// no refunds exist.
	TotalRefunded(ctx context.Context, paymentID string) (decimal.Decimal, error)
}
