package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/tair/food-delivery/internal/order/domain"
	"github.com/tair/food-delivery/pkg/apperrors"
)

// Breakdown is the authoritative price decomposition of an order. The
// payable amount collected by the payment service is GrandTotal: items plus
// tax. The delivery charge is billed separately and never part of it.
type Breakdown struct {
	ItemsTotal     decimal.Decimal `json:"items_total"`
	Tax            decimal.Decimal `json:"tax"`
	DeliveryCharge decimal.Decimal `json:"delivery_charge"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
}

// Calculator computes a price breakdown from persisted line items. It is a
// pure function: no side effects, same items always give the same breakdown.
type Calculator interface {
	Calculate(items []domain.OrderItem) (Breakdown, error)
}

// StandardCalculator applies a flat tax rate and a fixed delivery charge.
type StandardCalculator struct {
	taxRate        decimal.Decimal
	deliveryCharge decimal.Decimal
}

// NewStandardCalculator creates a calculator. taxRate is a fraction, e.g.
// 0.10 for ten percent.
func NewStandardCalculator(taxRate, deliveryCharge decimal.Decimal) *StandardCalculator {
	return &StandardCalculator{
		taxRate:        taxRate,
		deliveryCharge: deliveryCharge,
	}
}

func (c *StandardCalculator) Calculate(items []domain.OrderItem) (Breakdown, error) {
	if len(items) == 0 {
		return Breakdown{}, apperrors.New(apperrors.KindInvalidArgument, "order has no line items")
	}

	itemsTotal := decimal.Zero
	for _, item := range items {
		if item.Quantity <= 0 {
			return Breakdown{}, apperrors.Newf(apperrors.KindInvalidArgument,
				"line item %q has non-positive quantity %d", item.Name, item.Quantity)
		}
		line := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		itemsTotal = itemsTotal.Add(line)
	}

	tax := itemsTotal.Mul(c.taxRate).Round(2)

	return Breakdown{
		ItemsTotal:     itemsTotal,
		Tax:            tax,
		DeliveryCharge: c.deliveryCharge,
		GrandTotal:     itemsTotal.Add(tax),
	}, nil
}
