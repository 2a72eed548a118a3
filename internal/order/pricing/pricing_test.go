package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/food-delivery/internal/order/domain"
	"github.com/tair/food-delivery/pkg/apperrors"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculateBreakdown(t *testing.T) {
	calc := NewStandardCalculator(dec("0.10"), dec("3.50"))

	breakdown, err := calc.Calculate([]domain.OrderItem{
		{Name: "Margherita", UnitPrice: dec("10.00"), Quantity: 2},
		{Name: "Tiramisu", UnitPrice: dec("5.50"), Quantity: 1},
	})
	require.NoError(t, err)

	assert.True(t, breakdown.ItemsTotal.Equal(dec("25.50")), "items total %s", breakdown.ItemsTotal)
	assert.True(t, breakdown.Tax.Equal(dec("2.55")), "tax %s", breakdown.Tax)
	assert.True(t, breakdown.DeliveryCharge.Equal(dec("3.50")))
	// The payable amount excludes the delivery charge.
	assert.True(t, breakdown.GrandTotal.Equal(dec("28.05")), "grand total %s", breakdown.GrandTotal)
}

func TestCalculateRoundsTax(t *testing.T) {
	calc := NewStandardCalculator(dec("0.0825"), dec("0.00"))

	breakdown, err := calc.Calculate([]domain.OrderItem{
		{Name: "Pad Thai", UnitPrice: dec("12.99"), Quantity: 1},
	})
	require.NoError(t, err)

	// 12.99 * 0.0825 = 1.071675, rounded half-up to cents.
	assert.True(t, breakdown.Tax.Equal(dec("1.07")), "tax %s", breakdown.Tax)
	assert.True(t, breakdown.GrandTotal.Equal(dec("14.06")))
}

func TestCalculateIsPure(t *testing.T) {
	calc := NewStandardCalculator(dec("0.10"), dec("2.00"))
	items := []domain.OrderItem{{Name: "Ramen", UnitPrice: dec("9.00"), Quantity: 3}}

	first, err := calc.Calculate(items)
	require.NoError(t, err)
	second, err := calc.Calculate(items)
	require.NoError(t, err)

	assert.True(t, first.GrandTotal.Equal(second.GrandTotal))
	assert.True(t, first.Tax.Equal(second.Tax))
}

func TestCalculateRejectsBadInput(t *testing.T) {
	calc := NewStandardCalculator(dec("0.10"), dec("3.50"))

	_, err := calc.Calculate(nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidArgument, apperrors.KindOf(err))

	_, err = calc.Calculate([]domain.OrderItem{{Name: "Soup", UnitPrice: dec("4.00"), Quantity: 0}})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidArgument, apperrors.KindOf(err))
}
