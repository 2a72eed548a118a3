package query

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tair/food-delivery/internal/payment/domain"
	"github.com/tair/food-delivery/internal/payment/repository"
	"github.com/tair/food-delivery/pkg/apperrors"
)

func newTestStore(t *testing.T) domain.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	store := repository.NewGormStore(db)
	require.NoError(t, store.AutoMigrate())
	return store
}

func seedPayment(t *testing.T, store domain.Store, orderID uint) *domain.Payment {
	t.Helper()
	payment := &domain.Payment{
		ID:            fmt.Sprintf("PAY-%s", uuid.NewString()),
		OrderID:       orderID,
		Method:        "card",
		Currency:      "USD",
		TotalAmount:   decimal.RequireFromString("100.00"),
		TaxAmount:     decimal.RequireFromString("10.00"),
		PayableAmount: decimal.RequireFromString("110.00"),
		Status:        domain.StatusSuccess,
	}
	require.NoError(t, store.Payments().Create(context.Background(), payment, fmt.Sprintf("order-%d", orderID)))
	return payment
}

func TestGetPayment(t *testing.T) {
	store := newTestStore(t)
	handler := NewGetPaymentHandler(store)
	ctx := context.Background()

	seeded := seedPayment(t, store, 1)

	payment, err := handler.Handle(ctx, GetPaymentQuery{ID: seeded.ID})
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, payment.ID)
	assert.True(t, payment.PayableAmount.Equal(decimal.RequireFromString("110.00")))

	_, err = handler.Handle(ctx, GetPaymentQuery{ID: "PAY-missing"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestListPayments(t *testing.T) {
	store := newTestStore(t)
	handler := NewListPaymentsHandler(store)
	ctx := context.Background()

	for i := uint(1); i <= 4; i++ {
		seedPayment(t, store, i)
	}

	payments, err := handler.Handle(ctx, ListPaymentsQuery{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, payments, 2)

	payments, err = handler.Handle(ctx, ListPaymentsQuery{})
	require.NoError(t, err)
	assert.Len(t, payments, 4)
}

func TestListRefunds(t *testing.T) {
	store := newTestStore(t)
	handler := NewListRefundsHandler(store)
	ctx := context.Background()

	seeded := seedPayment(t, store, 1)

	refunds, err := handler.Handle(ctx, ListRefundsQuery{PaymentID: seeded.ID})
	require.NoError(t, err)
	assert.Empty(t, refunds)

	require.NoError(t, store.Refunds().Create(ctx, &domain.Refund{
		ID:        "REF-1",
		PaymentID: seeded.ID,
		Amount:    decimal.RequireFromString("25.00"),
		Status:    domain.RefundStatusSuccess,
	}))

	refunds, err = handler.Handle(ctx, ListRefundsQuery{PaymentID: seeded.ID})
	require.NoError(t, err)
	require.Len(t, refunds, 1)
	assert.True(t, refunds[0].Amount.Equal(decimal.RequireFromString("25.00")))

	_, err = handler.Handle(ctx, ListRefundsQuery{PaymentID: "PAY-missing"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	_, err = handler.Handle(ctx, ListRefundsQuery{})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidArgument, apperrors.KindOf(err))
}
