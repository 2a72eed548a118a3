package command

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	catalogdomain "github.com/tair/food-delivery/internal/catalog/domain"
	"github.com/tair/food-delivery/internal/order/client"
	"github.com/tair/food-delivery/internal/order/domain"
	"github.com/tair/food-delivery/internal/order/repository"
	"github.com/tair/food-delivery/kafka"
	"github.com/tair/food-delivery/pkg/apperrors"
)

// newTestStore opens an isolated in-memory database per test.
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

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedOrder(t *testing.T, store domain.Store, status domain.Status) *domain.Order {
	t.Helper()

	order := &domain.Order{
		CustomerName:    "Ada",
		CustomerPhone:   "+1-555-0100",
		DeliveryAddress: "1 Main St",
		Status:          status,
		ItemsTotal:      dec("25.50"),
		TaxAmount:       dec("2.55"),
		DeliveryCharge:  dec("3.50"),
		GrandTotal:      dec("28.05"),
		Items: []domain.OrderItem{
			{MenuItemID: 1, Name: "Margherita", UnitPrice: dec("10.00"), Quantity: 2},
			{MenuItemID: 2, Name: "Tiramisu", UnitPrice: dec("5.50"), Quantity: 1},
		},
	}
	require.NoError(t, store.Orders().Create(context.Background(), order))
	return order
}

// recordingNotifier captures order status events.
type recordingNotifier struct {
	mu     sync.Mutex
	events []kafka.OrderStatusChangedEvent
}

func (n *recordingNotifier) PublishOrderStatusChanged(_ context.Context, event kafka.OrderStatusChangedEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

func (n *recordingNotifier) published() []kafka.OrderStatusChangedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]kafka.OrderStatusChangedEvent(nil), n.events...)
}

// fakePaymentClient records calls and plays back scripted results.
type fakePaymentClient struct {
	mu sync.Mutex

	createCalls  int
	processCalls int
	refundCalls  int
	lastToken    string

	createResult  *client.PaymentResult
	createErr     error
	processResult *client.PaymentResult
	processErr    error
	refundResult  *client.RefundResult
	refundErr     error
}

func (f *fakePaymentClient) CreatePayment(_ context.Context, req client.CreatePaymentRequest, token string) (*client.PaymentResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	f.lastToken = token
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createResult != nil {
		return f.createResult, nil
	}
	return &client.PaymentResult{
		PaymentID:     "PAY-test",
		OrderID:       req.OrderID,
		Status:        "INITIATED",
		PayableAmount: req.PayableAmount,
	}, nil
}

func (f *fakePaymentClient) ProcessPayment(_ context.Context, paymentID string) (*client.PaymentResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.processCalls++
	if f.processErr != nil {
		return nil, f.processErr
	}
	if f.processResult != nil {
		return f.processResult, nil
	}
	return &client.PaymentResult{PaymentID: paymentID, Status: "SUCCESS"}, nil
}

func (f *fakePaymentClient) Refund(_ context.Context, paymentID string, amount decimal.Decimal, reason string) (*client.RefundResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refundCalls++
	if f.refundErr != nil {
		return nil, f.refundErr
	}
	if f.refundResult != nil {
		return f.refundResult, nil
	}
	return &client.RefundResult{RefundID: "REF-test", PaymentID: paymentID, Amount: amount, Status: "SUCCESS"}, nil
}

func (f *fakePaymentClient) GetPayment(_ context.Context, paymentID string) (*client.PaymentResult, error) {
	return &client.PaymentResult{PaymentID: paymentID, Status: "SUCCESS"}, nil
}

func (f *fakePaymentClient) counts() (create, process, refund int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createCalls, f.processCalls, f.refundCalls
}

func (f *fakePaymentClient) tokenSeen() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastToken
}

// fakeCatalog is an in-memory menu.
type fakeCatalog struct {
	items map[uint]*catalogdomain.MenuItem
}

func (c *fakeCatalog) FindByID(_ context.Context, id uint) (*catalogdomain.MenuItem, error) {
	item, ok := c.items[id]
	if !ok {
		return nil, catalogdomain.ErrNotFound
	}
	return item, nil
}

func requireKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, apperrors.KindOf(err))
}
