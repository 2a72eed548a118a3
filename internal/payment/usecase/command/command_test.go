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

	"github.com/tair/food-delivery/internal/payment/domain"
	"github.com/tair/food-delivery/internal/payment/gateway"
	"github.com/tair/food-delivery/internal/payment/repository"
	"github.com/tair/food-delivery/kafka"
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

// scriptedGateway returns a fixed outcome and counts calls.
type scriptedGateway struct {
	mu      sync.Mutex
	outcome gateway.Outcome
	calls   int
}

func (g *scriptedGateway) Process(_ context.Context, _ *domain.Payment) (gateway.Outcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return g.outcome, nil
}

func (g *scriptedGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// recordingPublisher captures published payment events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.PaymentStatusChangedEvent
}

func (p *recordingPublisher) PublishPaymentStatusChanged(_ context.Context, event kafka.PaymentStatusChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) published() []kafka.PaymentStatusChangedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]kafka.PaymentStatusChangedEvent(nil), p.events...)
}
