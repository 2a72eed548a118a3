//go:build wireinject
// +build wireinject

package payment

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/tair/food-delivery/internal/payment/domain"
	"github.com/tair/food-delivery/internal/payment/gateway"
	"github.com/tair/food-delivery/internal/payment/handler"
	"github.com/tair/food-delivery/internal/payment/repository"
	"github.com/tair/food-delivery/internal/payment/usecase/command"
	"github.com/tair/food-delivery/internal/payment/usecase/query"
)

// Config carries the ledger's policy settings into the handlers.
type Config struct {
	// MaxRetries caps gateway timeouts before FAILED_PERMANENT; zero retries
	// forever.
	MaxRetries int
}

// ProvideStore provides the transactional payment store with tracing.
func ProvideStore(db *gorm.DB) domain.Store {
	return repository.NewTracingStore(repository.NewGormStore(db))
}

// Command handler providers
func ProvideCreatePaymentHandler(store domain.Store) *command.CreatePaymentHandler {
	return command.NewCreatePaymentHandler(store)
}

func ProvideProcessPaymentHandler(store domain.Store, gw gateway.Client, publisher command.EventPublisher, cfg Config) *command.ProcessPaymentHandler {
	return command.NewProcessPaymentHandler(store, gw, publisher, cfg.MaxRetries)
}

func ProvideRefundPaymentHandler(store domain.Store) *command.RefundPaymentHandler {
	return command.NewRefundPaymentHandler(store)
}

// Query handler providers
func ProvideGetPaymentHandler(store domain.Store) *query.GetPaymentHandler {
	return query.NewGetPaymentHandler(store)
}

func ProvideListPaymentsHandler(store domain.Store) *query.ListPaymentsHandler {
	return query.NewListPaymentsHandler(store)
}

func ProvideListRefundsHandler(store domain.Store) *query.ListRefundsHandler {
	return query.NewListRefundsHandler(store)
}

// Wire sets
var StoreSet = wire.NewSet(
	ProvideStore,
)

var CommandHandlerSet = wire.NewSet(
	ProvideCreatePaymentHandler,
	ProvideProcessPaymentHandler,
	ProvideRefundPaymentHandler,
)

var QueryHandlerSet = wire.NewSet(
	ProvideGetPaymentHandler,
	ProvideListPaymentsHandler,
	ProvideListRefundsHandler,
)

var AllHandlersSet = wire.NewSet(
	StoreSet,
	CommandHandlerSet,
	QueryHandlerSet,
)

// InitializeHandler initializes the payment handler with all dependencies.
func InitializeHandler(db *gorm.DB, gw gateway.Client, publisher command.EventPublisher, cfg Config) (*handler.PaymentHandler, error) {
	wire.Build(
		AllHandlersSet,
		handler.NewPaymentHandler,
	)
	return nil, nil
}
