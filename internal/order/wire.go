//go:build wireinject
// +build wireinject

package order

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	catalogdomain "github.com/tair/food-delivery/internal/catalog/domain"
	"github.com/tair/food-delivery/internal/order/domain"
	"github.com/tair/food-delivery/internal/order/handler"
	"github.com/tair/food-delivery/internal/order/pricing"
	"github.com/tair/food-delivery/internal/order/repository"
	"github.com/tair/food-delivery/internal/order/usecase/command"
	"github.com/tair/food-delivery/internal/order/usecase/query"
)

// ProvideStore provides the transactional order store.
func ProvideStore(db *gorm.DB) domain.Store {
	return repository.NewGormStore(db)
}

// Command handler providers
func ProvideCreateOrderHandler(store domain.Store, catalog catalogdomain.Repository, calculator pricing.Calculator) *command.CreateOrderHandler {
	return command.NewCreateOrderHandler(store, catalog, calculator)
}

func ProvideTransitionOrderHandler(store domain.Store, notifier command.Notifier) *command.TransitionOrderHandler {
	return command.NewTransitionOrderHandler(store, notifier)
}

func ProvideInitiatePaymentHandler(store domain.Store, calculator pricing.Calculator, payments command.PaymentClient) *command.InitiatePaymentHandler {
	return command.NewInitiatePaymentHandler(store, calculator, payments)
}

func ProvideHandleCallbackHandler(store domain.Store) *command.HandleCallbackHandler {
	return command.NewHandleCallbackHandler(store)
}

func ProvideRetryPaymentHandler(store domain.Store, payments command.PaymentClient) *command.RetryPaymentHandler {
	return command.NewRetryPaymentHandler(store, payments)
}

func ProvideRefundOrderHandler(store domain.Store, payments command.PaymentClient) *command.RefundOrderHandler {
	return command.NewRefundOrderHandler(store, payments)
}

// Query handler providers
func ProvideGetOrderHandler(store domain.Store) *query.GetOrderHandler {
	return query.NewGetOrderHandler(store)
}

func ProvideOrderHistoryHandler(store domain.Store) *query.OrderHistoryHandler {
	return query.NewOrderHistoryHandler(store)
}

func ProvideListOrdersHandler(store domain.Store) *query.ListOrdersHandler {
	return query.NewListOrdersHandler(store)
}

// Wire sets
var StoreSet = wire.NewSet(
	ProvideStore,
)

var CommandHandlerSet = wire.NewSet(
	ProvideCreateOrderHandler,
	ProvideTransitionOrderHandler,
	ProvideInitiatePaymentHandler,
	ProvideHandleCallbackHandler,
	ProvideRetryPaymentHandler,
	ProvideRefundOrderHandler,
)

var QueryHandlerSet = wire.NewSet(
	ProvideGetOrderHandler,
	ProvideOrderHistoryHandler,
	ProvideListOrdersHandler,
)

var AllHandlersSet = wire.NewSet(
	StoreSet,
	CommandHandlerSet,
	QueryHandlerSet,
)

// InitializeHandler initializes the order handler with all dependencies.
func InitializeHandler(db *gorm.DB, catalog catalogdomain.Repository, calculator pricing.Calculator, payments command.PaymentClient, notifier command.Notifier) (*handler.OrderHandler, error) {
	wire.Build(
		AllHandlersSet,
		handler.NewOrderHandler,
	)
	return nil, nil
}
