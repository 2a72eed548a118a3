package command

import (
	"context"
	"errors"
	"fmt"

	catalogdomain "github.com/tair/food-delivery/internal/catalog/domain"
	"github.com/tair/food-delivery/internal/order/domain"
	"github.com/tair/food-delivery/internal/order/pricing"
	"github.com/tair/food-delivery/pkg/apperrors"
	"github.com/tair/food-delivery/pkg/logger"
)

// CreateOrderItem is one requested line of a new order.
type CreateOrderItem struct {
	MenuItemID uint
	Quantity   int
}

// CreateOrderCommand represents the command to create an order.
type CreateOrderCommand struct {
	CustomerName    string
	CustomerPhone   string
	DeliveryAddress string
	Items           []CreateOrderItem
}

// CreateOrderHandler builds a priced order from catalog items and persists
// it in CREATED.
type CreateOrderHandler struct {
	store      domain.Store
	catalog    catalogdomain.Repository
	calculator pricing.Calculator
}

// NewCreateOrderHandler creates a new create order handler.
func NewCreateOrderHandler(store domain.Store, catalog catalogdomain.Repository, calculator pricing.Calculator) *CreateOrderHandler {
	return &CreateOrderHandler{
		store:      store,
		catalog:    catalog,
		calculator: calculator,
	}
}

// Handle executes the create order command.
func (h *CreateOrderHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	if cmd.CustomerName == "" {
		return nil, apperrors.New(apperrors.KindInvalidArgument, "customer name is required")
	}
	if len(cmd.Items) == 0 {
		return nil, apperrors.New(apperrors.KindInvalidArgument, "order needs at least one item")
	}

	items := make([]domain.OrderItem, 0, len(cmd.Items))
	for _, requested := range cmd.Items {
		if requested.Quantity <= 0 {
			return nil, apperrors.Newf(apperrors.KindInvalidArgument,
				"quantity for menu item %d must be greater than zero", requested.MenuItemID)
		}

		menuItem, err := h.catalog.FindByID(ctx, requested.MenuItemID)
		if errors.Is(err, catalogdomain.ErrNotFound) {
			return nil, apperrors.Newf(apperrors.KindInvalidArgument,
				"menu item %d does not exist", requested.MenuItemID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to look up menu item %d: %w", requested.MenuItemID, err)
		}
		if !menuItem.Available {
			return nil, apperrors.Newf(apperrors.KindInvalidArgument,
				"menu item %q is not available", menuItem.Name)
		}

		items = append(items, domain.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			UnitPrice:  menuItem.Price,
			Quantity:   requested.Quantity,
		})
	}

	breakdown, err := h.calculator.Calculate(items)
	if err != nil {
		return nil, err
	}

	order := &domain.Order{
		CustomerName:    cmd.CustomerName,
		CustomerPhone:   cmd.CustomerPhone,
		DeliveryAddress: cmd.DeliveryAddress,
		Status:          domain.StatusCreated,
		ItemsTotal:      breakdown.ItemsTotal,
		TaxAmount:       breakdown.Tax,
		DeliveryCharge:  breakdown.DeliveryCharge,
		GrandTotal:      breakdown.GrandTotal,
		Items:           items,
	}

	if err := h.store.Orders().Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	logger.Info(ctx).
		Uint("order_id", order.ID).
		Int("items", len(order.Items)).
		Str("grand_total", order.GrandTotal.StringFixed(2)).
		Msg("Order created")

	return order, nil
}
