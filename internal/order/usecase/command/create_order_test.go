package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdomain "github.com/tair/food-delivery/internal/catalog/domain"
	"github.com/tair/food-delivery/internal/order/domain"
	"github.com/tair/food-delivery/pkg/apperrors"
)

func newMenu() *fakeCatalog {
	return &fakeCatalog{items: map[uint]*catalogdomain.MenuItem{
		1: {ID: 1, Name: "Margherita", Price: dec("10.00"), Available: true},
		2: {ID: 2, Name: "Tiramisu", Price: dec("5.50"), Available: true},
		3: {ID: 3, Name: "Oysters", Price: dec("18.00"), Available: false},
	}}
}

func TestCreateOrder(t *testing.T) {
	store := newTestStore(t)
	handler := NewCreateOrderHandler(store, newMenu(), newCalculator())
	ctx := context.Background()

	order, err := handler.Handle(ctx, CreateOrderCommand{
		CustomerName:    "Ada",
		CustomerPhone:   "+1-555-0100",
		DeliveryAddress: "1 Main St",
		Items: []CreateOrderItem{
			{MenuItemID: 1, Quantity: 2},
			{MenuItemID: 2, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCreated, order.Status)
	assert.True(t, order.ItemsTotal.Equal(dec("25.50")))
	assert.True(t, order.TaxAmount.Equal(dec("2.55")))
	assert.True(t, order.DeliveryCharge.Equal(dec("3.50")))
	assert.True(t, order.GrandTotal.Equal(dec("28.05")))
	require.Len(t, order.Items, 2)
	// Prices come from the catalog, not the request.
	assert.True(t, order.Items[0].UnitPrice.Equal(dec("10.00")))

	reloaded, err := store.Orders().FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Items, 2)
}

func TestCreateOrderRejections(t *testing.T) {
	store := newTestStore(t)
	handler := NewCreateOrderHandler(store, newMenu(), newCalculator())
	ctx := context.Background()

	tests := []struct {
		name string
		cmd  CreateOrderCommand
	}{
		{"missing customer", CreateOrderCommand{Items: []CreateOrderItem{{MenuItemID: 1, Quantity: 1}}}},
		{"no items", CreateOrderCommand{CustomerName: "Ada"}},
		{"zero quantity", CreateOrderCommand{CustomerName: "Ada", Items: []CreateOrderItem{{MenuItemID: 1, Quantity: 0}}}},
		{"unknown menu item", CreateOrderCommand{CustomerName: "Ada", Items: []CreateOrderItem{{MenuItemID: 99, Quantity: 1}}}},
		{"unavailable menu item", CreateOrderCommand{CustomerName: "Ada", Items: []CreateOrderItem{{MenuItemID: 3, Quantity: 1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := handler.Handle(ctx, tt.cmd)
			requireKind(t, err, apperrors.KindInvalidArgument)
		})
	}

	orders, err := store.Orders().FindAll(ctx, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, orders)
}
