package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the order lifecycle state.
type Status string

const (
	StatusCreated   Status = "CREATED"
	StatusAccepted  Status = "ACCEPTED"
	StatusPreparing Status = "PREPARING"
	StatusReady     Status = "READY"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// allowedTransitions is the static adjacency table of the order state
// machine. DELIVERED and CANCELLED have no outgoing edges.
var allowedTransitions = map[Status][]Status{
	StatusCreated:   {StatusAccepted, StatusCancelled},
	StatusAccepted:  {StatusPreparing, StatusCancelled},
	StatusPreparing: {StatusReady, StatusCancelled},
	StatusReady:     {StatusDelivered},
	StatusDelivered: {},
	StatusCancelled: {},
}

// Valid reports whether s is a defined lifecycle state.
func (s Status) Valid() bool {
	_, ok := allowedTransitions[s]
	return ok
}

// Terminal reports whether s has no outgoing transitions.
func (s Status) Terminal() bool {
	targets, ok := allowedTransitions[s]
	return ok && len(targets) == 0
}

// CanTransition reports whether the edge from→to is in the adjacency table.
// Any transition from an undefined state is rejected.
func CanTransition(from, to Status) bool {
	for _, target := range allowedTransitions[from] {
		if target == to {
			return true
		}
	}
	return false
}

// InvalidTransitionError carries both states of a rejected transition for
// diagnostics.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("transition %s -> %s is not allowed", e.From, e.To)
}

// Order is the order-side aggregate. PaymentID is a weak reference to a
// payment owned by the payment service: set at most once, and only while the
// order is ACCEPTED.
type Order struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	CustomerName    string          `json:"customer_name" gorm:"size:128;not null"`
	CustomerPhone   string          `json:"customer_phone" gorm:"size:32"`
	DeliveryAddress string          `json:"delivery_address" gorm:"size:255"`
	Status          Status          `json:"status" gorm:"size:32;not null"`
	PaymentID       *string         `json:"payment_id" gorm:"size:64"`
	PaymentStatus   string          `json:"payment_status" gorm:"size:32"`
	ItemsTotal      decimal.Decimal `json:"items_total" gorm:"type:numeric(12,2);not null"`
	TaxAmount       decimal.Decimal `json:"tax_amount" gorm:"type:numeric(12,2);not null"`
	DeliveryCharge  decimal.Decimal `json:"delivery_charge" gorm:"type:numeric(12,2);not null"`
	GrandTotal      decimal.Decimal `json:"grand_total" gorm:"type:numeric(12,2);not null"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}

// PaymentInitiated reports whether a payment reference is already stored.
func (o *Order) PaymentInitiated() bool {
	return o.PaymentID != nil && *o.PaymentID != ""
}

// OrderItem is one priced line of an order.
type OrderItem struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	OrderID    uint            `json:"order_id" gorm:"not null;index"`
	MenuItemID uint            `json:"menu_item_id" gorm:"not null"`
	Name       string          `json:"name" gorm:"size:128;not null"`
	UnitPrice  decimal.Decimal `json:"unit_price" gorm:"type:numeric(12,2);not null"`
	Quantity   int             `json:"quantity" gorm:"not null"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// OrderStatusHistory is the append-only audit trail: one row per executed
// transition, never mutated.
type OrderStatusHistory struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	OrderID   uint      `json:"order_id" gorm:"not null;index"`
	OldStatus Status    `json:"old_status" gorm:"size:32;not null"`
	NewStatus Status    `json:"new_status" gorm:"size:32;not null"`
	ChangedAt time.Time `json:"changed_at" gorm:"not null"`
}

func (OrderStatusHistory) TableName() string {
	return "order_status_history"
}

// ErrNotFound is returned by repositories when the requested record is absent.
var ErrNotFound = errors.New("record not found")

// OrderRepository is the order aggregate's data access contract.
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	// FindByID loads the order with its line items.
	FindByID(ctx context.Context, id uint) (*Order, error)
	// FindByIDForUpdate loads the order and holds a row lock until the
	// enclosing transaction ends. Only meaningful inside Transaction.
	FindByIDForUpdate(ctx context.Context, id uint) (*Order, error)
	Update(ctx context.Context, order *Order) error
	FindAll(ctx context.Context, limit, offset int) ([]Order, error)
}

// HistoryRepository appends and reads the audit trail.
type HistoryRepository interface {
	Append(ctx context.Context, row *OrderStatusHistory) error
	// FindByOrderID returns the trail ordered by changed_at ascending.
	FindByOrderID(ctx context.Context, orderID uint) ([]OrderStatusHistory, error)
}

// Store bundles the order-side repositories behind one transactional
// boundary.
type Store interface {
	Orders() OrderRepository
	History() HistoryRepository
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
