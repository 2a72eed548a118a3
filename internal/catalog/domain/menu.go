package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// MenuItem is one sellable entry of the catalog. The catalog is read-mostly:
// order creation and pricing consume it, nothing here writes it.
type MenuItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	Name      string          `json:"name" gorm:"size:128;not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	Available bool            `json:"available" gorm:"not null;default:true"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (MenuItem) TableName() string {
	return "menu_items"
}

// ErrNotFound is returned when a menu item is absent.
var ErrNotFound = errors.New("menu item not found")

// Repository is the read-only catalog lookup consumed by order creation.
type Repository interface {
	FindByID(ctx context.Context, id uint) (*MenuItem, error)
}
