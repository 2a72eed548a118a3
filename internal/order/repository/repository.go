package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/food-delivery/internal/order/domain"
)

// GormStore implements domain.Store on a GORM connection.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate creates the order tables.
func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(
		&domain.Order{},
		&domain.OrderItem{},
		&domain.OrderStatusHistory{},
	)
}

func (s *GormStore) Orders() domain.OrderRepository {
	return &gormOrderRepository{db: s.db}
}

func (s *GormStore) History() domain.HistoryRepository {
	return &gormHistoryRepository{db: s.db}
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx domain.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

type gormOrderRepository struct {
	db *gorm.DB
}

func (r *gormOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *gormOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByIDForUpdate takes a FOR UPDATE row lock so concurrent transitions on
// the same order serialize. The lock covers the order row only; line items are
// immutable and preloaded without one. The SQLite dialector drops the locking
// clause; its single-writer transaction lock serializes there instead.
func (r *gormOrderRepository) FindByIDForUpdate(ctx context.Context, id uint) (*domain.Order, error) {
	var order domain.Order
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Items").
		First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	// Line items are immutable after creation; only the order row changes.
	return r.db.WithContext(ctx).Omit("Items").Save(order).Error
}

func (r *gormOrderRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Order, error) {
	var orders []domain.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Limit(limit).Offset(offset).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

type gormHistoryRepository struct {
	db *gorm.DB
}

func (r *gormHistoryRepository) Append(ctx context.Context, row *domain.OrderStatusHistory) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *gormHistoryRepository) FindByOrderID(ctx context.Context, orderID uint) ([]domain.OrderStatusHistory, error) {
	var rows []domain.OrderStatusHistory
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("changed_at ASC, id ASC").
		Find(&rows).Error
	return rows, err
}
