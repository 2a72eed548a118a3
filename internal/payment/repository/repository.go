package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/food-delivery/internal/payment/domain"
)

// GormStore implements domain.Store on a GORM connection. A store produced by
// Transaction shares one database transaction across all three repositories.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// AutoMigrate creates the ledger tables.
func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(
		&domain.Payment{},
		&domain.Refund{},
		&domain.IdempotencyRecord{},
	)
}

func (s *GormStore) Payments() domain.PaymentRepository {
	return &gormPaymentRepository{db: s.db}
}

func (s *GormStore) Refunds() domain.RefundRepository {
	return &gormRefundRepository{db: s.db}
}

func (s *GormStore) Idempotency() domain.IdempotencyRepository {
	return &gormIdempotencyRepository{db: s.db}
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx domain.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

type gormPaymentRepository struct {
	db *gorm.DB
}

// Create inserts the payment and its token binding in one transaction. The
// unique index on the token, not a prior read, is what makes racing duplicate
// requests safe: the loser gets ErrDuplicateToken and re-reads the mapping.
func (r *gormPaymentRepository) Create(ctx context.Context, payment *domain.Payment, token string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		record := domain.IdempotencyRecord{
			Token:     token,
			PaymentID: payment.ID,
		}
		return tx.Create(&record).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateToken
	}
	return err
}

func (r *gormPaymentRepository) FindByID(ctx context.Context, id string) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.WithContext(ctx).First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// FindByIDForUpdate takes a FOR UPDATE row lock so concurrent writers on the
// same payment serialize. The SQLite dialector drops the locking clause; its
// single-writer transaction lock serializes there instead.
func (r *gormPaymentRepository) FindByIDForUpdate(ctx context.Context, id string) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&payment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *gormPaymentRepository) FindByOrderID(ctx context.Context, orderID uint) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&payment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *gormPaymentRepository) Update(ctx context.Context, payment *domain.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *gormPaymentRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := r.db.WithContext(ctx).
		Limit(limit).Offset(offset).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}

type gormRefundRepository struct {
	db *gorm.DB
}

func (r *gormRefundRepository) Create(ctx context.Context, refund *domain.Refund) error {
	return r.db.WithContext(ctx).Create(refund).Error
}

func (r *gormRefundRepository) FindByPaymentID(ctx context.Context, paymentID string) ([]domain.Refund, error) {
	var refunds []domain.Refund
	err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("created_at ASC").
		Find(&refunds).Error
	return refunds, err
}

func (r *gormRefundRepository) TotalRefunded(ctx context.Context, paymentID string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&domain.Refund{}).
		Where("payment_id = ?", paymentID).
		Select("SUM(amount)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

type gormIdempotencyRepository struct {
	db *gorm.DB
}

func (r *gormIdempotencyRepository) FindByToken(ctx context.Context, token string) (*domain.IdempotencyRecord, error) {
	var record domain.IdempotencyRecord
	err := r.db.WithContext(ctx).First(&record, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}
