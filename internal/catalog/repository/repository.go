package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tair/food-delivery/internal/catalog/domain"
	"github.com/tair/food-delivery/pkg/cache"
	"github.com/tair/food-delivery/pkg/logger"
)

// GormMenuRepository reads menu items from the database.
type GormMenuRepository struct {
	db *gorm.DB
}

func NewGormMenuRepository(db *gorm.DB) *GormMenuRepository {
	return &GormMenuRepository{db: db}
}

// AutoMigrate creates the catalog table.
func (r *GormMenuRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.MenuItem{})
}

func (r *GormMenuRepository) FindByID(ctx context.Context, id uint) (*domain.MenuItem, error) {
	var item domain.MenuItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CachedMenuRepository is a read-through cache in front of a catalog
// repository. Cache failures degrade to database reads, never to errors.
type CachedMenuRepository struct {
	inner domain.Repository
	cache cache.Cache
	ttl   time.Duration
}

func NewCachedMenuRepository(inner domain.Repository, c cache.Cache, ttl time.Duration) *CachedMenuRepository {
	return &CachedMenuRepository{inner: inner, cache: c, ttl: ttl}
}

func (r *CachedMenuRepository) FindByID(ctx context.Context, id uint) (*domain.MenuItem, error) {
	key := fmt.Sprintf("catalog:menu-item:%d", id)

	if raw, err := r.cache.Get(ctx, key); err == nil {
		var item domain.MenuItem
		if err := json.Unmarshal([]byte(raw), &item); err == nil {
			return &item, nil
		}
		// Unreadable entry, drop it and fall through.
		_ = r.cache.Delete(ctx, key)
	}

	item, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(item); err == nil {
		if err := r.cache.Set(ctx, key, string(raw), r.ttl); err != nil {
			logger.Warn(ctx).Err(err).Str("key", key).Msg("Failed to cache menu item")
		}
	}

	return item, nil
}
