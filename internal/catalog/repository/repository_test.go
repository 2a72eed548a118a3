package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tair/food-delivery/internal/catalog/domain"
	"github.com/tair/food-delivery/pkg/cache"

	"github.com/shopspring/decimal"
)

func newTestRepository(t *testing.T) *GormMenuRepository {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	repo := NewGormMenuRepository(db)
	require.NoError(t, repo.AutoMigrate())
	return repo
}

func seedMenuItem(t *testing.T, repo *GormMenuRepository, name string, price string) *domain.MenuItem {
	t.Helper()
	item := &domain.MenuItem{Name: name, Price: decimal.RequireFromString(price), Available: true}
	require.NoError(t, repo.db.Create(item).Error)
	return item
}

func TestGormMenuRepositoryFindByID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	seeded := seedMenuItem(t, repo, "Margherita", "10.00")

	item, err := repo.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Margherita", item.Name)
	assert.True(t, item.Price.Equal(decimal.RequireFromString("10.00")))

	_, err = repo.FindByID(ctx, 999)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCachedMenuRepositoryReadThrough(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	seeded := seedMenuItem(t, repo, "Tiramisu", "5.50")

	cached := NewCachedMenuRepository(repo, cache.NewMemoryCache(), time.Minute)

	first, err := cached.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tiramisu", first.Name)

	// Remove the row; the cached copy keeps answering.
	require.NoError(t, repo.db.Delete(&domain.MenuItem{}, seeded.ID).Error)

	second, err := cached.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Name, second.Name)

	// An uncached miss still surfaces as not found.
	_, err = cached.FindByID(ctx, 999)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCachedMenuRepositoryDegradesOnCacheFailure(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	seeded := seedMenuItem(t, repo, "Ramen", "9.00")

	cached := NewCachedMenuRepository(repo, brokenCache{}, time.Minute)

	item, err := cached.FindByID(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ramen", item.Name)
}

// brokenCache fails every operation.
type brokenCache struct{}

func (brokenCache) Get(context.Context, string) (string, error) {
	return "", errors.New("cache down")
}

func (brokenCache) Set(context.Context, string, string, time.Duration) error {
	return errors.New("cache down")
}

func (brokenCache) Delete(context.Context, string) error {
	return errors.New("cache down")
}
