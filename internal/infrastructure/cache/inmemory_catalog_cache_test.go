package cache

import (
	"context"
	"testing"
	"time"

	appricing "github.com/b2bportal/backend/internal/application/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func sampleCatalog() []appricing.CatalogEntryResponse {
	return []appricing.CatalogEntryResponse{
		{
			ProductID:  uuid.New(),
			PartNo:     "WID-100",
			Name:       "Widget",
			Unit:       "EA",
			Price:      decimal.NewFromFloat(12.50),
			TaxEnabled: true,
		},
		{
			ProductID:  uuid.New(),
			PartNo:     "GAD-200",
			Name:       "Gadget",
			Unit:       "BOX",
			Price:      decimal.NewFromFloat(99.99),
			IsFavorite: true,
		},
	}
}

func TestInMemoryCatalogCache_SetAndGet(t *testing.T) {
	cache := NewInMemoryCatalogCache(time.Minute)
	defer cache.Stop()
	ctx := context.Background()
	customerID := uuid.New()
	catalog := sampleCatalog()

	cache.Set(ctx, customerID, catalog)

	got, ok := cache.Get(ctx, customerID)
	assert.True(t, ok)
	assert.Equal(t, catalog, got)
}

func TestInMemoryCatalogCache_Miss(t *testing.T) {
	cache := NewInMemoryCatalogCache(time.Minute)
	defer cache.Stop()

	got, ok := cache.Get(context.Background(), uuid.New())
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestInMemoryCatalogCache_Expiry(t *testing.T) {
	cache := NewInMemoryCatalogCache(10 * time.Millisecond)
	defer cache.Stop()
	ctx := context.Background()
	customerID := uuid.New()

	cache.Set(ctx, customerID, sampleCatalog())
	time.Sleep(20 * time.Millisecond)

	_, ok := cache.Get(ctx, customerID)
	assert.False(t, ok)
}

func TestInMemoryCatalogCache_Invalidate(t *testing.T) {
	cache := NewInMemoryCatalogCache(time.Minute)
	defer cache.Stop()
	ctx := context.Background()
	customerID := uuid.New()
	other := uuid.New()

	cache.Set(ctx, customerID, sampleCatalog())
	cache.Set(ctx, other, sampleCatalog())

	cache.Invalidate(ctx, customerID)

	_, ok := cache.Get(ctx, customerID)
	assert.False(t, ok)

	_, ok = cache.Get(ctx, other)
	assert.True(t, ok)
}

func TestInMemoryCatalogCache_EmptyCatalogIsCacheable(t *testing.T) {
	cache := NewInMemoryCatalogCache(time.Minute)
	defer cache.Stop()
	ctx := context.Background()
	customerID := uuid.New()

	cache.Set(ctx, customerID, []appricing.CatalogEntryResponse{})

	got, ok := cache.Get(ctx, customerID)
	assert.True(t, ok)
	assert.Empty(t, got)
}

func TestInMemoryCatalogCache_Stats(t *testing.T) {
	cache := NewInMemoryCatalogCache(time.Minute)
	defer cache.Stop()
	ctx := context.Background()
	customerID := uuid.New()

	cache.Get(ctx, customerID)
	cache.Set(ctx, customerID, sampleCatalog())
	cache.Get(ctx, customerID)

	hits, misses := cache.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}
