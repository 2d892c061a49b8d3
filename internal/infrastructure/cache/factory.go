package cache

import (
	"fmt"

	appricing "github.com/b2bportal/backend/internal/application/pricing"
	"github.com/b2bportal/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// CatalogCacheFactory creates catalog caches based on configuration
type CatalogCacheFactory struct {
	redisConfig           config.RedisConfig
	catalogConfig         config.CatalogConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// CatalogCacheFactoryOption is a functional option for configuring the factory
type CatalogCacheFactoryOption func(*CatalogCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) CatalogCacheFactoryOption {
	return func(f *CatalogCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) CatalogCacheFactoryOption {
	return func(f *CatalogCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewCatalogCacheFactory creates a new factory
func NewCatalogCacheFactory(redisCfg config.RedisConfig, catalogCfg config.CatalogConfig, opts ...CatalogCacheFactoryOption) *CatalogCacheFactory {
	f := &CatalogCacheFactory{
		redisConfig:           redisCfg,
		catalogConfig:         catalogCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisCache creates a Redis-backed catalog cache
func (f *CatalogCacheFactory) CreateRedisCache() (appricing.CatalogCache, error) {
	client, err := NewRedisClient(f.redisConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis catalog cache: %w", err)
	}
	return NewRedisCatalogCache(client, f.catalogConfig.CacheTTL, f.logger), nil
}

// CreateInMemoryCache creates an in-memory catalog cache
func (f *CatalogCacheFactory) CreateInMemoryCache() appricing.CatalogCache {
	return NewInMemoryCatalogCache(f.catalogConfig.CacheTTL, WithInMemoryLogger(f.logger))
}

// CreateCache creates a catalog cache, preferring Redis and falling back to
// in-memory when Redis is unavailable and fallback is allowed. Returns nil
// when caching is disabled.
func (f *CatalogCacheFactory) CreateCache() (appricing.CatalogCache, error) {
	if !f.catalogConfig.CacheEnabled {
		f.logger.Info("catalog cache disabled")
		return nil, nil
	}

	cache, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("using Redis catalog cache")
		return cache, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for catalog cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory catalog cache. "+
		"Invalidations will not propagate across instances.",
		zap.Error(err),
	)
	return f.CreateInMemoryCache(), nil
}
