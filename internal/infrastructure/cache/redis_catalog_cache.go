package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	appricing "github.com/b2bportal/backend/internal/application/pricing"
	"github.com/b2bportal/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultCatalogKeyPrefix = "catalog:customer:"

// RedisCatalogCache caches resolved customer catalogs in Redis.
// This is suitable for distributed deployments where multiple instances
// serve catalog reads; the database remains the source of truth, so every
// Redis failure is logged and treated as a cache miss.
type RedisCatalogCache struct {
	client    *redis.Client
	ttl       time.Duration
	keyPrefix string
	logger    *zap.Logger
}

// NewRedisClient creates a Redis client from configuration and verifies
// connectivity
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// NewRedisCatalogCache creates a catalog cache backed by an existing Redis
// client
func NewRedisCatalogCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisCatalogCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisCatalogCache{
		client:    client,
		ttl:       ttl,
		keyPrefix: defaultCatalogKeyPrefix,
		logger:    logger,
	}
}

func (c *RedisCatalogCache) key(customerID uuid.UUID) string {
	return c.keyPrefix + customerID.String()
}

// Get retrieves a cached catalog for a customer. Returns false on miss,
// Redis error, or corrupt payload.
func (c *RedisCatalogCache) Get(ctx context.Context, customerID uuid.UUID) ([]appricing.CatalogEntryResponse, bool) {
	data, err := c.client.Get(ctx, c.key(customerID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("catalog cache read failed",
				zap.String("customer_id", customerID.String()),
				zap.Error(err))
		}
		return nil, false
	}

	var entries []appricing.CatalogEntryResponse
	if err := json.Unmarshal(data, &entries); err != nil {
		c.logger.Warn("catalog cache payload corrupt, evicting",
			zap.String("customer_id", customerID.String()),
			zap.Error(err))
		c.client.Del(ctx, c.key(customerID))
		return nil, false
	}

	return entries, true
}

// Set stores a resolved catalog with the configured TTL
func (c *RedisCatalogCache) Set(ctx context.Context, customerID uuid.UUID, entries []appricing.CatalogEntryResponse) {
	data, err := json.Marshal(entries)
	if err != nil {
		c.logger.Warn("catalog cache marshal failed",
			zap.String("customer_id", customerID.String()),
			zap.Error(err))
		return
	}

	if err := c.client.Set(ctx, c.key(customerID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("catalog cache write failed",
			zap.String("customer_id", customerID.String()),
			zap.Error(err))
	}
}

// Invalidate removes a customer's cached catalog
func (c *RedisCatalogCache) Invalidate(ctx context.Context, customerID uuid.UUID) {
	if err := c.client.Del(ctx, c.key(customerID)).Err(); err != nil {
		c.logger.Warn("catalog cache invalidation failed",
			zap.String("customer_id", customerID.String()),
			zap.Error(err))
	}
}

// Close closes the underlying Redis client
func (c *RedisCatalogCache) Close() error {
	return c.client.Close()
}

// Ensure RedisCatalogCache implements CatalogCache
var _ appricing.CatalogCache = (*RedisCatalogCache)(nil)
