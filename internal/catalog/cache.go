package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheTTL = 5 * time.Minute

// Cache holds catalog list results in Redis. Keys embed a per-tenant version
// counter; catalog writes bump the counter, so stale entries are never served
// and expire on their own. Cache failures degrade to database reads.
type Cache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewCache creates a catalog cache. A nil client disables caching.
func NewCache(client *redis.Client, logger *zap.Logger) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{client: client, logger: logger}
}

func (c *Cache) versionKey(tenantID int64) string {
	return fmt.Sprintf("catalog:ver:%d", tenantID)
}

func (c *Cache) listKey(ctx context.Context, tenantID int64, variant string) (string, error) {
	ver, err := c.client.Get(ctx, c.versionKey(tenantID)).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return fmt.Sprintf("catalog:%d:%d:%s", tenantID, ver, variant), nil
}

// GetList loads a cached list into dest. Returns false on miss or any cache error.
func (c *Cache) GetList(ctx context.Context, tenantID int64, variant string, dest interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}
	key, err := c.listKey(ctx, tenantID, variant)
	if err != nil {
		c.logger.Warn("catalog cache read", zap.Error(err))
		return false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("catalog cache read", zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.logger.Warn("catalog cache decode", zap.Error(err))
		return false
	}
	return true
}

// SetList stores a list result under the tenant's current catalog version.
func (c *Cache) SetList(ctx context.Context, tenantID int64, variant string, v interface{}) {
	if c == nil || c.client == nil {
		return
	}
	key, err := c.listKey(ctx, tenantID, variant)
	if err != nil {
		c.logger.Warn("catalog cache write", zap.Error(err))
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, cacheTTL).Err(); err != nil {
		c.logger.Warn("catalog cache write", zap.Error(err))
	}
}

// Invalidate bumps the tenant's catalog version, orphaning every cached list.
func (c *Cache) Invalidate(ctx context.Context, tenantID int64) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Incr(ctx, c.versionKey(tenantID)).Err(); err != nil {
		c.logger.Warn("catalog cache invalidate", zap.Error(err))
	}
}
