package listing

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	cacheKeyPrefix = "listings:category:"
	cacheTTL       = 5 * time.Minute
)

// Cache holds per-category snapshots of active listings in Redis.
// A nil client disables caching; all methods degrade to misses.
type Cache struct {
	client *redis.Client
}

// NewCache creates a listing snapshot cache
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Get returns the cached snapshot for a category, or nil on miss
func (c *Cache) Get(ctx context.Context, category Category) []*Listing {
	if c == nil || c.client == nil {
		return nil
	}

	data, err := c.client.Get(ctx, cacheKeyPrefix+string(category)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("category", string(category)).Msg("Listing cache read failed")
		}
		return nil
	}

	var listings []*Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		log.Warn().Err(err).Str("category", string(category)).Msg("Listing cache decode failed")
		return nil
	}
	return listings
}

// Set stores a snapshot for a category
func (c *Cache) Set(ctx context.Context, category Category, listings []*Listing) {
	if c == nil || c.client == nil {
		return
	}

	data, err := json.Marshal(listings)
	if err != nil {
		log.Warn().Err(err).Str("category", string(category)).Msg("Listing cache encode failed")
		return
	}

	if err := c.client.Set(ctx, cacheKeyPrefix+string(category), data, cacheTTL).Err(); err != nil {
		log.Warn().Err(err).Str("category", string(category)).Msg("Listing cache write failed")
	}
}

// Invalidate drops the snapshot for a category. Called on every listing
// or review mutation so reads recompute from Postgres.
func (c *Cache) Invalidate(ctx context.Context, category Category) {
	if c == nil || c.client == nil {
		return
	}

	if err := c.client.Del(ctx, cacheKeyPrefix+string(category)).Err(); err != nil {
		log.Warn().Err(err).Str("category", string(category)).Msg("Listing cache invalidation failed")
	}
}
