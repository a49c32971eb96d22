package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Cache key TTLs.
const (
	MediaCacheTTL  = 5 * time.Minute
	SearchCacheTTL = 1 * time.Minute
)

// CacheService provides a Redis cache-aside layer for media detail and
// catalog search responses.
type CacheService struct {
	rdb *redis.Client
}

// NewCacheService creates a CacheService. If redisURL is empty or the
// connection fails, it returns a service with a nil client and all cache
// operations become no-ops.
func NewCacheService(redisURL string, log zerolog.Logger) *CacheService {
	if redisURL == "" {
		log.Info().Msg("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Warn().Err(err).Msg("redis: invalid URL, caching disabled")
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("redis: connection failed, caching disabled")
		return &CacheService{}
	}

	log.Info().Msg("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetMedia retrieves a cached media detail response. Returns nil when not
// cached or caching is disabled.
func (c *CacheService) GetMedia(ctx context.Context, mediaID int64) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, mediaKey(mediaID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SetMedia stores a media detail response in cache.
func (c *CacheService) SetMedia(ctx context.Context, mediaID int64, data any) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, mediaKey(mediaID), b, MediaCacheTTL).Err()
}

// InvalidateMedia removes a media item from cache. Called after rating,
// comment, edit and moderation writes.
func (c *CacheService) InvalidateMedia(ctx context.Context, mediaID int64) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, mediaKey(mediaID)).Err()
}

// GetSearch retrieves a cached catalog search page keyed by filter hash.
func (c *CacheService) GetSearch(ctx context.Context, filterHash string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, searchKey(filterHash)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	return data, err
}

// SetSearch stores a catalog search page. Short TTL: results shift with
// every rating and moderation write, so staleness is bounded instead of
// chased with invalidation.
func (c *CacheService) SetSearch(ctx context.Context, filterHash string, data any) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, searchKey(filterHash), b, SearchCacheTTL).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func mediaKey(mediaID int64) string {
	return fmt.Sprintf("media:%d", mediaID)
}

func searchKey(filterHash string) string {
	return fmt.Sprintf("search:%s", filterHash)
}
