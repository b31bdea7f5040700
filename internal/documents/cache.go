package documents

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "staffmatch:doc:"

// Store is the key/value backend of CachedExtractor.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CachedExtractor is a read-through cache in front of another extractor.
// Cache failures are logged and bypassed; they never fail an extraction.
type CachedExtractor struct {
	next   Extractor
	store  Store
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedExtractor wraps next with the given store.
func NewCachedExtractor(next Extractor, store Store, ttl time.Duration, logger *zap.Logger) *CachedExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachedExtractor{next: next, store: store, ttl: ttl, logger: logger}
}

func (c *CachedExtractor) Extract(ctx context.Context, rawURL string) (string, error) {
	key := CacheKey(rawURL)

	if c.store != nil {
		text, ok, err := c.store.Get(ctx, key)
		switch {
		case err != nil:
			c.logger.Warn("document cache read failed, bypassing cache", zap.Error(err))
		case ok:
			c.logger.Debug("document cache hit", zap.String("key", key))
			return text, nil
		}
	}

	text, err := c.next.Extract(ctx, rawURL)
	if err != nil {
		return "", err
	}

	if c.store != nil {
		if err := c.store.Set(ctx, key, text, c.ttl); err != nil {
			c.logger.Warn("document cache write failed", zap.Error(err))
		}
	}
	return text, nil
}

// Retrievable delegates to the wrapped extractor when it can probe documents.
func (c *CachedExtractor) Retrievable(ctx context.Context, rawURL string) bool {
	if probe, ok := c.next.(interface {
		Retrievable(ctx context.Context, rawURL string) bool
	}); ok {
		return probe.Retrievable(ctx, rawURL)
	}
	return true
}

// CacheKey derives the cache key of a document url.
func CacheKey(rawURL string) string {
	sum := sha256.Sum256([]byte(rawURL))
	return fmt.Sprintf("%s%x", cacheKeyPrefix, sum[:])
}

// RedisStore keeps extracted document text in Redis.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}

	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
