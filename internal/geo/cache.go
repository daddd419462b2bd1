// internal/geo/cache.go
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// DefaultRadiusTTL is how long a cached radius lookup stays valid. Zip
// geography never changes, the TTL just bounds memory.
const DefaultRadiusTTL = 24 * time.Hour

// CachedIndex is a read-through Redis cache in front of another Index.
// Radius lookups are the hot path of matching; a cache miss or a Redis
// failure falls through to the inner index.
type CachedIndex struct {
	inner  Index
	rdb    *redis.Client
	ttl    time.Duration
	logger *logrus.Logger
}

func NewCachedIndex(inner Index, rdb *redis.Client, logger *logrus.Logger) *CachedIndex {
	return &CachedIndex{inner: inner, rdb: rdb, ttl: DefaultRadiusTTL, logger: logger}
}

// ConnectRedis initializes a Redis client with environment variables:
//   - REDIS_ADDR (default "localhost:6379")
//   - REDIS_DB (optional, default 0)
func ConnectRedis() (*redis.Client, error) {
	addr := getEnv("REDIS_ADDR", "localhost:6379")
	dbIdx := getEnvInt("REDIS_DB", 0)

	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}

func (c *CachedIndex) ZipsInRadius(ctx context.Context, zip string, radiusMiles int) ([]string, error) {
	key := fmt.Sprintf("geo:radius:%s:%d", zip, radiusMiles)

	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var zips []string
		if json.Unmarshal(data, &zips) == nil {
			return zips, nil
		}
	} else if err != redis.Nil {
		c.logger.WithError(err).Warn("geo cache read failed")
	}

	zips, err := c.inner.ZipsInRadius(ctx, zip, radiusMiles)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(zips); err == nil {
		if err := c.rdb.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
			c.logger.WithError(err).Warn("geo cache write failed")
		}
	}
	return zips, nil
}

// ValidZip is not cached; it only runs at registration.
func (c *CachedIndex) ValidZip(ctx context.Context, zip string) (bool, error) {
	return c.inner.ValidZip(ctx, zip)
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
