package common

import (
	"os"

	"farhold/quarterdeck/internal/logging"
)

// NewCacheFromEnv picks the cache backend from CACHE_BACKEND. "redis" selects
// the Redis service; anything else (or a failed Redis connection) falls back
// to the in-memory cache.
func NewCacheFromEnv() CacheInterface {
	if os.Getenv("CACHE_BACKEND") == "redis" {
		redisCache, err := NewRedisCacheService()
		if err == nil {
			logging.Info("Cache backend: redis")
			return redisCache
		}
		logging.Warn("Redis cache unavailable, falling back to in-memory", "error", err)
	}
	logging.Info("Cache backend: in-memory")
	return NewCacheService(3600, 600)
}
