// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"coolserve/config"

	"github.com/go-redis/redis/v8"
)

var (
	// RegionCacheClient caches resolved regions keyed by address.
	RegionCacheClient *redis.Client
	// BookingCacheClient holds booking locks and processed webhook events.
	BookingCacheClient *redis.Client
)

// InitRegionCache initializes the Redis client for region caching.
func InitRegionCache() {
	RegionCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisRegionCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := RegionCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Region Cache): %v", err)
	}
}

// GetRegionCacheClient returns the Redis client for region caching.
func GetRegionCacheClient() *redis.Client {
	if RegionCacheClient == nil {
		InitRegionCache()
	}
	return RegionCacheClient
}

// InitBookingCache initializes the Redis client for booking locks and
// webhook idempotency keys.
func InitBookingCache() {
	BookingCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisBookingDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := BookingCacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Booking Cache): %v", err)
	}
}

// GetBookingCacheClient returns the Redis client for booking state.
func GetBookingCacheClient() *redis.Client {
	if BookingCacheClient == nil {
		InitBookingCache()
	}
	return BookingCacheClient
}
