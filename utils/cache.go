package utils

import (
	"context"
	"log"
	"time"

	"herbimmortal/config"

	"github.com/go-redis/redis/v8"
)

var (
	// AuthCacheClient holds revoked-token markers written by the auth service.
	AuthCacheClient *redis.Client
	// LockClient backs the per-practitioner-day booking lock.
	LockClient *redis.Client
)

func newRedisClient(db int, name string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (%s): %v", name, err)
	}
	return client
}

// InitRedis connects every redis client the service uses. It is a no-op when
// REDIS_ENABLED is false.
func InitRedis() {
	if !config.AppConfig.RedisEnabled {
		return
	}
	AuthCacheClient = newRedisClient(config.AppConfig.RedisAuthDB, "Auth Cache")
	LockClient = newRedisClient(config.AppConfig.RedisLockDB, "Booking Lock")
}

// GetAuthCacheClient returns the Redis client for revoked tokens, or nil when redis is disabled.
func GetAuthCacheClient() *redis.Client {
	return AuthCacheClient
}

// GetLockClient returns the Redis client for booking locks, or nil when redis is disabled.
func GetLockClient() *redis.Client {
	return LockClient
}

// RedisClients lists the connected clients for health monitoring.
func RedisClients() []*redis.Client {
	var clients []*redis.Client
	for _, c := range []*redis.Client{AuthCacheClient, LockClient} {
		if c != nil {
			clients = append(clients, c)
		}
	}
	return clients
}
