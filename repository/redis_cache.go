package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

// BreakerSettings configures the circuit breaker around Redis calls.
type BreakerSettings struct {
	ConsecutiveFailures uint32
	OpenTimeout         time.Duration
}

// RedisCache is a CacheRepository backed by Redis. While the breaker is open
// every Get is a miss and every Set fails fast.
type RedisCache struct {
	client  *redis.Client
	ttl     time.Duration
	breaker *gobreaker.CircuitBreaker
	logger  zerolog.Logger
}

type redisLookup struct {
	value string
	found bool
}

func NewRedisCache(addr string, ttl time.Duration, settings BreakerSettings, logger zerolog.Logger) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return NewRedisCacheWithClient(rdb, ttl, settings, logger)
}

func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration, settings BreakerSettings, logger zerolog.Logger) *RedisCache {
	logger = logger.With().Str("component", "redis_cache").Logger()

	failures := settings.ConsecutiveFailures
	if failures == 0 {
		failures = 5
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "redis-cache",
		MaxRequests: 1,
		Timeout:     settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: isRedisHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state changed")
		},
	})

	return &RedisCache{
		client:  client,
		ttl:     ttl,
		breaker: cb,
		logger:  logger,
	}
}

// isRedisHealthy reports whether err leaves Redis looking healthy. A caller
// that gave up says nothing about the server.
func isRedisHealthy(err error) bool {
	return err == nil || errors.Is(err, context.Canceled)
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	res, err := r.breaker.Execute(func() (interface{}, error) {
		val, err := r.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return redisLookup{}, nil
		}
		if err != nil {
			return nil, err
		}
		return redisLookup{value: val, found: true}, nil
	})
	if err != nil {
		r.logger.Debug().Err(err).Str("key", key).Msg("cache get failed")
		return "", false
	}

	lookup := res.(redisLookup)
	return lookup.value, lookup.found
}

func (r *RedisCache) Set(ctx context.Context, key string, value string) error {
	_, err := r.breaker.Execute(func() (interface{}, error) {
		return nil, r.client.Set(ctx, key, value, r.ttl).Err()
	})
	return err
}

// State reports the breaker state.
func (r *RedisCache) State() gobreaker.State {
	return r.breaker.State()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
