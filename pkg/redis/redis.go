package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/ikkim/tene-backend/config"
	"github.com/ikkim/tene-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const (
	connectAttempts = 5
	opTimeout       = 3 * time.Second
)

var client *redis.Client

// Init connects to Redis, retrying the first ping with exponential backoff
func Init(ctx context.Context, cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	policy := backoff.NewExponentialBackOff()
	policy.MaxInterval = 5 * time.Second

	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, opTimeout)
		err = client.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			logger.Info("Redis connection established successfully", nil)
			return nil
		}

		logger.Warn("Redis ping failed", map[string]interface{}{
			"attempt": attempt,
			"error":   err.Error(),
		})
		sleep := policy.NextBackOff()
		if sleep == backoff.Stop {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(sleep):
		}
	}

	logger.Error("Failed to connect to Redis", err, map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
	})
	return fmt.Errorf("failed to connect to Redis: %w", err)
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

// stringStore is the part of the Redis client cart storage uses
type stringStore interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// CartStorage keeps serialized carts as Redis strings. A zero ttl never expires.
type CartStorage struct {
	client stringStore
	ttl    time.Duration
}

func NewCartStorage(client stringStore, ttl time.Duration) *CartStorage {
	return &CartStorage{client: client, ttl: ttl}
}

func (s *CartStorage) GetItem(key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get cart from Redis: %w", err)
	}
	return val, true, nil
}

func (s *CartStorage) SetItem(key, value string) error {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	if err := s.client.Set(ctx, key, value, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart to Redis: %w", err)
	}
	return nil
}
