package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	maxRetries = 5
	retryDelay = 5 * time.Second
)

type Config struct {
	Addr     string
	Password string
	DB       int
}

// New connects to redis, retrying a few times so the service survives
// the cache coming up after it in a compose environment.
func New(cfg Config) (*redis.Client, error) {
	var client *redis.Client
	var err error

	for i := 0; i < maxRetries; i++ {
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_, err = client.Ping(ctx).Result()
		cancel()
		if err == nil {
			return client, nil
		}

		time.Sleep(retryDelay)
	}

	return nil, fmt.Errorf("failed to connect to redis after %d attempts: %w", maxRetries, err)
}
