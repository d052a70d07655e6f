package db

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisPingAttempts = 5

// NewRedisClient connects and pings, retrying while redis is still starting.
func NewRedisClient(ctx context.Context, url string, log *zap.Logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)
	backoff := 200 * time.Millisecond
	for attempt := 1; ; attempt++ {
		err = client.Ping(ctx).Err()
		if err == nil {
			break
		}
		if attempt == redisPingAttempts {
			_ = client.Close()
			return nil, err
		}
		log.Warn("redis ping failed, retrying", zap.Int("attempt", attempt), zap.Error(err))
		select {
		case <-ctx.Done():
			_ = client.Close()
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	log.Info("redis connected", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))
	return client, nil
}
