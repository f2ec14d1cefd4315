package config

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// InitRedis connects to redis. It returns nil when redis is not configured or
// not reachable; every redis-backed feature treats nil as disabled.
func InitRedis(cfg Config, log *logrus.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		log.Info("redis not configured, caching and rate limiting disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	pong, err := client.Ping(ctx).Result()
	if err != nil {
		log.WithError(err).Warn("failed to connect to redis, caching disabled")
		_ = client.Close()
		return nil
	}
	log.WithField("reply", pong).Info("redis connected successfully")
	return client
}
