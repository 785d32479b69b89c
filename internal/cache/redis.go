package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"guitarlots/internal/lotparser"
	"guitarlots/internal/model"
)

const (
	pagePrefix  = "page:"
	titlePrefix = "title:"
)

// NewClient parses a redis:// URL, falling back to treating it as host:port
// like the plain REDIS_URL values used in development.
func NewClient(redisURL string) *redis.Client {
	if opts, err := redis.ParseURL(redisURL); err == nil {
		return redis.NewClient(opts)
	}
	return redis.NewClient(&redis.Options{Addr: redisURL})
}

// PageCache stores fetched HTML pages in Redis.
type PageCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func (c *PageCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.Client.Get(ctx, pagePrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *PageCache) Set(ctx context.Context, key, val string) error {
	return c.Client.Set(ctx, pagePrefix+key, val, c.TTL).Err()
}

// ClassificationCache remembers title classifications so repeated titles
// across a sale cost one LLM call per TTL.
type ClassificationCache struct {
	Client *redis.Client
	Next   lotparser.Classifier
	TTL    time.Duration
	Logger *zap.Logger
}

func (c *ClassificationCache) Classify(ctx context.Context, title string) (model.Classification, error) {
	key := titlePrefix + title

	val, err := c.Client.Get(ctx, key).Result()
	switch {
	case err == nil:
		var cl model.Classification
		if jerr := json.Unmarshal([]byte(val), &cl); jerr == nil {
			return cl, nil
		}
		c.logger().Warn("dropping corrupt cached classification", zap.String("title", title))
	case !errors.Is(err, redis.Nil):
		c.logger().Warn("classification cache read failed", zap.Error(err))
	}

	cl, err := c.Next.Classify(ctx, title)
	if err != nil {
		return cl, err
	}

	b, err := json.Marshal(cl)
	if err != nil {
		return cl, fmt.Errorf("failed to encode classification: %w", err)
	}
	if err := c.Client.Set(ctx, key, b, c.TTL).Err(); err != nil {
		c.logger().Warn("classification cache write failed", zap.Error(err))
	}
	return cl, nil
}

func (c *ClassificationCache) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
