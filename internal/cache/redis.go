package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"pinduca/internal/microservices/http-api/dto"
)

const (
	keyGeneration   = "pinduca:comics:gen"
	keyListFormat   = "pinduca:comics:list:%d:%s"
	keyDetailFormat = "pinduca:comics:detail:%d:%d"
)

// NewRedisClient parses url (redis://...) and verifies the server answers.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisComicCache keys every entry by a generation counter so that one INCR
// invalidates all cached reads at once; stale generations expire by TTL.
type RedisComicCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewRedisComicCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisComicCache {
	return &RedisComicCache{client: client, ttl: ttl, logger: logger}
}

func listKey(gen int64, term string) string {
	return fmt.Sprintf(keyListFormat, gen, term)
}

func detailKey(gen, id int64) string {
	return fmt.Sprintf(keyDetailFormat, gen, id)
}

// Generation reads the counter; a missing key is generation 0.
func (c *RedisComicCache) Generation(ctx context.Context) (int64, bool) {
	val, err := c.client.Get(ctx, keyGeneration).Result()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		c.warn("read generation", err)
		return 0, false
	}
	gen, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		c.warn("parse generation", err)
		return 0, false
	}
	return gen, true
}

func (c *RedisComicCache) GetList(ctx context.Context, gen int64, term string) ([]dto.ComicResponse, bool) {
	var comics []dto.ComicResponse
	if !c.get(ctx, listKey(gen, term), &comics) {
		return nil, false
	}
	return comics, true
}

func (c *RedisComicCache) SetList(ctx context.Context, gen int64, term string, comics []dto.ComicResponse) {
	c.set(ctx, listKey(gen, term), comics)
}

func (c *RedisComicCache) GetDetail(ctx context.Context, gen int64, id int64) (*dto.ComicResponse, bool) {
	var comic dto.ComicResponse
	if !c.get(ctx, detailKey(gen, id), &comic) {
		return nil, false
	}
	return &comic, true
}

func (c *RedisComicCache) SetDetail(ctx context.Context, gen int64, id int64, comic *dto.ComicResponse) {
	c.set(ctx, detailKey(gen, id), comic)
}

func (c *RedisComicCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, keyGeneration).Err(); err != nil {
		c.warn("invalidate", err)
	}
}

func (c *RedisComicCache) get(ctx context.Context, key string, dst any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		c.warn("get", err, zap.String("key", key))
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.warn("decode", err, zap.String("key", key))
		return false
	}
	return true
}

func (c *RedisComicCache) set(ctx context.Context, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		c.warn("encode", err, zap.String("key", key))
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.warn("set", err, zap.String("key", key))
	}
}

func (c *RedisComicCache) warn(op string, err error, fields ...zap.Field) {
	c.logger.Warn("comic cache "+op+" failed", append(fields, zap.Error(err))...)
}
