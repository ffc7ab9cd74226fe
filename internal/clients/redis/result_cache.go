package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/learnpath-backend/internal/logger"
	"github.com/yungbote/learnpath-backend/internal/types"
)

// ResultCache is a read-through cache for retrieval results. It is strictly
// an optimization: every method tolerates redis being down and the pipeline
// works identically with a nil cache.
type ResultCache interface {
	GetScoredItems(ctx context.Context, key string) ([]types.ScoredItem, bool)
	SetScoredItems(ctx context.Context, key string, items []types.ScoredItem, ttl time.Duration)
	Close() error
}

type resultCache struct {
	log *logger.Logger
	rdb *goredis.Client
}

// NewResultCache connects to redis from REDIS_ADDR/REDIS_PASSWORD/REDIS_DB.
// A missing REDIS_ADDR is an error; main treats it as "caching disabled".
func NewResultCache(log *logger.Logger) (ResultCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	db := 0
	if v := strings.TrimSpace(os.Getenv("REDIS_DB")); v != "" {
		fmt.Sscanf(v, "%d", &db)
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    os.Getenv("REDIS_PASSWORD"),
		DB:          db,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &resultCache{
		log: log.With("service", "RedisResultCache"),
		rdb: rdb,
	}, nil
}

func (c *resultCache) GetScoredItems(ctx context.Context, key string) ([]types.ScoredItem, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("Cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	var items []types.ScoredItem
	if err := json.Unmarshal(raw, &items); err != nil {
		c.log.Warn("Cache entry unparsable, ignoring", "key", key, "error", err)
		return nil, false
	}
	return items, true
}

func (c *resultCache) SetScoredItems(ctx context.Context, key string, items []types.ScoredItem, ttl time.Duration) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.log.Warn("Cache write failed", "key", key, "error", err)
	}
}

func (c *resultCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
