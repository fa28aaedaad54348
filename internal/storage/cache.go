package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/LJTian/NewsLens/internal/logger"
	"github.com/LJTian/NewsLens/internal/metrics"
	"github.com/redis/go-redis/v9"
)

const (
	postListCacheKey = "posts:list"
	// 每次写库后自增；回写缓存前校验，避免旧列表覆盖新写入
	postListGenKey = "posts:list:gen"
	// 5 分钟短 TTL；新建文章时主动删除
	postListCacheTTL = 5 * time.Minute
)

var errStaleList = errors.New("post list changed during refresh")

// listCache 用 Redis 缓存整张文章列表（JSON）。rdb 为 nil 时所有操作都是空操作。
type listCache struct {
	rdb     *redis.Client
	ttl     time.Duration
	log     logger.Logger
	metrics *metrics.Metrics
}

func (c *listCache) get(ctx context.Context) ([]Post, bool) {
	if c.rdb == nil {
		return nil, false
	}
	bs, err := c.rdb.Get(ctx, postListCacheKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.metrics.CacheResult("miss")
		} else {
			c.metrics.CacheResult("error")
			c.log.Warn("redis get failed", logger.String("key", postListCacheKey), logger.Error(err))
		}
		return nil, false
	}
	var cached []Post
	if err := json.Unmarshal(bs, &cached); err != nil {
		c.metrics.CacheResult("error")
		c.log.Warn("decode cached posts failed", logger.Error(err))
		return nil, false
	}
	c.metrics.CacheResult("hit")
	return cached, true
}

// generation 返回当前写入代号，查库前读取，交给 set 校验
func (c *listCache) generation(ctx context.Context) int64 {
	if c.rdb == nil {
		return 0
	}
	gen, err := c.rdb.Get(ctx, postListGenKey).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.log.Warn("redis get failed", logger.String("key", postListGenKey), logger.Error(err))
	}
	return gen
}

// set 仅在查库期间没有新写入（代号未变）时回写列表
func (c *listCache) set(ctx context.Context, gen int64, posts []Post) {
	if c.rdb == nil {
		return
	}
	bs, err := json.Marshal(posts)
	if err != nil {
		c.log.Warn("encode posts for cache failed", logger.Error(err))
		return
	}

	err = c.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, postListGenKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != gen {
			return errStaleList
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, postListCacheKey, bs, c.ttl)
			return nil
		})
		return err
	}, postListGenKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleList), errors.Is(err, redis.TxFailedErr):
		c.log.Debug("skip caching stale post list", logger.Int64("generation", gen))
	default:
		c.log.Warn("redis set failed", logger.String("key", postListCacheKey), logger.Error(err))
	}
}

// invalidate 删除缓存列表；bump 为 true 时同时自增代号，让进行中的刷新放弃回写
func (c *listCache) invalidate(ctx context.Context, bump bool) {
	if c.rdb == nil {
		return
	}
	if bump {
		if err := c.rdb.Incr(ctx, postListGenKey).Err(); err != nil {
			c.log.Warn("redis incr failed", logger.String("key", postListGenKey), logger.Error(err))
		}
	}
	if err := c.rdb.Del(ctx, postListCacheKey).Err(); err != nil {
		c.log.Warn("redis del failed", logger.String("key", postListCacheKey), logger.Error(err))
	}
}
