// Package ratelimit 基于 redis INCR+EXPIRE 的固定窗口计数器，多实例共享配额。
package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type Limiter struct {
	RDB    *redis.Client
	Prefix string
}

func New(addr, pass string, db int) *Limiter {
	return &Limiter{
		RDB:    redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		Prefix: "rl:",
	}
}

// Allow 返回是否放行以及窗口内的当前计数
func (l *Limiter) Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error) {
	k := l.Prefix + key
	pipe := l.RDB.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, err
	}
	n := incr.Val()
	return n <= limit, n, nil
}

func (l *Limiter) Close() error { return l.RDB.Close() }
