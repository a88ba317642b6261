package kernel

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/stockpile/config"
	"github.com/shashiranjanraj/stockpile/pkg/logger"
	"github.com/shashiranjanraj/stockpile/pkg/middleware"
)

// Limiter is the configured rate limiter plus whatever must be released at
// shutdown.
type Limiter struct {
	middleware.Limiter
	close func()
}

func (l *Limiter) Close() {
	if l != nil && l.close != nil {
		l.close()
	}
}

// NewLimiter builds the limiter named by RATE_LIMIT_DRIVER. It returns nil
// when RATE_LIMIT_MAX is zero. An unreachable Redis falls back to the
// in-memory limiter with a warning.
func NewLimiter(ctx context.Context) *Limiter {
	max, window := config.RateLimit()
	if max <= 0 {
		return nil
	}

	if config.RateLimitDriver() == "redis" {
		rdb, err := connectRedis(ctx)
		if err == nil {
			return &Limiter{
				Limiter: middleware.NewRedisLimiter(rdb, max, window),
				close:   func() { _ = rdb.Close() },
			}
		}
		logger.Warn("rate limiter: redis unavailable, using memory", "error", err)
	}

	mem := middleware.NewMemoryLimiter(max, window)
	return &Limiter{Limiter: mem, close: mem.Close}
}

func connectRedis(ctx context.Context) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", config.RedisAddr(), err)
	}
	return rdb, nil
}
