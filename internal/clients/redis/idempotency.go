package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/adcopy-backend/internal/platform/logger"
)

const (
	DefaultKeyPrefix = "adcopy:idem:"
	DefaultTTL       = 24 * time.Hour
)

type Options struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	TTL       time.Duration
}

// IdempotencyGuard claims keys with SETNX so each submission is applied at most once
// within the TTL.
type IdempotencyGuard struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

func NewIdempotencyGuard(log *logger.Logger, opts Options) (*IdempotencyGuard, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return newIdempotencyGuard(log, rdb, opts), nil
}

func newIdempotencyGuard(log *logger.Logger, rdb *goredis.Client, opts Options) *IdempotencyGuard {
	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &IdempotencyGuard{
		log:    log.With("client", "RedisIdempotencyGuard"),
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (g *IdempotencyGuard) Claim(ctx context.Context, key string) (bool, error) {
	if g == nil || g.rdb == nil {
		return false, fmt.Errorf("redis idempotency guard not initialized")
	}
	ok, err := g.rdb.SetNX(ctx, g.key(key), time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

func (g *IdempotencyGuard) Release(ctx context.Context, key string) error {
	if g == nil || g.rdb == nil {
		return fmt.Errorf("redis idempotency guard not initialized")
	}
	if err := g.rdb.Del(ctx, g.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (g *IdempotencyGuard) Close() error {
	if g == nil || g.rdb == nil {
		return nil
	}
	return g.rdb.Close()
}

func (g *IdempotencyGuard) key(k string) string {
	return g.prefix + strings.TrimSpace(k)
}
