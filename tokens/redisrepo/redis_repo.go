package redisrepo

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	apperrors "github.com/jrsteele09/go-course-client/internal/errors"
	"github.com/jrsteele09/go-course-client/tokens"
)

var _ tokens.Repo = (*RedisRepo)(nil)

// RedisRepo keeps tab tokens in Redis so several client processes can share one store.
type RedisRepo struct {
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

type Option func(*RedisRepo)

// WithPrefix namespaces every key, e.g. "course-client:".
func WithPrefix(prefix string) Option {
	return func(r *RedisRepo) {
		r.prefix = prefix
	}
}

// WithTTL expires stored tokens after ttl. Zero keeps them until deleted.
func WithTTL(ttl time.Duration) Option {
	return func(r *RedisRepo) {
		r.ttl = ttl
	}
}

// New connects to addr and pings it before returning.
func New(ctx context.Context, addr string, options ...Option) (*RedisRepo, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewWithClient(rdb, options...), nil
}

func NewWithClient(rdb *goredis.Client, options ...Option) *RedisRepo {
	r := &RedisRepo{rdb: rdb}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *RedisRepo) Get(ctx context.Context, key string) (string, error) {
	v, err := r.rdb.Get(ctx, r.prefix+key).Result()
	if err == goredis.Nil {
		return "", apperrors.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

func (r *RedisRepo) Set(ctx context.Context, key, value string) error {
	if err := r.rdb.Set(ctx, r.prefix+key, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisRepo) Delete(ctx context.Context, key string) error {
	if err := r.rdb.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (r *RedisRepo) Close() error {
	return r.rdb.Close()
}
