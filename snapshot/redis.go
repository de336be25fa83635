package snapshot

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/ncobase/gqltable/config"
	"github.com/redis/go-redis/v9"
)

func init() {
	Register(redisDriver{})
}

type redisDriver struct{}

func (redisDriver) Name() string { return "redis" }

func (redisDriver) Open(ctx context.Context, cfg *config.Snapshot) (Store, error) {
	if cfg == nil || cfg.Redis == nil || cfg.Redis.Addr == "" {
		return nil, errors.New("redis address is required")
	}
	rc := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Username:     cfg.Redis.Username,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.Db,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		DialTimeout:  cfg.Redis.DialTimeout,
	})
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedis(rc, cfg.Redis.TTL), nil
}

// Redis stores snapshots as JSON strings in Redis.
type Redis struct {
	rc  *redis.Client
	ttl time.Duration
}

// NewRedis wraps an existing client. A zero ttl keeps snapshots forever.
func NewRedis(rc *redis.Client, ttl time.Duration) *Redis {
	return &Redis{rc: rc, ttl: ttl}
}

// Save implements Store.
func (r *Redis) Save(ctx context.Context, id string, values url.Values) error {
	if r.rc == nil {
		return errors.New("redis client is nil, cannot save snapshot")
	}
	data, err := encode(values)
	if err != nil {
		return err
	}
	if err := r.rc.Set(ctx, Key(id), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Load implements Store.
func (r *Redis) Load(ctx context.Context, id string) (url.Values, error) {
	if r.rc == nil {
		return nil, errors.New("redis client is nil, cannot load snapshot")
	}
	data, err := r.rc.Get(ctx, Key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return url.Values{}, nil
		}
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return decode(data)
}

// Delete implements Store.
func (r *Redis) Delete(ctx context.Context, id string) error {
	if r.rc == nil {
		return errors.New("redis client is nil, cannot delete snapshot")
	}
	if err := r.rc.Del(ctx, Key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// Close implements Store.
func (r *Redis) Close() error {
	if r.rc == nil {
		return nil
	}
	return r.rc.Close()
}
