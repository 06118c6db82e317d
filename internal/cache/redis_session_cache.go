package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vladimiradmaev/vitals-tracker/internal/domain"
	"github.com/vladimiradmaev/vitals-tracker/internal/logger"
)

// RedisOptions configures the Redis connection shared by the cache and the
// bot state store.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient connects and pings Redis.
func NewRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// RedisSessionCache shares resolved sessions between API instances.
type RedisSessionCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisSessionCache(client redis.Cmdable, ttl time.Duration) *RedisSessionCache {
	return &RedisSessionCache{client: client, ttl: ttl}
}

func sessionKey(id string) string {
	return fmt.Sprintf("sharing:%s:session", id)
}

func (c *RedisSessionCache) Get(ctx context.Context, id string) (*domain.SharingSession, bool) {
	data, err := c.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logger.Warn("Session cache read failed", "session_id", id, "error", err)
		return nil, false
	}

	var session domain.SharingSession
	if err := json.Unmarshal(data, &session); err != nil {
		logger.Warn("Session cache entry is corrupt", "session_id", id, "error", err)
		return nil, false
	}
	return &session, true
}

func (c *RedisSessionCache) Set(ctx context.Context, session domain.SharingSession) {
	data, err := json.Marshal(session)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, sessionKey(session.ID), data, c.ttl).Err(); err != nil {
		logger.Warn("Session cache write failed", "session_id", session.ID, "error", err)
	}
}

func (c *RedisSessionCache) Delete(ctx context.Context, id string) {
	if err := c.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		logger.Warn("Session cache delete failed", "session_id", id, "error", err)
	}
}
