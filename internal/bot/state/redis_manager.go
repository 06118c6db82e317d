package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vladimiradmaev/vitals-tracker/internal/logger"
)

const (
	stateTTL       = 24 * time.Hour
	redisOpTimeout = 3 * time.Second
)

// RedisManager keeps chat states in Redis so they survive restarts. States
// expire after a day of inactivity.
type RedisManager struct {
	client redis.Cmdable
}

func NewRedisManager(client redis.Cmdable) *RedisManager {
	return &RedisManager{client: client}
}

func stateKey(chatID int64) string {
	return fmt.Sprintf("chat:%d:state", chatID)
}

func (m *RedisManager) SetUserState(chatID int64, state string) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := m.client.Set(ctx, stateKey(chatID), state, stateTTL).Err(); err != nil {
		logger.Warn("Failed to store chat state", "chat_id", chatID, "error", err)
	}
}

// GetUserState falls back to None when the key is missing or Redis fails.
func (m *RedisManager) GetUserState(chatID int64) string {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	result, err := m.client.Get(ctx, stateKey(chatID)).Result()
	if errors.Is(err, redis.Nil) {
		return None
	}
	if err != nil {
		logger.Warn("Failed to load chat state", "chat_id", chatID, "error", err)
		return None
	}
	return result
}

func (m *RedisManager) ClearUserState(chatID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := m.client.Del(ctx, stateKey(chatID)).Err(); err != nil {
		logger.Warn("Failed to clear chat state", "chat_id", chatID, "error", err)
	}
}

var (
	_ StateManager = (*Manager)(nil)
	_ StateManager = (*RedisManager)(nil)
)
