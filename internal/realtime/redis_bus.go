package realtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/vladimiradmaev/vitals-tracker/internal/logger"
)

type redisBus struct {
	log     *slog.Logger
	rdb     *redis.Client
	channel string
}

// NewRedisBus uses Redis pub/sub on a single channel. The client is owned by
// the bus and closed with it.
func NewRedisBus(rdb *redis.Client, channel string) (Bus, error) {
	if rdb == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if channel == "" {
		channel = "vitals:events"
	}
	return &redisBus{
		log:     logger.Component("redis_bus"),
		rdb:     rdb,
		channel: channel,
	}, nil
}

func (b *redisBus) Publish(ctx context.Context, msg Message) error {
	raw, err := encodeMessage(msg)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *redisBus) StartForwarder(ctx context.Context, onMsg func(Message)) error {
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				msg, err := decodeMessage([]byte(m.Payload))
				if err != nil {
					b.log.Warn("Bad redis payload", "error", err)
					continue
				}
				onMsg(msg)
			}
		}
	}()

	b.log.Info("Redis forwarder started", "channel", b.channel)
	return nil
}

func (b *redisBus) Close() error {
	return b.rdb.Close()
}
