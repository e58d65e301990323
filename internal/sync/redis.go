package sync

import (
	"context"
	"fmt"
	"log/slog"
	stdsync "sync"

	"github.com/redis/go-redis/v9"
)

// RedisBroadcaster implements Broadcaster over a Redis pub/sub channel. Redis
// plays the role of the host environment here: it serializes writes to the
// slot and fans change notifications out to every other subscribed context.
type RedisBroadcaster struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
}

// NewRedisBroadcaster creates a broadcaster publishing on the given channel.
func NewRedisBroadcaster(client *redis.Client, channel string, logger *slog.Logger) *RedisBroadcaster {
	return &RedisBroadcaster{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

// Broadcast publishes the payload to the channel.
func (b *RedisBroadcaster) Broadcast(ctx context.Context, payload []byte) error {
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish cart change: %w", err)
	}
	return nil
}

// Subscribe starts a delivery goroutine invoking the handler for each
// incoming payload. The returned function stops delivery; it is safe to call
// more than once.
func (b *RedisBroadcaster) Subscribe(ctx context.Context, handler func(payload []byte)) (func(), error) {
	pubsub := b.client.Subscribe(ctx, b.channel)

	// Confirm the subscription before returning so no notification published
	// after Subscribe is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe to %s: %w", b.channel, err)
	}

	ch := pubsub.Channel()
	done := make(chan struct{})

	go func() {
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				handler([]byte(msg.Payload))
			case <-done:
				return
			}
		}
	}()

	var once stdsync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(done)
			if err := pubsub.Close(); err != nil {
				b.logger.Warn("close cart change subscription",
					slog.String("error", err.Error()),
				)
			}
		})
	}

	return unsubscribe, nil
}
