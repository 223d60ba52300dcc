package storage

import (
	"context"
	"fmt"

	"branakids/navigation/internal/events"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// RedisNotifier turns messages on a Redis pub/sub channel into storage
// events. Each message payload is the key that changed.
type RedisNotifier struct {
	*events.Bus

	redisClient *redis.Client
	channel     string
}

func NewRedisNotifier(redisClient *redis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{
		Bus:         events.NewBus(),
		redisClient: redisClient,
		channel:     channel,
	}
}

// Run forwards channel messages to subscribers until ctx is done.
func (n *RedisNotifier) Run(ctx context.Context) error {
	pubsub := n.redisClient.Subscribe(ctx, n.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", n.channel, err)
	}
	log.Infof("✅ Listening for storage changes on %s", n.channel)

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			log.Infof("🛑 Storage notifier stopping")
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			log.Debugf("Storage key %s changed", msg.Payload)
			n.Publish(events.StorageEvent{Key: msg.Payload})
		}
	}
}

// Notify announces that key changed.
func (n *RedisNotifier) Notify(ctx context.Context, key string) error {
	if err := n.redisClient.Publish(ctx, n.channel, key).Err(); err != nil {
		return fmt.Errorf("failed to publish change of %s: %w", key, err)
	}
	return nil
}
