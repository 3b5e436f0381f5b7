package remote

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tair/fabstock/pkg/logger"
)

// RedisChannel is the pub/sub channel carrying changed table names.
const RedisChannel = "fabstock:changes"

// RedisNotifier relays table changes over Redis pub/sub, for deployments whose
// database cannot run triggers.
type RedisNotifier struct {
	*Hub
	client *redis.Client
	pubsub *redis.PubSub
}

// NewRedisNotifier subscribes to RedisChannel.
func NewRedisNotifier(ctx context.Context, client *redis.Client) (*RedisNotifier, error) {
	pubsub := client.Subscribe(ctx, RedisChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", RedisChannel, err)
	}

	n := &RedisNotifier{
		Hub:    NewHub(),
		client: client,
		pubsub: pubsub,
	}
	go n.run()

	logger.Logger.Info().Str("channel", RedisChannel).Msg("Listening for table changes")
	return n, nil
}

func (n *RedisNotifier) run() {
	for msg := range n.pubsub.Channel() {
		n.Notify(msg.Payload)
	}
}

// Publish announces a change to every process subscribed to the channel, this one included.
func (n *RedisNotifier) Publish(ctx context.Context, table string) error {
	return n.client.Publish(ctx, RedisChannel, table).Err()
}

// Close unsubscribes.
func (n *RedisNotifier) Close() error {
	n.Hub.Close()
	return n.pubsub.Close()
}
