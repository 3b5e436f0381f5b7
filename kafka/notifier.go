package kafka

import (
	"context"
	"errors"

	"github.com/tair/fabstock/internal/remote"
)

// Notifier carries table changes over a Kafka topic.
type Notifier struct {
	*remote.Hub
	publisher *Publisher
	consumer  *Consumer
}

// NewNotifier wires a publisher and a consumer to a local hub and starts consuming.
func NewNotifier(ctx context.Context, publisher *Publisher, consumer *Consumer) *Notifier {
	n := &Notifier{
		Hub:       remote.NewHub(),
		publisher: publisher,
		consumer:  consumer,
	}
	consumer.RegisterHandler(EventTypeTableChanged, n.handle)
	consumer.Start(ctx)
	return n
}

func (n *Notifier) handle(_ context.Context, event TableChangedEvent) error {
	if event.Table == "" {
		return errors.New("table changed event without table")
	}
	n.Notify(event.Table)
	return nil
}

// Publish announces the change on the topic. The local hub is notified when the event comes back.
func (n *Notifier) Publish(ctx context.Context, table string) error {
	return n.publisher.PublishTableChanged(ctx, table)
}

// Close stops consuming and closes the producer.
func (n *Notifier) Close() error {
	n.Hub.Close()
	return errors.Join(n.consumer.Close(), n.publisher.Close())
}
