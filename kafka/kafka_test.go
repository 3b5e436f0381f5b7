package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishTableChanged(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event TableChangedEvent
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		if event.Table != "inventory" || event.EventType != EventTypeTableChanged || event.Source != "node-a" {
			return errors.New("unexpected event payload")
		}
		return nil
	})

	p := NewPublisherWithProducer(producer, "node-a")
	require.NoError(t, p.PublishTableChanged(context.Background(), "inventory"))
	require.NoError(t, p.Close())
}

func TestPublishTableChangedFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewPublisherWithProducer(producer, "node-a")
	err := p.PublishTableChanged(context.Background(), "team")

	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestHandleMessageDispatchesByEventType(t *testing.T) {
	c := newConsumer(nil, "test", []string{TopicTableChanges})
	var got []string
	c.RegisterHandler(EventTypeTableChanged, func(_ context.Context, event TableChangedEvent) error {
		got = append(got, event.Table)
		return nil
	})
	h := &consumerGroupHandler{consumer: c}

	payload, err := json.Marshal(TableChangedEvent{EventID: "e1", EventType: EventTypeTableChanged, Table: "machines"})
	require.NoError(t, err)

	h.handleMessage(context.Background(), &sarama.ConsumerMessage{
		Topic:   TopicTableChanges,
		Value:   payload,
		Headers: []*sarama.RecordHeader{{Key: []byte("event_type"), Value: []byte(EventTypeTableChanged)}},
	})
	h.handleMessage(context.Background(), &sarama.ConsumerMessage{
		Topic:   TopicTableChanges,
		Value:   payload,
		Headers: []*sarama.RecordHeader{{Key: []byte("event_type"), Value: []byte("other")}},
	})
	h.handleMessage(context.Background(), &sarama.ConsumerMessage{
		Topic:   TopicTableChanges,
		Value:   []byte("{broken"),
		Headers: []*sarama.RecordHeader{{Key: []byte("event_type"), Value: []byte(EventTypeTableChanged)}},
	})

	assert.Equal(t, []string{"machines"}, got)
}

func TestNotifierHandleRejectsEmptyTable(t *testing.T) {
	n := &Notifier{}
	assert.Error(t, n.handle(context.Background(), TableChangedEvent{}))
}
