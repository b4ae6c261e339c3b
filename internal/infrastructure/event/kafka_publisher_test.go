package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/erp/backoffice/internal/domain/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestKafkaPublisher_SendsEnvelopesKeyedByAggregate(t *testing.T) {
	item, events := newItemEvents(t)
	require.Len(t, events, 3)

	producer := mocks.NewSyncProducer(t, testProducerConfig())

	var sent []*sarama.ProducerMessage
	for range events {
		producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
			sent = append(sent, msg)
			return nil
		})
	}

	pub := NewKafkaPublisherWithProducer(producer, "backoffice", zap.NewNop())
	require.NoError(t, pub.Publish(context.Background(), events...))
	require.NoError(t, pub.Close())

	require.Len(t, sent, 3)
	assert.Equal(t, "backoffice."+inventory.EventTypeInventoryItemCreated, sent[0].Topic)
	assert.Equal(t, "backoffice."+inventory.EventTypeStockAdjusted, sent[1].Topic)
	assert.Equal(t, "backoffice."+inventory.EventTypeStockLow, sent[2].Topic)

	for _, msg := range sent {
		key, err := msg.Key.Encode()
		require.NoError(t, err)
		assert.Equal(t, item.ID.String(), string(key))
	}

	body, err := sent[1].Value.Encode()
	require.NoError(t, err)
	var env Envelope
	require.NoError(t, json.Unmarshal(body, &env))
	assert.Equal(t, inventory.EventTypeStockAdjusted, env.EventType)
	assert.Equal(t, item.TenantID, env.TenantID)
	assert.Contains(t, string(env.Payload), `"reason":"sale"`)
}

func TestKafkaPublisher_SendFailure(t *testing.T) {
	_, events := newItemEvents(t)

	producer := mocks.NewSyncProducer(t, testProducerConfig())
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	pub := NewKafkaPublisherWithProducer(producer, "", nil)
	err := pub.Publish(context.Background(), events[0])
	assert.True(t, errors.Is(err, sarama.ErrOutOfBrokers))
	assert.Equal(t, inventory.EventTypeStockLow, pub.Topic(inventory.EventTypeStockLow))
}

func TestKafkaPublisher_EmptyBatch(t *testing.T) {
	producer := mocks.NewSyncProducer(t, testProducerConfig())
	pub := NewKafkaPublisherWithProducer(producer, "x", nil)
	assert.NoError(t, pub.Publish(context.Background()))
}

func testProducerConfig() *sarama.Config {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	return cfg
}
