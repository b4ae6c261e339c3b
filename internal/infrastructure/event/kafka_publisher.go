package event

import (
	"context"
	"errors"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/infrastructure/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// KafkaPublisher forwards domain events to Kafka, one topic per event type,
// keyed by aggregate id so events of one record stay ordered
type KafkaPublisher struct {
	producer    sarama.SyncProducer
	topicPrefix string
	logger      *zap.Logger
}

// NewKafkaPublisher connects a sync producer to the configured brokers
func NewKafkaPublisher(cfg config.KafkaConfig, logger *zap.Logger) (*KafkaPublisher, error) {
	sc := sarama.NewConfig()
	sc.ClientID = cfg.ClientID
	sc.Producer.Return.Successes = true
	sc.Producer.Retry.Max = 3
	sc.Producer.RequiredAcks = sarama.WaitForAll

	producer, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Info("Kafka publisher initialized", zap.Strings("brokers", cfg.Brokers))
	return NewKafkaPublisherWithProducer(producer, cfg.TopicPrefix, logger), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topicPrefix string, logger *zap.Logger) *KafkaPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KafkaPublisher{
		producer:    producer,
		topicPrefix: topicPrefix,
		logger:      logger,
	}
}

// Topic returns the topic an event type is written to
func (p *KafkaPublisher) Topic(eventType string) string {
	if p.topicPrefix == "" {
		return eventType
	}
	return p.topicPrefix + "." + eventType
}

// Publish sends all events in one batch
func (p *KafkaPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	ctx, span := otel.Tracer("backoffice/kafka").Start(ctx, "kafka.publish",
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.Int("messaging.batch.message_count", len(events)),
		),
	)
	defer span.End()

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	msgs := make([]*sarama.ProducerMessage, 0, len(events))
	for _, event := range events {
		body, err := Serialize(event)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "serialize")
			return err
		}

		headers := []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.EventType())},
			{Key: []byte("event_id"), Value: []byte(event.EventID().String())},
			{Key: []byte("tenant_id"), Value: []byte(event.TenantID().String())},
		}
		for k, v := range carrier {
			headers = append(headers, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
		}

		msgs = append(msgs, &sarama.ProducerMessage{
			Topic:   p.Topic(event.EventType()),
			Key:     sarama.StringEncoder(event.AggregateID().String()),
			Value:   sarama.ByteEncoder(body),
			Headers: headers,
		})
	}

	if err := p.producer.SendMessages(msgs); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "send")

		var perrs sarama.ProducerErrors
		if errors.As(err, &perrs) {
			for _, pe := range perrs {
				p.logger.Error("Failed to publish event",
					zap.String("topic", pe.Msg.Topic),
					zap.Error(pe.Err),
				)
			}
		}
		return fmt.Errorf("failed to send %d events to Kafka: %w", len(msgs), err)
	}

	p.logger.Debug("Events published to Kafka", zap.Int("count", len(msgs)))
	return nil
}

// Close closes the producer
func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

var _ shared.EventPublisher = (*KafkaPublisher)(nil)
