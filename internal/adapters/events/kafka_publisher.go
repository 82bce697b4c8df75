package events

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/streamcart/product-catalog/internal/domain"
	"github.com/streamcart/product-catalog/internal/ports"
)

// KafkaPublisher writes one message per committed mutation to a single topic,
// keyed by event type. Keying by type gives per-type ordering only; all
// product.created events share a partition, and so on.
type KafkaPublisher struct {
	writer *kafka.Writer
	nowFn  func() time.Time
}

func NewKafkaPublisher(brokers []string, topic, clientID string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher requires at least one broker")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka publisher requires a topic")
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			RequiredAcks: kafka.RequireAll,
			Balancer:     &kafka.Hash{},
			Transport:    &kafka.Transport{ClientID: clientID},
		},
		nowFn: func() time.Time { return time.Now().UTC() },
	}, nil
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, payload domain.Product) error {
	envelope := ports.EventEnvelope{
		Type:      eventType,
		Payload:   payload,
		Timestamp: p.nowFn(),
	}
	raw, err := EncodeEnvelope(envelope)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", domain.ErrDeliveryFailed, eventType, err)
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(eventType),
		Value: raw,
		Time:  envelope.Timestamp,
	}); err != nil {
		return fmt.Errorf("%w: write %s: %v", domain.ErrDeliveryFailed, eventType, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
