package events

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// Message is a raw unit fetched from the broker before envelope decoding.
type Message struct {
	Key   []byte
	Value []byte
}

// MessageSource hands the subscriber one message at a time. Fetch blocks until
// a message arrives, the context is cancelled, or the source fails.
type MessageSource interface {
	Fetch(ctx context.Context) (Message, error)
	Close() error
}

// KafkaSource reads a topic as a member of a consumer group. StartOffset is
// the earliest retained offset, so a group joining for the first time replays
// full history rather than only new arrivals.
type KafkaSource struct {
	reader *kafka.Reader
}

func NewKafkaSource(brokers []string, groupID, topic, clientID string) (*KafkaSource, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka source requires at least one broker")
	}
	if groupID == "" {
		return nil, fmt.Errorf("kafka source requires a consumer group id")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka source requires a topic")
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		StartOffset: kafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     500 * time.Millisecond,
		Dialer: &kafka.Dialer{
			ClientID:  clientID,
			Timeout:   10 * time.Second,
			DualStack: true,
		},
	})
	return &KafkaSource{reader: reader}, nil
}

func (s *KafkaSource) Fetch(ctx context.Context) (Message, error) {
	msg, err := s.reader.ReadMessage(ctx)
	if err != nil {
		return Message{}, err
	}
	return Message{Key: msg.Key, Value: msg.Value}, nil
}

func (s *KafkaSource) Close() error {
	return s.reader.Close()
}
