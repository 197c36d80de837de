package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// ProducerAPI is the lifecycle-event publishing surface used by the
// checkout and confirmation flows. Publishing is always best-effort.
type ProducerAPI interface {
	Publish(ctx context.Context, key string, value []byte) error
	Close() error
}

// Producer writes lifecycle events to a Kafka topic.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{writer: writer}
}

// Publish writes one message keyed by the shopper id so events for a
// shopper stay ordered within a partition.
func (p *Producer) Publish(ctx context.Context, key string, value []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
