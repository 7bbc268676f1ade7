package kafka

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"

	"workerbull/internal/logger"
)

// Producer streams order lifecycle events. Topic is set per message so a
// single writer serves every lifecycle topic.
type Producer struct {
	Writer   *kafka.Writer
	MockMode bool
	log      *logger.Logger
}

func NewProducer(brokers []string, mockMode bool, log *logger.Logger) *Producer {
	p := &Producer{MockMode: mockMode, log: log}
	if mockMode {
		log.Warn("KAFKA", "producer running in mock mode, events are logged only")
		return p
	}
	p.Writer = &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return p
}

func (p *Producer) Publish(topic string, key string, value []byte) error {
	if p.MockMode {
		p.log.Info("KAFKA", fmt.Sprintf("[mock] %s key=%s payload=%s", topic, key, string(value)))
		return nil
	}
	return p.Writer.WriteMessages(context.Background(), kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	})
}

func (p *Producer) Close() error {
	if p.Writer == nil {
		return nil
	}
	return p.Writer.Close()
}
