// Package event publishes product change notifications for downstream
// consumers. Publishing is best-effort and never blocks a product operation
// on a retry.
package event

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alimikegami/point-of-sales/product-service/internal/dto"
	"github.com/alimikegami/point-of-sales/product-service/pkg/errs"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"
)

type Publisher interface {
	Publish(ctx context.Context, key string, msg dto.KafkaMessage) error
}

// MessageWriter is the subset of *kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaPublisher struct {
	writer  MessageWriter
	breaker *gobreaker.CircuitBreaker[struct{}]
}

func CreateKafkaPublisher(writer MessageWriter, breaker *gobreaker.CircuitBreaker[struct{}]) *KafkaPublisher {
	return &KafkaPublisher{writer: writer, breaker: breaker}
}

func (p *KafkaPublisher) Publish(ctx context.Context, key string, msg dto.KafkaMessage) error {
	jsonMsg, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: marshal: %v", errs.ErrEventPublishFailed, err)
	}

	_, err = p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte(key),
			Value: jsonMsg,
		})
	})
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrEventPublishFailed, err)
	}

	return nil
}

// NoopPublisher is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, key string, msg dto.KafkaMessage) error {
	return nil
}
