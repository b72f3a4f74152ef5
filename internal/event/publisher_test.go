package event

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/alimikegami/point-of-sales/product-service/internal/dto"
	circuitbreaker "github.com/alimikegami/point-of-sales/product-service/internal/infrastructure/circuit-breaker"
	"github.com/alimikegami/point-of-sales/product-service/pkg/errs"
	"github.com/segmentio/kafka-go"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	messages []kafka.Message
	err      error
	calls    int
}

func (w *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	w.calls++
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	writer := &fakeWriter{}
	publisher := CreateKafkaPublisher(writer, circuitbreaker.CreateCircuitBreaker("test"))

	err := publisher.Publish(context.Background(), "abc", dto.KafkaMessage{
		EventType: dto.EventDeleteProduct,
		Data:      dto.ProductEvent{ID: "abc"},
	})
	require.NoError(t, err)
	require.Len(t, writer.messages, 1)
	assert.Equal(t, "abc", string(writer.messages[0].Key))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &decoded))
	assert.Equal(t, "delete_product", decoded["event_type"])
	assert.Equal(t, "abc", decoded["data"].(map[string]interface{})["id"])
}

func TestKafkaPublisher_BreakerOpensAfterFailures(t *testing.T) {
	writer := &fakeWriter{err: errors.New("broker unavailable")}
	publisher := CreateKafkaPublisher(writer, circuitbreaker.CreateCircuitBreaker("test"))

	for i := 0; i < 3; i++ {
		err := publisher.Publish(context.Background(), "id", dto.KafkaMessage{EventType: dto.EventAddProduct})
		assert.ErrorIs(t, err, errs.ErrEventPublishFailed)
	}

	err := publisher.Publish(context.Background(), "id", dto.KafkaMessage{EventType: dto.EventAddProduct})
	assert.ErrorIs(t, err, errs.ErrEventPublishFailed)
	assert.Contains(t, err.Error(), gobreaker.ErrOpenState.Error())
	assert.Equal(t, 3, writer.calls)
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), "id", dto.KafkaMessage{}))
}
