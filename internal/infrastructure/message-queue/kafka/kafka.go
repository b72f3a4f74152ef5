package kafka

import (
	"time"

	"github.com/alimikegami/point-of-sales/product-service/config"
	"github.com/segmentio/kafka-go"
)

// CreateKafkaProducer returns a writer that dials lazily, so a broker that is
// down at startup does not keep the HTTP service from coming up.
func CreateKafkaProducer(config *config.Config) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(config.KafkaConfig.BrokerAddress),
		Topic:                  config.KafkaConfig.BrokerTopic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		WriteTimeout:           5 * time.Second,
		MaxAttempts:            1,
		AllowAutoTopicCreation: true,
	}
}
