package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alimikegami/point-of-sales/product-service/config"
	"github.com/alimikegami/point-of-sales/product-service/internal/app"
	"github.com/alimikegami/point-of-sales/product-service/internal/event"
	circuitbreaker "github.com/alimikegami/point-of-sales/product-service/internal/infrastructure/circuit-breaker"
	"github.com/alimikegami/point-of-sales/product-service/internal/infrastructure/database/mongodb"
	"github.com/alimikegami/point-of-sales/product-service/internal/infrastructure/message-queue/kafka"
	"github.com/alimikegami/point-of-sales/product-service/internal/infrastructure/tracing"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	logger := log.Output(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && level != zerolog.NoLevel {
		zerolog.SetGlobalLevel(level)
	}
	log.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config := config.CreateNewConfig()
	if err := config.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	traceProvider, err := tracing.InitTracing(config.TracingConfig.CollectorHost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize tracing")
	}
	defer func() {
		if err := traceProvider.Shutdown(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to shutdown tracing")
		}
	}()

	db, err := mongodb.ConnectToMongoDB(ctx, config.MongoDBConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer db.Client().Disconnect(context.Background())

	var publisher event.Publisher = event.NoopPublisher{}
	if config.KafkaConfig.BrokerAddress != "" {
		kafkaProducer := kafka.CreateKafkaProducer(config)
		defer kafkaProducer.Close()

		publisher = event.CreateKafkaPublisher(kafkaProducer, circuitbreaker.CreateCircuitBreaker("kafka-producer"))
	} else {
		log.Warn().Msg("BROKER_ADDRESS not set, product events are disabled")
	}

	application := app.App{
		DB:        db,
		Config:    config,
		Publisher: publisher,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("Server stopped")
		}
	case <-ctx.Done():
		log.Info().Msg("Shutting down")
		if err := application.StopServer(); err != nil {
			log.Error().Err(err).Msg("Failed to stop server")
		}
	}
}
