package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/docker/go-units"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const (
	defaultServicePort   = "3000"
	defaultBaseURL       = "http://localhost:3000"
	defaultDBName        = "product_service"
	defaultUploadDir     = "uploads"
	defaultUploadMaxSize = "5MiB"
)

type Config struct {
	ServicePort   string
	MetricsPort   string
	BaseURL       string
	Environment   string
	MongoDBConfig MongoDBConfig
	KafkaConfig   KafkaConfig
	JWTSecret     string
	TracingConfig TracingConfig
	UploadConfig  UploadConfig
}

type MongoDBConfig struct {
	URI    string
	DBHost string
	DBPort string
	DBName string
}

// ConnectionURI prefers an explicit MONGO_URI and falls back to host and port.
func (c MongoDBConfig) ConnectionURI() string {
	if c.URI != "" {
		return c.URI
	}

	return fmt.Sprintf("mongodb://%s:%s", c.DBHost, c.DBPort)
}

type KafkaConfig struct {
	BrokerAddress string
	BrokerTopic   string
}

type TracingConfig struct {
	CollectorHost string
}

type UploadConfig struct {
	Dir          string
	FieldName    string
	MaxSize      string
	MaxSizeBytes int64
}

func CreateNewConfig() *Config {
	godotenv.Load(".env")

	conf := Config{
		ServicePort: getEnv("SERVICE_PORT", defaultServicePort),
		MetricsPort: os.Getenv("METRICS_PORT"),
		BaseURL:     getEnv("BASE_URL", defaultBaseURL),
		Environment: getEnv("ENVIRONMENT", "development"),
		MongoDBConfig: MongoDBConfig{
			URI:    os.Getenv("MONGO_URI"),
			DBHost: getEnv("DB_HOST", "localhost"),
			DBPort: getEnv("DB_PORT", "27017"),
			DBName: getEnv("MONGO_DB_NAME", defaultDBName),
		},
		JWTSecret: os.Getenv("JWT_SECRET"),
		KafkaConfig: KafkaConfig{
			BrokerAddress: os.Getenv("BROKER_ADDRESS"),
			BrokerTopic:   getEnv("BROKER_TOPIC", "products"),
		},
		TracingConfig: TracingConfig{
			CollectorHost: os.Getenv("COLLECTOR_HOST"),
		},
		UploadConfig: UploadConfig{
			Dir:       getEnv("UPLOAD_DIR", defaultUploadDir),
			FieldName: "productImage",
			MaxSize:   getEnv("UPLOAD_MAX_SIZE", defaultUploadMaxSize),
		},
	}

	maxSize, err := units.RAMInBytes(conf.UploadConfig.MaxSize)
	if err != nil || maxSize <= 0 {
		log.Warn().Err(err).Str("component", "CreateNewConfig").Str("value", conf.UploadConfig.MaxSize).Msg("invalid UPLOAD_MAX_SIZE, using default")
		conf.UploadConfig.MaxSize = defaultUploadMaxSize
		maxSize, _ = units.RAMInBytes(defaultUploadMaxSize)
	}

	conf.UploadConfig.MaxSizeBytes = maxSize

	return &conf
}

var ErrMissingJWTSecret = errors.New("JWT_SECRET is not set")

// Validate reports settings the service cannot run without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}

	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
