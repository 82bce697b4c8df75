package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServiceID string

	HTTPPort int
	GRPCPort int

	KafkaBrokers          []string
	KafkaTopic            string
	KafkaConsumerGroup    string
	KafkaProducerClientID string
	KafkaConsumerClientID string

	RedisURL        string
	ProductCacheTTL time.Duration
}

type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Dependencies struct {
		KafkaBrokers          []string `yaml:"kafka_brokers"`
		KafkaTopic            string   `yaml:"kafka_topic"`
		KafkaConsumerGroup    string   `yaml:"kafka_consumer_group"`
		KafkaProducerClientID string   `yaml:"kafka_producer_client_id"`
		KafkaConsumerClientID string   `yaml:"kafka_consumer_client_id"`
		RedisURL              string   `yaml:"redis_url"`
	} `yaml:"dependencies"`
	Cache struct {
		ProductTTLSeconds int `yaml:"product_ttl_seconds"`
	} `yaml:"cache"`
}

// LoadConfig layers defaults, an optional yaml file, and env overrides, in
// that order. A missing file is not an error; a malformed one is.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:             "product-catalog",
		HTTPPort:              8080,
		GRPCPort:              9090,
		KafkaBrokers:          []string{"localhost:9092"},
		KafkaTopic:            "product-events",
		KafkaConsumerGroup:    "product-catalog",
		KafkaProducerClientID: "product-catalog-producer",
		KafkaConsumerClientID: "product-catalog-consumer",
		ProductCacheTTL:       5 * time.Minute,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if len(f.Dependencies.KafkaBrokers) > 0 {
			cfg.KafkaBrokers = trimNonEmpty(f.Dependencies.KafkaBrokers)
		}
		if f.Dependencies.KafkaTopic != "" {
			cfg.KafkaTopic = f.Dependencies.KafkaTopic
		}
		if f.Dependencies.KafkaConsumerGroup != "" {
			cfg.KafkaConsumerGroup = f.Dependencies.KafkaConsumerGroup
		}
		if f.Dependencies.KafkaProducerClientID != "" {
			cfg.KafkaProducerClientID = f.Dependencies.KafkaProducerClientID
		}
		if f.Dependencies.KafkaConsumerClientID != "" {
			cfg.KafkaConsumerClientID = f.Dependencies.KafkaConsumerClientID
		}
		cfg.RedisURL = f.Dependencies.RedisURL
		if f.Cache.ProductTTLSeconds > 0 {
			cfg.ProductCacheTTL = time.Duration(f.Cache.ProductTTLSeconds) * time.Second
		}
	}

	cfg.ServiceID = envOrDefault("SERVICE_ID", cfg.ServiceID)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KafkaTopic = envOrDefault("KAFKA_TOPIC", cfg.KafkaTopic)
	cfg.KafkaConsumerGroup = envOrDefault("KAFKA_CONSUMER_GROUP", cfg.KafkaConsumerGroup)
	cfg.KafkaProducerClientID = envOrDefault("KAFKA_PRODUCER_CLIENT_ID", cfg.KafkaProducerClientID)
	cfg.KafkaConsumerClientID = envOrDefault("KAFKA_CONSUMER_CLIENT_ID", cfg.KafkaConsumerClientID)
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.ProductCacheTTL = time.Duration(envInt("PRODUCT_CACHE_SECONDS", int(cfg.ProductCacheTTL.Seconds()))) * time.Second

	if cfg.KafkaTopic == "" {
		return Config{}, fmt.Errorf("missing KAFKA_TOPIC")
	}
	if cfg.KafkaConsumerGroup == "" {
		return Config{}, fmt.Errorf("missing KAFKA_CONSUMER_GROUP")
	}
	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envCSV(name string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	return trimNonEmpty(strings.Split(raw, ","))
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
