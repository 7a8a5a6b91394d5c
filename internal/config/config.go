package config

import (
	"os"
	"strings"
)

// Config gathers the service's environment-driven settings.
type Config struct {
	ListenAddr    string
	PublicBaseURL string

	DBDSN     string
	RedisAddr string

	KafkaBrokers []string
	OrderTopic   string

	PaymentBaseURL       string
	PaymentSecretKey     string
	PaymentWebhookSecret string

	JWTSecret string
}

// Load reads configuration from the environment, with local-development
// defaults.
func Load() *Config {
	return &Config{
		ListenAddr:    getenv("LISTEN_ADDR", ":8080"),
		PublicBaseURL: getenv("PUBLIC_BASE_URL", "http://localhost:8080"),

		DBDSN:     getenv("DB_DSN", "root:@tcp(127.0.0.1:3306)/orchard-db?parseTime=true"),
		RedisAddr: getenv("REDIS_ADDR", "localhost:6379"),

		KafkaBrokers: getKafkaBrokerURLs(),
		OrderTopic:   getenv("ORDER_TOPIC", "order-events"),

		PaymentBaseURL:       getenv("PAYMENT_BASE_URL", "https://api.payments.example.com"),
		PaymentSecretKey:     os.Getenv("PAYMENT_SECRET_KEY"),
		PaymentWebhookSecret: os.Getenv("PAYMENT_WEBHOOK_SECRET"),

		JWTSecret: getenv("JWT_SECRET", "secret"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getKafkaBrokerURLs() []string {
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		brokers = "localhost:9092,localhost:9093,localhost:9094" // Default brokers
	}
	return strings.Split(brokers, ",")
}
