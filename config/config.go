package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the order pipeline service.
type Config struct {
	Port string
	Env  string

	RedisURL string

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string

	// Default commerce-platform credentials used by the checkout path.
	// Polling resolves per-merchant credentials from the merchant table.
	PlatformShopDomain  string
	PlatformAccessToken string

	MessagingAPIURL string
	MessagingToken  string

	KafkaBrokers   []string
	KafkaTopic     string
	ShippingSNSARN string

	CheckoutTokenTTL time.Duration
	ConfirmationTTL  time.Duration

	CheckoutValidationTimeout time.Duration
	CheckoutMaxRetries        int

	PollInterval       time.Duration
	PollWindow         time.Duration
	PollLockTTL        time.Duration
	InterMerchantDelay time.Duration

	NotificationDailyCap int
}

// Load reads configuration from the environment, with a .env file loaded
// first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port: getEnv("PORT", "8094"),
		Env:  getEnv("APP_ENV", "development"),

		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),

		PostgresUser:     os.Getenv("POSTGRES_USER"),
		PostgresPassword: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:       os.Getenv("POSTGRES_DB"),
		PostgresHost:     os.Getenv("POSTGRES_HOST"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		PlatformShopDomain:  os.Getenv("PLATFORM_SHOP_DOMAIN"),
		PlatformAccessToken: os.Getenv("PLATFORM_ACCESS_TOKEN"),

		MessagingAPIURL: getEnv("MESSAGING_API_URL", "https://graph.facebook.com/v18.0/me/messages"),
		MessagingToken:  os.Getenv("MESSAGING_TOKEN"),

		KafkaBrokers:   []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
		KafkaTopic:     getEnv("KAFKA_TOPIC", "order.lifecycle"),
		ShippingSNSARN: os.Getenv("SHIPPING_SNS_TOPIC_ARN"),

		CheckoutTokenTTL: getDuration("CHECKOUT_TOKEN_TTL", 24*time.Hour),
		ConfirmationTTL:  getDuration("CONFIRMATION_TTL", 365*24*time.Hour),

		CheckoutValidationTimeout: getDuration("CHECKOUT_VALIDATION_TIMEOUT", 5*time.Second),
		CheckoutMaxRetries:        getInt("CHECKOUT_MAX_RETRIES", 3),

		PollInterval:       getDuration("POLL_INTERVAL", 10*time.Minute),
		PollWindow:         getDuration("POLL_WINDOW", 24*time.Hour),
		PollLockTTL:        getDuration("POLL_LOCK_TTL", 60*time.Second),
		InterMerchantDelay: getDuration("INTER_MERCHANT_DELAY", 2*time.Second),

		NotificationDailyCap: getInt("NOTIFICATION_DAILY_CAP", 3),
	}

	if cfg.PostgresUser == "" || cfg.PostgresDB == "" || cfg.PostgresHost == "" {
		return nil, fmt.Errorf("database config incomplete")
	}
	return cfg, nil
}

// PostgresDSN builds the GORM postgres DSN from config values.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort, c.PostgresSSLMode)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return fallback
}
