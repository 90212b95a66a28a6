package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	ServerPort int

	DatabaseURL string

	JWTSecret []byte

	LogLevel string

	KafkaBrokers []string
	OrderTopic   string

	// Payment gateway. Empty secret switches verification into dev mode.
	GatewayKeyID     string
	GatewayKeySecret string

	Pricing PricingPolicy
}

// PricingPolicy holds the region-specific checkout constants.
type PricingPolicy struct {
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
	TaxRate               decimal.Decimal
}

func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env not found: %v, using system environment", err)
	}

	cfg := Config{
		ServerPort: envIntDefault("SERVER_PORT", 8080),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		JWTSecret: []byte(os.Getenv("JWT_SECRET")),

		LogLevel: envDefault("LOG_LEVEL", "info"),

		KafkaBrokers: csv(os.Getenv("KAFKA_BROKERS")),
		OrderTopic:   envDefault("KAFKA_ORDER_TOPIC", "order_events"),

		GatewayKeyID:     envDefault("GATEWAY_KEY_ID", "rzp_test_mock_key"),
		GatewayKeySecret: os.Getenv("GATEWAY_KEY_SECRET"),

		Pricing: PricingPolicy{
			FreeShippingThreshold: envDecimalDefault("FREE_SHIPPING_THRESHOLD", "5000"),
			FlatShippingFee:       envDecimalDefault("FLAT_SHIPPING_FEE", "150"),
			TaxRate:               envDecimalDefault("TAX_RATE", "0.18"),
		},
	}
	return cfg
}

// MustServer validates the values the API server cannot run without.
func (c Config) MustServer() Config {
	MustNonEmpty(c.DatabaseURL, "DATABASE_URL")
	MustNonEmptyBytes(c.JWTSecret, "JWT_SECRET")
	return c
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envDecimalDefault(key, def string) decimal.Decimal {
	v := os.Getenv(key)
	if v == "" {
		v = def
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		d = decimal.RequireFromString(def)
	}
	return d
}

func csv(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
