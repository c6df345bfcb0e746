package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

// Payment stack selection. Mock must be requested explicitly; live mode never
// falls back to it on missing credentials.
const (
	PaymentsModeLive = "live"
	PaymentsModeMock = "mock"
)

type Config struct {
	MongoURI       string
	DBName         string
	JWTSecret      string
	AccessTokenTTL time.Duration

	PaymentsMode      string
	RazorpayKeyID     string
	RazorpaySecret    string
	Currency          string
	ReceiptPrefix     string
	TaxRateBps        int64
	EstimatedDelivery time.Duration
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		MongoURI:       getEnvOrDefault("MONGO_URI", ""),
		DBName:         getEnvOrDefault("DB_NAME", "rotino"),
		JWTSecret:      getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL: getDurationEnv("ACCESS_TOKEN_TTL", 7, 24*time.Hour),

		PaymentsMode:      getEnvOrDefault("PAYMENTS_MODE", PaymentsModeLive),
		RazorpayKeyID:     getEnvOrDefault("RAZORPAY_KEY_ID", ""),
		RazorpaySecret:    getEnvOrDefault("RAZORPAY_KEY_SECRET", ""),
		Currency:          getEnvOrDefault("CURRENCY", "INR"),
		ReceiptPrefix:     getEnvOrDefault("RECEIPT_PREFIX", "rotino_order_"),
		TaxRateBps:        getInt64Env("TAX_RATE_BPS", 500),
		EstimatedDelivery: getDurationEnv("ETA_MINUTES", 35, time.Minute),
	}
}

// PaymentsMock reports whether the simulated payment stack was requested.
func (c Config) PaymentsMock() bool {
	return strings.EqualFold(c.PaymentsMode, PaymentsModeMock)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return defaultValue
}
