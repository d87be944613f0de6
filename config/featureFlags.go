package config

import (
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

func truthy(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// SkipMigrations disables AutoMigrate on boot.
//
// Set via env:
// - SKIP_MIGRATIONS=true
func SkipMigrations() bool {
	return truthy("SKIP_MIGRATIONS")
}

// RateLimitEnabled turns on the per-client request limiter.
//
// Set via env:
// - RATE_LIMIT_ENABLED=true
// - RATE_LIMIT_WINDOW_SECONDS (default 60)
// - RATE_LIMIT_MAX_REQUESTS (default 300)
func RateLimitEnabled() bool {
	return truthy("RATE_LIMIT_ENABLED")
}

func RateLimitWindowSeconds() int {
	return intFromEnv("RATE_LIMIT_WINDOW_SECONDS", 60)
}

func RateLimitMaxRequests() int {
	return intFromEnv("RATE_LIMIT_MAX_REQUESTS", 300)
}

func IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production")
}

// LowStockThreshold is the stock level at or below which a product counts as low.
// LOW_STOCK_THRESHOLD, default 5.
func LowStockThreshold() decimal.Decimal {
	raw := strings.TrimSpace(os.Getenv("LOW_STOCK_THRESHOLD"))
	if raw == "" {
		return decimal.NewFromInt(5)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NewFromInt(5)
	}
	return d
}
