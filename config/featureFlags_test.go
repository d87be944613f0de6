package config

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTruthyFlags(t *testing.T) {
	cases := []struct {
		val  string
		want bool
	}{
		{"", false},
		{"true", true},
		{" YES ", true},
		{"1", true},
		{"no", false},
		{"0", false},
	}
	for _, tc := range cases {
		t.Setenv("SKIP_MIGRATIONS", tc.val)
		if got := SkipMigrations(); got != tc.want {
			t.Fatalf("SKIP_MIGRATIONS=%q: got %v want %v", tc.val, got, tc.want)
		}
	}
}

func TestLowStockThreshold(t *testing.T) {
	t.Setenv("LOW_STOCK_THRESHOLD", "")
	if !LowStockThreshold().Equal(decimal.NewFromInt(5)) {
		t.Fatalf("default threshold should be 5")
	}
	t.Setenv("LOW_STOCK_THRESHOLD", "2.5")
	if !LowStockThreshold().Equal(decimal.RequireFromString("2.5")) {
		t.Fatalf("threshold should follow env")
	}
	t.Setenv("LOW_STOCK_THRESHOLD", "abc")
	if !LowStockThreshold().Equal(decimal.NewFromInt(5)) {
		t.Fatalf("bad value should fall back to default")
	}
}

func TestRateLimitDefaults(t *testing.T) {
	t.Setenv("RATE_LIMIT_WINDOW_SECONDS", "")
	t.Setenv("RATE_LIMIT_MAX_REQUESTS", "x")
	if RateLimitWindowSeconds() != 60 || RateLimitMaxRequests() != 300 {
		t.Fatalf("unexpected defaults %d %d", RateLimitWindowSeconds(), RateLimitMaxRequests())
	}
}
