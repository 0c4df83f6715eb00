package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatTokenAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{1_234_567, "1.23M"},
		{987, "987.00"},
		{0.5, "0.50"},
		{18_040_000, "18.04M"},
		{2_500_000_000, "2.50B"},
		{1_500, "1.50K"},
		{999.999, "1,000.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTokenAmount(tt.in), "input %v", tt.in)
	}
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$0.0098", FormatUSD(0.0098))
	assert.Equal(t, "$176.74K", FormatUSD(176_740))
	assert.Equal(t, "$1.50M", FormatUSD(1_500_000))
	assert.Equal(t, "$12.34", FormatUSD(12.34))
	assert.Equal(t, "$999.00", FormatUSD(999))
}

func TestFormatOptional(t *testing.T) {
	assert.Equal(t, "$0", FormatOptionalUSD(nil))
	assert.Equal(t, "$0", FormatOptionalUSD(Float64Ptr(0)))
	assert.Equal(t, "$5.00", FormatOptionalUSD(Float64Ptr(5)))
	assert.Equal(t, "0", FormatOptionalTokenAmount(nil))
	assert.Equal(t, "1.23M", FormatOptionalTokenAmount(Float64Ptr(1_234_567)))
}

func TestFormatMarketCap(t *testing.T) {
	assert.Equal(t, "N/A", FormatMarketCap(nil))
	assert.Equal(t, "N/A", FormatMarketCap(Float64Ptr(0)))
	assert.Equal(t, "$10.8M", FormatMarketCap(Float64Ptr(10_800_000)))
	assert.Equal(t, "$1.2B", FormatMarketCap(Float64Ptr(1_200_000_000)))
	assert.Equal(t, "$45.3K", FormatMarketCap(Float64Ptr(45_300)))
	assert.Equal(t, "$512", FormatMarketCap(Float64Ptr(512)))
}

func TestFormatPriceMessageHelpers(t *testing.T) {
	assert.Equal(t, "$0.00980000", FormatPrice(0.0098))
	assert.Equal(t, "+12.80%", FormatSignedPercent(12.8))
	assert.Equal(t, "-3.25%", FormatSignedPercent(-3.25))
	assert.Equal(t, "+12.8% 24h", FormatChange24h(12.8))
	assert.Equal(t, "-0.4% 24h", FormatChange24h(-0.4))
	assert.Equal(t, "$10.80M", FormatCompactUSD(10_800_000))
	assert.Equal(t, "$45,300", FormatCompactUSD(45_300))
	assert.Equal(t, "$0", FormatCompactUSD(0))
}

func TestFormatThousands(t *testing.T) {
	assert.Equal(t, "1,234,567.89", FormatThousands(1234567.891, 2))
	assert.Equal(t, "123", FormatThousands(123, 0))
	assert.Equal(t, "-1,000.5", FormatThousands(-1000.5, 1))
	assert.Equal(t, "100,000", FormatThousands(100000, 0))
}

func TestShortAddress(t *testing.T) {
	assert.Equal(t, "HgBR...pump", ShortAddress("HgBRWfYxEfvPhtqkaeymCQtHCrKE46qQ43pKe8HCpump"))
	assert.Equal(t, "abc", ShortAddress("abc"))
}

func TestFormatHoldDuration(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}

	assert.Equal(t, NewHolder, FormatHoldDuration(nil, now))
	assert.Equal(t, "1y 1m", FormatHoldDuration(at(400*day), now))
	assert.Equal(t, "1m 15d", FormatHoldDuration(at(45*day), now))
	assert.Equal(t, "3d 5h", FormatHoldDuration(at(3*day+5*time.Hour+20*time.Minute), now))
	assert.Equal(t, "0d 0h", FormatHoldDuration(at(10*time.Minute), now))
	assert.Equal(t, "2y 0m", FormatHoldDuration(at(730*day), now))
	assert.Equal(t, "0d 0h", FormatHoldDuration(at(-time.Hour), now), "future timestamps clamp to zero")
}

func TestTenureLabel(t *testing.T) {
	tests := map[string]string{
		"":           "NEW",
		NewHolder:    "NEW",
		"1y 2m":      "OG DIAMOND",
		"7m 3d":      "DIAMOND",
		"6m 0d":      "DIAMOND",
		"4m 12d":     "STRONG",
		"5m 6d":      "STRONG",
		"1m 0d":      "STEADY",
		"12d 3h":     "FRESH",
		"0d 4h":      "FRESH",
	}
	for in, want := range tests {
		assert.Equal(t, want, TenureLabel(in), "input %q", in)
	}
}

func TestEstimateRank(t *testing.T) {
	tests := []struct {
		name     string
		user     float64
		smallest float64
		want     *int
	}{
		{"ratio above half", 75, 100, IntPtr(27)},
		{"ratio of exactly half uses middle tier", 50, 100, IntPtr(150)},
		{"ratio between tenth and half", 25, 100, IntPtr(200)},
		{"small ratio", 6.25, 100, IntPtr(1187)},
		{"ratio above one truncates toward zero", 150, 100, IntPtr(5)},
		{"zero user balance", 0, 100, nil},
		{"zero smallest balance", 10, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateRank(tt.user, tt.smallest))
		})
	}
}

func TestFormatRank(t *testing.T) {
	assert.Equal(t, "Unranked", FormatRank(nil))
	assert.Equal(t, "🐋 #3 (Top 10)", FormatRank(IntPtr(3)))
	assert.Equal(t, "🦈 #26 (Top 50)", FormatRank(IntPtr(26)))
	assert.Equal(t, "🐬 #100 (Top 100)", FormatRank(IntPtr(100)))
	assert.Equal(t, "🐟 ~#1200", FormatRank(IntPtr(1200)))
}
