package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   string
	}{
		{"zero", 0, "0 ₽"},
		{"small", 500, "500 ₽"},
		{"thousands rounded up", 1500, "2K ₽"},
		{"thousands rounded down", 1400, "1K ₽"},
		{"exact thousands", 5000, "5K ₽"},
		{"millions", 2500000, "2.5M ₽"},
		{"exact million", 1000000, "1.0M ₽"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Money(tt.amount))
		})
	}
}

func TestBudget(t *testing.T) {
	assert.Equal(t, "Договорная", Budget(""))
	assert.Equal(t, "5000 руб", Budget("5000 руб"))
}

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		timestamp string
		want      string
	}{
		{"just now", "2025-06-15T11:59:30Z", "только что"},
		{"minutes", "2025-06-15T11:45:00Z", "15м назад"},
		{"hours", "2025-06-15T07:00:00Z", "5ч назад"},
		{"days", "2025-06-12T12:00:00Z", "3д назад"},
		{"empty", "", ""},
		{"garbage", "yesterday", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeTime(tt.timestamp, now))
		})
	}
}

func TestRelativeTimeBareIsoformat(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	// Backend isoformat() omits the zone
	assert.Equal(t, "30м назад", RelativeTime("2025-06-15T11:30:00", now))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 80))
	assert.Equal(t, "abcde", Truncate("abcdefgh", 5))
	// Rune-safe on cyrillic
	assert.Equal(t, "При", Truncate("Привет", 3))
}

func TestTruncateEllipsis(t *testing.T) {
	assert.Equal(t, "short", TruncateEllipsis("short", 80))
	assert.Equal(t, "ab...", TruncateEllipsis("abcdefgh", 5))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "hello", Sanitize("\x1b[31mhello\x1b[0m"))
	assert.Equal(t, "ab", Sanitize("a\x00\x08b"))
	assert.Equal(t, "line1\nline2", Sanitize("line1\nline2"))
	assert.Equal(t, "plain", Sanitize("plain"))
}

func TestSanitizeLine(t *testing.T) {
	assert.Equal(t, "a b c", SanitizeLine("a\nb\tc"))
}
