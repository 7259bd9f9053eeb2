package services

import (
	"testing"
	"time"
)

func TestIsRateLimited(t *testing.T) {
	now := time.Date(2026, 2, 24, 12, 0, 0, 0, time.UTC)
	ago := func(d time.Duration) *time.Time {
		ts := now.Add(-d)
		return &ts
	}

	tests := []struct {
		name string
		last *time.Time
		want bool
	}{
		{"no previous check-in", nil, false},
		{"20 hours ago", ago(20 * time.Hour), true},
		{"24 hours 1 minute ago", ago(24*time.Hour + time.Minute), false},
		{"exactly 24 hours ago", ago(24 * time.Hour), false},
		{"just inside the window", ago(24*time.Hour - time.Second), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRateLimited(tt.last, now, DefaultCooldown); got != tt.want {
				t.Fatalf("IsRateLimited = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsRateLimitedDefaultWindow(t *testing.T) {
	now := time.Now()
	last := now.Add(-time.Hour)
	if !IsRateLimited(&last, now, 0) {
		t.Fatal("zero window should fall back to the 24h default")
	}
}
