package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowKey(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name     string
		key      string
		now      time.Time
		window   time.Duration
		expected string
	}{
		{
			name:     "minute window",
			key:      "10.0.0.1",
			now:      base,
			window:   time.Minute,
			expected: "teams:ratelimit:10.0.0.1:28333333",
		},
		{
			name:     "same window later in the minute",
			key:      "10.0.0.1",
			now:      base.Add(39 * time.Second),
			window:   time.Minute,
			expected: "teams:ratelimit:10.0.0.1:28333333",
		},
		{
			name:     "next window",
			key:      "10.0.0.1",
			now:      base.Add(40 * time.Second),
			window:   time.Minute,
			expected: "teams:ratelimit:10.0.0.1:28333334",
		},
		{
			name:     "sub-second window is clamped to one second",
			key:      "10.0.0.2",
			now:      base,
			window:   100 * time.Millisecond,
			expected: "teams:ratelimit:10.0.0.2:1700000000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, windowKey(tt.key, tt.now, tt.window))
		})
	}
}

func TestNewRateLimiter_InvalidURL(t *testing.T) {
	rl, err := NewRateLimiter(context.Background(), "not-a-redis-url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid redis URL")
	assert.Nil(t, rl)
}
