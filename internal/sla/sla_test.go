package sla

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeadline(t *testing.T) {
	created, err := time.Parse(time.RFC3339, "2024-01-01T00:00:00Z")
	require.NoError(t, err)

	got := Deadline(created, 24)
	want, _ := time.Parse(time.RFC3339, "2024-01-02T00:00:00Z")
	assert.Equal(t, want, got)
}

func TestClassify(t *testing.T) {
	deadline, _ := time.Parse(time.RFC3339, "2024-01-02T00:00:00Z")

	tests := []struct {
		name string
		now  string
		want State
	}{
		{"well before deadline", "2024-01-01T00:00:00Z", StateOnTime},
		{"just outside near window", "2024-01-01T21:59:59Z", StateOnTime},
		{"exactly two hours left", "2024-01-01T22:00:00Z", StateNearDeadline},
		{"one hour left", "2024-01-01T23:00:00Z", StateNearDeadline},
		{"exactly at deadline", "2024-01-02T00:00:00Z", StateOnTime},
		{"one hour past deadline", "2024-01-02T01:00:00Z", StateOverdue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now, err := time.Parse(time.RFC3339, tt.now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Classify(deadline, now))
		})
	}
}

// Classify must be total: exactly one state for any instant.
func TestClassifyTotal(t *testing.T) {
	deadline, _ := time.Parse(time.RFC3339, "2024-06-01T12:00:00Z")

	for offset := -72 * time.Hour; offset <= 72*time.Hour; offset += 30 * time.Minute {
		now := deadline.Add(offset)
		state := Classify(deadline, now)

		switch state {
		case StateOverdue:
			assert.True(t, now.After(deadline), "overdue implies now > deadline (offset %s)", offset)
		case StateNearDeadline:
			left := deadline.Sub(now)
			assert.True(t, left > 0 && left <= NearDeadlineWindow, "near-deadline window violated (offset %s)", offset)
		case StateOnTime:
			left := deadline.Sub(now)
			assert.True(t, left > NearDeadlineWindow || left == 0, "on-time outside near window (offset %s)", offset)
			assert.False(t, now.After(deadline))
		default:
			t.Fatalf("unknown state %q", state)
		}
	}
}

func TestResolutionHours(t *testing.T) {
	created, _ := time.Parse(time.RFC3339, "2024-01-01T00:00:00Z")
	resolved := created.Add(36 * time.Hour)

	assert.Equal(t, 36.0, ResolutionHours(created, &resolved))
	assert.Equal(t, 0.0, ResolutionHours(created, nil))
}
