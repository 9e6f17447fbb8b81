package subscription

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolveStatus(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		want      Status
	}{
		{"zero expiration", time.Time{}, StatusUnknown},
		{"past", now.Add(-time.Second), StatusExpired},
		{"exactly now", now, StatusExpiringSoon},
		{"within a week", now.Add(3 * 24 * time.Hour), StatusExpiringSoon},
		{"exactly seven days", now.Add(ExpiringSoonWindow), StatusExpiringSoon},
		{"just over seven days", now.Add(ExpiringSoonWindow + time.Second), StatusActive},
		{"far future", now.AddDate(1, 0, 0), StatusActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveStatus(tt.expiresAt, now))
		})
	}
}

func TestResolveStatusMonotonic(t *testing.T) {
	expiresAt := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	rank := map[Status]int{StatusActive: 0, StatusExpiringSoon: 1, StatusExpired: 2}

	prev := -1
	for now := expiresAt.AddDate(0, 0, -30); now.Before(expiresAt.AddDate(0, 0, 3)); now = now.Add(6 * time.Hour) {
		r := rank[ResolveStatus(expiresAt, now)]
		assert.GreaterOrEqual(t, r, prev, "status went backwards at %s", now)
		prev = r
	}
	assert.Equal(t, 2, prev)
}

func TestParseStatus(t *testing.T) {
	s, ok := ParseStatus("expiring_soon")
	assert.True(t, ok)
	assert.Equal(t, StatusExpiringSoon, s)

	_, ok = ParseStatus("")
	assert.False(t, ok)
	_, ok = ParseStatus("ACTIVE")
	assert.False(t, ok)
}

func TestDefaultExpiry(t *testing.T) {
	created := time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 2, 15, 9, 0, 0, 0, time.UTC), DefaultExpiry(created))
}
