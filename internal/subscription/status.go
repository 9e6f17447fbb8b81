package subscription

import "time"

type Status string

const (
	StatusUnknown      Status = ""
	StatusExpired      Status = "expired"
	StatusExpiringSoon Status = "expiring_soon"
	StatusActive       Status = "active"
)

// ExpiringSoonWindow is how far ahead of expiration a subscription counts as expiring soon.
const ExpiringSoonWindow = 7 * 24 * time.Hour

// ResolveStatus maps an expiration timestamp to a status as seen at now.
// A zero expiresAt yields StatusUnknown.
func ResolveStatus(expiresAt, now time.Time) Status {
	if expiresAt.IsZero() {
		return StatusUnknown
	}
	left := expiresAt.Sub(now)
	switch {
	case left < 0:
		return StatusExpired
	case left <= ExpiringSoonWindow:
		return StatusExpiringSoon
	default:
		return StatusActive
	}
}

// ParseStatus accepts the API spelling of a status.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusExpired, StatusExpiringSoon, StatusActive:
		return Status(s), true
	}
	return StatusUnknown, false
}
