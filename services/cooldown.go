package services

import "time"

// DefaultCooldown is the minimum gap between two check-ins at the same
// location by the same user.
const DefaultCooldown = 24 * time.Hour

// IsRateLimited reports whether a new check-in is still inside the cooldown
// window. A nil last check-in never blocks; exactly window elapsed is allowed.
// Stateless: the caller owns the last-check-in lookup.
func IsRateLimited(lastCheckInAt *time.Time, now time.Time, window time.Duration) bool {
	if lastCheckInAt == nil {
		return false
	}
	if window <= 0 {
		window = DefaultCooldown
	}
	return now.Sub(*lastCheckInAt) < window
}
