package format

import (
	"fmt"
	"time"
)

// expiringSoonPercent is the share of the time window below which a quest
// counts as expiring soon.
const expiringSoonPercent = 25

// Remaining is a countdown to a deadline.
type Remaining struct {
	Hours   int
	Minutes int
	Seconds int
	Total   time.Duration
	Expired bool
}

// TimeRemaining measures the time left until deadline, truncated to whole
// seconds.
func TimeRemaining(deadline, now time.Time) Remaining {
	left := deadline.Sub(now)
	if left <= 0 {
		return Remaining{Expired: true}
	}

	total := int(left / time.Second)

	return Remaining{
		Hours:   total / 3600,
		Minutes: total % 3600 / 60,
		Seconds: total % 60,
		Total:   time.Duration(total) * time.Second,
	}
}

// FormatTimeRemaining renders the countdown as "Expired", "2d 3h", "5h 12m"
// or "42m". Days only appear once more than 24 hours are left.
func FormatTimeRemaining(deadline, now time.Time) string {
	r := TimeRemaining(deadline, now)

	switch {
	case r.Expired:
		return "Expired"
	case r.Hours > 24:
		return fmt.Sprintf("%dd %dh", r.Hours/24, r.Hours%24)
	case r.Hours > 0:
		return fmt.Sprintf("%dh %dm", r.Hours, r.Minutes)
	default:
		return fmt.Sprintf("%dm", r.Minutes)
	}
}

// Deadline is start plus a time limit given in hours.
func Deadline(start time.Time, hours float64) time.Time {
	return start.Add(time.Duration(hours * float64(time.Hour)))
}

// IsExpiringSoon reports whether less than a quarter of the window between
// start and deadline is left. Expired windows are not "expiring soon".
func IsExpiringSoon(start, deadline, now time.Time) bool {
	window := deadline.Sub(start)
	left := deadline.Sub(now)

	if left <= 0 || window <= 0 {
		return false
	}

	return float64(left)/float64(window)*100 < expiringSoonPercent
}

// TimeProgress is the elapsed share of the window in percent, clamped to
// [0, 100].
func TimeProgress(start, deadline, now time.Time) float64 {
	window := deadline.Sub(start)
	elapsed := now.Sub(start)

	if elapsed <= 0 {
		return 0
	}

	if elapsed >= window {
		return 100
	}

	return float64(elapsed) / float64(window) * 100
}
