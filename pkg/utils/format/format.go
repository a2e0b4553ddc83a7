// Package format holds small display helpers for durations.
package format

import (
	"fmt"
	"time"
)

// Duration converts seconds to "M:SS" or "H:MM:SS" display format.
func Duration(seconds int) string {
	if seconds < 0 {
		return "0:00"
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// JobDuration formats an elapsed time.Duration as a human-readable
// string (e.g. "3.2 seconds", "1.5 minutes", "2.0 hours").
func JobDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1f seconds", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.1f minutes", d.Minutes())
	}
	return fmt.Sprintf("%.1f hours", d.Hours())
}
