package internal

import (
	"fmt"
	"time"
)

// DisplayTimeFormat is the standard time format used across the application
const DisplayTimeFormat = "2006-01-02 15:04:05"

// FormatLocal formats t in the local time zone, or "unknown" for the zero time.
func FormatLocal(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Local().Format(DisplayTimeFormat)
}

// FormatRemaining renders d as "1h5m" or "45m".
func FormatRemaining(d time.Duration) string {
	if d <= 0 {
		return "expired"
	}
	d = d.Round(time.Minute)
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours > 0 {
		return fmt.Sprintf("%dh%dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
