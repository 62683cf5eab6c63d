package format

import (
	"fmt"
	"strconv"
	"time"
)

// FormatExecutionDuration formats a time.Duration for display. It shows
// microseconds below a millisecond, milliseconds below a second and the
// default string representation otherwise.
func FormatExecutionDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	} else if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// FormatCount renders an element count with thousands separators.
func FormatCount(n int) string {
	return FormatNumberString(strconv.Itoa(n))
}

// FormatThroughput renders the sort rate of n elements over d as
// "12.3 M elem/s". A zero duration yields "n/a".
func FormatThroughput(n int, d time.Duration) string {
	if d <= 0 {
		return "n/a"
	}
	rate := float64(n) / d.Seconds()
	switch {
	case rate >= 1e9:
		return fmt.Sprintf("%.1f G elem/s", rate/1e9)
	case rate >= 1e6:
		return fmt.Sprintf("%.1f M elem/s", rate/1e6)
	case rate >= 1e3:
		return fmt.Sprintf("%.1f K elem/s", rate/1e3)
	default:
		return fmt.Sprintf("%.0f elem/s", rate)
	}
}
