package util

import (
	"fmt"
	"time"
)

// FormatClock renders a playback position in seconds as H:MM:SS, or M:SS
// under an hour. Negative positions clamp to zero.
func FormatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatDuration renders a duration as "Xh Ym" or "Ym".
func FormatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60

	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatAyahRef renders a surah:ayah reference, falling back to the surah
// name when the number is unknown.
func FormatAyahRef(surah string, surahNumber, ayah int) string {
	if surahNumber > 0 && ayah > 0 {
		return fmt.Sprintf("%d:%d", surahNumber, ayah)
	}
	if ayah > 0 {
		return fmt.Sprintf("%s %d", surah, ayah)
	}
	return surah
}

// FormatNumber abbreviates large counts (1.2K, 3.4M).
func FormatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	} else if n < 1000000 {
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	} else {
		return fmt.Sprintf("%.1fM", float64(n)/1000000)
	}
}
