package domain

import (
	"fmt"
	"time"
)

// FormatETA renders the remaining time until estimated as shown on the
// tracking page.
func FormatETA(now, estimated time.Time) string {
	remaining := estimated.Sub(now)
	if remaining <= 0 {
		return "Any moment now"
	}

	minutes := int((remaining + time.Minute - 1) / time.Minute)
	if minutes > 60 {
		return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
	}
	if minutes == 1 {
		return "1 min"
	}
	return fmt.Sprintf("%d mins", minutes)
}
