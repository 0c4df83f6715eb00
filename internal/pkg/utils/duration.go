package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// NewHolder is shown when no acquisition time is known.
const NewHolder = "New holder"

const day = 24 * time.Hour

// FormatHoldDuration buckets the time since firstAcquired.
// Example: 400 days => "1y 1m", 45 days => "1m 15d", 3 days 5 hours => "3d 5h"
func FormatHoldDuration(firstAcquired *time.Time, now time.Time) string {
	if firstAcquired == nil {
		return NewHolder
	}
	elapsed := now.Sub(*firstAcquired)
	if elapsed < 0 {
		elapsed = 0
	}
	days := int(elapsed / day)
	switch {
	case days >= 365:
		return fmt.Sprintf("%dy %dm", days/365, (days%365)/30)
	case days >= 30:
		return fmt.Sprintf("%dm %dd", days/30, days%30)
	}
	hours := int((elapsed % day) / time.Hour)
	return fmt.Sprintf("%dd %dh", days, hours)
}

// TenureLabel maps a hold duration string to its badge text.
func TenureLabel(duration string) string {
	if duration == "" || duration == NewHolder {
		return "NEW"
	}
	if strings.Contains(duration, "y") {
		return "OG DIAMOND"
	}
	if strings.Contains(duration, "m") {
		months, err := strconv.Atoi(strings.TrimSpace(strings.SplitN(duration, "m", 2)[0]))
		if err != nil {
			months = 0
		}
		switch {
		case months >= 6:
			return "DIAMOND"
		case months >= 3:
			return "STRONG"
		}
		return "STEADY"
	}
	return "FRESH"
}
