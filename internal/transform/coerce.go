package transform

import (
	"time"
)

// yearsSince computes whole years as floor(days/365), matching the
// reference warehouse derivation for Age and YearsOfService.
func yearsSince(from, now time.Time) int64 {
	days := int64(now.Sub(from) / (24 * time.Hour))
	return floorDiv(days, 365)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
