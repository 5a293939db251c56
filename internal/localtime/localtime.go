// Package localtime converts GPS-derived UTC instants to local civil time
// using the fixed US Eastern daylight-saving rule. The conversion is pure:
// it depends only on the instant, never on the host's zone database, so
// log timestamps stay stable across OS images.
package localtime

import "time"

// Offsets from UTC, in hours.
const (
	standardOffset = -5 // EST
	daylightOffset = -4 // EDT
)

// ToLocal converts a UTC instant to local civil time. Daylight saving runs
// from the second Sunday of March 07:00 UTC (02:00 EST) until the first
// Sunday of November 06:00 UTC (02:00 EDT).
func ToLocal(utc time.Time) time.Time {
	utc = utc.UTC()
	if inDaylight(utc) {
		return utc.Add(daylightOffset * time.Hour)
	}
	return utc.Add(standardOffset * time.Hour)
}

// inDaylight reports whether the given UTC instant falls in the daylight
// period of its year.
func inDaylight(utc time.Time) bool {
	year := utc.Year()
	start := nthSunday(year, time.March, 2).Add(7 * time.Hour)
	end := nthSunday(year, time.November, 1).Add(6 * time.Hour)
	return !utc.Before(start) && utc.Before(end)
}

// nthSunday returns midnight UTC of the n-th Sunday of the given month.
func nthSunday(year int, month time.Month, n int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	// Days until the first Sunday of the month.
	offset := (7 - int(first.Weekday())) % 7
	return first.AddDate(0, 0, offset+(n-1)*7)
}
