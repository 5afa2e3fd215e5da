// Package timeutil formats wall-clock time in Indian Standard Time for
// user-facing responses and history timestamps.
package timeutil

import "time"

// IST is UTC+05:30. India does not observe daylight saving, so a fixed
// offset is sufficient.
var IST = time.FixedZone("IST", 5*3600+30*60)

const (
	timeLayout = "03:04 PM"
	dateLayout = "02 January, 2006"
)

// Now returns the current time in IST.
func Now() time.Time {
	return time.Now().In(IST)
}

// FormatTime renders t in IST as a 12-hour clock string, e.g. "02:30 PM".
func FormatTime(t time.Time) string {
	return t.In(IST).Format(timeLayout)
}

// FormatDate renders t in IST as e.g. "15 August, 2025".
func FormatDate(t time.Time) string {
	return t.In(IST).Format(dateLayout)
}
