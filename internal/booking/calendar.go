package booking

import (
	"slices"
	"time"
)

// DateLayout is how booking dates are stored.
const DateLayout = "2006-01-02"

// Midnight returns the start of the calendar day of t in loc.
func Midnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// IsDateAvailable reports whether a calendar day can be picked: its weekday
// name must be one of availableDays and the day, taken as local midnight, must
// not be earlier than now. No timezone conversion happens; the day is read in
// now's location.
func IsDateAvailable(date time.Time, availableDays []string, now time.Time) bool {
	day := Midnight(date, now.Location())
	if !slices.Contains(availableDays, day.Weekday().String()) {
		return false
	}
	return !day.Before(now)
}

// AvailableDates lists the selectable days in [from, from+days).
func AvailableDates(availableDays []string, now time.Time, days int) []time.Time {
	out := []time.Time{}
	start := Midnight(now, now.Location())
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		if IsDateAvailable(d, availableDays, now) {
			out = append(out, d)
		}
	}
	return out
}
