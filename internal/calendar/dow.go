package calendar

import "time"

// DayOfWeek returns the ISO-style day-of-week index used as the
// opening-hours lookup key: Monday=1 .. Sunday=7.
//
// Every conversion from a date to an opening-hours key goes through
// this function; Go's time.Weekday counts Sunday=0.
func DayOfWeek(t time.Time) int {
	return (int(t.Weekday())+6)%7 + 1
}
