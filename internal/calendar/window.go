package calendar

import (
	"time"

	"github.com/smartappt/booking-service/pkg/types"
)

// ResolveWindow anchors a day's opening hours onto a calendar date and
// returns the absolute [start, end) window:
//
//   - close == open: the 24-hour sentinel, window is exactly one day
//     starting at date+open;
//   - close > open: a same-day window [date+open, date+close);
//   - close < open: an overnight window ending at close on the next day.
func ResolveWindow(date time.Time, open, close types.TimeString) (time.Time, time.Time, error) {
	start, err := open.At(date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	end, err := close.At(date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	switch {
	case close == open:
		end = start.Add(24 * time.Hour)
	case close.IsBefore(open):
		end = end.AddDate(0, 0, 1)
	}

	return start, end, nil
}

// WindowMinutes returns the length of a resolved window in whole minutes
func WindowMinutes(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}
