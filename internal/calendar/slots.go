package calendar

import (
	"time"

	"github.com/smartappt/booking-service/internal/domain"
)

// FitsWindow reports whether [start, end) lies inside the resolved
// window [winStart, winEnd]
func FitsWindow(start, end, winStart, winEnd time.Time) bool {
	return !start.Before(winStart) && !end.After(winEnd)
}

// IsSlotAligned reports whether start sits on the slot grid of the
// window: the offset from the window start must be a whole number of
// service durations. For same-day windows this is exactly
// (timeOfDay - openTime) mod duration == 0; measuring from the window
// start keeps the rule meaningful past midnight in overnight windows.
func IsSlotAligned(start, winStart time.Time, durationMinutes int) bool {
	if durationMinutes <= 0 {
		return false
	}
	offset := start.Sub(winStart)
	if offset < 0 {
		return false
	}
	return int(offset/time.Minute)%durationMinutes == 0
}

// FreeSlots enumerates bookable slot starts inside [winStart, winEnd]:
// stepping from the window start by the service duration while the
// whole slot still fits, skipping starts occupied by a confirmed
// booking. Occupancy is by exact start instant; only confirmed
// bookings block a slot, so callers pass confirmed starts only.
func FreeSlots(winStart, winEnd time.Time, durationMinutes int, bookedStarts []time.Time) []time.Time {
	if durationMinutes <= 0 {
		return nil
	}

	booked := make(map[time.Time]struct{}, len(bookedStarts))
	for _, b := range bookedStarts {
		booked[b] = struct{}{}
	}

	duration := time.Duration(durationMinutes) * time.Minute
	slots := make([]time.Time, 0)

	for t := winStart; !t.Add(duration).After(winEnd); t = t.Add(duration) {
		if _, taken := booked[t]; taken {
			continue
		}
		slots = append(slots, t)
	}

	return slots
}

// DayAvailability computes the month-calendar state of one day.
// A day is closed if it is before today (UTC), a holiday, or has no
// opening-hours record; otherwise it has free slots while the booked
// count stays below the window's slot capacity.
func DayAvailability(date, now time.Time, isHoliday bool, hours *domain.OpeningHours, durationMinutes, bookedCount int) domain.DayAvailability {
	day := domain.DayAvailability{Day: date.Day()}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return day
	}

	if isHoliday || hours == nil {
		return day
	}

	winStart, winEnd, err := ResolveWindow(date, hours.OpenTime, hours.CloseTime)
	if err != nil {
		return day
	}

	maxSlots := 0
	if durationMinutes > 0 {
		maxSlots = WindowMinutes(winStart, winEnd) / durationMinutes
	}

	day.IsOpen = true
	day.HasFreeSlots = bookedCount < maxSlots
	return day
}
