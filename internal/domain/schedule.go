package domain

import (
	"time"

	"github.com/smartappt/booking-service/pkg/types"
)

// OpeningHours is the open window of a business for one day of week.
// DayOfWeek is Monday=1..Sunday=7. OpenTime == CloseTime is the
// sentinel for "open 24 hours"; CloseTime earlier than OpenTime means
// the window runs past midnight into the next day.
type OpeningHours struct {
	ID         int64
	BusinessID int64
	DayOfWeek  int
	OpenTime   types.TimeString
	CloseTime  types.TimeString
}

// IsOpenAllDay returns true for the 24-hour sentinel
func (h *OpeningHours) IsOpenAllDay() bool {
	return h.OpenTime == h.CloseTime
}

// IsOvernight returns true if the window spans midnight
func (h *OpeningHours) IsOvernight() bool {
	return h.CloseTime.IsBefore(h.OpenTime)
}

// Holiday blocks all bookings and slots for one calendar date
type Holiday struct {
	ID         int64
	BusinessID int64
	Date       time.Time // date only, midnight UTC
	Reason     *string   // descriptive only
}

// DayAvailability is the derived per-day state of a month calendar.
// Never persisted, always recomputed.
type DayAvailability struct {
	Day          int
	IsOpen       bool
	HasFreeSlots bool
}
