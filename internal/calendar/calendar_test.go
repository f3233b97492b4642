package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartappt/booking-service/internal/domain"
	"github.com/smartappt/booking-service/pkg/types"
)

func mustTime(t *testing.T, s string) types.TimeString {
	t.Helper()
	ts, err := types.NewTimeStringFromString(s)
	require.NoError(t, err)
	return ts
}

func TestDayOfWeek(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want int
	}{
		{"monday", time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC), 1},
		{"wednesday", time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC), 3},
		{"saturday", time.Date(2025, 10, 18, 0, 0, 0, 0, time.UTC), 6},
		{"sunday", time.Date(2025, 10, 19, 0, 0, 0, 0, time.UTC), 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DayOfWeek(tt.date))
		})
	}
}

func TestResolveWindow_SameDay(t *testing.T) {
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	start, end, err := ResolveWindow(date, mustTime(t, "09:00"), mustTime(t, "17:00"))
	require.NoError(t, err)

	assert.Equal(t, date.Add(9*time.Hour), start)
	assert.Equal(t, date.Add(17*time.Hour), end)
	assert.Equal(t, 480, WindowMinutes(start, end))
}

func TestResolveWindow_Overnight(t *testing.T) {
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	start, end, err := ResolveWindow(date, mustTime(t, "22:00"), mustTime(t, "06:00"))
	require.NoError(t, err)

	assert.Equal(t, date.Add(22*time.Hour), start)
	assert.Equal(t, date.AddDate(0, 0, 1).Add(6*time.Hour), end)
	assert.Equal(t, 480, WindowMinutes(start, end))
}

func TestResolveWindow_TwentyFourHourSentinel(t *testing.T) {
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	start, end, err := ResolveWindow(date, mustTime(t, "08:00"), mustTime(t, "08:00"))
	require.NoError(t, err)

	assert.Equal(t, date.Add(8*time.Hour), start)
	assert.Equal(t, start.Add(24*time.Hour), end)
	assert.Equal(t, 1440, WindowMinutes(start, end))
}

func TestIsSlotAligned(t *testing.T) {
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	winStart := date.Add(9 * time.Hour)

	assert.True(t, IsSlotAligned(date.Add(9*time.Hour), winStart, 30))
	assert.True(t, IsSlotAligned(date.Add(10*time.Hour+30*time.Minute), winStart, 30))
	assert.False(t, IsSlotAligned(date.Add(9*time.Hour+15*time.Minute), winStart, 30))
	assert.False(t, IsSlotAligned(date.Add(8*time.Hour+30*time.Minute), winStart, 30))
}

func TestIsSlotAligned_OvernightWindow(t *testing.T) {
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	winStart, winEnd, err := ResolveWindow(date, mustTime(t, "22:00"), mustTime(t, "06:00"))
	require.NoError(t, err)

	// 23:30 сидит на сетке и помещается в окно
	slot := date.Add(23*time.Hour + 30*time.Minute)
	assert.True(t, IsSlotAligned(slot, winStart, 30))
	assert.True(t, FitsWindow(slot, slot.Add(30*time.Minute), winStart, winEnd))

	// 07:00 следующего дня уже за пределами окна
	late := date.AddDate(0, 0, 1).Add(7 * time.Hour)
	assert.False(t, FitsWindow(late, late.Add(30*time.Minute), winStart, winEnd))

	// 01:30 следующего дня внутри окна и на сетке
	night := date.AddDate(0, 0, 1).Add(1*time.Hour + 30*time.Minute)
	assert.True(t, IsSlotAligned(night, winStart, 30))
	assert.True(t, FitsWindow(night, night.Add(30*time.Minute), winStart, winEnd))
}

func TestFreeSlots_FullDay(t *testing.T) {
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	winStart, winEnd, err := ResolveWindow(date, mustTime(t, "09:00"), mustTime(t, "17:00"))
	require.NoError(t, err)

	slots := FreeSlots(winStart, winEnd, 30, nil)

	require.Len(t, slots, 16)
	assert.Equal(t, date.Add(9*time.Hour), slots[0])
	assert.Equal(t, date.Add(16*time.Hour+30*time.Minute), slots[15])
}

func TestFreeSlots_ExcludesBookedStart(t *testing.T) {
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	winStart, winEnd, err := ResolveWindow(date, mustTime(t, "09:00"), mustTime(t, "17:00"))
	require.NoError(t, err)

	booked := []time.Time{date.Add(10 * time.Hour)}
	slots := FreeSlots(winStart, winEnd, 30, booked)

	require.Len(t, slots, 15)
	for _, s := range slots {
		assert.NotEqual(t, date.Add(10*time.Hour), s)
	}
}

func TestFreeSlots_LastSlotMustFit(t *testing.T) {
	date := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	winStart, winEnd, err := ResolveWindow(date, mustTime(t, "09:00"), mustTime(t, "10:45"))
	require.NoError(t, err)

	// 09:00, 09:30, 10:00 помещаются; 10:30 + 30 минут выходит за 10:45
	slots := FreeSlots(winStart, winEnd, 30, nil)
	require.Len(t, slots, 3)
	assert.Equal(t, date.Add(10*time.Hour), slots[2])
}

func TestDayAvailability(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	hours := &domain.OpeningHours{
		DayOfWeek: 3,
		OpenTime:  mustTime(t, "09:00"),
		CloseTime: mustTime(t, "17:00"),
	}

	tests := []struct {
		name        string
		date        time.Time
		isHoliday   bool
		hours       *domain.OpeningHours
		bookedCount int
		wantOpen    bool
		wantFree    bool
	}{
		{
			name:     "past day is closed",
			date:     time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC),
			hours:    hours,
			wantOpen: false,
		},
		{
			name:      "holiday is closed",
			date:      time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC),
			isHoliday: true,
			hours:     hours,
			wantOpen:  false,
		},
		{
			name:     "no opening hours is closed",
			date:     time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC),
			hours:    nil,
			wantOpen: false,
		},
		{
			name:        "open with capacity left",
			date:        time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC),
			hours:       hours,
			bookedCount: 15,
			wantOpen:    true,
			wantFree:    true,
		},
		{
			name:        "open but fully booked",
			date:        time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC),
			hours:       hours,
			bookedCount: 16,
			wantOpen:    true,
			wantFree:    false,
		},
		{
			name:     "today counts as open",
			date:     time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
			hours:    hours,
			wantOpen: true,
			wantFree: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DayAvailability(tt.date, now, tt.isHoliday, tt.hours, 30, tt.bookedCount)
			assert.Equal(t, tt.date.Day(), got.Day)
			assert.Equal(t, tt.wantOpen, got.IsOpen)
			assert.Equal(t, tt.wantFree, got.HasFreeSlots)
		})
	}
}

func TestDayAvailability_SentinelUsesFullDayCapacity(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	hours := &domain.OpeningHours{
		OpenTime:  mustTime(t, "08:00"),
		CloseTime: mustTime(t, "08:00"),
	}

	// 1440 / 60 = 24 слота в сутках
	got := DayAvailability(time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC), now, false, hours, 60, 23)
	assert.True(t, got.IsOpen)
	assert.True(t, got.HasFreeSlots)

	got = DayAvailability(time.Date(2025, 10, 16, 0, 0, 0, 0, time.UTC), now, false, hours, 60, 24)
	assert.True(t, got.IsOpen)
	assert.False(t, got.HasFreeSlots)
}
