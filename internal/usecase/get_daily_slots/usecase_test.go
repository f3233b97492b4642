package get_daily_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartappt/booking-service/internal/domain"
	businessRepo "github.com/smartappt/booking-service/internal/infra/storage/business"
	holidayRepo "github.com/smartappt/booking-service/internal/infra/storage/holiday"
	hoursRepo "github.com/smartappt/booking-service/internal/infra/storage/openinghours"
	serviceRepo "github.com/smartappt/booking-service/internal/infra/storage/service"
	"github.com/smartappt/booking-service/pkg/types"
)

// Стабы репозиториев

type stubBookingRepo struct {
	bookings []*domain.Booking
}

func (s *stubBookingRepo) GetAllWithFilter(_ context.Context, f domain.BookingFilter) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range s.bookings {
		if f.BusinessID != nil && b.BusinessID != *f.BusinessID {
			continue
		}
		if f.ServiceID != nil && b.ServiceID != *f.ServiceID {
			continue
		}
		if f.Status != nil && b.Status != *f.Status {
			continue
		}
		if f.Date != nil && !b.StartAt.UTC().Truncate(24*time.Hour).Equal(*f.Date) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

type stubBusinessRepo struct {
	missing bool
}

func (s *stubBusinessRepo) GetByID(_ context.Context, id int64) (*domain.Business, error) {
	if s.missing {
		return nil, businessRepo.ErrBusinessNotFound
	}
	return &domain.Business{ID: id}, nil
}

type stubServiceRepo struct {
	svc *domain.Service
}

func (s *stubServiceRepo) GetByID(_ context.Context, _ int64) (*domain.Service, error) {
	if s.svc == nil {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return s.svc, nil
}

type stubHoursRepo struct {
	byDay map[int]*domain.OpeningHours
}

func (s *stubHoursRepo) GetByBusinessAndDay(_ context.Context, _ int64, dayOfWeek int) (*domain.OpeningHours, error) {
	hours, ok := s.byDay[dayOfWeek]
	if !ok {
		return nil, hoursRepo.ErrHoursNotFound
	}
	return hours, nil
}

type stubHolidayRepo struct {
	days map[string]bool
}

func (s *stubHolidayRepo) GetByBusinessAndDate(_ context.Context, businessID int64, date time.Time) (*domain.Holiday, error) {
	if s.days[date.Format(domain.DateFormat)] {
		return &domain.Holiday{ID: 1, BusinessID: businessID, Date: date}, nil
	}
	return nil, holidayRepo.ErrHolidayNotFound
}

type stubSlotCache struct {
	values map[string][]time.Time
	sets   int
}

func cacheKey(businessID, serviceID int64, date time.Time) string {
	return date.Format(domain.DateFormat)
}

func (s *stubSlotCache) Get(_ context.Context, businessID, serviceID int64, date time.Time) ([]time.Time, error) {
	if slots, ok := s.values[cacheKey(businessID, serviceID, date)]; ok {
		return slots, nil
	}
	return nil, assert.AnError
}

func (s *stubSlotCache) Set(_ context.Context, businessID, serviceID int64, date time.Time, slots []time.Time) error {
	s.values[cacheKey(businessID, serviceID, date)] = slots
	s.sets++
	return nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Фикстура: бизнес 10, услуга 20 (60 минут), вторник 2026-09-15
// открыт с 09:00 до 12:00 - три слота.

type fixture struct {
	bookings *stubBookingRepo
	services *stubServiceRepo
	hours    *stubHoursRepo
	holidays *stubHolidayRepo
	cache    *stubSlotCache
	uc       *UseCase
}

func mustHours(t *testing.T, dayOfWeek int, open, close string) *domain.OpeningHours {
	t.Helper()
	openTS, err := types.NewTimeStringFromString(open)
	require.NoError(t, err)
	closeTS, err := types.NewTimeStringFromString(close)
	require.NoError(t, err)
	return &domain.OpeningHours{BusinessID: 10, DayOfWeek: dayOfWeek, OpenTime: openTS, CloseTime: closeTS}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		bookings: &stubBookingRepo{},
		services: &stubServiceRepo{
			svc: &domain.Service{ID: 20, BusinessID: 10, DurationMinutes: 60, IsActive: true},
		},
		hours:    &stubHoursRepo{byDay: map[int]*domain.OpeningHours{2: mustHours(t, 2, "09:00", "12:00")}},
		holidays: &stubHolidayRepo{days: map[string]bool{}},
		cache:    &stubSlotCache{values: map[string][]time.Time{}},
	}

	f.uc = NewUseCase(
		f.bookings, &stubBusinessRepo{}, f.services, f.hours, f.holidays, f.cache, nopLogger{},
	).WithTimeProvider(fixedClock{now: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)})

	return f
}

func newRequest(date time.Time) *Request {
	return &Request{BusinessID: 10, ServiceID: 20, Date: date}
}

func TestExecute_AllSlotsFree(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	resp, err := f.uc.Execute(context.Background(), newRequest(day))
	require.NoError(t, err)

	assert.True(t, resp.IsOpen)
	assert.Equal(t, []time.Time{
		day.Add(9 * time.Hour),
		day.Add(10 * time.Hour),
		day.Add(11 * time.Hour),
	}, resp.Slots)
}

func TestExecute_ConfirmedBookingBlocksSlot(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	f.bookings.bookings = []*domain.Booking{
		{ID: 1, BusinessID: 10, ServiceID: 20, StartAt: day.Add(10 * time.Hour), Status: domain.StatusConfirmed},
		// Ожидающее бронирование слот не занимает
		{ID: 2, BusinessID: 10, ServiceID: 20, StartAt: day.Add(9 * time.Hour), Status: domain.StatusPending},
	}

	resp, err := f.uc.Execute(context.Background(), newRequest(day))
	require.NoError(t, err)

	assert.Equal(t, []time.Time{day.Add(9 * time.Hour), day.Add(11 * time.Hour)}, resp.Slots)
}

func TestExecute_Holiday(t *testing.T) {
	f := newFixture(t)
	f.holidays.days["2026-09-15"] = true

	resp, err := f.uc.Execute(context.Background(), newRequest(time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	assert.False(t, resp.IsOpen)
	assert.Empty(t, resp.Slots)
	// Закрытые дни не кешируются
	assert.Zero(t, f.cache.sets)
}

func TestExecute_NoHoursForDay(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), newRequest(time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	assert.False(t, resp.IsOpen)
	assert.Empty(t, resp.Slots)
}

func TestExecute_PastDay(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), newRequest(time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, err)

	assert.False(t, resp.IsOpen)
	assert.Empty(t, resp.Slots)
}

func TestExecute_CachesFullListAndServesHit(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), newRequest(day))
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.sets)

	// Повторный запрос обслуживается из кеша без пересчёта
	resp, err := f.uc.Execute(context.Background(), newRequest(day))
	require.NoError(t, err)
	assert.True(t, resp.IsOpen)
	assert.Len(t, resp.Slots, 3)
	assert.Equal(t, 1, f.cache.sets)
}

func TestExecute_TodayFiltersStartedSlots(t *testing.T) {
	f := newFixture(t)
	day := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	// Сейчас 10:30 того же дня: слоты 09:00 и 10:00 уже начались
	f.uc.WithTimeProvider(fixedClock{now: day.Add(10*time.Hour + 30*time.Minute)})

	resp, err := f.uc.Execute(context.Background(), newRequest(day))
	require.NoError(t, err)

	assert.Equal(t, []time.Time{day.Add(11 * time.Hour)}, resp.Slots)
	// В кеше полный список - он переживает течение дня
	assert.Len(t, f.cache.values[cacheKey(10, 20, day)], 3)
}

func TestExecute_ServiceInactive(t *testing.T) {
	f := newFixture(t)
	f.services.svc.IsActive = false

	_, err := f.uc.Execute(context.Background(), newRequest(time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)))
	assert.ErrorIs(t, err, ErrServiceInactive)
}

func TestExecute_ServiceFromAnotherBusiness(t *testing.T) {
	f := newFixture(t)
	f.services.svc.BusinessID = 99

	_, err := f.uc.Execute(context.Background(), newRequest(time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)))
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_OvernightWindowSpansTwoDays(t *testing.T) {
	f := newFixture(t)
	// Вторник 22:00 - 02:00 среды, четыре часовых слота
	f.hours.byDay[2] = mustHours(t, 2, "22:00", "02:00")
	day := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	// Подтверждённое бронирование на 01:00 среды занимает слот ночной смены
	f.bookings.bookings = []*domain.Booking{
		{ID: 1, BusinessID: 10, ServiceID: 20, StartAt: day.AddDate(0, 0, 1).Add(1 * time.Hour), Status: domain.StatusConfirmed},
	}

	resp, err := f.uc.Execute(context.Background(), newRequest(day))
	require.NoError(t, err)

	assert.Equal(t, []time.Time{
		day.Add(22 * time.Hour),
		day.Add(23 * time.Hour),
		day.AddDate(0, 0, 1),
	}, resp.Slots)
}
