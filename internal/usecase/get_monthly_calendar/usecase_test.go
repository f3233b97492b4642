package get_monthly_calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartappt/booking-service/internal/domain"
	businessRepo "github.com/smartappt/booking-service/internal/infra/storage/business"
	serviceRepo "github.com/smartappt/booking-service/internal/infra/storage/service"
	"github.com/smartappt/booking-service/pkg/types"
)

// Стабы репозиториев

type stubBookingRepo struct {
	counts map[time.Time]int
}

func (s *stubBookingRepo) CountByDateInRange(_ context.Context, _, _ int64, _, _ time.Time) (map[time.Time]int, error) {
	return s.counts, nil
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
	schedule []*domain.OpeningHours
}

func (s *stubHoursRepo) GetAllByBusiness(_ context.Context, _ int64) ([]*domain.OpeningHours, error) {
	return s.schedule, nil
}

type stubHolidayRepo struct {
	holidays []*domain.Holiday
}

func (s *stubHolidayRepo) GetAllByMonth(_ context.Context, _ int64, _, _ time.Time) ([]*domain.Holiday, error) {
	return s.holidays, nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Фикстура: бизнес 10, услуга 20 (60 минут), работает по вторникам
// с 09:00 до 12:00 - три слота в день. Сентябрь 2026: вторники
// 1, 8, 15, 22 и 29 числа.

type fixture struct {
	bookings *stubBookingRepo
	services *stubServiceRepo
	hours    *stubHoursRepo
	holidays *stubHolidayRepo
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
		bookings: &stubBookingRepo{counts: map[time.Time]int{}},
		services: &stubServiceRepo{
			svc: &domain.Service{ID: 20, BusinessID: 10, DurationMinutes: 60, IsActive: true},
		},
		hours:    &stubHoursRepo{schedule: []*domain.OpeningHours{mustHours(t, 2, "09:00", "12:00")}},
		holidays: &stubHolidayRepo{},
	}

	f.uc = NewUseCase(
		f.bookings, &stubBusinessRepo{}, f.services, f.hours, f.holidays, nopLogger{},
	).WithTimeProvider(fixedClock{now: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)})

	return f
}

func newRequest(year int, month time.Month) *Request {
	return &Request{BusinessID: 10, ServiceID: 20, Year: year, Month: month}
}

func TestExecute_DaysCoverWholeMonth(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), newRequest(2026, time.September))
	require.NoError(t, err)

	require.Len(t, resp.Days, 30)
	assert.Equal(t, 1, resp.Days[0].Day)
	assert.Equal(t, 30, resp.Days[29].Day)

	// Февраль невисокосного года
	resp, err = f.uc.Execute(context.Background(), newRequest(2027, time.February))
	require.NoError(t, err)
	assert.Len(t, resp.Days, 28)
}

func TestExecute_OnlyScheduledDaysOpen(t *testing.T) {
	f := newFixture(t)

	resp, err := f.uc.Execute(context.Background(), newRequest(2026, time.September))
	require.NoError(t, err)

	tuesdays := map[int]bool{1: true, 8: true, 15: true, 22: true, 29: true}
	for _, d := range resp.Days {
		assert.Equal(t, tuesdays[d.Day], d.IsOpen, "day %d", d.Day)
		assert.Equal(t, tuesdays[d.Day], d.HasFreeSlots, "day %d", d.Day)
	}
}

func TestExecute_HolidayClosesDay(t *testing.T) {
	f := newFixture(t)
	f.holidays.holidays = []*domain.Holiday{
		{ID: 1, BusinessID: 10, Date: time.Date(2026, 9, 8, 0, 0, 0, 0, time.UTC)},
	}

	resp, err := f.uc.Execute(context.Background(), newRequest(2026, time.September))
	require.NoError(t, err)

	assert.False(t, resp.Days[7].IsOpen)
	assert.True(t, resp.Days[14].IsOpen)
}

func TestExecute_FullyBookedDayHasNoFreeSlots(t *testing.T) {
	f := newFixture(t)
	// 15 сентября заняты все три слота, 22 сентября - два из трёх
	f.bookings.counts = map[time.Time]int{
		time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC): 3,
		time.Date(2026, 9, 22, 0, 0, 0, 0, time.UTC): 2,
	}

	resp, err := f.uc.Execute(context.Background(), newRequest(2026, time.September))
	require.NoError(t, err)

	assert.True(t, resp.Days[14].IsOpen)
	assert.False(t, resp.Days[14].HasFreeSlots)
	assert.True(t, resp.Days[21].IsOpen)
	assert.True(t, resp.Days[21].HasFreeSlots)
}

func TestExecute_PastDaysClosed(t *testing.T) {
	f := newFixture(t)
	// Середина месяца: вторники 1 и 8 уже прошли, 15-е - сегодня
	f.uc.WithTimeProvider(fixedClock{now: time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)})

	resp, err := f.uc.Execute(context.Background(), newRequest(2026, time.September))
	require.NoError(t, err)

	assert.False(t, resp.Days[0].IsOpen)
	assert.False(t, resp.Days[7].IsOpen)
	assert.True(t, resp.Days[14].IsOpen)
	assert.True(t, resp.Days[21].IsOpen)
}

func TestExecute_BusinessNotFound(t *testing.T) {
	f := newFixture(t)
	f.uc = NewUseCase(
		f.bookings, &stubBusinessRepo{missing: true}, f.services, f.hours, f.holidays, nopLogger{},
	).WithTimeProvider(fixedClock{now: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)})

	_, err := f.uc.Execute(context.Background(), newRequest(2026, time.September))
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestExecute_ServiceFromAnotherBusiness(t *testing.T) {
	f := newFixture(t)
	f.services.svc.BusinessID = 99

	_, err := f.uc.Execute(context.Background(), newRequest(2026, time.September))
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_ServiceInactive(t *testing.T) {
	f := newFixture(t)
	f.services.svc.IsActive = false

	_, err := f.uc.Execute(context.Background(), newRequest(2026, time.September))
	assert.ErrorIs(t, err, ErrServiceInactive)
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), newRequest(1999, time.September))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(context.Background(), newRequest(2026, time.Month(13)))
	assert.ErrorIs(t, err, ErrInvalidInput)
}
