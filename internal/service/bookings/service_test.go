package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartappt/booking-service/internal/domain"
	bookingRepo "github.com/smartappt/booking-service/internal/infra/storage/booking"
	hoursRepo "github.com/smartappt/booking-service/internal/infra/storage/openinghours"
	"github.com/smartappt/booking-service/internal/service/bookings/models"
	"github.com/smartappt/booking-service/pkg/types"
)

// Стабы репозиториев

type stubBookingRepo struct {
	byID map[int64]*domain.Booking

	rangeFrom time.Time
	rangeTo   time.Time

	slotTakenOn int64 // SetStatus(Confirmed) для этого ID вернёт ErrSlotTaken
}

func (s *stubBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := s.byID[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	copy := *b
	return &copy, nil
}

func (s *stubBookingRepo) GetAllWithFilter(_ context.Context, f domain.BookingFilter) ([]*domain.Booking, error) {
	var out []*domain.Booking
	for _, b := range s.byID {
		if f.BusinessID != nil && b.BusinessID != *f.BusinessID {
			continue
		}
		if f.ServiceID != nil && b.ServiceID != *f.ServiceID {
			continue
		}
		if f.CustomerID != nil && b.CustomerID != *f.CustomerID {
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

func (s *stubBookingRepo) GetByRange(_ context.Context, businessID int64, from, to time.Time, _, _ int) ([]*domain.Booking, error) {
	s.rangeFrom, s.rangeTo = from, to
	var out []*domain.Booking
	for _, b := range s.byID {
		if b.BusinessID != businessID {
			continue
		}
		if b.StartAt.Before(from) || !b.StartAt.Before(to) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (s *stubBookingRepo) SetStatus(_ context.Context, id int64, status domain.BookingStatus) error {
	b, ok := s.byID[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	if status == domain.StatusConfirmed && id == s.slotTakenOn {
		return bookingRepo.ErrSlotTaken
	}
	b.Status = status
	return nil
}

func (s *stubBookingRepo) Delete(_ context.Context, id int64) error {
	if _, ok := s.byID[id]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	delete(s.byID, id)
	return nil
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

type stubSlotCache struct {
	invalidated []time.Time
}

func (s *stubSlotCache) Invalidate(_ context.Context, _, _ int64, date time.Time) error {
	s.invalidated = append(s.invalidated, date)
	return nil
}

type stubTxManager struct{}

func (stubTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (stubTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (stubTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Фикстура: бронирование 100 клиента 30 у бизнеса 10 на вторник
// 2026-09-15 10:00, услуга 20.

var fixtureStart = time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)

type fixture struct {
	bookings *stubBookingRepo
	hours    *stubHoursRepo
	cache    *stubSlotCache
	svc      *Service
}

func mustHours(t *testing.T, dayOfWeek int, open, close string) *domain.OpeningHours {
	t.Helper()
	openTS, err := types.NewTimeStringFromString(open)
	require.NoError(t, err)
	closeTS, err := types.NewTimeStringFromString(close)
	require.NoError(t, err)
	return &domain.OpeningHours{BusinessID: 10, DayOfWeek: dayOfWeek, OpenTime: openTS, CloseTime: closeTS}
}

func newFixture(t *testing.T, status domain.BookingStatus) *fixture {
	t.Helper()

	f := &fixture{
		bookings: &stubBookingRepo{byID: map[int64]*domain.Booking{
			100: {
				ID: 100, BusinessID: 10, ServiceID: 20, CustomerID: 30,
				StartAt: fixtureStart,
				EndAt:   fixtureStart.Add(time.Hour),
				Status:  status,
			},
		}},
		hours: &stubHoursRepo{byDay: map[int]*domain.OpeningHours{}},
		cache: &stubSlotCache{},
	}

	f.svc = NewService(f.bookings, f.hours, f.cache, stubTxManager{}, nopLogger{})
	return f
}

func intPtr(v int) *int          { return &v }
func strPtr(v string) *string    { return &v }
func datePtr(v time.Time) *time.Time { return &v }

func TestGetByID(t *testing.T) {
	f := newFixture(t, domain.StatusPending)

	// Видит клиент
	resp, err := f.svc.GetByID(context.Background(), 100, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(100), resp.ID)

	// Видит бизнес
	_, err = f.svc.GetByID(context.Background(), 100, 10)
	require.NoError(t, err)

	// Посторонний не видит
	_, err = f.svc.GetByID(context.Background(), 100, 77)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.GetByID(context.Background(), 999, 30)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetCustomerBookings_Validation(t *testing.T) {
	f := newFixture(t, domain.StatusPending)

	_, err := f.svc.GetCustomerBookings(context.Background(), &models.GetCustomerBookingsRequest{
		CustomerID: 30, Skip: intPtr(-1),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.GetCustomerBookings(context.Background(), &models.GetCustomerBookingsRequest{
		CustomerID: 30, Take: intPtr(0),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.GetCustomerBookings(context.Background(), &models.GetCustomerBookingsRequest{
		CustomerID: 30, Take: intPtr(domain.MaxPageSize + 1),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.GetCustomerBookings(context.Background(), &models.GetCustomerBookingsRequest{
		CustomerID: 30, Status: strPtr("Unknown"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetCustomerBookings_FiltersByStatus(t *testing.T) {
	f := newFixture(t, domain.StatusPending)
	f.bookings.byID[101] = &domain.Booking{
		ID: 101, BusinessID: 10, ServiceID: 20, CustomerID: 30,
		StartAt: fixtureStart.AddDate(0, 0, 1), Status: domain.StatusCancelled,
	}
	// Чужое бронирование в выборку не попадает
	f.bookings.byID[102] = &domain.Booking{
		ID: 102, BusinessID: 10, ServiceID: 20, CustomerID: 77,
		StartAt: fixtureStart, Status: domain.StatusPending,
	}

	resp, err := f.svc.GetCustomerBookings(context.Background(), &models.GetCustomerBookingsRequest{
		CustomerID: 30, Status: strPtr("Cancelled"),
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(101), resp.Bookings[0].ID)

	resp, err = f.svc.GetCustomerBookings(context.Background(), &models.GetCustomerBookingsRequest{CustomerID: 30})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)
}

func TestGetBusinessBookings_AccessDenied(t *testing.T) {
	f := newFixture(t, domain.StatusPending)

	_, err := f.svc.GetBusinessBookings(context.Background(), &models.GetBusinessBookingsRequest{
		BusinessID: 10, UserID: 77,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetBusinessBookings_DateUsesBusinessDay(t *testing.T) {
	f := newFixture(t, domain.StatusPending)
	// Вторник 22:00 - 06:00 среды: ночная смена
	f.hours.byDay[2] = mustHours(t, 2, "22:00", "06:00")
	night := &domain.Booking{
		ID: 101, BusinessID: 10, ServiceID: 20, CustomerID: 30,
		StartAt: time.Date(2026, 9, 16, 2, 0, 0, 0, time.UTC),
		Status:  domain.StatusConfirmed,
	}
	f.bookings.byID[101] = night

	resp, err := f.svc.GetBusinessBookings(context.Background(), &models.GetBusinessBookingsRequest{
		BusinessID: 10, UserID: 10,
		Date: datePtr(time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)),
		Page: 1, Size: 20,
	})
	require.NoError(t, err)

	// Границы рабочего дня, а не календарных суток UTC
	assert.Equal(t, time.Date(2026, 9, 15, 22, 0, 0, 0, time.UTC), f.bookings.rangeFrom)
	assert.Equal(t, time.Date(2026, 9, 16, 6, 0, 0, 0, time.UTC), f.bookings.rangeTo)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(101), resp.Bookings[0].ID)
}

func TestGetBusinessBookings_DateWithoutHoursFallsBackToCalendarDay(t *testing.T) {
	f := newFixture(t, domain.StatusConfirmed)

	resp, err := f.svc.GetBusinessBookings(context.Background(), &models.GetBusinessBookingsRequest{
		BusinessID: 10, UserID: 10,
		Date: datePtr(time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)),
		Page: 1, Size: 20,
	})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), f.bookings.rangeFrom)
	assert.Equal(t, time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC), f.bookings.rangeTo)
	assert.Len(t, resp.Bookings, 1)
}

func TestGetBusinessBookings_InvalidStatus(t *testing.T) {
	f := newFixture(t, domain.StatusPending)

	_, err := f.svc.GetBusinessBookings(context.Background(), &models.GetBusinessBookingsRequest{
		BusinessID: 10, UserID: 10, Status: strPtr("Unknown"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestNormalizePage(t *testing.T) {
	page, size := normalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, domain.DefaultPageSize, size)

	page, size = normalizePage(-5, domain.MaxPageSize+50)
	assert.Equal(t, 1, page)
	assert.Equal(t, domain.MaxPageSize, size)

	page, size = normalizePage(3, 25)
	assert.Equal(t, 3, page)
	assert.Equal(t, 25, size)
}

func TestConfirm_CancelsCompetingPendings(t *testing.T) {
	f := newFixture(t, domain.StatusPending)
	// Конкурент на тот же слот и ожидающее бронирование на другой слот
	f.bookings.byID[101] = &domain.Booking{
		ID: 101, BusinessID: 10, ServiceID: 20, CustomerID: 77,
		StartAt: fixtureStart, Status: domain.StatusPending,
	}
	f.bookings.byID[102] = &domain.Booking{
		ID: 102, BusinessID: 10, ServiceID: 20, CustomerID: 88,
		StartAt: fixtureStart.Add(2 * time.Hour), Status: domain.StatusPending,
	}

	err := f.svc.Confirm(context.Background(), 100, 10)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusConfirmed, f.bookings.byID[100].Status)
	assert.Equal(t, domain.StatusCancelled, f.bookings.byID[101].Status)
	// Другой слот не трогаем
	assert.Equal(t, domain.StatusPending, f.bookings.byID[102].Status)

	require.Len(t, f.cache.invalidated, 1)
	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), f.cache.invalidated[0])
}

func TestConfirm_AccessDenied(t *testing.T) {
	f := newFixture(t, domain.StatusPending)

	err := f.svc.Confirm(context.Background(), 100, 77)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Equal(t, domain.StatusPending, f.bookings.byID[100].Status)
}

func TestConfirm_StatusGuards(t *testing.T) {
	f := newFixture(t, domain.StatusConfirmed)
	err := f.svc.Confirm(context.Background(), 100, 10)
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)

	f = newFixture(t, domain.StatusCancelled)
	err = f.svc.Confirm(context.Background(), 100, 10)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)

	f = newFixture(t, domain.StatusPending)
	err = f.svc.Confirm(context.Background(), 999, 10)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestConfirm_SlotConflict(t *testing.T) {
	f := newFixture(t, domain.StatusPending)
	f.bookings.slotTakenOn = 100

	err := f.svc.Confirm(context.Background(), 100, 10)
	assert.ErrorIs(t, err, ErrSlotConflict)
	assert.Empty(t, f.cache.invalidated)
}

func TestCancelByBusiness(t *testing.T) {
	f := newFixture(t, domain.StatusPending)

	err := f.svc.CancelByBusiness(context.Background(), 100, 10)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, f.bookings.byID[100].Status)
	// Ожидающее бронирование слот не занимало - кеш не трогаем
	assert.Empty(t, f.cache.invalidated)
}

func TestCancelByBusiness_RejectsConfirmed(t *testing.T) {
	f := newFixture(t, domain.StatusConfirmed)

	err := f.svc.CancelByBusiness(context.Background(), 100, 10)
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)
	assert.Equal(t, domain.StatusConfirmed, f.bookings.byID[100].Status)
}

func TestCancelByBusiness_AccessDenied(t *testing.T) {
	f := newFixture(t, domain.StatusPending)

	err := f.svc.CancelByBusiness(context.Background(), 100, 30)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCancelByCustomer_ConfirmedFreesSlot(t *testing.T) {
	f := newFixture(t, domain.StatusConfirmed)

	err := f.svc.CancelByCustomer(context.Background(), 100, 30)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, f.bookings.byID[100].Status)

	require.Len(t, f.cache.invalidated, 1)
	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), f.cache.invalidated[0])
}

func TestCancelByCustomer_Pending(t *testing.T) {
	f := newFixture(t, domain.StatusPending)

	err := f.svc.CancelByCustomer(context.Background(), 100, 30)
	require.NoError(t, err)
	assert.Empty(t, f.cache.invalidated)
}

func TestCancelByCustomer_Guards(t *testing.T) {
	f := newFixture(t, domain.StatusCancelled)
	err := f.svc.CancelByCustomer(context.Background(), 100, 30)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)

	f = newFixture(t, domain.StatusPending)
	err = f.svc.CancelByCustomer(context.Background(), 100, 10)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestDeleteByCustomer(t *testing.T) {
	f := newFixture(t, domain.StatusConfirmed)

	err := f.svc.DeleteByCustomer(context.Background(), 100, 30)
	require.NoError(t, err)
	assert.NotContains(t, f.bookings.byID, int64(100))
	assert.Len(t, f.cache.invalidated, 1)
}

func TestDeleteByCustomer_OwnerOnly(t *testing.T) {
	f := newFixture(t, domain.StatusPending)

	err := f.svc.DeleteByCustomer(context.Background(), 100, 10)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Contains(t, f.bookings.byID, int64(100))
}
