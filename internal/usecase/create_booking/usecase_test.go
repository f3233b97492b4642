package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartappt/booking-service/internal/domain"
	businessRepo "github.com/smartappt/booking-service/internal/infra/storage/business"
	customerRepo "github.com/smartappt/booking-service/internal/infra/storage/customer"
	holidayRepo "github.com/smartappt/booking-service/internal/infra/storage/holiday"
	hoursRepo "github.com/smartappt/booking-service/internal/infra/storage/openinghours"
	serviceRepo "github.com/smartappt/booking-service/internal/infra/storage/service"
	"github.com/smartappt/booking-service/pkg/types"
)

// Стабы репозиториев

type stubBookingRepo struct {
	bookings []*domain.Booking
	created  *domain.Booking
}

func (s *stubBookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	out := *b
	out.ID = 100
	out.CreatedAt = time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)
	out.UpdatedAt = out.CreatedAt
	s.created = &out
	return &out, nil
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

type stubBusinessRepo struct {
	missing bool
}

func (s *stubBusinessRepo) GetByID(_ context.Context, id int64) (*domain.Business, error) {
	if s.missing {
		return nil, businessRepo.ErrBusinessNotFound
	}
	return &domain.Business{ID: id, Name: "Barbershop"}, nil
}

type stubServiceRepo struct {
	svc     *domain.Service
	missing bool
}

func (s *stubServiceRepo) GetByID(_ context.Context, _ int64) (*domain.Service, error) {
	if s.missing {
		return nil, serviceRepo.ErrServiceNotFound
	}
	return s.svc, nil
}

type stubCustomerRepo struct {
	missing bool
}

func (s *stubCustomerRepo) GetByID(_ context.Context, id int64) (*domain.Customer, error) {
	if s.missing {
		return nil, customerRepo.ErrCustomerNotFound
	}
	return &domain.Customer{ID: id, Name: "Ivan"}, nil
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

type stubTxManager struct{}

func (stubTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// Фикстура: бизнес 10, услуга 20 (60 минут), клиент 30.
// Вторник 2026-09-15 открыт с 09:00 до 17:00.

type fixture struct {
	bookings  *stubBookingRepo
	services  *stubServiceRepo
	hours     *stubHoursRepo
	holidays  *stubHolidayRepo
	customers *stubCustomerRepo
	business  *stubBusinessRepo
	uc        *UseCase
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
			svc: &domain.Service{ID: 20, BusinessID: 10, Name: "Haircut", DurationMinutes: 60, IsActive: true},
		},
		hours:     &stubHoursRepo{byDay: map[int]*domain.OpeningHours{2: mustHours(t, 2, "09:00", "17:00")}},
		holidays:  &stubHolidayRepo{days: map[string]bool{}},
		customers: &stubCustomerRepo{},
		business:  &stubBusinessRepo{},
	}

	f.uc = NewUseCase(
		f.bookings, f.business, f.services, f.customers, f.hours, f.holidays,
		stubTxManager{}, nopLogger{},
	).WithTimeProvider(fixedClock{now: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)})

	return f
}

func newRequest(startAt time.Time) *Request {
	return &Request{CustomerID: 30, BusinessID: 10, ServiceID: 20, StartAt: startAt}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(t)
	start := time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)

	resp, err := f.uc.Execute(context.Background(), newRequest(start))
	require.NoError(t, err)

	assert.Equal(t, int64(100), resp.ID)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	assert.Equal(t, start, resp.StartAt)
	assert.Equal(t, start.Add(time.Hour), resp.EndAt)
	require.NotNil(t, f.bookings.created)
	assert.Equal(t, domain.StatusPending, f.bookings.created.Status)
}

func TestExecute_TruncatesSubSecondPrecision(t *testing.T) {
	f := newFixture(t)
	start := time.Date(2026, 9, 15, 10, 0, 0, 123456789, time.UTC)

	resp, err := f.uc.Execute(context.Background(), newRequest(start))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC), resp.StartAt)
}

func TestExecute_StartInPast(t *testing.T) {
	f := newFixture(t)
	start := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), newRequest(start))
	assert.ErrorIs(t, err, ErrStartInPast)
}

func TestExecute_StartEqualsNow(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), newRequest(time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)))
	assert.ErrorIs(t, err, ErrStartInPast)
}

func TestExecute_CustomerNotFound(t *testing.T) {
	f := newFixture(t)
	f.customers.missing = true

	_, err := f.uc.Execute(context.Background(), newRequest(time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)))
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestExecute_BusinessNotFound(t *testing.T) {
	f := newFixture(t)
	f.business.missing = true

	_, err := f.uc.Execute(context.Background(), newRequest(time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)))
	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestExecute_ServiceFromAnotherBusiness(t *testing.T) {
	f := newFixture(t)
	f.services.svc.BusinessID = 99

	_, err := f.uc.Execute(context.Background(), newRequest(time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)))
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_ServiceInactive(t *testing.T) {
	f := newFixture(t)
	f.services.svc.IsActive = false

	_, err := f.uc.Execute(context.Background(), newRequest(time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)))
	assert.ErrorIs(t, err, ErrServiceInactive)
}

func TestExecute_Holiday(t *testing.T) {
	f := newFixture(t)
	f.holidays.days["2026-09-15"] = true

	_, err := f.uc.Execute(context.Background(), newRequest(time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)))
	assert.ErrorIs(t, err, ErrBusinessClosed)
}

func TestExecute_NoHoursForDay(t *testing.T) {
	f := newFixture(t)
	// Среда 2026-09-16: часов работы нет
	_, err := f.uc.Execute(context.Background(), newRequest(time.Date(2026, 9, 16, 10, 0, 0, 0, time.UTC)))
	assert.ErrorIs(t, err, ErrBusinessClosed)
}

func TestExecute_OutsideHours(t *testing.T) {
	f := newFixture(t)
	// 16:30 + 60 минут выходит за закрытие в 17:00
	_, err := f.uc.Execute(context.Background(), newRequest(time.Date(2026, 9, 15, 16, 30, 0, 0, time.UTC)))
	assert.ErrorIs(t, err, ErrOutsideHours)
}

func TestExecute_MisalignedSlot(t *testing.T) {
	f := newFixture(t)
	// Сетка от 09:00 с шагом 60 минут: 10:30 мимо сетки
	_, err := f.uc.Execute(context.Background(), newRequest(time.Date(2026, 9, 15, 10, 30, 0, 0, time.UTC)))
	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestExecute_DuplicateBooking(t *testing.T) {
	f := newFixture(t)
	// Даже отменённое бронирование в тот же день блокирует повтор
	f.bookings.bookings = []*domain.Booking{{
		ID: 5, BusinessID: 10, ServiceID: 20, CustomerID: 30,
		StartAt: time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC),
		Status:  domain.StatusCancelled,
	}}

	_, err := f.uc.Execute(context.Background(), newRequest(time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)))
	assert.ErrorIs(t, err, ErrDuplicateBooking)
}

func TestExecute_SlotTakenByConfirmed(t *testing.T) {
	f := newFixture(t)
	f.bookings.bookings = []*domain.Booking{{
		ID: 5, BusinessID: 10, ServiceID: 20, CustomerID: 77,
		StartAt: time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC),
		Status:  domain.StatusConfirmed,
	}}

	_, err := f.uc.Execute(context.Background(), newRequest(time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_PendingCompetitorDoesNotBlock(t *testing.T) {
	f := newFixture(t)
	// Чужое ожидающее бронирование на тот же слот не мешает
	f.bookings.bookings = []*domain.Booking{{
		ID: 5, BusinessID: 10, ServiceID: 20, CustomerID: 77,
		StartAt: time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC),
		Status:  domain.StatusPending,
	}}

	resp, err := f.uc.Execute(context.Background(), newRequest(time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
}

func TestExecute_OvernightWindowFromPreviousDay(t *testing.T) {
	f := newFixture(t)
	// Вторник работает с 22:00 до 06:00 среды
	f.hours.byDay[2] = mustHours(t, 2, "22:00", "06:00")

	// 02:00 среды попадает в ночную смену вторника
	resp, err := f.uc.Execute(context.Background(), newRequest(time.Date(2026, 9, 16, 2, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{CustomerID: 0, BusinessID: 10, ServiceID: 20,
		StartAt: time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
