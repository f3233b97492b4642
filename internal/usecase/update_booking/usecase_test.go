package update_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartappt/booking-service/internal/domain"
	bookingRepo "github.com/smartappt/booking-service/internal/infra/storage/booking"
	holidayRepo "github.com/smartappt/booking-service/internal/infra/storage/holiday"
	hoursRepo "github.com/smartappt/booking-service/internal/infra/storage/openinghours"
	serviceRepo "github.com/smartappt/booking-service/internal/infra/storage/service"
	"github.com/smartappt/booking-service/pkg/types"
)

// Стабы репозиториев

type stubBookingRepo struct {
	byID    map[int64]*domain.Booking
	updated *domain.Booking
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

func (s *stubBookingRepo) Update(_ context.Context, b *domain.Booking) error {
	if _, ok := s.byID[b.ID]; !ok {
		return bookingRepo.ErrBookingNotFound
	}
	copy := *b
	s.byID[b.ID] = &copy
	s.updated = &copy
	return nil
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
	invalidated []time.Time
}

func (s *stubSlotCache) Invalidate(_ context.Context, _, _ int64, date time.Time) error {
	s.invalidated = append(s.invalidated, date)
	return nil
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

// Фикстура: бронирование 100 клиента 30 у бизнеса 10 на вторник
// 2026-09-15 10:00, услуга 20 длительностью 60 минут.

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

func newFixture(t *testing.T, status domain.BookingStatus) *fixture {
	t.Helper()

	f := &fixture{
		bookings: &stubBookingRepo{byID: map[int64]*domain.Booking{
			100: {
				ID: 100, BusinessID: 10, ServiceID: 20, CustomerID: 30,
				StartAt: time.Date(2026, 9, 15, 10, 0, 0, 0, time.UTC),
				EndAt:   time.Date(2026, 9, 15, 11, 0, 0, 0, time.UTC),
				Status:  status,
			},
		}},
		services: &stubServiceRepo{
			svc: &domain.Service{ID: 20, BusinessID: 10, Name: "Haircut", DurationMinutes: 60, IsActive: true},
		},
		hours: &stubHoursRepo{byDay: map[int]*domain.OpeningHours{
			2: mustHours(t, 2, "09:00", "17:00"),
			3: mustHours(t, 3, "09:00", "17:00"),
		}},
		holidays: &stubHolidayRepo{days: map[string]bool{}},
		cache:    &stubSlotCache{},
	}

	f.uc = NewUseCase(
		f.bookings, f.services, f.hours, f.holidays, f.cache,
		stubTxManager{}, nopLogger{},
	).WithTimeProvider(fixedClock{now: time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC)})

	return f
}

func TestExecute_MoveWithinDay(t *testing.T) {
	f := newFixture(t, domain.StatusPending)
	newStart := time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC)

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: 100, CustomerID: 30, StartAt: newStart})
	require.NoError(t, err)

	assert.Equal(t, newStart, resp.StartAt)
	assert.Equal(t, newStart.Add(time.Hour), resp.EndAt)
	assert.Equal(t, string(domain.StatusPending), resp.Status)
	// Перенос ожидающего бронирования занятость слотов не меняет
	assert.Empty(t, f.cache.invalidated)
}

func TestExecute_SelfIsNotDuplicate(t *testing.T) {
	f := newFixture(t, domain.StatusPending)
	// Новый день тот же, единственное бронирование на день - оно само
	newStart := time.Date(2026, 9, 15, 11, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 100, CustomerID: 30, StartAt: newStart})
	require.NoError(t, err)
}

func TestExecute_ConfirmedMoveInvalidatesBothDays(t *testing.T) {
	f := newFixture(t, domain.StatusConfirmed)
	// Перенос со вторника на среду
	newStart := time.Date(2026, 9, 16, 12, 0, 0, 0, time.UTC)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 100, CustomerID: 30, StartAt: newStart})
	require.NoError(t, err)

	require.Len(t, f.cache.invalidated, 2)
	assert.Equal(t, time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC), f.cache.invalidated[0])
	assert.Equal(t, time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC), f.cache.invalidated[1])
}

func TestExecute_BookingNotFound(t *testing.T) {
	f := newFixture(t, domain.StatusPending)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 999, CustomerID: 30,
		StartAt: time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC)})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_AccessDenied(t *testing.T) {
	f := newFixture(t, domain.StatusPending)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 100, CustomerID: 77,
		StartAt: time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC)})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_AlreadyCancelled(t *testing.T) {
	f := newFixture(t, domain.StatusCancelled)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 100, CustomerID: 30,
		StartAt: time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC)})
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestExecute_DuplicateOnNewDay(t *testing.T) {
	f := newFixture(t, domain.StatusPending)
	// У клиента уже есть другое бронирование услуги в среду
	f.bookings.byID[101] = &domain.Booking{
		ID: 101, BusinessID: 10, ServiceID: 20, CustomerID: 30,
		StartAt: time.Date(2026, 9, 16, 9, 0, 0, 0, time.UTC),
		Status:  domain.StatusPending,
	}

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 100, CustomerID: 30,
		StartAt: time.Date(2026, 9, 16, 12, 0, 0, 0, time.UTC)})
	assert.ErrorIs(t, err, ErrDuplicateBooking)
}

func TestExecute_ConfirmedConflictOnNewStart(t *testing.T) {
	f := newFixture(t, domain.StatusPending)
	f.bookings.byID[101] = &domain.Booking{
		ID: 101, BusinessID: 10, ServiceID: 20, CustomerID: 77,
		StartAt: time.Date(2026, 9, 16, 12, 0, 0, 0, time.UTC),
		Status:  domain.StatusConfirmed,
	}

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 100, CustomerID: 30,
		StartAt: time.Date(2026, 9, 16, 12, 0, 0, 0, time.UTC)})
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_HolidayOnNewDay(t *testing.T) {
	f := newFixture(t, domain.StatusPending)
	f.holidays.days["2026-09-16"] = true

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 100, CustomerID: 30,
		StartAt: time.Date(2026, 9, 16, 12, 0, 0, 0, time.UTC)})
	assert.ErrorIs(t, err, ErrBusinessClosed)
}

func TestExecute_StartInPast(t *testing.T) {
	f := newFixture(t, domain.StatusPending)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 100, CustomerID: 30,
		StartAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)})
	assert.ErrorIs(t, err, ErrStartInPast)
}

func TestExecute_NotesReplacedOnlyWhenProvided(t *testing.T) {
	f := newFixture(t, domain.StatusPending)
	oldNotes := "старый комментарий"
	f.bookings.byID[100].Notes = &oldNotes

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 100, CustomerID: 30,
		StartAt: time.Date(2026, 9, 15, 14, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	require.NotNil(t, f.bookings.updated.Notes)
	assert.Equal(t, oldNotes, *f.bookings.updated.Notes)

	newNotes := "новый комментарий"
	_, err = f.uc.Execute(context.Background(), &Request{BookingID: 100, CustomerID: 30,
		StartAt: time.Date(2026, 9, 15, 15, 0, 0, 0, time.UTC), Notes: &newNotes})
	require.NoError(t, err)
	require.NotNil(t, f.bookings.updated.Notes)
	assert.Equal(t, newNotes, *f.bookings.updated.Notes)
}
