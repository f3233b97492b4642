package get_daily_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smartappt/booking-service/internal/calendar"
	"github.com/smartappt/booking-service/internal/domain"
	businessRepo "github.com/smartappt/booking-service/internal/infra/storage/business"
	holidayRepo "github.com/smartappt/booking-service/internal/infra/storage/holiday"
	hoursRepo "github.com/smartappt/booking-service/internal/infra/storage/openinghours"
	serviceRepo "github.com/smartappt/booking-service/internal/infra/storage/service"
)

// UseCase use case для получения свободных слотов услуги на день
type UseCase struct {
	bookingRepo  BookingRepository
	businessRepo BusinessRepository
	serviceRepo  ServiceRepository
	hoursRepo    OpeningHoursRepository
	holidayRepo  HolidayRepository
	slotCache    SlotCache
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	businessRepo BusinessRepository,
	serviceRepo ServiceRepository,
	hoursRepo OpeningHoursRepository,
	holidayRepo HolidayRepository,
	slotCache SlotCache,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		businessRepo: businessRepo,
		serviceRepo:  serviceRepo,
		hoursRepo:    hoursRepo,
		holidayRepo:  holidayRepo,
		slotCache:    slotCache,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения свободных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetDailySlots: business=%d, service=%d, date=%s",
		req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetDailySlots: validation failed: %v", err)
		return nil, err
	}

	day := req.Date.UTC().Truncate(24 * time.Hour)
	now := uc.timeProvider.Now()

	// 2. Проверяем существование бизнеса
	if _, err := uc.businessRepo.GetByID(ctx, req.BusinessID); err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("GetDailySlots: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetDailySlots: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 3. Получаем услугу и проверяем принадлежность и активность
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetDailySlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetDailySlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.BelongsTo(req.BusinessID) {
		uc.logger.Warn("GetDailySlots: service id=%d does not belong to business=%d", req.ServiceID, req.BusinessID)
		return nil, ErrServiceNotFound
	}
	if !service.IsActive {
		uc.logger.Warn("GetDailySlots: service id=%d is not active", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 4. День в прошлом - закрыто, слотов нет
	today := now.Truncate(24 * time.Hour)
	if day.Before(today) {
		return closedResponse(req, day), nil
	}

	// 5. Пробуем кеш (кешируются только открытые дни)
	if uc.slotCache != nil {
		if cached, err := uc.slotCache.Get(ctx, req.BusinessID, req.ServiceID, day); err == nil {
			uc.logger.Info("GetDailySlots: cache hit for business=%d, service=%d, date=%s",
				req.BusinessID, req.ServiceID, day.Format(domain.DateFormat))
			return &Response{
				BusinessID: req.BusinessID,
				ServiceID:  req.ServiceID,
				Date:       day,
				IsOpen:     true,
				Slots:      filterStarted(cached, now),
			}, nil
		}
	}

	// 6. Выходной день - закрыто
	if holiday, err := uc.isHoliday(ctx, req.BusinessID, day); err != nil {
		return nil, err
	} else if holiday {
		uc.logger.Info("GetDailySlots: business=%d has holiday on %s", req.BusinessID, day.Format(domain.DateFormat))
		return closedResponse(req, day), nil
	}

	// 7. Часы работы на день недели
	hours, err := uc.hoursRepo.GetByBusinessAndDay(ctx, req.BusinessID, calendar.DayOfWeek(day))
	if err != nil {
		if errors.Is(err, hoursRepo.ErrHoursNotFound) {
			uc.logger.Info("GetDailySlots: business=%d has no hours for %s", req.BusinessID, day.Format(domain.DateFormat))
			return closedResponse(req, day), nil
		}
		uc.logger.Error("GetDailySlots: failed to get hours for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get opening hours: %v", ErrInternal, err)
	}

	// 8. Абсолютное рабочее окно (включая ночные смены и круглосуточные дни)
	winStart, winEnd, err := calendar.ResolveWindow(day, hours.OpenTime, hours.CloseTime)
	if err != nil {
		uc.logger.Error("GetDailySlots: invalid hours for business=%d day=%d: %v", req.BusinessID, hours.DayOfWeek, err)
		return nil, fmt.Errorf("%w: invalid opening hours: %v", ErrInternal, err)
	}

	// 9. Подтверждённые бронирования, занимающие слоты окна
	bookedStarts, err := uc.confirmedStarts(ctx, req.BusinessID, req.ServiceID, winStart, winEnd)
	if err != nil {
		return nil, err
	}

	// 10. Перечисляем свободные слоты по сетке услуги
	slots := calendar.FreeSlots(winStart, winEnd, service.DurationMinutes, bookedStarts)

	// 11. Кешируем полный список, отдаём без уже начавшихся слотов
	if uc.slotCache != nil {
		if err := uc.slotCache.Set(ctx, req.BusinessID, req.ServiceID, day, slots); err != nil {
			uc.logger.Warn("GetDailySlots: failed to cache slots for business=%d: %v", req.BusinessID, err)
		}
	}

	uc.logger.Info("GetDailySlots: %d free slots for business=%d, service=%d, date=%s",
		len(slots), req.BusinessID, req.ServiceID, day.Format(domain.DateFormat))

	return &Response{
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		Date:       day,
		IsOpen:     true,
		Slots:      filterStarted(slots, now),
	}, nil
}

// confirmedStarts собирает начала подтверждённых бронирований внутри окна.
// Ночное окно пересекает два календарных дня UTC - выборка идёт по обоим.
func (uc *UseCase) confirmedStarts(ctx context.Context, businessID, serviceID int64, winStart, winEnd time.Time) ([]time.Time, error) {
	confirmedStatus := domain.StatusConfirmed

	days := []time.Time{winStart.Truncate(24 * time.Hour)}
	if endDay := winEnd.Add(-time.Nanosecond).Truncate(24 * time.Hour); !endDay.Equal(days[0]) {
		days = append(days, endDay)
	}

	starts := make([]time.Time, 0)
	for _, day := range days {
		day := day
		bookings, err := uc.bookingRepo.GetAllWithFilter(ctx, domain.BookingFilter{
			BusinessID: &businessID,
			ServiceID:  &serviceID,
			Status:     &confirmedStatus,
			Date:       &day,
		})
		if err != nil {
			uc.logger.Error("GetDailySlots: failed to get bookings for business=%d: %v", businessID, err)
			return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}
		for _, b := range bookings {
			starts = append(starts, b.StartAt)
		}
	}

	return starts, nil
}

func (uc *UseCase) isHoliday(ctx context.Context, businessID int64, day time.Time) (bool, error) {
	_, err := uc.holidayRepo.GetByBusinessAndDate(ctx, businessID, day)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, holidayRepo.ErrHolidayNotFound) {
		return false, nil
	}
	uc.logger.Error("GetDailySlots: failed to check holiday for business=%d: %v", businessID, err)
	return false, fmt.Errorf("%w: failed to check holiday: %v", ErrInternal, err)
}

func closedResponse(req *Request, day time.Time) *Response {
	return &Response{
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		Date:       day,
		IsOpen:     false,
		Slots:      []time.Time{},
	}
}

// filterStarted отбрасывает слоты, начало которых уже прошло
func filterStarted(slots []time.Time, now time.Time) []time.Time {
	filtered := make([]time.Time, 0, len(slots))
	for _, s := range slots {
		if s.After(now) {
			filtered = append(filtered, s)
		}
	}
	return filtered
}
