package get_monthly_calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smartappt/booking-service/internal/calendar"
	"github.com/smartappt/booking-service/internal/domain"
	businessRepo "github.com/smartappt/booking-service/internal/infra/storage/business"
	serviceRepo "github.com/smartappt/booking-service/internal/infra/storage/service"
)

// UseCase use case для месячного календаря доступности услуги.
// Для каждого дня месяца отвечает, открыт ли бизнес и остались ли
// свободные слоты, без перечисления самих слотов.
type UseCase struct {
	bookingRepo  BookingRepository
	businessRepo BusinessRepository
	serviceRepo  ServiceRepository
	hoursRepo    OpeningHoursRepository
	holidayRepo  HolidayRepository
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
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		businessRepo: businessRepo,
		serviceRepo:  serviceRepo,
		hoursRepo:    hoursRepo,
		holidayRepo:  holidayRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case построения календаря
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetMonthlyCalendar: business=%d, service=%d, month=%d-%02d",
		req.BusinessID, req.ServiceID, req.Year, req.Month)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetMonthlyCalendar: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Проверяем существование бизнеса
	if _, err := uc.businessRepo.GetByID(ctx, req.BusinessID); err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("GetMonthlyCalendar: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("GetMonthlyCalendar: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 3. Получаем услугу и проверяем принадлежность и активность
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetMonthlyCalendar: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetMonthlyCalendar: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.BelongsTo(req.BusinessID) {
		uc.logger.Warn("GetMonthlyCalendar: service id=%d does not belong to business=%d", req.ServiceID, req.BusinessID)
		return nil, ErrServiceNotFound
	}
	if !service.IsActive {
		return nil, ErrServiceInactive
	}

	from := time.Date(req.Year, req.Month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	// 4. Недельное расписание бизнеса
	schedule, err := uc.hoursRepo.GetAllByBusiness(ctx, req.BusinessID)
	if err != nil {
		uc.logger.Error("GetMonthlyCalendar: failed to get schedule for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}
	hoursByDay := make(map[int]*domain.OpeningHours, len(schedule))
	for _, h := range schedule {
		hoursByDay[h.DayOfWeek] = h
	}

	// 5. Выходные месяца
	holidays, err := uc.holidayRepo.GetAllByMonth(ctx, req.BusinessID, from, to)
	if err != nil {
		uc.logger.Error("GetMonthlyCalendar: failed to get holidays for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get holidays: %v", ErrInternal, err)
	}
	holidaySet := make(map[time.Time]struct{}, len(holidays))
	for _, h := range holidays {
		holidaySet[h.Date.UTC().Truncate(24*time.Hour)] = struct{}{}
	}

	// 6. Подтверждённые бронирования услуги по дням за месяц
	counts, err := uc.bookingRepo.CountByDateInRange(ctx, req.BusinessID, req.ServiceID, from, to)
	if err != nil {
		uc.logger.Error("GetMonthlyCalendar: failed to count bookings for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to count bookings: %v", ErrInternal, err)
	}

	// 7. Собираем состояние каждого дня месяца
	days := make([]domain.DayAvailability, 0, to.Sub(from)/(24*time.Hour))
	for date := from; date.Before(to); date = date.AddDate(0, 0, 1) {
		_, isHoliday := holidaySet[date]
		days = append(days, calendar.DayAvailability(
			date,
			now,
			isHoliday,
			hoursByDay[calendar.DayOfWeek(date)],
			service.DurationMinutes,
			counts[date],
		))
	}

	uc.logger.Info("GetMonthlyCalendar: built calendar with %d days for business=%d, service=%d",
		len(days), req.BusinessID, req.ServiceID)

	return &Response{
		BusinessID: req.BusinessID,
		ServiceID:  req.ServiceID,
		Year:       req.Year,
		Month:      req.Month,
		Days:       days,
	}, nil
}
