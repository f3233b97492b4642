package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smartappt/booking-service/internal/calendar"
	"github.com/smartappt/booking-service/internal/domain"
	bookingRepo "github.com/smartappt/booking-service/internal/infra/storage/booking"
	businessRepo "github.com/smartappt/booking-service/internal/infra/storage/business"
	customerRepo "github.com/smartappt/booking-service/internal/infra/storage/customer"
	holidayRepo "github.com/smartappt/booking-service/internal/infra/storage/holiday"
	hoursRepo "github.com/smartappt/booking-service/internal/infra/storage/openinghours"
	serviceRepo "github.com/smartappt/booking-service/internal/infra/storage/service"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	businessRepo BusinessRepository
	serviceRepo  ServiceRepository
	customerRepo CustomerRepository
	hoursRepo    OpeningHoursRepository
	holidayRepo  HolidayRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	businessRepo BusinessRepository,
	serviceRepo ServiceRepository,
	customerRepo CustomerRepository,
	hoursRepo OpeningHoursRepository,
	holidayRepo HolidayRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		businessRepo: businessRepo,
		serviceRepo:  serviceRepo,
		customerRepo: customerRepo,
		hoursRepo:    hoursRepo,
		holidayRepo:  holidayRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания бронирования
// Использует сериализуемую транзакцию для предотвращения гонки данных
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%d, business=%d, service=%d, startAt=%s",
		req.CustomerID, req.BusinessID, req.ServiceID, req.StartAt.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Нормализуем начало слота: UTC, без долей секунды
	now := uc.timeProvider.Now()
	start := req.StartAt.UTC().Truncate(time.Second)

	// 3. Начало должно быть строго в будущем
	if !start.After(now) {
		uc.logger.Warn("CreateBooking: start %s is not in the future", start.Format(time.RFC3339))
		return nil, ErrStartInPast
	}

	// 4. Проверяем существование клиента
	if _, err := uc.customerRepo.GetByID(ctx, req.CustomerID); err != nil {
		if errors.Is(err, customerRepo.ErrCustomerNotFound) {
			uc.logger.Warn("CreateBooking: customer id=%d not found", req.CustomerID)
			return nil, ErrCustomerNotFound
		}
		uc.logger.Error("CreateBooking: failed to get customer id=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: failed to get customer: %v", ErrInternal, err)
	}

	// 5. Проверяем существование бизнеса
	if _, err := uc.businessRepo.GetByID(ctx, req.BusinessID); err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			uc.logger.Warn("CreateBooking: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateBooking: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 6. Получаем услугу и проверяем принадлежность бизнесу
	service, err := uc.serviceRepo.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.BelongsTo(req.BusinessID) {
		uc.logger.Warn("CreateBooking: service id=%d does not belong to business=%d", req.ServiceID, req.BusinessID)
		return nil, ErrServiceNotFound
	}

	// 7. Услуга должна быть доступна для бронирования
	if !service.IsActive {
		uc.logger.Warn("CreateBooking: service id=%d is not active", req.ServiceID)
		return nil, ErrServiceInactive
	}

	// 8. Конец слота всегда вычисляется из длительности услуги
	end := start.Add(time.Duration(service.DurationMinutes) * time.Minute)

	var result *domain.Booking

	// 9. Выполняем проверки расписания и создание в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 9.1. Находим рабочее окно, которому принадлежит начало слота
		winStart, winEnd, err := uc.resolveWindow(txCtx, req.BusinessID, start)
		if err != nil {
			return err
		}

		// 9.2. Бронирование целиком внутри рабочего окна
		if !calendar.FitsWindow(start, end, winStart, winEnd) {
			uc.logger.Warn("CreateBooking: booking [%s, %s) does not fit window [%s, %s)",
				start.Format(time.RFC3339), end.Format(time.RFC3339),
				winStart.Format(time.RFC3339), winEnd.Format(time.RFC3339))
			return ErrOutsideHours
		}

		// 9.3. Начало на сетке слотов услуги
		if !calendar.IsSlotAligned(start, winStart, service.DurationMinutes) {
			uc.logger.Warn("CreateBooking: start %s is not aligned to %d-minute grid",
				start.Format(time.RFC3339), service.DurationMinutes)
			return ErrInvalidTimeSlot
		}

		day := start.Truncate(24 * time.Hour)

		// 9.4. У клиента не больше одного бронирования услуги в день
		// (учитываются и отменённые - FOR UPDATE внутри транзакции)
		existing, err := uc.bookingRepo.GetAllWithFilter(txCtx, domain.BookingFilter{
			BusinessID: &req.BusinessID,
			ServiceID:  &req.ServiceID,
			CustomerID: &req.CustomerID,
			Date:       &day,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check duplicates: %v", err)
			return fmt.Errorf("%w: failed to check duplicates: %v", ErrInternal, err)
		}
		if len(existing) > 0 {
			uc.logger.Warn("CreateBooking: customer=%d already has booking for service=%d on %s",
				req.CustomerID, req.ServiceID, day.Format(domain.DateFormat))
			return ErrDuplicateBooking
		}

		// 9.5. Слот не должен быть занят подтверждённым бронированием
		confirmedStatus := domain.StatusConfirmed
		confirmed, err := uc.bookingRepo.GetAllWithFilter(txCtx, domain.BookingFilter{
			BusinessID: &req.BusinessID,
			ServiceID:  &req.ServiceID,
			Status:     &confirmedStatus,
			Date:       &day,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to check slot conflicts: %v", err)
			return fmt.Errorf("%w: failed to check slot conflicts: %v", ErrInternal, err)
		}
		if hasConfirmedAtStart(confirmed, start) {
			uc.logger.Warn("CreateBooking: slot %s is taken by a confirmed booking", start.Format(time.RFC3339))
			return ErrSlotNotAvailable
		}

		// 9.6. Создаем бронирование в статусе ожидания подтверждения
		booking := &domain.Booking{
			BusinessID: req.BusinessID,
			ServiceID:  req.ServiceID,
			CustomerID: req.CustomerID,
			StartAt:    start,
			EndAt:      end,
			Status:     domain.StatusPending,
			Notes:      req.Notes,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	return &Response{
		ID:         result.ID,
		BusinessID: result.BusinessID,
		ServiceID:  result.ServiceID,
		CustomerID: result.CustomerID,
		StartAt:    result.StartAt,
		EndAt:      result.EndAt,
		Status:     string(result.Status),
		Notes:      result.Notes,
		CreatedAt:  result.CreatedAt,
		UpdatedAt:  result.UpdatedAt,
	}, nil
}

// resolveWindow находит рабочее окно, содержащее начало слота.
// Сначала проверяется окно собственного дня, затем ночная смена
// предыдущего дня (окно с переходом через полночь).
func (uc *UseCase) resolveWindow(ctx context.Context, businessID int64, start time.Time) (time.Time, time.Time, error) {
	day := start.Truncate(24 * time.Hour)

	// Выходной день бизнеса закрывает и его рабочее окно
	if holiday, err := uc.isHoliday(ctx, businessID, day); err != nil {
		return time.Time{}, time.Time{}, err
	} else if holiday {
		uc.logger.Warn("CreateBooking: business=%d has holiday on %s", businessID, day.Format(domain.DateFormat))
		return time.Time{}, time.Time{}, ErrBusinessClosed
	}

	ownHours := false

	for _, windowDay := range []time.Time{day, day.AddDate(0, 0, -1)} {
		hours, err := uc.hoursRepo.GetByBusinessAndDay(ctx, businessID, calendar.DayOfWeek(windowDay))
		if err != nil {
			if errors.Is(err, hoursRepo.ErrHoursNotFound) {
				continue
			}
			uc.logger.Error("CreateBooking: failed to get hours for business=%d: %v", businessID, err)
			return time.Time{}, time.Time{}, fmt.Errorf("%w: failed to get opening hours: %v", ErrInternal, err)
		}

		winStart, winEnd, err := calendar.ResolveWindow(windowDay, hours.OpenTime, hours.CloseTime)
		if err != nil {
			uc.logger.Error("CreateBooking: invalid hours for business=%d day=%d: %v", businessID, hours.DayOfWeek, err)
			return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid opening hours: %v", ErrInternal, err)
		}

		if windowDay.Equal(day) {
			ownHours = true
		} else {
			// Ночная смена учитывается только если её день не выходной
			if holiday, err := uc.isHoliday(ctx, businessID, windowDay); err != nil {
				return time.Time{}, time.Time{}, err
			} else if holiday {
				continue
			}
		}

		if !start.Before(winStart) && start.Before(winEnd) {
			return winStart, winEnd, nil
		}
	}

	if ownHours {
		// Часы на этот день есть, но начало вне окна
		return time.Time{}, time.Time{}, ErrOutsideHours
	}

	uc.logger.Warn("CreateBooking: business=%d has no opening hours covering %s", businessID, start.Format(time.RFC3339))
	return time.Time{}, time.Time{}, ErrBusinessClosed
}

func (uc *UseCase) isHoliday(ctx context.Context, businessID int64, day time.Time) (bool, error) {
	_, err := uc.holidayRepo.GetByBusinessAndDate(ctx, businessID, day)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, holidayRepo.ErrHolidayNotFound) {
		return false, nil
	}
	uc.logger.Error("CreateBooking: failed to check holiday for business=%d: %v", businessID, err)
	return false, fmt.Errorf("%w: failed to check holiday: %v", ErrInternal, err)
}
