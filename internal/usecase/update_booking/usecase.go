package update_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smartappt/booking-service/internal/calendar"
	"github.com/smartappt/booking-service/internal/domain"
	bookingRepo "github.com/smartappt/booking-service/internal/infra/storage/booking"
	holidayRepo "github.com/smartappt/booking-service/internal/infra/storage/holiday"
	hoursRepo "github.com/smartappt/booking-service/internal/infra/storage/openinghours"
	serviceRepo "github.com/smartappt/booking-service/internal/infra/storage/service"
)

// UseCase use case для переноса бронирования клиентом.
// Перенос проходит те же проверки расписания, что и создание,
// но само бронирование исключается из проверок конфликтов.
type UseCase struct {
	bookingRepo  BookingRepository
	serviceRepo  ServiceRepository
	hoursRepo    OpeningHoursRepository
	holidayRepo  HolidayRepository
	slotCache    SlotCache
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	serviceRepo ServiceRepository,
	hoursRepo OpeningHoursRepository,
	holidayRepo HolidayRepository,
	slotCache SlotCache,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		serviceRepo:  serviceRepo,
		hoursRepo:    hoursRepo,
		holidayRepo:  holidayRepo,
		slotCache:    slotCache,
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

// Execute выполняет use case переноса бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateBooking: booking=%d, customer=%d, startAt=%s",
		req.BookingID, req.CustomerID, req.StartAt.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Нормализуем новое начало слота
	now := uc.timeProvider.Now()
	start := req.StartAt.UTC().Truncate(time.Second)

	// 3. Новое начало должно быть строго в будущем
	if !start.After(now) {
		uc.logger.Warn("UpdateBooking: start %s is not in the future", start.Format(time.RFC3339))
		return nil, ErrStartInPast
	}

	var result *domain.Booking
	var oldDay time.Time
	var wasBlocking bool

	// 4. Выполняем проверки и перенос в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Получаем бронирование и проверяем владельца
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("UpdateBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("UpdateBooking: failed to get booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		if booking.CustomerID != req.CustomerID {
			uc.logger.Warn("UpdateBooking: access denied for customer=%d to booking id=%d", req.CustomerID, req.BookingID)
			return ErrAccessDenied
		}

		if booking.IsCancelled() {
			return ErrAlreadyCancelled
		}

		oldDay = booking.StartAt.UTC().Truncate(24 * time.Hour)
		wasBlocking = booking.BlocksSlot()

		// 4.2. Услуга должна существовать и быть активной
		service, err := uc.serviceRepo.GetByID(txCtx, booking.ServiceID)
		if err != nil {
			if errors.Is(err, serviceRepo.ErrServiceNotFound) {
				uc.logger.Warn("UpdateBooking: service id=%d not found", booking.ServiceID)
				return ErrServiceNotFound
			}
			uc.logger.Error("UpdateBooking: failed to get service id=%d: %v", booking.ServiceID, err)
			return fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
		}
		if !service.IsActive {
			return ErrServiceInactive
		}

		end := start.Add(time.Duration(service.DurationMinutes) * time.Minute)

		// 4.3. Рабочее окно, попадание в него и выравнивание по сетке
		winStart, winEnd, err := uc.resolveWindow(txCtx, booking.BusinessID, start)
		if err != nil {
			return err
		}
		if !calendar.FitsWindow(start, end, winStart, winEnd) {
			return ErrOutsideHours
		}
		if !calendar.IsSlotAligned(start, winStart, service.DurationMinutes) {
			return ErrInvalidTimeSlot
		}

		day := start.Truncate(24 * time.Hour)

		// 4.4. Дубликат на день, исключая само бронирование
		existing, err := uc.bookingRepo.GetAllWithFilter(txCtx, domain.BookingFilter{
			BusinessID: &booking.BusinessID,
			ServiceID:  &booking.ServiceID,
			CustomerID: &booking.CustomerID,
			Date:       &day,
		})
		if err != nil {
			uc.logger.Error("UpdateBooking: failed to check duplicates: %v", err)
			return fmt.Errorf("%w: failed to check duplicates: %v", ErrInternal, err)
		}
		for _, other := range existing {
			if other.ID != booking.ID {
				uc.logger.Warn("UpdateBooking: customer=%d already has booking id=%d on %s",
					booking.CustomerID, other.ID, day.Format(domain.DateFormat))
				return ErrDuplicateBooking
			}
		}

		// 4.5. Конфликт подтверждённых на новый момент начала, исключая себя
		confirmedStatus := domain.StatusConfirmed
		confirmed, err := uc.bookingRepo.GetAllWithFilter(txCtx, domain.BookingFilter{
			BusinessID: &booking.BusinessID,
			ServiceID:  &booking.ServiceID,
			Status:     &confirmedStatus,
			Date:       &day,
		})
		if err != nil {
			uc.logger.Error("UpdateBooking: failed to check slot conflicts: %v", err)
			return fmt.Errorf("%w: failed to check slot conflicts: %v", ErrInternal, err)
		}
		for _, other := range confirmed {
			if other.ID != booking.ID && other.StartAt.Equal(start) {
				uc.logger.Warn("UpdateBooking: slot %s is taken by confirmed booking id=%d",
					start.Format(time.RFC3339), other.ID)
				return ErrSlotNotAvailable
			}
		}

		// 4.6. Переносим бронирование
		booking.StartAt = start
		booking.EndAt = end
		if req.Notes != nil {
			booking.Notes = req.Notes
		}

		if err := uc.bookingRepo.Update(txCtx, booking); err != nil {
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				return ErrSlotNotAvailable
			}
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("UpdateBooking: failed to update booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
		}

		result = booking
		return nil
	})

	if err != nil {
		return nil, err
	}

	// Перенос подтверждённого бронирования меняет занятость слотов
	if wasBlocking {
		uc.invalidateSlots(ctx, result, oldDay)
	}

	uc.logger.Info("UpdateBooking: successfully moved booking id=%d to %s",
		result.ID, result.StartAt.Format(time.RFC3339))

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

// resolveWindow находит рабочее окно, содержащее новое начало слота.
// Логика совпадает с созданием: окно собственного дня, затем
// ночная смена предыдущего дня.
func (uc *UseCase) resolveWindow(ctx context.Context, businessID int64, start time.Time) (time.Time, time.Time, error) {
	day := start.Truncate(24 * time.Hour)

	if holiday, err := uc.isHoliday(ctx, businessID, day); err != nil {
		return time.Time{}, time.Time{}, err
	} else if holiday {
		return time.Time{}, time.Time{}, ErrBusinessClosed
	}

	ownHours := false

	for _, windowDay := range []time.Time{day, day.AddDate(0, 0, -1)} {
		hours, err := uc.hoursRepo.GetByBusinessAndDay(ctx, businessID, calendar.DayOfWeek(windowDay))
		if err != nil {
			if errors.Is(err, hoursRepo.ErrHoursNotFound) {
				continue
			}
			uc.logger.Error("UpdateBooking: failed to get hours for business=%d: %v", businessID, err)
			return time.Time{}, time.Time{}, fmt.Errorf("%w: failed to get opening hours: %v", ErrInternal, err)
		}

		winStart, winEnd, err := calendar.ResolveWindow(windowDay, hours.OpenTime, hours.CloseTime)
		if err != nil {
			uc.logger.Error("UpdateBooking: invalid hours for business=%d day=%d: %v", businessID, hours.DayOfWeek, err)
			return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid opening hours: %v", ErrInternal, err)
		}

		if windowDay.Equal(day) {
			ownHours = true
		} else {
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
		return time.Time{}, time.Time{}, ErrOutsideHours
	}
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
	uc.logger.Error("UpdateBooking: failed to check holiday for business=%d: %v", businessID, err)
	return false, fmt.Errorf("%w: failed to check holiday: %v", ErrInternal, err)
}

// invalidateSlots сбрасывает кеш слотов старого и нового дня
func (uc *UseCase) invalidateSlots(ctx context.Context, booking *domain.Booking, oldDay time.Time) {
	if uc.slotCache == nil || booking == nil {
		return
	}

	newDay := booking.StartAt.UTC().Truncate(24 * time.Hour)
	for _, day := range []time.Time{oldDay, newDay} {
		if err := uc.slotCache.Invalidate(ctx, booking.BusinessID, booking.ServiceID, day); err != nil {
			uc.logger.Warn("UpdateBooking: failed to invalidate cache for booking id=%d: %v", booking.ID, err)
		}
		if oldDay.Equal(newDay) {
			break
		}
	}
}
