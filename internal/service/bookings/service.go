package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smartappt/booking-service/internal/calendar"
	"github.com/smartappt/booking-service/internal/domain"
	bookingRepo "github.com/smartappt/booking-service/internal/infra/storage/booking"
	hoursRepo "github.com/smartappt/booking-service/internal/infra/storage/openinghours"
	"github.com/smartappt/booking-service/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo BookingRepository
	hoursRepo   OpeningHoursRepository
	slotCache   SlotCache
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	hoursRepo OpeningHoursRepository,
	slotCache SlotCache,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		hoursRepo:   hoursRepo,
		slotCache:   slotCache,
		txManager:   txManager,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Проверяет права доступа - бронирование видит его клиент или бизнес
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if booking.CustomerID != userID && booking.BusinessID != userID {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetCustomerBookings получает историю бронирований клиента
// Опционально фильтрует по статусу; skip/take валидируются, а не нормализуются
func (s *Service) GetCustomerBookings(ctx context.Context, req *models.GetCustomerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetCustomerBookings: fetching bookings for customer=%d, status=%v", req.CustomerID, req.Status)

	if req.Skip != nil && *req.Skip < 0 {
		s.logger.Warn("GetCustomerBookings: invalid skip=%d for customer=%d", *req.Skip, req.CustomerID)
		return nil, fmt.Errorf("%w: skip must be non-negative", ErrInvalidInput)
	}
	if req.Take != nil && (*req.Take < 1 || *req.Take > domain.MaxPageSize) {
		s.logger.Warn("GetCustomerBookings: invalid take=%d for customer=%d", *req.Take, req.CustomerID)
		return nil, fmt.Errorf("%w: take must be between 1 and %d", ErrInvalidInput, domain.MaxPageSize)
	}

	filter := domain.BookingFilter{
		CustomerID: &req.CustomerID,
		Skip:       req.Skip,
		Take:       req.Take,
	}

	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerBookings: invalid status=%s for customer=%d", *req.Status, req.CustomerID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	bookings, err := s.bookingRepo.GetAllWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetCustomerBookings: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetCustomerBookings: successfully fetched %d bookings for customer=%d", len(bookings), req.CustomerID)
	return models.FromDomainBookingList(bookings), nil
}

// GetBusinessBookings получает бронирования бизнеса
// Без даты - постраничный список всех бронирований; с датой - бронирования
// рабочего дня, границы которого берутся из часов работы (включая ночные смены).
// Некорректные page/size нормализуются, а не отклоняются.
func (s *Service) GetBusinessBookings(ctx context.Context, req *models.GetBusinessBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetBusinessBookings: fetching bookings for business=%d, user=%d, date=%v", req.BusinessID, req.UserID, req.Date)

	if req.UserID != req.BusinessID {
		s.logger.Warn("GetBusinessBookings: access denied for user=%d to business=%d", req.UserID, req.BusinessID)
		return nil, ErrAccessDenied
	}

	page, size := normalizePage(req.Page, req.Size)

	var bookings []*domain.Booking
	var err error

	if req.Date != nil {
		from, to := s.resolveBusinessDay(ctx, req.BusinessID, *req.Date)
		bookings, err = s.bookingRepo.GetByRange(ctx, req.BusinessID, from, to, page, size)
	} else {
		skip := (page - 1) * size
		filter := domain.BookingFilter{
			BusinessID: &req.BusinessID,
			Skip:       &skip,
			Take:       &size,
		}
		if req.Status != nil {
			status, convErr := models.ToDomainBookingStatus(*req.Status)
			if convErr != nil {
				s.logger.Warn("GetBusinessBookings: invalid status=%s for business=%d", *req.Status, req.BusinessID)
				return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
			}
			filter.Status = &status
		}
		bookings, err = s.bookingRepo.GetAllWithFilter(ctx, filter)
	}

	if err != nil {
		s.logger.Error("GetBusinessBookings: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: GetBusinessBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBusinessBookings: successfully fetched %d bookings for business=%d", len(bookings), req.BusinessID)
	return models.FromDomainBookingList(bookings), nil
}

// Confirm подтверждает бронирование от имени бизнеса.
// Все остальные ожидающие бронирования на тот же слот отменяются в той же
// транзакции - слот достаётся ровно одному клиенту.
func (s *Service) Confirm(ctx context.Context, bookingID int64, userID int64) error {
	s.logger.Info("Confirm: confirming booking id=%d by user=%d", bookingID, userID)

	var confirmed *domain.Booking

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		booking, err := s.getBooking(ctx, "Confirm", bookingID)
		if err != nil {
			return err
		}

		if booking.BusinessID != userID {
			s.logger.Warn("Confirm: access denied for user=%d to booking id=%d", userID, bookingID)
			return ErrAccessDenied
		}

		if booking.IsConfirmed() {
			return ErrAlreadyConfirmed
		}
		if booking.IsCancelled() {
			return ErrAlreadyCancelled
		}

		// Отменяем конкурирующие ожидающие бронирования на тот же слот
		day := booking.StartAt.UTC().Truncate(24 * time.Hour)
		pendingStatus := domain.StatusPending
		competitors, err := s.bookingRepo.GetAllWithFilter(ctx, domain.BookingFilter{
			BusinessID: &booking.BusinessID,
			ServiceID:  &booking.ServiceID,
			Status:     &pendingStatus,
			Date:       &day,
		})
		if err != nil {
			s.logger.Error("Confirm: failed to list competing bookings for id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Confirm - repository error: %v", ErrInternal, err)
		}

		for _, competitor := range competitors {
			if competitor.ID == booking.ID || !competitor.StartAt.Equal(booking.StartAt) {
				continue
			}
			if err := s.bookingRepo.SetStatus(ctx, competitor.ID, domain.StatusCancelled); err != nil {
				s.logger.Error("Confirm: failed to cancel competing booking id=%d: %v", competitor.ID, err)
				return fmt.Errorf("%w: Confirm - repository error: %v", ErrInternal, err)
			}
			s.logger.Info("Confirm: cancelled competing booking id=%d for slot %s", competitor.ID, booking.StartAt)
		}

		if err := s.bookingRepo.SetStatus(ctx, booking.ID, domain.StatusConfirmed); err != nil {
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				return ErrSlotConflict
			}
			s.logger.Error("Confirm: failed to confirm booking id=%d: %v", bookingID, err)
			return fmt.Errorf("%w: Confirm - repository error: %v", ErrInternal, err)
		}

		confirmed = booking
		return nil
	})

	if err != nil {
		return err
	}

	s.invalidateSlots(ctx, confirmed)
	s.logger.Info("Confirm: successfully confirmed booking id=%d", bookingID)
	return nil
}

// CancelByBusiness отменяет ожидающее бронирование от имени бизнеса.
// Подтверждённое или уже отменённое бронирование отменить нельзя.
func (s *Service) CancelByBusiness(ctx context.Context, bookingID int64, userID int64) error {
	s.logger.Info("CancelByBusiness: cancelling booking id=%d by user=%d", bookingID, userID)

	booking, err := s.getBooking(ctx, "CancelByBusiness", bookingID)
	if err != nil {
		return err
	}

	if booking.BusinessID != userID {
		s.logger.Warn("CancelByBusiness: access denied for user=%d to booking id=%d", userID, bookingID)
		return ErrAccessDenied
	}

	if booking.IsConfirmed() {
		return ErrAlreadyConfirmed
	}
	if booking.IsCancelled() {
		return ErrAlreadyCancelled
	}

	if err := s.setCancelled(ctx, "CancelByBusiness", bookingID); err != nil {
		return err
	}

	s.logger.Info("CancelByBusiness: successfully cancelled booking id=%d", bookingID)
	return nil
}

// CancelByCustomer отменяет бронирование от имени клиента-владельца.
// Клиент может отменить и подтверждённое бронирование - слот освобождается.
func (s *Service) CancelByCustomer(ctx context.Context, bookingID int64, userID int64) error {
	s.logger.Info("CancelByCustomer: cancelling booking id=%d by user=%d", bookingID, userID)

	booking, err := s.getBooking(ctx, "CancelByCustomer", bookingID)
	if err != nil {
		return err
	}

	if booking.CustomerID != userID {
		s.logger.Warn("CancelByCustomer: access denied for user=%d to booking id=%d", userID, bookingID)
		return ErrAccessDenied
	}

	if booking.IsCancelled() {
		return ErrAlreadyCancelled
	}

	wasBlocking := booking.BlocksSlot()

	if err := s.setCancelled(ctx, "CancelByCustomer", bookingID); err != nil {
		return err
	}

	if wasBlocking {
		s.invalidateSlots(ctx, booking)
	}

	s.logger.Info("CancelByCustomer: successfully cancelled booking id=%d", bookingID)
	return nil
}

// DeleteByCustomer физически удаляет бронирование клиента-владельца
func (s *Service) DeleteByCustomer(ctx context.Context, bookingID int64, userID int64) error {
	s.logger.Info("DeleteByCustomer: deleting booking id=%d by user=%d", bookingID, userID)

	booking, err := s.getBooking(ctx, "DeleteByCustomer", bookingID)
	if err != nil {
		return err
	}

	if booking.CustomerID != userID {
		s.logger.Warn("DeleteByCustomer: access denied for user=%d to booking id=%d", userID, bookingID)
		return ErrAccessDenied
	}

	wasBlocking := booking.BlocksSlot()

	if err := s.bookingRepo.Delete(ctx, bookingID); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("DeleteByCustomer: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: DeleteByCustomer - repository error: %v", ErrInternal, err)
	}

	if wasBlocking {
		s.invalidateSlots(ctx, booking)
	}

	s.logger.Info("DeleteByCustomer: successfully deleted booking id=%d", bookingID)
	return nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

func (s *Service) setCancelled(ctx context.Context, op string, id int64) error {
	if err := s.bookingRepo.SetStatus(ctx, id, domain.StatusCancelled); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return nil
}

// resolveBusinessDay возвращает границы рабочего дня бизнеса для даты.
// Если часов работы на этот день недели нет, используется календарный день UTC.
func (s *Service) resolveBusinessDay(ctx context.Context, businessID int64, date time.Time) (time.Time, time.Time) {
	day := date.UTC().Truncate(24 * time.Hour)

	hours, err := s.hoursRepo.GetByBusinessAndDay(ctx, businessID, calendar.DayOfWeek(day))
	if err != nil {
		if !errors.Is(err, hoursRepo.ErrHoursNotFound) {
			s.logger.Warn("resolveBusinessDay: failed to load hours for business=%d: %v", businessID, err)
		}
		return day, day.AddDate(0, 0, 1)
	}

	from, to, err := calendar.ResolveWindow(day, hours.OpenTime, hours.CloseTime)
	if err != nil {
		s.logger.Warn("resolveBusinessDay: invalid hours for business=%d day=%d: %v", businessID, hours.DayOfWeek, err)
		return day, day.AddDate(0, 0, 1)
	}

	return from, to
}

// invalidateSlots сбрасывает кеш слотов на день бронирования.
// Ошибка кеша не фатальна - запись истечёт по TTL.
func (s *Service) invalidateSlots(ctx context.Context, booking *domain.Booking) {
	if s.slotCache == nil || booking == nil {
		return
	}

	day := booking.StartAt.UTC().Truncate(24 * time.Hour)
	if err := s.slotCache.Invalidate(ctx, booking.BusinessID, booking.ServiceID, day); err != nil {
		s.logger.Warn("invalidateSlots: failed to invalidate cache for booking id=%d: %v", booking.ID, err)
	}
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = domain.DefaultPageSize
	}
	if size > domain.MaxPageSize {
		size = domain.MaxPageSize
	}
	return page, size
}
