package businessconfig

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/smartappt/booking-service/internal/domain"
	businessRepo "github.com/smartappt/booking-service/internal/infra/storage/business"
	holidayRepo "github.com/smartappt/booking-service/internal/infra/storage/holiday"
	hoursRepo "github.com/smartappt/booking-service/internal/infra/storage/openinghours"
	serviceRepo "github.com/smartappt/booking-service/internal/infra/storage/service"
	"github.com/smartappt/booking-service/internal/service/businessconfig/models"
	"github.com/smartappt/booking-service/pkg/types"
)

// Service сервис управления конфигурацией бизнеса:
// профиль, услуги, недельное расписание и выходные дни
type Service struct {
	businessRepo BusinessRepository
	serviceRepo  ServiceRepository
	hoursRepo    OpeningHoursRepository
	holidayRepo  HolidayRepository
	slotCache    SlotCache
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса конфигурации бизнеса
func NewService(
	businessRepo BusinessRepository,
	serviceRepo ServiceRepository,
	hoursRepo OpeningHoursRepository,
	holidayRepo HolidayRepository,
	slotCache SlotCache,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		businessRepo: businessRepo,
		serviceRepo:  serviceRepo,
		hoursRepo:    hoursRepo,
		holidayRepo:  holidayRepo,
		slotCache:    slotCache,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Бизнес

// CreateBusiness регистрирует новый бизнес
func (s *Service) CreateBusiness(ctx context.Context, req *models.CreateBusinessRequest) (*models.BusinessResponse, error) {
	s.logger.Info("CreateBusiness: creating business name=%s", req.Name)

	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	business := &domain.Business{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		TimeZoneIana: req.TimeZoneIana,
		SettingsJson: req.SettingsJson,
	}

	created, err := s.businessRepo.Create(ctx, business)
	if err != nil {
		s.logger.Error("CreateBusiness: repository error: %v", err)
		return nil, fmt.Errorf("%w: CreateBusiness - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateBusiness: successfully created business id=%d", created.ID)
	return models.FromDomainBusiness(created), nil
}

// GetBusiness получает бизнес по ID
func (s *Service) GetBusiness(ctx context.Context, id int64) (*models.BusinessResponse, error) {
	business, err := s.getBusiness(ctx, "GetBusiness", id)
	if err != nil {
		return nil, err
	}
	return models.FromDomainBusiness(business), nil
}

// UpdateBusiness обновляет профиль бизнеса
// Доступно только самому бизнесу
func (s *Service) UpdateBusiness(ctx context.Context, businessID int64, req *models.UpdateBusinessRequest) (*models.BusinessResponse, error) {
	s.logger.Info("UpdateBusiness: updating business id=%d by user=%d", businessID, req.UserID)

	if err := s.checkBusinessAccess(businessID, req.UserID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	business, err := s.getBusiness(ctx, "UpdateBusiness", businessID)
	if err != nil {
		return nil, err
	}

	business.Name = req.Name
	business.Email = req.Email
	business.Phone = req.Phone
	business.TimeZoneIana = req.TimeZoneIana
	business.SettingsJson = req.SettingsJson

	if err := s.businessRepo.Update(ctx, business); err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("UpdateBusiness: repository error for business id=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: UpdateBusiness - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateBusiness: successfully updated business id=%d", businessID)
	return models.FromDomainBusiness(business), nil
}

// DeleteBusiness удаляет бизнес вместе со всеми связанными данными (каскад в БД)
func (s *Service) DeleteBusiness(ctx context.Context, businessID, userID int64) error {
	s.logger.Info("DeleteBusiness: deleting business id=%d by user=%d", businessID, userID)

	if err := s.checkBusinessAccess(businessID, userID); err != nil {
		return err
	}

	if err := s.businessRepo.Delete(ctx, businessID); err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			return ErrBusinessNotFound
		}
		s.logger.Error("DeleteBusiness: repository error for business id=%d: %v", businessID, err)
		return fmt.Errorf("%w: DeleteBusiness - repository error: %v", ErrInternal, err)
	}

	s.invalidateBusinessSlots(ctx, businessID)
	s.logger.Info("DeleteBusiness: successfully deleted business id=%d", businessID)
	return nil
}

// Услуги

// CreateService создает услугу бизнеса
func (s *Service) CreateService(ctx context.Context, req *models.CreateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("CreateService: creating service for business=%d by user=%d", req.BusinessID, req.UserID)

	if err := s.checkBusinessAccess(req.BusinessID, req.UserID); err != nil {
		return nil, err
	}
	if err := validateService(req.Name, req.DurationMinutes, req.Price); err != nil {
		return nil, err
	}

	if _, err := s.getBusiness(ctx, "CreateService", req.BusinessID); err != nil {
		return nil, err
	}

	svc := &domain.Service{
		BusinessID:      req.BusinessID,
		Name:            req.Name,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		IsActive:        true,
	}

	created, err := s.serviceRepo.Create(ctx, svc)
	if err != nil {
		s.logger.Error("CreateService: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: CreateService - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("CreateService: successfully created service id=%d for business=%d", created.ID, req.BusinessID)
	return models.FromDomainService(created), nil
}

// GetService получает услугу бизнеса
func (s *Service) GetService(ctx context.Context, businessID, serviceID int64) (*models.ServiceResponse, error) {
	svc, err := s.getBusinessService(ctx, "GetService", businessID, serviceID)
	if err != nil {
		return nil, err
	}
	return models.FromDomainService(svc), nil
}

// ListServices получает все услуги бизнеса
func (s *Service) ListServices(ctx context.Context, businessID int64) (*models.ServiceListResponse, error) {
	services, err := s.serviceRepo.GetAllByBusiness(ctx, businessID)
	if err != nil {
		s.logger.Error("ListServices: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: ListServices - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainServiceList(services), nil
}

// UpdateService обновляет услугу бизнеса
func (s *Service) UpdateService(ctx context.Context, req *models.UpdateServiceRequest) (*models.ServiceResponse, error) {
	s.logger.Info("UpdateService: updating service id=%d for business=%d", req.ServiceID, req.BusinessID)

	if err := s.checkBusinessAccess(req.BusinessID, req.UserID); err != nil {
		return nil, err
	}
	if err := validateService(req.Name, req.DurationMinutes, req.Price); err != nil {
		return nil, err
	}

	svc, err := s.getBusinessService(ctx, "UpdateService", req.BusinessID, req.ServiceID)
	if err != nil {
		return nil, err
	}

	svc.Name = req.Name
	svc.DurationMinutes = req.DurationMinutes
	svc.Price = req.Price
	svc.IsActive = req.IsActive

	if err := s.serviceRepo.Update(ctx, svc); err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			return nil, ErrServiceNotFound
		}
		s.logger.Error("UpdateService: repository error for service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: UpdateService - repository error: %v", ErrInternal, err)
	}

	// Смена длительности меняет сетку слотов
	s.invalidateBusinessSlots(ctx, req.BusinessID)

	s.logger.Info("UpdateService: successfully updated service id=%d", req.ServiceID)
	return models.FromDomainService(svc), nil
}

// SetServiceActive переключает доступность услуги для бронирования
func (s *Service) SetServiceActive(ctx context.Context, businessID, serviceID, userID int64, active bool) error {
	s.logger.Info("SetServiceActive: setting service id=%d active=%t for business=%d", serviceID, active, businessID)

	if err := s.checkBusinessAccess(businessID, userID); err != nil {
		return err
	}

	if _, err := s.getBusinessService(ctx, "SetServiceActive", businessID, serviceID); err != nil {
		return err
	}

	if err := s.serviceRepo.SetActive(ctx, serviceID, active); err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			return ErrServiceNotFound
		}
		s.logger.Error("SetServiceActive: repository error for service id=%d: %v", serviceID, err)
		return fmt.Errorf("%w: SetServiceActive - repository error: %v", ErrInternal, err)
	}

	return nil
}

// DeleteService удаляет услугу бизнеса
func (s *Service) DeleteService(ctx context.Context, businessID, serviceID, userID int64) error {
	s.logger.Info("DeleteService: deleting service id=%d for business=%d", serviceID, businessID)

	if err := s.checkBusinessAccess(businessID, userID); err != nil {
		return err
	}

	if _, err := s.getBusinessService(ctx, "DeleteService", businessID, serviceID); err != nil {
		return err
	}

	if err := s.serviceRepo.Delete(ctx, serviceID); err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			return ErrServiceNotFound
		}
		s.logger.Error("DeleteService: repository error for service id=%d: %v", serviceID, err)
		return fmt.Errorf("%w: DeleteService - repository error: %v", ErrInternal, err)
	}

	s.invalidateBusinessSlots(ctx, businessID)
	s.logger.Info("DeleteService: successfully deleted service id=%d", serviceID)
	return nil
}

// Часы работы

// CreateHours задает часы работы для дня недели
// Повторное создание для того же дня отклоняется - используется UpdateHours
func (s *Service) CreateHours(ctx context.Context, req *models.SetHoursRequest) (*models.HoursResponse, error) {
	s.logger.Info("CreateHours: creating hours for business=%d day=%d", req.BusinessID, req.DayOfWeek)

	if err := s.checkBusinessAccess(req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	hours, err := s.buildHours(req)
	if err != nil {
		return nil, err
	}

	created, err := s.hoursRepo.Create(ctx, hours)
	if err != nil {
		if errors.Is(err, hoursRepo.ErrHoursExist) {
			return nil, ErrHoursConflict
		}
		s.logger.Error("CreateHours: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: CreateHours - repository error: %v", ErrInternal, err)
	}

	s.invalidateBusinessSlots(ctx, req.BusinessID)
	s.logger.Info("CreateHours: successfully created hours id=%d for business=%d day=%d", created.ID, req.BusinessID, req.DayOfWeek)
	return models.FromDomainHours(created), nil
}

// UpdateHours обновляет часы работы дня недели
func (s *Service) UpdateHours(ctx context.Context, req *models.SetHoursRequest) (*models.HoursResponse, error) {
	s.logger.Info("UpdateHours: updating hours for business=%d day=%d", req.BusinessID, req.DayOfWeek)

	if err := s.checkBusinessAccess(req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	hours, err := s.buildHours(req)
	if err != nil {
		return nil, err
	}

	if err := s.hoursRepo.Update(ctx, hours); err != nil {
		if errors.Is(err, hoursRepo.ErrHoursNotFound) {
			return nil, ErrHoursNotFound
		}
		s.logger.Error("UpdateHours: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: UpdateHours - repository error: %v", ErrInternal, err)
	}

	s.invalidateBusinessSlots(ctx, req.BusinessID)
	s.logger.Info("UpdateHours: successfully updated hours for business=%d day=%d", req.BusinessID, req.DayOfWeek)
	return models.FromDomainHours(hours), nil
}

// DeleteHours удаляет часы работы дня недели - бизнес закрыт в этот день
func (s *Service) DeleteHours(ctx context.Context, businessID int64, dayOfWeek int, userID int64) error {
	s.logger.Info("DeleteHours: deleting hours for business=%d day=%d", businessID, dayOfWeek)

	if err := s.checkBusinessAccess(businessID, userID); err != nil {
		return err
	}
	if dayOfWeek < 1 || dayOfWeek > 7 {
		return fmt.Errorf("%w: day of week must be between 1 and 7", ErrInvalidInput)
	}

	if err := s.hoursRepo.DeleteByBusinessAndDay(ctx, businessID, dayOfWeek); err != nil {
		if errors.Is(err, hoursRepo.ErrHoursNotFound) {
			return ErrHoursNotFound
		}
		s.logger.Error("DeleteHours: repository error for business=%d: %v", businessID, err)
		return fmt.Errorf("%w: DeleteHours - repository error: %v", ErrInternal, err)
	}

	s.invalidateBusinessSlots(ctx, businessID)
	s.logger.Info("DeleteHours: successfully deleted hours for business=%d day=%d", businessID, dayOfWeek)
	return nil
}

// GetSchedule получает недельное расписание бизнеса
func (s *Service) GetSchedule(ctx context.Context, businessID int64) (*models.WeekScheduleResponse, error) {
	schedule, err := s.hoursRepo.GetAllByBusiness(ctx, businessID)
	if err != nil {
		s.logger.Error("GetSchedule: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainSchedule(schedule), nil
}

// Выходные дни

// AddHoliday добавляет выходной день
// Выходной можно объявить только на будущую дату
func (s *Service) AddHoliday(ctx context.Context, req *models.AddHolidayRequest) (*models.HolidayResponse, error) {
	s.logger.Info("AddHoliday: adding holiday for business=%d date=%s", req.BusinessID, req.Date)

	if err := s.checkBusinessAccess(req.BusinessID, req.UserID); err != nil {
		return nil, err
	}

	date, err := time.ParseInLocation(domain.DateFormat, req.Date, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be in YYYY-MM-DD format", ErrInvalidInput)
	}

	now := s.timeProvider.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !date.After(today) {
		return nil, fmt.Errorf("%w: holiday date must be in the future", ErrInvalidInput)
	}

	holiday := &domain.Holiday{
		BusinessID: req.BusinessID,
		Date:       date,
		Reason:     req.Reason,
	}

	created, err := s.holidayRepo.Create(ctx, holiday)
	if err != nil {
		if errors.Is(err, holidayRepo.ErrHolidayExists) {
			return nil, ErrHolidayExists
		}
		s.logger.Error("AddHoliday: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: AddHoliday - repository error: %v", ErrInternal, err)
	}

	s.invalidateBusinessSlots(ctx, req.BusinessID)
	s.logger.Info("AddHoliday: successfully added holiday id=%d for business=%d", created.ID, req.BusinessID)
	return models.FromDomainHoliday(created), nil
}

// DeleteHoliday удаляет выходной день бизнеса
func (s *Service) DeleteHoliday(ctx context.Context, businessID, holidayID, userID int64) error {
	s.logger.Info("DeleteHoliday: deleting holiday id=%d for business=%d", holidayID, businessID)

	if err := s.checkBusinessAccess(businessID, userID); err != nil {
		return err
	}

	holiday, err := s.holidayRepo.GetByID(ctx, holidayID)
	if err != nil {
		if errors.Is(err, holidayRepo.ErrHolidayNotFound) {
			return ErrHolidayNotFound
		}
		s.logger.Error("DeleteHoliday: repository error for holiday id=%d: %v", holidayID, err)
		return fmt.Errorf("%w: DeleteHoliday - repository error: %v", ErrInternal, err)
	}

	// Чужой выходной не раскрываем
	if holiday.BusinessID != businessID {
		return ErrHolidayNotFound
	}

	if err := s.holidayRepo.Delete(ctx, holidayID); err != nil {
		if errors.Is(err, holidayRepo.ErrHolidayNotFound) {
			return ErrHolidayNotFound
		}
		s.logger.Error("DeleteHoliday: repository error for holiday id=%d: %v", holidayID, err)
		return fmt.Errorf("%w: DeleteHoliday - repository error: %v", ErrInternal, err)
	}

	s.invalidateBusinessSlots(ctx, businessID)
	s.logger.Info("DeleteHoliday: successfully deleted holiday id=%d", holidayID)
	return nil
}

// ListHolidays получает выходные бизнеса за месяц
func (s *Service) ListHolidays(ctx context.Context, businessID int64, year int, month time.Month) (*models.HolidayListResponse, error) {
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	holidays, err := s.holidayRepo.GetAllByMonth(ctx, businessID, from, to)
	if err != nil {
		s.logger.Error("ListHolidays: repository error for business=%d: %v", businessID, err)
		return nil, fmt.Errorf("%w: ListHolidays - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainHolidayList(holidays), nil
}

// Вспомогательные методы

func (s *Service) checkBusinessAccess(businessID, userID int64) error {
	if businessID != userID {
		s.logger.Warn("checkBusinessAccess: user=%d is not business=%d", userID, businessID)
		return ErrAccessDenied
	}
	return nil
}

func (s *Service) getBusiness(ctx context.Context, op string, id int64) (*domain.Business, error) {
	business, err := s.businessRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, businessRepo.ErrBusinessNotFound) {
			s.logger.Warn("%s: business id=%d not found", op, id)
			return nil, ErrBusinessNotFound
		}
		s.logger.Error("%s: repository error for business id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return business, nil
}

// getBusinessService получает услугу и проверяет, что она принадлежит бизнесу
func (s *Service) getBusinessService(ctx context.Context, op string, businessID, serviceID int64) (*domain.Service, error) {
	svc, err := s.serviceRepo.GetByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, serviceRepo.ErrServiceNotFound) {
			s.logger.Warn("%s: service id=%d not found", op, serviceID)
			return nil, ErrServiceNotFound
		}
		s.logger.Error("%s: repository error for service id=%d: %v", op, serviceID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	if !svc.BelongsTo(businessID) {
		s.logger.Warn("%s: service id=%d does not belong to business=%d", op, serviceID, businessID)
		return nil, ErrServiceNotFound
	}

	return svc, nil
}

// buildHours валидирует запрос и собирает domain модель часов работы
func (s *Service) buildHours(req *models.SetHoursRequest) (*domain.OpeningHours, error) {
	if req.DayOfWeek < 1 || req.DayOfWeek > 7 {
		return nil, fmt.Errorf("%w: day of week must be between 1 and 7", ErrInvalidInput)
	}

	open, err := types.NewTimeStringFromString(req.OpenTime)
	if err != nil {
		return nil, fmt.Errorf("%w: open time must be in HH:MM format", ErrInvalidInput)
	}
	close, err := types.NewTimeStringFromString(req.CloseTime)
	if err != nil {
		return nil, fmt.Errorf("%w: close time must be in HH:MM format", ErrInvalidInput)
	}

	if minutes, err := openWindowMinutes(open, close); err != nil {
		return nil, fmt.Errorf("%w: invalid opening hours", ErrInvalidInput)
	} else if minutes < domain.MinOpenWindowMinutes {
		return nil, fmt.Errorf("%w: open window must be at least %d minutes", ErrInvalidInput, domain.MinOpenWindowMinutes)
	}

	return &domain.OpeningHours{
		BusinessID: req.BusinessID,
		DayOfWeek:  req.DayOfWeek,
		OpenTime:   open,
		CloseTime:  close,
	}, nil
}

// openWindowMinutes считает длину рабочего окна в минутах.
// Совпадающие времена - круглосуточный день; закрытие раньше открытия -
// ночная смена с переходом через полночь.
func openWindowMinutes(open, close types.TimeString) (int, error) {
	openMin, err := open.Minutes()
	if err != nil {
		return 0, err
	}
	closeMin, err := close.Minutes()
	if err != nil {
		return 0, err
	}

	switch {
	case closeMin == openMin:
		return 24 * 60, nil
	case closeMin > openMin:
		return closeMin - openMin, nil
	default:
		return closeMin + 24*60 - openMin, nil
	}
}

// validateService проверяет параметры услуги
func validateService(name string, durationMinutes int, price float64) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: service name must not be empty", ErrInvalidInput)
	}
	if durationMinutes < domain.MinServiceDurationMinutes {
		return fmt.Errorf("%w: duration must be at least %d minutes", ErrInvalidInput, domain.MinServiceDurationMinutes)
	}
	if price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	return nil
}

func (s *Service) invalidateBusinessSlots(ctx context.Context, businessID int64) {
	if s.slotCache == nil {
		return
	}
	if err := s.slotCache.InvalidateBusiness(ctx, businessID); err != nil {
		s.logger.Warn("invalidateBusinessSlots: failed to invalidate cache for business=%d: %v", businessID, err)
	}
}
