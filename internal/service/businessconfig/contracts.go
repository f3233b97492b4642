package businessconfig

import (
	"context"
	"time"

	"github.com/smartappt/booking-service/internal/domain"
)

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	Create(ctx context.Context, business *domain.Business) (*domain.Business, error)
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
	Update(ctx context.Context, business *domain.Business) error
	Delete(ctx context.Context, id int64) error
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	Create(ctx context.Context, svc *domain.Service) (*domain.Service, error)
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	GetAllByBusiness(ctx context.Context, businessID int64) ([]*domain.Service, error)
	Update(ctx context.Context, svc *domain.Service) error
	SetActive(ctx context.Context, id int64, active bool) error
	Delete(ctx context.Context, id int64) error
}

// OpeningHoursRepository интерфейс репозитория часов работы
type OpeningHoursRepository interface {
	Create(ctx context.Context, hours *domain.OpeningHours) (*domain.OpeningHours, error)
	GetByBusinessAndDay(ctx context.Context, businessID int64, dayOfWeek int) (*domain.OpeningHours, error)
	GetAllByBusiness(ctx context.Context, businessID int64) ([]*domain.OpeningHours, error)
	Update(ctx context.Context, hours *domain.OpeningHours) error
	DeleteByBusinessAndDay(ctx context.Context, businessID int64, dayOfWeek int) error
}

// HolidayRepository интерфейс репозитория выходных дней
type HolidayRepository interface {
	Create(ctx context.Context, holiday *domain.Holiday) (*domain.Holiday, error)
	GetByID(ctx context.Context, id int64) (*domain.Holiday, error)
	GetAllByMonth(ctx context.Context, businessID int64, from, to time.Time) ([]*domain.Holiday, error)
	Delete(ctx context.Context, id int64) error
}

// SlotCache интерфейс инвалидации кеша свободных слотов
type SlotCache interface {
	InvalidateBusiness(ctx context.Context, businessID int64) error
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реализация TimeProvider на системных часах
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
