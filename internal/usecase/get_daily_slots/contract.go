package get_daily_slots

import (
	"context"
	"time"

	"github.com/smartappt/booking-service/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetAllWithFilter(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
}

// BusinessRepository интерфейс репозитория бизнесов
type BusinessRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Business, error)
}

// ServiceRepository интерфейс репозитория услуг
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

// OpeningHoursRepository интерфейс репозитория часов работы
type OpeningHoursRepository interface {
	GetByBusinessAndDay(ctx context.Context, businessID int64, dayOfWeek int) (*domain.OpeningHours, error)
}

// HolidayRepository интерфейс репозитория выходных дней
type HolidayRepository interface {
	GetByBusinessAndDate(ctx context.Context, businessID int64, date time.Time) (*domain.Holiday, error)
}

// SlotCache интерфейс кеша слотов на день
type SlotCache interface {
	Get(ctx context.Context, businessID, serviceID int64, date time.Time) ([]time.Time, error)
	Set(ctx context.Context, businessID, serviceID int64, date time.Time, slots []time.Time) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}
