package get_monthly_calendar

import (
	"context"
	"time"

	"github.com/smartappt/booking-service/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	CountByDateInRange(ctx context.Context, businessID, serviceID int64, from, to time.Time) (map[time.Time]int, error)
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
	GetAllByBusiness(ctx context.Context, businessID int64) ([]*domain.OpeningHours, error)
}

// HolidayRepository интерфейс репозитория выходных дней
type HolidayRepository interface {
	GetAllByMonth(ctx context.Context, businessID int64, from, to time.Time) ([]*domain.Holiday, error)
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
