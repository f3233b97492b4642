package bookings

import (
	"context"
	"time"

	"github.com/smartappt/booking-service/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetAllWithFilter(ctx context.Context, filter domain.BookingFilter) ([]*domain.Booking, error)
	GetByRange(ctx context.Context, businessID int64, from, to time.Time, page, size int) ([]*domain.Booking, error)
	SetStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	Delete(ctx context.Context, id int64) error
}

// OpeningHoursRepository интерфейс репозитория часов работы
type OpeningHoursRepository interface {
	GetByBusinessAndDay(ctx context.Context, businessID int64, dayOfWeek int) (*domain.OpeningHours, error)
}

// SlotCache интерфейс инвалидации кеша свободных слотов
type SlotCache interface {
	Invalidate(ctx context.Context, businessID, serviceID int64, date time.Time) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
