package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "Pending"
	StatusConfirmed BookingStatus = "Confirmed"
	StatusCancelled BookingStatus = "Cancelled"
)

// Booking represents a customer appointment for a business service.
// StartAt and EndAt are UTC instants; EndAt is always derived as
// StartAt plus the service duration and is never supplied by a client.
type Booking struct {
	ID         int64
	BusinessID int64
	ServiceID  int64
	CustomerID int64
	StartAt    time.Time
	EndAt      time.Time
	Status     BookingStatus
	Notes      *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPending returns true while the booking awaits business confirmation
func (b *Booking) IsPending() bool {
	return b.Status == StatusPending
}

// IsConfirmed returns true if the business has confirmed the booking
func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// BlocksSlot reports whether the booking occupies its slot.
// Only confirmed bookings remove a slot from the free-slot listing.
func (b *Booking) BlocksSlot() bool {
	return b.Status == StatusConfirmed
}

// BookingFilter фильтр выборки бронирований
type BookingFilter struct {
	BusinessID *int64         // Фильтр по бизнесу (опционально)
	ServiceID  *int64         // Фильтр по услуге (опционально)
	CustomerID *int64         // Фильтр по клиенту (опционально)
	Status     *BookingStatus // Фильтр по статусу (опционально)
	Date       *time.Time     // Бронирования, начинающиеся в этот календарный день UTC (опционально)
	Skip       *int           // Пагинация: смещение
	Take       *int           // Пагинация: размер страницы
}

// ValidStatus reports whether s is one of the known booking statuses
func ValidStatus(s BookingStatus) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	default:
		return false
	}
}
