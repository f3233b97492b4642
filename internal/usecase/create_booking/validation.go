package create_booking

import (
	"fmt"
	"time"

	"github.com/smartappt/booking-service/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: startAt is required", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// hasConfirmedAtStart проверяет, есть ли подтверждённое бронирование
// ровно на этот момент начала
func hasConfirmedAtStart(bookings []*domain.Booking, start time.Time) bool {
	for _, b := range bookings {
		if b.BlocksSlot() && b.StartAt.Equal(start) {
			return true
		}
	}
	return false
}
