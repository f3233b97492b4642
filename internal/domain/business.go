package domain

import "time"

// Business is the root aggregate. Services, opening hours, holidays and
// bookings are always owned by a business.
type Business struct {
	ID           int64
	Name         string
	Email        *string
	Phone        *string
	TimeZoneIana *string // IANA timezone name, stored as-is
	SettingsJson *string // free-form settings blob, stored verbatim

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Service is a bookable offering of a business
type Service struct {
	ID              int64
	BusinessID      int64
	Name            string
	DurationMinutes int
	Price           float64
	IsActive        bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BelongsTo reports whether the service is owned by the given business
func (s *Service) BelongsTo(businessID int64) bool {
	return s.BusinessID == businessID
}

// Customer is the booking actor on the client side
type Customer struct {
	ID    int64
	Name  string
	Email *string
	Phone *string

	CreatedAt time.Time
}
