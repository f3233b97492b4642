package models

import (
	"errors"
	"time"

	"github.com/smartappt/booking-service/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// GetCustomerBookingsRequest запрос на получение истории бронирований клиента
type GetCustomerBookingsRequest struct {
	CustomerID int64   `json:"customerId"`
	Status     *string `json:"status,omitempty"` // Фильтр по статусу (опционально)
	Skip       *int    `json:"skip,omitempty"`   // Пагинация: смещение
	Take       *int    `json:"take,omitempty"`   // Пагинация: размер страницы
}

// GetBusinessBookingsRequest запрос на получение бронирований бизнеса
type GetBusinessBookingsRequest struct {
	BusinessID int64      `json:"businessId"`
	UserID     int64      `json:"userId"`
	Date       *time.Time `json:"date,omitempty"`   // Бронирования одного рабочего дня (опционально)
	Status     *string    `json:"status,omitempty"` // Фильтр по статусу (опционально)
	Page       int        `json:"page"`
	Size       int        `json:"size"`
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID         int64   `json:"id"`
	BusinessID int64   `json:"businessId"`
	ServiceID  int64   `json:"serviceId"`
	CustomerID int64   `json:"customerId"`
	StartAt    string  `json:"startAt"` // ISO 8601, UTC
	EndAt      string  `json:"endAt"`   // ISO 8601, UTC
	Status     string  `json:"status"`
	Notes      *string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:         b.ID,
		BusinessID: b.BusinessID,
		ServiceID:  b.ServiceID,
		CustomerID: b.CustomerID,
		StartAt:    b.StartAt.UTC().Format(time.RFC3339),
		EndAt:      b.EndAt.UTC().Format(time.RFC3339),
		Status:     string(b.Status),
		Notes:      b.Notes,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !domain.ValidStatus(s) {
		return "", ErrInvalidStatus
	}
	return s, nil
}
