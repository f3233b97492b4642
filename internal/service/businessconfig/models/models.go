package models

import (
	"time"

	"github.com/smartappt/booking-service/internal/domain"
)

// Request модели

// CreateBusinessRequest запрос на регистрацию бизнеса
type CreateBusinessRequest struct {
	Name         string  `json:"name"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	TimeZoneIana *string `json:"timeZoneIana,omitempty"`
	SettingsJson *string `json:"settingsJson,omitempty"`
}

// UpdateBusinessRequest запрос на обновление данных бизнеса
type UpdateBusinessRequest struct {
	UserID       int64   `json:"userId"`
	Name         string  `json:"name"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	TimeZoneIana *string `json:"timeZoneIana,omitempty"`
	SettingsJson *string `json:"settingsJson,omitempty"`
}

// CreateServiceRequest запрос на создание услуги
type CreateServiceRequest struct {
	UserID          int64   `json:"userId"`
	BusinessID      int64   `json:"businessId"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
}

// UpdateServiceRequest запрос на обновление услуги
type UpdateServiceRequest struct {
	UserID          int64   `json:"userId"`
	BusinessID      int64   `json:"businessId"`
	ServiceID       int64   `json:"serviceId"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
	IsActive        bool    `json:"isActive"`
}

// SetHoursRequest запрос на создание или обновление часов работы дня недели
type SetHoursRequest struct {
	UserID     int64  `json:"userId"`
	BusinessID int64  `json:"businessId"`
	DayOfWeek  int    `json:"dayOfWeek"` // Monday=1 .. Sunday=7
	OpenTime   string `json:"openTime"`  // "HH:MM"
	CloseTime  string `json:"closeTime"` // "HH:MM"
}

// AddHolidayRequest запрос на добавление выходного дня
type AddHolidayRequest struct {
	UserID     int64   `json:"userId"`
	BusinessID int64   `json:"businessId"`
	Date       string  `json:"date"` // "YYYY-MM-DD"
	Reason     *string `json:"reason,omitempty"`
}

// Response модели

// BusinessResponse ответ с данными бизнеса
type BusinessResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        *string   `json:"email,omitempty"`
	Phone        *string   `json:"phone,omitempty"`
	TimeZoneIana *string   `json:"timeZoneIana,omitempty"`
	SettingsJson *string   `json:"settingsJson,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ServiceResponse ответ с данными услуги
type ServiceResponse struct {
	ID              int64     `json:"id"`
	BusinessID      int64     `json:"businessId"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"durationMinutes"`
	Price           float64   `json:"price"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ServiceListResponse ответ со списком услуг
type ServiceListResponse struct {
	Services []ServiceResponse `json:"services"`
}

// HoursResponse ответ с часами работы для дня недели
type HoursResponse struct {
	ID         int64  `json:"id"`
	BusinessID int64  `json:"businessId"`
	DayOfWeek  int    `json:"dayOfWeek"`
	OpenTime   string `json:"openTime"`
	CloseTime  string `json:"closeTime"`
}

// WeekScheduleResponse ответ с недельным расписанием
type WeekScheduleResponse struct {
	Schedule []HoursResponse `json:"schedule"`
}

// HolidayResponse ответ с выходным днём
type HolidayResponse struct {
	ID         int64   `json:"id"`
	BusinessID int64   `json:"businessId"`
	Date       string  `json:"date"`
	Reason     *string `json:"reason,omitempty"`
}

// HolidayListResponse ответ со списком выходных
type HolidayListResponse struct {
	Holidays []HolidayResponse `json:"holidays"`
}

// Методы конвертации

// FromDomainBusiness конвертирует domain модель в DTO
func FromDomainBusiness(b *domain.Business) *BusinessResponse {
	if b == nil {
		return nil
	}
	return &BusinessResponse{
		ID:           b.ID,
		Name:         b.Name,
		Email:        b.Email,
		Phone:        b.Phone,
		TimeZoneIana: b.TimeZoneIana,
		SettingsJson: b.SettingsJson,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

// FromDomainService конвертирует domain модель в DTO
func FromDomainService(s *domain.Service) *ServiceResponse {
	if s == nil {
		return nil
	}
	return &ServiceResponse{
		ID:              s.ID,
		BusinessID:      s.BusinessID,
		Name:            s.Name,
		DurationMinutes: s.DurationMinutes,
		Price:           s.Price,
		IsActive:        s.IsActive,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// FromDomainServiceList конвертирует список услуг в DTO
func FromDomainServiceList(services []*domain.Service) *ServiceListResponse {
	resp := &ServiceListResponse{Services: make([]ServiceResponse, 0, len(services))}
	for _, s := range services {
		if r := FromDomainService(s); r != nil {
			resp.Services = append(resp.Services, *r)
		}
	}
	return resp
}

// FromDomainHours конвертирует domain модель в DTO
func FromDomainHours(h *domain.OpeningHours) *HoursResponse {
	if h == nil {
		return nil
	}
	return &HoursResponse{
		ID:         h.ID,
		BusinessID: h.BusinessID,
		DayOfWeek:  h.DayOfWeek,
		OpenTime:   h.OpenTime.String(),
		CloseTime:  h.CloseTime.String(),
	}
}

// FromDomainSchedule конвертирует недельное расписание в DTO
func FromDomainSchedule(schedule []*domain.OpeningHours) *WeekScheduleResponse {
	resp := &WeekScheduleResponse{Schedule: make([]HoursResponse, 0, len(schedule))}
	for _, h := range schedule {
		if r := FromDomainHours(h); r != nil {
			resp.Schedule = append(resp.Schedule, *r)
		}
	}
	return resp
}

// FromDomainHoliday конвертирует domain модель в DTO
func FromDomainHoliday(h *domain.Holiday) *HolidayResponse {
	if h == nil {
		return nil
	}
	return &HolidayResponse{
		ID:         h.ID,
		BusinessID: h.BusinessID,
		Date:       h.Date.Format(domain.DateFormat),
		Reason:     h.Reason,
	}
}

// FromDomainHolidayList конвертирует список выходных в DTO
func FromDomainHolidayList(holidays []*domain.Holiday) *HolidayListResponse {
	resp := &HolidayListResponse{Holidays: make([]HolidayResponse, 0, len(holidays))}
	for _, h := range holidays {
		if r := FromDomainHoliday(h); r != nil {
			resp.Holidays = append(resp.Holidays, *r)
		}
	}
	return resp
}
