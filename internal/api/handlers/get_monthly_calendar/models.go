package get_monthly_calendar

import (
	getMonthlyCalendar "github.com/smartappt/booking-service/internal/usecase/get_monthly_calendar"
)

// DayResponse состояние одного дня месяца
type DayResponse struct {
	Day          int  `json:"day"`
	IsOpen       bool `json:"isOpen"`
	HasFreeSlots bool `json:"hasFreeSlots"`
}

// MonthlyCalendarResponse HTTP response model
type MonthlyCalendarResponse struct {
	BusinessID int64         `json:"businessId"`
	ServiceID  int64         `json:"serviceId"`
	Year       int           `json:"year"`
	Month      int           `json:"month"`
	Days       []DayResponse `json:"days"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getMonthlyCalendar.Response) *MonthlyCalendarResponse {
	days := make([]DayResponse, 0, len(resp.Days))
	for _, day := range resp.Days {
		days = append(days, DayResponse{
			Day:          day.Day,
			IsOpen:       day.IsOpen,
			HasFreeSlots: day.HasFreeSlots,
		})
	}

	return &MonthlyCalendarResponse{
		BusinessID: resp.BusinessID,
		ServiceID:  resp.ServiceID,
		Year:       resp.Year,
		Month:      int(resp.Month),
		Days:       days,
	}
}
