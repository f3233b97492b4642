package get_monthly_calendar

import (
	"context"

	getMonthlyCalendar "github.com/smartappt/booking-service/internal/usecase/get_monthly_calendar"
)

type GetMonthlyCalendarUseCase interface {
	Execute(ctx context.Context, req *getMonthlyCalendar.Request) (*getMonthlyCalendar.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
