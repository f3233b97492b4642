package manage_schedule

import (
	"context"
	"time"

	"github.com/smartappt/booking-service/internal/service/businessconfig/models"
)

type BusinessConfigService interface {
	CreateHours(ctx context.Context, req *models.SetHoursRequest) (*models.HoursResponse, error)
	UpdateHours(ctx context.Context, req *models.SetHoursRequest) (*models.HoursResponse, error)
	DeleteHours(ctx context.Context, businessID int64, dayOfWeek int, userID int64) error
	GetSchedule(ctx context.Context, businessID int64) (*models.WeekScheduleResponse, error)

	AddHoliday(ctx context.Context, req *models.AddHolidayRequest) (*models.HolidayResponse, error)
	DeleteHoliday(ctx context.Context, businessID, holidayID, userID int64) error
	ListHolidays(ctx context.Context, businessID int64, year int, month time.Month) (*models.HolidayListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
