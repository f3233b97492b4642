package get_monthly_calendar

import (
	"time"

	"github.com/smartappt/booking-service/internal/domain"
)

// Request модель запроса месячного календаря доступности
type Request struct {
	BusinessID int64      // ID бизнеса
	ServiceID  int64      // ID услуги
	Year       int        // Год
	Month      time.Month // Месяц
}

// Response модель ответа с календарём на месяц
type Response struct {
	BusinessID int64                    // ID бизнеса
	ServiceID  int64                    // ID услуги
	Year       int                      // Год
	Month      time.Month               // Месяц
	Days       []domain.DayAvailability // Состояние каждого дня месяца, по порядку
}
