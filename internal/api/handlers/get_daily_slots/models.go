package get_daily_slots

import (
	"time"

	"github.com/smartappt/booking-service/internal/domain"
	getDailySlots "github.com/smartappt/booking-service/internal/usecase/get_daily_slots"
)

// DailySlotsResponse HTTP response model
type DailySlotsResponse struct {
	BusinessID int64    `json:"businessId"`
	ServiceID  int64    `json:"serviceId"`
	Date       string   `json:"date"`
	IsOpen     bool     `json:"isOpen"`
	Slots      []string `json:"slots"` // Начала свободных слотов, RFC 3339
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getDailySlots.Response) *DailySlotsResponse {
	slots := make([]string, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		slots = append(slots, slot.Format(time.RFC3339))
	}

	return &DailySlotsResponse{
		BusinessID: resp.BusinessID,
		ServiceID:  resp.ServiceID,
		Date:       resp.Date.Format(domain.DateFormat),
		IsOpen:     resp.IsOpen,
		Slots:      slots,
	}
}
