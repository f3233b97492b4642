package get_monthly_calendar

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/smartappt/booking-service/internal/api/handlers"
	getMonthlyCalendar "github.com/smartappt/booking-service/internal/usecase/get_monthly_calendar"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgInvalidServiceID  = "некорректный ID услуги"
	msgInvalidYear       = "некорректный параметр year"
	msgInvalidMonth      = "некорректный параметр month"
	msgBusinessNotFound  = "бизнес не найден"
	msgServiceNotFound   = "услуга не найдена"
	msgServiceInactive   = "услуга недоступна для бронирования"
	msgInvalidInput      = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetMonthlyCalendarUseCase
	logger  Logger
}

func NewHandler(useCase GetMonthlyCalendarUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/services/{serviceId}/calendar?year=&month=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	businessID, err := strconv.ParseInt(vars["businessId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET .../calendar - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	serviceID, err := strconv.ParseInt(vars["serviceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET .../calendar - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		h.logger.Warn("GET .../calendar - Invalid year: %v", err)
		handlers.RespondBadRequest(w, msgInvalidYear)
		return
	}

	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		h.logger.Warn("GET .../calendar - Invalid month: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMonth)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getMonthlyCalendar.Request{
		BusinessID: businessID,
		ServiceID:  serviceID,
		Year:       year,
		Month:      time.Month(month),
	})
	if err != nil {
		switch {
		case errors.Is(err, getMonthlyCalendar.ErrBusinessNotFound):
			h.logger.Warn("GET .../calendar - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)

		case errors.Is(err, getMonthlyCalendar.ErrServiceNotFound):
			h.logger.Warn("GET .../calendar - Service not found: business_id=%d, service_id=%d", businessID, serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getMonthlyCalendar.ErrServiceInactive):
			h.logger.Warn("GET .../calendar - Service inactive: business_id=%d, service_id=%d", businessID, serviceID)
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, getMonthlyCalendar.ErrInvalidInput):
			h.logger.Warn("GET .../calendar - Invalid input: business_id=%d, error=%v", businessID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("GET .../calendar - Failed to get calendar: business_id=%d, service_id=%d, error=%v",
				businessID, serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET .../calendar - Calendar retrieved: business_id=%d, service_id=%d, year=%d, month=%d",
		businessID, serviceID, year, month)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
