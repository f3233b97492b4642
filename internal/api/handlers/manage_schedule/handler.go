package manage_schedule

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/smartappt/booking-service/internal/api/handlers"
	"github.com/smartappt/booking-service/internal/api/middleware"
	"github.com/smartappt/booking-service/internal/service/businessconfig"
	"github.com/smartappt/booking-service/internal/service/businessconfig/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgInvalidDayOfWeek   = "некорректный день недели, ожидается 1-7"
	msgInvalidHolidayID   = "некорректный ID выходного дня"
	msgInvalidYear        = "некорректный параметр year"
	msgInvalidMonth       = "некорректный параметр month"
	msgUnauthorized       = "пользователь не авторизован"
	msgBusinessNotFound   = "бизнес не найден"
	msgHoursNotFound      = "часы работы для этого дня не найдены"
	msgHoursConflict      = "часы работы для этого дня уже заданы"
	msgHolidayNotFound    = "выходной день не найден"
	msgHolidayExists      = "выходной на эту дату уже задан"
	msgAccessDenied       = "нет доступа к этому бизнесу"
	msgInvalidInput       = "некорректные входные данные"
)

type Handler struct {
	service BusinessConfigService
	logger  Logger
}

func NewHandler(service BusinessConfigService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// HandleGetSchedule GET /api/v1/businesses/{businessId}/schedule
func (h *Handler) HandleGetSchedule(w http.ResponseWriter, r *http.Request) {
	businessID, ok := h.pathID(w, r, "businessId", msgInvalidBusinessID)
	if !ok {
		return
	}

	result, err := h.service.GetSchedule(r.Context(), businessID)
	if err != nil {
		h.respondServiceError(w, "GET /businesses/{businessId}/schedule", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleCreateHours POST /api/v1/businesses/{businessId}/schedule
func (h *Handler) HandleCreateHours(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	businessID, ok := h.pathID(w, r, "businessId", msgInvalidBusinessID)
	if !ok {
		return
	}

	var req models.SetHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /businesses/{businessId}/schedule - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID
	req.BusinessID = businessID

	result, err := h.service.CreateHours(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, "POST /businesses/{businessId}/schedule", err)
		return
	}

	h.logger.Info("POST /businesses/{businessId}/schedule - Hours created: business_id=%d, day_of_week=%d",
		businessID, result.DayOfWeek)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// HandleUpdateHours PUT /api/v1/businesses/{businessId}/schedule/{dayOfWeek}
func (h *Handler) HandleUpdateHours(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	businessID, ok := h.pathID(w, r, "businessId", msgInvalidBusinessID)
	if !ok {
		return
	}

	dayOfWeek, err := strconv.Atoi(mux.Vars(r)["dayOfWeek"])
	if err != nil {
		h.logger.Warn("PUT /businesses/{businessId}/schedule/{dayOfWeek} - Invalid day of week: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDayOfWeek)
		return
	}

	var req models.SetHoursRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /businesses/{businessId}/schedule/{dayOfWeek} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID
	req.BusinessID = businessID
	req.DayOfWeek = dayOfWeek

	result, err := h.service.UpdateHours(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, "PUT /businesses/{businessId}/schedule/{dayOfWeek}", err)
		return
	}

	h.logger.Info("PUT /businesses/{businessId}/schedule/{dayOfWeek} - Hours updated: business_id=%d, day_of_week=%d",
		businessID, dayOfWeek)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleDeleteHours DELETE /api/v1/businesses/{businessId}/schedule/{dayOfWeek}
func (h *Handler) HandleDeleteHours(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	businessID, ok := h.pathID(w, r, "businessId", msgInvalidBusinessID)
	if !ok {
		return
	}

	dayOfWeek, err := strconv.Atoi(mux.Vars(r)["dayOfWeek"])
	if err != nil {
		h.logger.Warn("DELETE /businesses/{businessId}/schedule/{dayOfWeek} - Invalid day of week: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDayOfWeek)
		return
	}

	if err := h.service.DeleteHours(r.Context(), businessID, dayOfWeek, userID); err != nil {
		h.respondServiceError(w, "DELETE /businesses/{businessId}/schedule/{dayOfWeek}", err)
		return
	}

	h.logger.Info("DELETE /businesses/{businessId}/schedule/{dayOfWeek} - Hours deleted: business_id=%d, day_of_week=%d",
		businessID, dayOfWeek)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

// HandleListHolidays GET /api/v1/businesses/{businessId}/holidays?year=&month=
func (h *Handler) HandleListHolidays(w http.ResponseWriter, r *http.Request) {
	businessID, ok := h.pathID(w, r, "businessId", msgInvalidBusinessID)
	if !ok {
		return
	}

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		h.logger.Warn("GET /businesses/{businessId}/holidays - Invalid year: %v", err)
		handlers.RespondBadRequest(w, msgInvalidYear)
		return
	}

	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		h.logger.Warn("GET /businesses/{businessId}/holidays - Invalid month: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMonth)
		return
	}

	result, err := h.service.ListHolidays(r.Context(), businessID, year, time.Month(month))
	if err != nil {
		h.respondServiceError(w, "GET /businesses/{businessId}/holidays", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleAddHoliday POST /api/v1/businesses/{businessId}/holidays
func (h *Handler) HandleAddHoliday(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	businessID, ok := h.pathID(w, r, "businessId", msgInvalidBusinessID)
	if !ok {
		return
	}

	var req models.AddHolidayRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /businesses/{businessId}/holidays - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID
	req.BusinessID = businessID

	result, err := h.service.AddHoliday(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, "POST /businesses/{businessId}/holidays", err)
		return
	}

	h.logger.Info("POST /businesses/{businessId}/holidays - Holiday added: business_id=%d, holiday_id=%d",
		businessID, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// HandleDeleteHoliday DELETE /api/v1/businesses/{businessId}/holidays/{holidayId}
func (h *Handler) HandleDeleteHoliday(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	businessID, ok := h.pathID(w, r, "businessId", msgInvalidBusinessID)
	if !ok {
		return
	}
	holidayID, ok := h.pathID(w, r, "holidayId", msgInvalidHolidayID)
	if !ok {
		return
	}

	if err := h.service.DeleteHoliday(r.Context(), businessID, holidayID, userID); err != nil {
		h.respondServiceError(w, "DELETE /businesses/{businessId}/holidays/{holidayId}", err)
		return
	}

	h.logger.Info("DELETE /businesses/{businessId}/holidays/{holidayId} - Holiday deleted: business_id=%d, holiday_id=%d",
		businessID, holidayID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name, msg string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		h.logger.Warn("Invalid path parameter %s: %v", name, err)
		handlers.RespondBadRequest(w, msg)
		return 0, false
	}
	return id, true
}

func (h *Handler) respondServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, businessconfig.ErrBusinessNotFound):
		h.logger.Warn("%s - Business not found: %v", op, err)
		handlers.RespondNotFound(w, msgBusinessNotFound)

	case errors.Is(err, businessconfig.ErrHoursNotFound):
		h.logger.Warn("%s - Hours not found: %v", op, err)
		handlers.RespondNotFound(w, msgHoursNotFound)

	case errors.Is(err, businessconfig.ErrHoursConflict):
		h.logger.Warn("%s - Hours conflict: %v", op, err)
		handlers.RespondError(w, http.StatusConflict, msgHoursConflict)

	case errors.Is(err, businessconfig.ErrHolidayNotFound):
		h.logger.Warn("%s - Holiday not found: %v", op, err)
		handlers.RespondNotFound(w, msgHolidayNotFound)

	case errors.Is(err, businessconfig.ErrHolidayExists):
		h.logger.Warn("%s - Holiday exists: %v", op, err)
		handlers.RespondError(w, http.StatusConflict, msgHolidayExists)

	case errors.Is(err, businessconfig.ErrAccessDenied):
		h.logger.Warn("%s - Access denied: %v", op, err)
		handlers.RespondForbidden(w, msgAccessDenied)

	case errors.Is(err, businessconfig.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", op, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	default:
		h.logger.Error("%s - Operation failed: %v", op, err)
		handlers.RespondInternalError(w)
	}
}
