package manage_business

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/smartappt/booking-service/internal/api/handlers"
	"github.com/smartappt/booking-service/internal/api/middleware"
	"github.com/smartappt/booking-service/internal/service/businessconfig"
	"github.com/smartappt/booking-service/internal/service/businessconfig/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBusinessID  = "некорректный ID бизнеса"
	msgInvalidServiceID   = "некорректный ID услуги"
	msgUnauthorized       = "пользователь не авторизован"
	msgBusinessNotFound   = "бизнес не найден"
	msgServiceNotFound    = "услуга не найдена"
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

// HandleCreateBusiness POST /api/v1/businesses
func (h *Handler) HandleCreateBusiness(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBusinessRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /businesses - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.CreateBusiness(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, "POST /businesses", err)
		return
	}

	h.logger.Info("POST /businesses - Business created: business_id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// HandleGetBusiness GET /api/v1/businesses/{businessId}
func (h *Handler) HandleGetBusiness(w http.ResponseWriter, r *http.Request) {
	businessID, ok := h.pathID(w, r, "businessId", msgInvalidBusinessID)
	if !ok {
		return
	}

	result, err := h.service.GetBusiness(r.Context(), businessID)
	if err != nil {
		h.respondServiceError(w, "GET /businesses/{businessId}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleUpdateBusiness PUT /api/v1/businesses/{businessId}
func (h *Handler) HandleUpdateBusiness(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	businessID, ok := h.pathID(w, r, "businessId", msgInvalidBusinessID)
	if !ok {
		return
	}

	var req models.UpdateBusinessRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /businesses/{businessId} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID

	result, err := h.service.UpdateBusiness(r.Context(), businessID, &req)
	if err != nil {
		h.respondServiceError(w, "PUT /businesses/{businessId}", err)
		return
	}

	h.logger.Info("PUT /businesses/{businessId} - Business updated: business_id=%d", businessID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleDeleteBusiness DELETE /api/v1/businesses/{businessId}
func (h *Handler) HandleDeleteBusiness(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	businessID, ok := h.pathID(w, r, "businessId", msgInvalidBusinessID)
	if !ok {
		return
	}

	if err := h.service.DeleteBusiness(r.Context(), businessID, userID); err != nil {
		h.respondServiceError(w, "DELETE /businesses/{businessId}", err)
		return
	}

	h.logger.Info("DELETE /businesses/{businessId} - Business deleted: business_id=%d", businessID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

// HandleCreateService POST /api/v1/businesses/{businessId}/services
func (h *Handler) HandleCreateService(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	businessID, ok := h.pathID(w, r, "businessId", msgInvalidBusinessID)
	if !ok {
		return
	}

	var req models.CreateServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /businesses/{businessId}/services - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID
	req.BusinessID = businessID

	result, err := h.service.CreateService(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, "POST /businesses/{businessId}/services", err)
		return
	}

	h.logger.Info("POST /businesses/{businessId}/services - Service created: business_id=%d, service_id=%d",
		businessID, result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}

// HandleGetService GET /api/v1/businesses/{businessId}/services/{serviceId}
func (h *Handler) HandleGetService(w http.ResponseWriter, r *http.Request) {
	businessID, ok := h.pathID(w, r, "businessId", msgInvalidBusinessID)
	if !ok {
		return
	}
	serviceID, ok := h.pathID(w, r, "serviceId", msgInvalidServiceID)
	if !ok {
		return
	}

	result, err := h.service.GetService(r.Context(), businessID, serviceID)
	if err != nil {
		h.respondServiceError(w, "GET /businesses/{businessId}/services/{serviceId}", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleListServices GET /api/v1/businesses/{businessId}/services
func (h *Handler) HandleListServices(w http.ResponseWriter, r *http.Request) {
	businessID, ok := h.pathID(w, r, "businessId", msgInvalidBusinessID)
	if !ok {
		return
	}

	result, err := h.service.ListServices(r.Context(), businessID)
	if err != nil {
		h.respondServiceError(w, "GET /businesses/{businessId}/services", err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleUpdateService PUT /api/v1/businesses/{businessId}/services/{serviceId}
func (h *Handler) HandleUpdateService(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	businessID, ok := h.pathID(w, r, "businessId", msgInvalidBusinessID)
	if !ok {
		return
	}
	serviceID, ok := h.pathID(w, r, "serviceId", msgInvalidServiceID)
	if !ok {
		return
	}

	var req models.UpdateServiceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /businesses/{businessId}/services/{serviceId} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID
	req.BusinessID = businessID
	req.ServiceID = serviceID

	result, err := h.service.UpdateService(r.Context(), &req)
	if err != nil {
		h.respondServiceError(w, "PUT /businesses/{businessId}/services/{serviceId}", err)
		return
	}

	h.logger.Info("PUT /businesses/{businessId}/services/{serviceId} - Service updated: business_id=%d, service_id=%d",
		businessID, serviceID)
	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleActivateService POST /api/v1/businesses/{businessId}/services/{serviceId}/activate
func (h *Handler) HandleActivateService(w http.ResponseWriter, r *http.Request) {
	h.setServiceActive(w, r, true)
}

// HandleDeactivateService POST /api/v1/businesses/{businessId}/services/{serviceId}/deactivate
func (h *Handler) HandleDeactivateService(w http.ResponseWriter, r *http.Request) {
	h.setServiceActive(w, r, false)
}

// HandleDeleteService DELETE /api/v1/businesses/{businessId}/services/{serviceId}
func (h *Handler) HandleDeleteService(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	businessID, ok := h.pathID(w, r, "businessId", msgInvalidBusinessID)
	if !ok {
		return
	}
	serviceID, ok := h.pathID(w, r, "serviceId", msgInvalidServiceID)
	if !ok {
		return
	}

	if err := h.service.DeleteService(r.Context(), businessID, serviceID, userID); err != nil {
		h.respondServiceError(w, "DELETE /businesses/{businessId}/services/{serviceId}", err)
		return
	}

	h.logger.Info("DELETE /businesses/{businessId}/services/{serviceId} - Service deleted: business_id=%d, service_id=%d",
		businessID, serviceID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) setServiceActive(w http.ResponseWriter, r *http.Request, active bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	businessID, ok := h.pathID(w, r, "businessId", msgInvalidBusinessID)
	if !ok {
		return
	}
	serviceID, ok := h.pathID(w, r, "serviceId", msgInvalidServiceID)
	if !ok {
		return
	}

	if err := h.service.SetServiceActive(r.Context(), businessID, serviceID, userID, active); err != nil {
		h.respondServiceError(w, "POST /businesses/{businessId}/services/{serviceId}/active", err)
		return
	}

	h.logger.Info("Service active flag changed: business_id=%d, service_id=%d, active=%t",
		businessID, serviceID, active)
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

	case errors.Is(err, businessconfig.ErrServiceNotFound):
		h.logger.Warn("%s - Service not found: %v", op, err)
		handlers.RespondNotFound(w, msgServiceNotFound)

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
