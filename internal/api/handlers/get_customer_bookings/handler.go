package get_customer_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/smartappt/booking-service/internal/api/handlers"
	"github.com/smartappt/booking-service/internal/api/middleware"
	"github.com/smartappt/booking-service/internal/service/bookings"
	"github.com/smartappt/booking-service/internal/service/bookings/models"
)

const (
	msgUnauthorized = "пользователь не авторизован"
	msgInvalidSkip  = "некорректный параметр skip"
	msgInvalidTake  = "некорректный параметр take"
	msgInvalidInput = "некорректные параметры запроса"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/customers/me/bookings?status=&skip=&take=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	query := r.URL.Query()

	var statusPtr *string
	if status := query.Get("status"); status != "" {
		statusPtr = &status
	}

	var skipPtr *int
	if raw := query.Get("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil {
			h.logger.Warn("GET /customers/me/bookings - Invalid skip: %v", err)
			handlers.RespondBadRequest(w, msgInvalidSkip)
			return
		}
		skipPtr = &skip
	}

	var takePtr *int
	if raw := query.Get("take"); raw != "" {
		take, err := strconv.Atoi(raw)
		if err != nil {
			h.logger.Warn("GET /customers/me/bookings - Invalid take: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTake)
			return
		}
		takePtr = &take
	}

	serviceReq := &models.GetCustomerBookingsRequest{
		CustomerID: customerID,
		Status:     statusPtr,
		Skip:       skipPtr,
		Take:       takePtr,
	}

	result, err := h.service.GetCustomerBookings(r.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("GET /customers/me/bookings - Invalid input: customer_id=%d, error=%v", customerID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}

		h.logger.Error("GET /customers/me/bookings - Failed to get bookings: customer_id=%d, error=%v",
			customerID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /customers/me/bookings - Bookings retrieved: customer_id=%d, count=%d",
		customerID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
