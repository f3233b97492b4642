package cancel_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/smartappt/booking-service/internal/api/handlers"
	"github.com/smartappt/booking-service/internal/api/middleware"
	"github.com/smartappt/booking-service/internal/service/bookings"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgUnauthorized     = "пользователь не авторизован"
	msgBookingNotFound  = "бронирование не найдено"
	msgAccessDenied     = "нет доступа к этому бронированию"
	msgAlreadyCancelled = "бронирование уже отменено"
	msgAlreadyConfirmed = "подтверждённое бронирование нельзя отклонить"
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

// HandleCustomer POST /api/v1/bookings/{bookingId}/cancel
// Отмена собственного бронирования клиентом.
func (h *Handler) HandleCustomer(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{bookingId}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	if err := h.service.CancelByCustomer(r.Context(), bookingID, userID); err != nil {
		h.respondServiceError(w, "POST /bookings/{bookingId}/cancel", bookingID, userID, err)
		return
	}

	h.logger.Info("POST /bookings/{bookingId}/cancel - Booking cancelled: booking_id=%d, customer_id=%d",
		bookingID, userID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

// HandleBusiness POST /api/v1/bookings/{bookingId}/reject
// Отклонение ожидающего бронирования бизнесом.
func (h *Handler) HandleBusiness(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{bookingId}/reject - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	if err := h.service.CancelByBusiness(r.Context(), bookingID, userID); err != nil {
		h.respondServiceError(w, "POST /bookings/{bookingId}/reject", bookingID, userID, err)
		return
	}

	h.logger.Info("POST /bookings/{bookingId}/reject - Booking rejected: booking_id=%d, business_id=%d",
		bookingID, userID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, op string, bookingID, userID int64, err error) {
	switch {
	case errors.Is(err, bookings.ErrBookingNotFound):
		h.logger.Warn("%s - Booking not found: booking_id=%d", op, bookingID)
		handlers.RespondNotFound(w, msgBookingNotFound)

	case errors.Is(err, bookings.ErrAccessDenied):
		h.logger.Warn("%s - Access denied: booking_id=%d, user_id=%d", op, bookingID, userID)
		handlers.RespondForbidden(w, msgAccessDenied)

	case errors.Is(err, bookings.ErrAlreadyCancelled):
		h.logger.Warn("%s - Already cancelled: booking_id=%d", op, bookingID)
		handlers.RespondError(w, http.StatusConflict, msgAlreadyCancelled)

	case errors.Is(err, bookings.ErrAlreadyConfirmed):
		h.logger.Warn("%s - Already confirmed: booking_id=%d", op, bookingID)
		handlers.RespondError(w, http.StatusConflict, msgAlreadyConfirmed)

	default:
		h.logger.Error("%s - Failed to cancel booking: booking_id=%d, user_id=%d, error=%v",
			op, bookingID, userID, err)
		handlers.RespondInternalError(w)
	}
}
