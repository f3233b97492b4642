package update_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/smartappt/booking-service/internal/api/handlers"
	"github.com/smartappt/booking-service/internal/api/middleware"
	updateBooking "github.com/smartappt/booking-service/internal/usecase/update_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidStartAt     = "некорректный формат времени начала, ожидается RFC 3339"
	msgUnauthorized       = "пользователь не авторизован"
	msgBookingNotFound    = "бронирование не найдено"
	msgAccessDenied       = "нет доступа к этому бронированию"
	msgAlreadyCancelled   = "бронирование уже отменено"
	msgServiceNotFound    = "услуга не найдена"
	msgServiceInactive    = "услуга недоступна для бронирования"
	msgStartInPast        = "время начала должно быть в будущем"
	msgBusinessClosed     = "бизнес закрыт в выбранную дату"
	msgOutsideHours       = "бронирование не помещается в часы работы"
	msgInvalidTimeSlot    = "некорректный временной слот"
	msgDuplicateBooking   = "у вас уже есть бронирование этой услуги на эту дату"
	msgSlotNotAvailable   = "выбранный временной слот недоступен"
	msgInvalidInput       = "некорректные входные данные"
)

type Handler struct {
	useCase UpdateBookingUseCase
	logger  Logger
}

func NewHandler(useCase UpdateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PUT /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	customerID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /bookings/{bookingId} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	var req UpdateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /bookings/{bookingId} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID, customerID)
	if err != nil {
		h.logger.Warn("PUT /bookings/{bookingId} - Failed to parse startAt: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartAt)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, updateBooking.ErrBookingNotFound):
			h.logger.Warn("PUT /bookings/{bookingId} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, updateBooking.ErrAccessDenied):
			h.logger.Warn("PUT /bookings/{bookingId} - Access denied: booking_id=%d, customer_id=%d", bookingID, customerID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, updateBooking.ErrAlreadyCancelled):
			h.logger.Warn("PUT /bookings/{bookingId} - Already cancelled: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyCancelled)

		case errors.Is(err, updateBooking.ErrServiceNotFound):
			h.logger.Warn("PUT /bookings/{bookingId} - Service not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, updateBooking.ErrServiceInactive):
			h.logger.Warn("PUT /bookings/{bookingId} - Service inactive: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgServiceInactive)

		case errors.Is(err, updateBooking.ErrStartInPast):
			h.logger.Warn("PUT /bookings/{bookingId} - Start in past: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgStartInPast)

		case errors.Is(err, updateBooking.ErrBusinessClosed):
			h.logger.Warn("PUT /bookings/{bookingId} - Business closed: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgBusinessClosed)

		case errors.Is(err, updateBooking.ErrOutsideHours):
			h.logger.Warn("PUT /bookings/{bookingId} - Outside opening hours: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgOutsideHours)

		case errors.Is(err, updateBooking.ErrInvalidTimeSlot):
			h.logger.Warn("PUT /bookings/{bookingId} - Invalid time slot: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, updateBooking.ErrDuplicateBooking):
			h.logger.Warn("PUT /bookings/{bookingId} - Duplicate booking: booking_id=%d, customer_id=%d", bookingID, customerID)
			handlers.RespondError(w, http.StatusConflict, msgDuplicateBooking)

		case errors.Is(err, updateBooking.ErrSlotNotAvailable):
			h.logger.Warn("PUT /bookings/{bookingId} - Slot not available: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, updateBooking.ErrInvalidInput):
			h.logger.Warn("PUT /bookings/{bookingId} - Invalid input: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /bookings/{bookingId} - Failed to update booking: booking_id=%d, customer_id=%d, error=%v",
				bookingID, customerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /bookings/{bookingId} - Booking updated successfully: booking_id=%d, customer_id=%d",
		result.ID, customerID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
