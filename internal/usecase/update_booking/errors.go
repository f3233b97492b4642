package update_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("update_booking: booking not found")

	// ErrAccessDenied возвращается, когда бронирование принадлежит другому клиенту
	ErrAccessDenied = errors.New("update_booking: access denied")

	// ErrAlreadyCancelled возвращается при попытке перенести отменённое бронирование
	ErrAlreadyCancelled = errors.New("update_booking: booking is already cancelled")

	// ErrServiceNotFound возвращается, когда услуга бронирования не найдена
	ErrServiceNotFound = errors.New("update_booking: service not found")

	// ErrServiceInactive возвращается, когда услуга отключена для бронирования
	ErrServiceInactive = errors.New("update_booking: service is not active")

	// ErrStartInPast возвращается, когда новое начало не в будущем
	ErrStartInPast = errors.New("update_booking: start time must be in the future")

	// ErrBusinessClosed возвращается, когда бизнес закрыт в указанный день
	ErrBusinessClosed = errors.New("update_booking: business is closed on this date")

	// ErrOutsideHours возвращается, когда бронирование не помещается в рабочее окно
	ErrOutsideHours = errors.New("update_booking: booking does not fit within opening hours")

	// ErrInvalidTimeSlot возвращается, когда новое начало не лежит на сетке слотов
	ErrInvalidTimeSlot = errors.New("update_booking: start time is not aligned to the slot grid")

	// ErrDuplicateBooking возвращается, когда у клиента уже есть другое
	// бронирование этой услуги на новый день
	ErrDuplicateBooking = errors.New("update_booking: customer already has a booking for this service on this date")

	// ErrSlotNotAvailable возвращается, когда новый слот занят подтверждённым бронированием
	ErrSlotNotAvailable = errors.New("update_booking: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("update_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_booking: internal error")
)
