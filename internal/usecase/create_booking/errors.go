package create_booking

import "errors"

var (
	// ErrCustomerNotFound возвращается, когда клиент не найден
	ErrCustomerNotFound = errors.New("create_booking: customer not found")

	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("create_booking: business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена или принадлежит другому бизнесу
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrServiceInactive возвращается, когда услуга отключена для бронирования
	ErrServiceInactive = errors.New("create_booking: service is not active")

	// ErrStartInPast возвращается, когда начало бронирования не в будущем
	ErrStartInPast = errors.New("create_booking: start time must be in the future")

	// ErrBusinessClosed возвращается, когда бизнес закрыт в указанный день
	// (выходной или день недели без часов работы)
	ErrBusinessClosed = errors.New("create_booking: business is closed on this date")

	// ErrOutsideHours возвращается, когда бронирование не помещается в рабочее окно
	ErrOutsideHours = errors.New("create_booking: booking does not fit within opening hours")

	// ErrInvalidTimeSlot возвращается, когда время начала не лежит на сетке слотов
	ErrInvalidTimeSlot = errors.New("create_booking: start time is not aligned to the slot grid")

	// ErrDuplicateBooking возвращается, когда у клиента уже есть бронирование
	// этой услуги на этот день
	ErrDuplicateBooking = errors.New("create_booking: customer already has a booking for this service on this date")

	// ErrSlotNotAvailable возвращается, когда слот занят подтверждённым бронированием
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
