package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrAlreadyConfirmed возвращается при повторном подтверждении или отмене подтверждённого
	ErrAlreadyConfirmed = errors.New("booking is already confirmed")

	// ErrAlreadyCancelled возвращается при операции над отменённым бронированием
	ErrAlreadyCancelled = errors.New("booking is already cancelled")

	// ErrSlotConflict возвращается, когда слот уже занят подтверждённым бронированием
	ErrSlotConflict = errors.New("slot is already taken by a confirmed booking")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
