package get_monthly_calendar

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("get_monthly_calendar: business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена или принадлежит другому бизнесу
	ErrServiceNotFound = errors.New("get_monthly_calendar: service not found")

	// ErrServiceInactive возвращается, когда услуга отключена для бронирования
	ErrServiceInactive = errors.New("get_monthly_calendar: service is not active")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_monthly_calendar: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_monthly_calendar: internal error")
)
