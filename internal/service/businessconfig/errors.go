package businessconfig

import "errors"

var (
	// ErrBusinessNotFound возвращается, когда бизнес не найден
	ErrBusinessNotFound = errors.New("business not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена
	ErrServiceNotFound = errors.New("service not found")

	// ErrHoursNotFound возвращается, когда часы работы для дня не найдены
	ErrHoursNotFound = errors.New("opening hours not found")

	// ErrHoursConflict возвращается, когда часы для дня недели уже заданы
	ErrHoursConflict = errors.New("opening hours already exist for this day")

	// ErrHolidayNotFound возвращается, когда выходной день не найден
	ErrHolidayNotFound = errors.New("holiday not found")

	// ErrHolidayExists возвращается, когда выходной на эту дату уже задан
	ErrHolidayExists = errors.New("holiday already exists for this date")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
