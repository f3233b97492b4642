package holiday

import "errors"

var (
	// ErrHolidayNotFound возвращается, когда выходной день не найден
	ErrHolidayNotFound = errors.New("holiday.repository: holiday not found")

	// ErrHolidayExists возвращается при попытке добавить второй выходной на ту же дату
	ErrHolidayExists = errors.New("holiday.repository: holiday already exists for this date")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("holiday.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("holiday.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("holiday.repository: failed to scan row")
)
