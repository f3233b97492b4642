package openinghours

import "errors"

var (
	// ErrHoursNotFound возвращается, когда часы работы для дня не найдены
	ErrHoursNotFound = errors.New("openinghours.repository: opening hours not found")

	// ErrHoursExist возвращается при попытке создать вторую запись для того же дня недели
	ErrHoursExist = errors.New("openinghours.repository: opening hours already exist for this day")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("openinghours.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("openinghours.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("openinghours.repository: failed to scan row")
)
