package update_booking

import "time"

// Request модель запроса на перенос бронирования
type Request struct {
	BookingID  int64     // ID бронирования
	CustomerID int64     // ID клиента-владельца
	StartAt    time.Time // Новое начало слота (UTC)
	Notes      *string   // Новые заметки (опционально)
}

// Response модель ответа с обновлённым бронированием
type Response struct {
	ID         int64     // ID бронирования
	BusinessID int64     // ID бизнеса
	ServiceID  int64     // ID услуги
	CustomerID int64     // ID клиента
	StartAt    time.Time // Начало слота (UTC)
	EndAt      time.Time // Конец слота (UTC)
	Status     string    // Статус бронирования
	Notes      *string   // Заметки

	CreatedAt time.Time // Время создания
	UpdatedAt time.Time // Время обновления
}
