package create_booking

import "time"

// Request модель запроса на создание бронирования
type Request struct {
	CustomerID int64     // ID клиента
	BusinessID int64     // ID бизнеса
	ServiceID  int64     // ID услуги
	StartAt    time.Time // Начало слота (UTC)
	Notes      *string   // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID         int64     // ID созданного бронирования
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
