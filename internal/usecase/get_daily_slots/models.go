package get_daily_slots

import "time"

// Request модель запроса свободных слотов на день
type Request struct {
	BusinessID int64     // ID бизнеса
	ServiceID  int64     // ID услуги
	Date       time.Time // Календарная дата (UTC)
}

// Response модель ответа со свободными слотами
type Response struct {
	BusinessID int64       // ID бизнеса
	ServiceID  int64       // ID услуги
	Date       time.Time   // Запрошенная дата
	IsOpen     bool        // Открыт ли бизнес в этот день
	Slots      []time.Time // Начала свободных слотов (UTC), по возрастанию
}
