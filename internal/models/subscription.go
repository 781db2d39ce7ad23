package models

import "time"

// DateLayout — формат даты окончания подписки в запросах и ответах.
const DateLayout = time.DateOnly

// Subscription — право пользователя на продукт до ExpirationDate включительно.
// Пара (UserID, ProductID) уникальна.
type Subscription struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	ProductID      int64     `json:"product_id"`
	ExpirationDate time.Time `json:"-"`
}

// ActiveOn сообщает, даёт ли подписка доступ в календарный день day.
// Сравнение идёт с точностью до дня: в сам день окончания доступ ещё есть.
func (s Subscription) ActiveOn(day time.Time) bool {
	return !DateOf(s.ExpirationDate).Before(DateOf(day))
}

// DateOf отбрасывает время суток, оставляя календарную дату в UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SubscriptionView представляет подписку для JSON-ответа.
type SubscriptionView struct {
	ID             int64  `json:"id"`
	UserID         int64  `json:"user_id"`
	ProductID      int64  `json:"product_id"`
	ExpirationDate string `json:"expiration_date"`
}

// View возвращает JSON-представление подписки.
func (s Subscription) View() SubscriptionView {
	return SubscriptionView{
		ID:             s.ID,
		UserID:         s.UserID,
		ProductID:      s.ProductID,
		ExpirationDate: s.ExpirationDate.Format(DateLayout),
	}
}

// DummySubscription используется для приёма данных из JSON-запроса.
// Дата приходит строкой YYYY-MM-DD и парсится в сервисе.
type DummySubscription struct {
	UserID         int64  `json:"user_id" validate:"required,gt=0"`
	ProductID      int64  `json:"product_id" validate:"required,gt=0"`
	ExpirationDate string `json:"expiration_date" validate:"required"`
}

// SubscriptionUpdate содержит новую дату окончания подписки в формате YYYY-MM-DD.
type SubscriptionUpdate struct {
	ExpirationDate string `json:"expiration_date" validate:"required"`
}
