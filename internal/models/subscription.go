// Package models содержит доменные структуры, описывающие подписку,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import "time"

// Subscription представляет собой основную модель подписки,
// используемую в бизнес-логике и хранилище. Подписка всегда принадлежит
// ровно одному пользователю; NextPaymentDate после создания присутствует
// всегда (вычисляется, если не передана).
type Subscription struct {
	ID              int       `json:"id"`                // Уникальный идентификатор подписки
	Name            string    `json:"name"`              // Отображаемое название
	ProviderID      int       `json:"provider_id"`       // Ссылка на провайдера
	Username        string    `json:"username"`          // Имя пользователя-владельца
	UserUID         string    `json:"user_uid"`          // UID пользователя-владельца
	Amount          float64   `json:"amount"`            // Стоимость за один биллинговый цикл
	BillingCycle    string    `json:"billing_cycle"`     // monthly или yearly
	NextPaymentDate time.Time `json:"next_payment_date"` // Дата следующего списания (без времени)
	Notes           *string   `json:"notes,omitempty"`   // Необязательные заметки
	Tags            []string  `json:"tags,omitempty"`    // Необязательные теги
	CreatedAt       time.Time `json:"created_at"`        // Дата создания записи
}

// DummySubscription используется для приёма данных из JSON-запроса,
// прежде чем конвертировать их в Subscription.
// Дата приходит строкой, чтобы её можно было валидировать и парсить вручную.
type DummySubscription struct {
	Name            string   `json:"name" validate:"required"`                                              // Название подписки
	ProviderID      int      `json:"provider_id" validate:"required,gt=0"`                                  // ID провайдера
	Amount          float64  `json:"amount" validate:"required,gt=0"`                                       // Стоимость (>0)
	BillingCycle    string   `json:"billing_cycle" validate:"required,oneof=monthly yearly"`                // Биллинговый цикл
	NextPaymentDate string   `json:"next_payment_date,omitempty" validate:"omitempty,datetime=2006-01-02"` // Дата в формате 2006-01-02
	Notes           *string  `json:"notes,omitempty"`                                                       // Заметки (опционально)
	Tags            []string `json:"tags,omitempty"`                                                        // Теги (опционально)
}

// RenewRequest описывает тело запроса на продление подписки.
// Платёжный метод нужен для серверного подтверждения платежа.
type RenewRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
}

// RenewalResult возвращается после успешного продления: клиентский секрет
// платёжного интента и подписка с уже сдвинутой датой следующего списания.
type RenewalResult struct {
	ClientSecret string        `json:"client_secret"`
	Subscription *Subscription `json:"subscription"`
}

// SubscriptionNotice содержит данные для письма о скором списании.
type SubscriptionNotice struct {
	SubscriptionID  int       `json:"subscription_id"`
	Email           string    `json:"email"`
	Username        string    `json:"username"`
	Name            string    `json:"name"`
	Amount          float64   `json:"amount"`
	NextPaymentDate time.Time `json:"next_payment_date"`
}
