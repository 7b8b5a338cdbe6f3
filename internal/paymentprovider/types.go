package paymentprovider

// Статусы платёжного интента, которые различает приложение.
// Всё, что не succeeded, трактуется как отказ.
const (
	StatusSucceeded = "succeeded"
)

// MinAmountMinor минимально допустимая сумма в минорных единицах (50 = 0.50).
const MinAmountMinor = 50

// CreateIntentParams параметры создания платёжного интента.
type CreateIntentParams struct {
	AmountMinor int64             // Сумма в минорных единицах валюты (центах)
	Currency    string            // Валюта, например "eur"
	Metadata    map[string]string // user, subscription_id, purpose и др.
}

// Intent представляет платёжный интент провайдера.
type Intent struct {
	ID               string        `json:"id"`
	ClientSecret     string        `json:"client_secret"`
	Status           string        `json:"status"`
	Amount           int64         `json:"amount"`
	Currency         string        `json:"currency"`
	LastPaymentError *PaymentError `json:"last_payment_error,omitempty"`
}

// PaymentError описывает причину отказа платежа.
type PaymentError struct {
	Code        string `json:"code"`
	DeclineCode string `json:"decline_code,omitempty"`
	Message     string `json:"message"`
}

// apiError конверт ошибки в ответах провайдера.
type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
