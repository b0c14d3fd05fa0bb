package payments

// authorizeRequest тело запроса авторизации платежа
type authorizeRequest struct {
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	PaymentToken   string  `json:"paymentToken"`
	IdempotencyKey string  `json:"idempotencyKey"`
}

// authorizeResponse тело ответа платежного сервиса
type authorizeResponse struct {
	Authorized      bool   `json:"authorized"`
	AuthorizationID string `json:"authorizationId"`
	DeclineReason   string `json:"declineReason,omitempty"`
}

// Authorization результат успешной авторизации платежа.
// Ядро хранит из него только факт успеха; идентификатор нужен лишь для логов.
type Authorization struct {
	ID string
}
