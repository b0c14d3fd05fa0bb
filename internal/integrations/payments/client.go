package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент платежного сервиса.
// Авторизация - единственная операция, нужная ядру: успех/отказ по
// непрозрачному платежному токену. Ретраи платежей ядро не выполняет.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента платежного сервиса
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Authorize авторизует платеж на указанную сумму.
// Отказ платежного сервиса возвращается как ErrPaymentDeclined, все прочие
// проблемы (сеть, таймаут, некорректный ответ) - как ErrInternal /
// ErrInvalidResponse. Ключ идемпотентности задает вызывающая сторона:
// повтор с тем же ключом не авторизует платеж повторно.
func (c *Client) Authorize(ctx context.Context, amount float64, paymentToken, idempotencyKey string) (*Authorization, error) {
	url := fmt.Sprintf("%s/api/v1/authorize", c.baseURL)

	payload := authorizeRequest{
		Amount:         amount,
		Currency:       "USD",
		PaymentToken:   paymentToken,
		IdempotencyKey: idempotencyKey,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusPaymentRequired:
		return nil, ErrPaymentDeclined
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	var result authorizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if !result.Authorized {
		c.log.Warn("Authorize: payment declined, reason=%s", result.DeclineReason)
		return nil, ErrPaymentDeclined
	}

	c.log.Info("Authorize: payment authorized, authorization_id=%s", result.AuthorizationID)
	return &Authorization{ID: result.AuthorizationID}, nil
}
