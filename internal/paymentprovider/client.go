// Package paymentprovider реализует клиент платёжного провайдера
// (Stripe-совместимый API платёжных интентов). Провайдер для приложения —
// непрозрачный внешний сервис: клиент создаёт интент, подтверждает его
// и пробрасывает сообщения об ошибках без изменений.
package paymentprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client клиент платёжного провайдера.
type Client struct {
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент провайдера.
func NewClient(secretKey, apiURL string) *Client {
	return &Client{
		secretKey:  secretKey,
		apiURL:     strings.TrimSuffix(apiURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, path string, form url.Values) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	// Повторная отправка того же запроса не должна создавать второй платёж.
	req.Header.Set("Idempotency-Key", uuid.NewString())
	return req, nil
}

func (c *Client) do(req *http.Request) (*Intent, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errResp apiError
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			return nil, fmt.Errorf("%s", errResp.Error.Message)
		}
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	var intent Intent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}

// CreatePaymentIntent создаёт платёжный интент на сумму params.AmountMinor.
// Сумма меньше MinAmountMinor отклоняется до обращения к провайдеру.
func (c *Client) CreatePaymentIntent(ctx context.Context, params CreateIntentParams) (*Intent, error) {
	const op = "paymentprovider.CreatePaymentIntent"

	if params.AmountMinor < MinAmountMinor {
		return nil, fmt.Errorf("%s: amount must be at least %d minor units", op, MinAmountMinor)
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(params.AmountMinor, 10))
	form.Set("currency", params.Currency)
	for key, value := range params.Metadata {
		form.Set("metadata["+key+"]", value)
	}

	req, err := c.newRequest(ctx, "/payment_intents", form)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c.do(req)
}

// ConfirmPaymentIntent подтверждает интент переданным платёжным методом.
// Статус результата проверяет вызывающая сторона.
func (c *Client) ConfirmPaymentIntent(ctx context.Context, intentID, paymentMethod string) (*Intent, error) {
	const op = "paymentprovider.ConfirmPaymentIntent"

	form := url.Values{}
	form.Set("payment_method", paymentMethod)

	req, err := c.newRequest(ctx, "/payment_intents/"+intentID+"/confirm", form)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c.do(req)
}
