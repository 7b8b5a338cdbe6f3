package paymentprovider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePaymentIntent_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payment_intents", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("Idempotency-Key"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "999", r.PostForm.Get("amount"))
		assert.Equal(t, "eur", r.PostForm.Get("currency"))
		assert.Equal(t, "subscription_renewal", r.PostForm.Get("metadata[purpose]"))

		_ = json.NewEncoder(w).Encode(Intent{
			ID:           "pi_123",
			ClientSecret: "pi_123_secret_abc",
			Status:       "requires_confirmation",
			Amount:       999,
			Currency:     "eur",
		})
	}))
	defer server.Close()

	client := NewClient("sk_test_123", server.URL)
	intent, err := client.CreatePaymentIntent(context.Background(), CreateIntentParams{
		AmountMinor: 999,
		Currency:    "eur",
		Metadata:    map[string]string{"purpose": "subscription_renewal"},
	})

	require.NoError(t, err)
	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, "pi_123_secret_abc", intent.ClientSecret)
}

func TestCreatePaymentIntent_AmountTooSmall(t *testing.T) {
	client := NewClient("sk_test_123", "http://localhost:1")

	_, err := client.CreatePaymentIntent(context.Background(), CreateIntentParams{
		AmountMinor: 49,
		Currency:    "eur",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 50")
}

func TestCreatePaymentIntent_ProviderErrorPassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"type":"card_error","code":"card_declined","message":"Your card was declined."}}`))
	}))
	defer server.Close()

	client := NewClient("sk_test_123", server.URL)
	_, err := client.CreatePaymentIntent(context.Background(), CreateIntentParams{
		AmountMinor: 999,
		Currency:    "eur",
	})

	require.Error(t, err)
	assert.Equal(t, "Your card was declined.", err.Error())
}

func TestConfirmPaymentIntent_DeclinedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payment_intents/pi_123/confirm", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "pm_card_visa", r.PostForm.Get("payment_method"))

		_ = json.NewEncoder(w).Encode(Intent{
			ID:     "pi_123",
			Status: "requires_payment_method",
			LastPaymentError: &PaymentError{
				Code:        "card_declined",
				DeclineCode: "insufficient_funds",
				Message:     "Your card has insufficient funds.",
			},
		})
	}))
	defer server.Close()

	client := NewClient("sk_test_123", server.URL)
	intent, err := client.ConfirmPaymentIntent(context.Background(), "pi_123", "pm_card_visa")

	require.NoError(t, err)
	assert.NotEqual(t, StatusSucceeded, intent.Status)
	require.NotNil(t, intent.LastPaymentError)
	assert.Equal(t, "Your card has insufficient funds.", intent.LastPaymentError.Message)
}

func TestConfirmPaymentIntent_Unreachable(t *testing.T) {
	client := NewClient("sk_test_123", "http://127.0.0.1:1")

	_, err := client.ConfirmPaymentIntent(context.Background(), "pi_123", "pm_card_visa")
	assert.Error(t, err)
}
