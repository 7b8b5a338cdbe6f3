package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/paymentprovider"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) ReadSubscription(ctx context.Context, id int, username string) (*models.Subscription, error) {
	args := m.Called(ctx, id, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *mockRepo) UpdateNextPaymentDate(ctx context.Context, id int, next time.Time) (int, error) {
	args := m.Called(ctx, id, next)
	return args.Int(0), args.Error(1)
}

type mockPayments struct {
	mock.Mock
}

func (m *mockPayments) CreatePaymentIntent(ctx context.Context, params paymentprovider.CreateIntentParams) (*paymentprovider.Intent, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.Intent), args.Error(1)
}

func (m *mockPayments) ConfirmPaymentIntent(ctx context.Context, intentID, paymentMethod string) (*paymentprovider.Intent, error) {
	args := m.Called(ctx, intentID, paymentMethod)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.Intent), args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func storedSubscription() *models.Subscription {
	return &models.Subscription{
		ID:              5,
		Name:            "Netflix",
		ProviderID:      3,
		Username:        "alice",
		UserUID:         "uid-1",
		Amount:          9.99,
		BillingCycle:    "monthly",
		NextPaymentDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRenew_Success(t *testing.T) {
	repo := new(mockRepo)
	payments := new(mockPayments)
	cache := new(mockCache)
	svc := NewRenewalService(repo, payments, cache, "eur", discardLogger())

	repo.On("ReadSubscription", mock.Anything, 5, "alice").Return(storedSubscription(), nil)
	payments.On("CreatePaymentIntent", mock.Anything, mock.MatchedBy(func(p paymentprovider.CreateIntentParams) bool {
		return p.AmountMinor == 999 &&
			p.Currency == "eur" &&
			p.Metadata["subscription_id"] == "5" &&
			p.Metadata["user"] == "alice" &&
			p.Metadata["purpose"] == "subscription_renewal"
	})).Return(&paymentprovider.Intent{ID: "pi_1", ClientSecret: "pi_1_secret"}, nil)
	payments.On("ConfirmPaymentIntent", mock.Anything, "pi_1", "pm_card").
		Return(&paymentprovider.Intent{ID: "pi_1", ClientSecret: "pi_1_secret", Status: "succeeded"}, nil)

	// дата сдвигается от сохранённой, не от текущего момента
	wantNext := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	repo.On("UpdateNextPaymentDate", mock.Anything, 5, wantNext).Return(1, nil)
	cache.On("Invalidate", "subscription:alice:5").Return(nil)

	result, err := svc.Renew(context.Background(), 5, "alice", "pm_card")
	require.NoError(t, err)
	assert.Equal(t, "pi_1_secret", result.ClientSecret)
	assert.True(t, result.Subscription.NextPaymentDate.Equal(wantNext))
	repo.AssertExpectations(t)
	payments.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestRenew_DeclineLeavesSubscriptionUntouched(t *testing.T) {
	repo := new(mockRepo)
	payments := new(mockPayments)
	cache := new(mockCache)
	svc := NewRenewalService(repo, payments, cache, "eur", discardLogger())

	repo.On("ReadSubscription", mock.Anything, 5, "alice").Return(storedSubscription(), nil)
	payments.On("CreatePaymentIntent", mock.Anything, mock.Anything).
		Return(&paymentprovider.Intent{ID: "pi_1", ClientSecret: "pi_1_secret"}, nil)
	payments.On("ConfirmPaymentIntent", mock.Anything, "pi_1", "pm_card").
		Return(&paymentprovider.Intent{
			ID:     "pi_1",
			Status: "requires_payment_method",
			LastPaymentError: &paymentprovider.PaymentError{
				Code:    "card_declined",
				Message: "Your card was declined.",
			},
		}, nil)

	_, err := svc.Renew(context.Background(), 5, "alice", "pm_card")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "renewal failed")
	assert.Contains(t, err.Error(), "Your card was declined.")
	repo.AssertNotCalled(t, "UpdateNextPaymentDate", mock.Anything, mock.Anything, mock.Anything)
}

func TestRenew_CreateIntentFailureStopsEarly(t *testing.T) {
	repo := new(mockRepo)
	payments := new(mockPayments)
	cache := new(mockCache)
	svc := NewRenewalService(repo, payments, cache, "eur", discardLogger())

	repo.On("ReadSubscription", mock.Anything, 5, "alice").Return(storedSubscription(), nil)
	payments.On("CreatePaymentIntent", mock.Anything, mock.Anything).
		Return(nil, errors.New("provider unavailable"))

	_, err := svc.Renew(context.Background(), 5, "alice", "pm_card")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "renewal failed")
	payments.AssertNotCalled(t, "ConfirmPaymentIntent", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "UpdateNextPaymentDate", mock.Anything, mock.Anything, mock.Anything)
}

func TestRenew_YearlyAnchorsOnStoredDate(t *testing.T) {
	repo := new(mockRepo)
	payments := new(mockPayments)
	cache := new(mockCache)
	svc := NewRenewalService(repo, payments, cache, "eur", discardLogger())

	sub := storedSubscription()
	sub.BillingCycle = "yearly"
	sub.NextPaymentDate = time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)

	repo.On("ReadSubscription", mock.Anything, 5, "alice").Return(sub, nil)
	payments.On("CreatePaymentIntent", mock.Anything, mock.Anything).
		Return(&paymentprovider.Intent{ID: "pi_2", ClientSecret: "pi_2_secret"}, nil)
	payments.On("ConfirmPaymentIntent", mock.Anything, "pi_2", "pm_card").
		Return(&paymentprovider.Intent{ID: "pi_2", ClientSecret: "pi_2_secret", Status: "succeeded"}, nil)

	wantNext := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)
	repo.On("UpdateNextPaymentDate", mock.Anything, 5, wantNext).Return(1, nil)
	cache.On("Invalidate", mock.Anything).Return(nil)

	result, err := svc.Renew(context.Background(), 5, "alice", "pm_card")
	require.NoError(t, err)
	assert.True(t, result.Subscription.NextPaymentDate.Equal(wantNext))
}
