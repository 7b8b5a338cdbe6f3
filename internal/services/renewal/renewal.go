// Package services реализует продление подписки через платёжного провайдера.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/billing"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
	"github.com/magabrotheeeer/subscription-tracker/internal/paymentprovider"
)

// SubscriptionRepository определяет методы хранилища, нужные продлению.
type SubscriptionRepository interface {
	// ReadSubscription возвращает подписку пользователя по ID.
	ReadSubscription(ctx context.Context, id int, username string) (*models.Subscription, error)
	// UpdateNextPaymentDate сдвигает дату следующего списания.
	UpdateNextPaymentDate(ctx context.Context, id int, next time.Time) (int, error)
}

// PaymentClient описывает операции платёжного провайдера.
type PaymentClient interface {
	// CreatePaymentIntent создаёт платёжный интент.
	CreatePaymentIntent(ctx context.Context, params paymentprovider.CreateIntentParams) (*paymentprovider.Intent, error)
	// ConfirmPaymentIntent подтверждает интент платёжным методом.
	ConfirmPaymentIntent(ctx context.Context, intentID, paymentMethod string) (*paymentprovider.Intent, error)
}

// Cache описывает инвалидацию закешированных подписок.
type Cache interface {
	Invalidate(key string) error
}

// RenewalService продлевает подписки: списывает оплату и сдвигает дату
// следующего списания. Дата меняется только после подтверждённого успеха
// платежа и отсчитывается от сохранённой даты, а не от текущего момента.
type RenewalService struct {
	repo     SubscriptionRepository
	payments PaymentClient
	cache    Cache
	currency string
	log      *slog.Logger
}

// NewRenewalService создает новый экземпляр RenewalService.
func NewRenewalService(repo SubscriptionRepository, payments PaymentClient,
	cache Cache, currency string, log *slog.Logger) *RenewalService {
	return &RenewalService{
		repo:     repo,
		payments: payments,
		cache:    cache,
		currency: currency,
		log:      log,
	}
}

// Renew выполняет полный цикл продления: создаёт платёжный интент на
// стоимость одного биллингового цикла, подтверждает его и при статусе
// succeeded сдвигает дату следующего списания на один цикл вперёд.
// При любом отказе подписка не изменяется.
func (s *RenewalService) Renew(ctx context.Context, id int, username, paymentMethod string) (*models.RenewalResult, error) {
	sub, err := s.repo.ReadSubscription(ctx, id, username)
	if err != nil {
		return nil, err
	}

	cycle, err := billing.ParseCycle(sub.BillingCycle)
	if err != nil {
		return nil, err
	}

	intent, err := s.payments.CreatePaymentIntent(ctx, paymentprovider.CreateIntentParams{
		AmountMinor: int64(math.Round(sub.Amount * 100)),
		Currency:    s.currency,
		Metadata: map[string]string{
			"subscription_id": strconv.Itoa(sub.ID),
			"user":            username,
			"purpose":         "subscription_renewal",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("renewal failed: %w", err)
	}

	confirmed, err := s.payments.ConfirmPaymentIntent(ctx, intent.ID, paymentMethod)
	if err != nil {
		return nil, fmt.Errorf("renewal failed: %w", err)
	}
	if confirmed.Status != paymentprovider.StatusSucceeded {
		reason := confirmed.Status
		if confirmed.LastPaymentError != nil && confirmed.LastPaymentError.Message != "" {
			reason = confirmed.LastPaymentError.Message
		}
		s.log.Warn("payment was not confirmed",
			slog.Int("subscription_id", sub.ID),
			slog.String("status", confirmed.Status))
		return nil, fmt.Errorf("renewal failed: %s", reason)
	}

	next := billing.NextPaymentDate(cycle, sub.NextPaymentDate)
	if _, err := s.repo.UpdateNextPaymentDate(ctx, sub.ID, next); err != nil {
		return nil, err
	}
	sub.NextPaymentDate = next

	key := fmt.Sprintf("subscription:%s:%d", username, sub.ID)
	if err := s.cache.Invalidate(key); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", key), slog.Any("err", err))
	}

	s.log.Info("subscription renewed",
		slog.Int("id", sub.ID),
		slog.Time("next_payment_date", next))

	return &models.RenewalResult{
		ClientSecret: confirmed.ClientSecret,
		Subscription: sub,
	}, nil
}
