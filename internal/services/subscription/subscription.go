// Package services содержит бизнес-логику для управления подписками и кешированием.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/billing"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// ErrProviderNotFound возвращается при ссылке на несуществующего провайдера.
var ErrProviderNotFound = errors.New("provider does not exist")

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateSubscription добавляет новую подписку и возвращает её ID.
	CreateSubscription(ctx context.Context, sub models.Subscription) (int, error)
	// ReadSubscription возвращает подписку пользователя по ID.
	ReadSubscription(ctx context.Context, id int, username string) (*models.Subscription, error)
	// UpdateSubscription обновляет данные подписки по ID.
	UpdateSubscription(ctx context.Context, sub models.Subscription, id int, username string) (int, error)
	// RemoveSubscription удаляет подписку по ID и возвращает количество удалённых записей.
	RemoveSubscription(ctx context.Context, id int, username string) (int, error)
	// ListSubscriptions возвращает список подписок пользователя с пагинацией.
	ListSubscriptions(ctx context.Context, username string, limit, offset int) ([]*models.Subscription, error)
	// ListAllSubscriptions возвращает список подписок всех пользователей с пагинацией.
	ListAllSubscriptions(ctx context.Context, limit, offset int) ([]*models.Subscription, error)
	// ProviderExists проверяет существование провайдера.
	ProviderExists(ctx context.Context, id int) (bool, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// SubscriptionService реализует бизнес-логику работы с подписками, включая кеширование.
type SubscriptionService struct {
	repo  SubscriptionRepository
	cache Cache
	log   *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, cache Cache, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func cacheKey(username string, id int) string {
	return fmt.Sprintf("subscription:%s:%d", username, id)
}

// Create создает новую подписку для пользователя, кеширует её и возвращает ID.
// Если дата следующего списания не передана, она вычисляется от текущей даты.
func (s *SubscriptionService) Create(ctx context.Context, username, userUID string, req models.DummySubscription) (int, error) {
	cycle, err := billing.ParseCycle(req.BillingCycle)
	if err != nil {
		return 0, err
	}

	exists, err := s.repo.ProviderExists(ctx, req.ProviderID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrProviderNotFound
	}

	var nextPaymentDate time.Time
	if req.NextPaymentDate != "" {
		nextPaymentDate, err = time.Parse("2006-01-02", req.NextPaymentDate)
		if err != nil {
			return 0, fmt.Errorf("invalid next payment date: %w", err)
		}
	} else {
		nextPaymentDate = billing.NextPaymentDate(cycle, time.Now())
	}

	sub := models.Subscription{
		Name:            req.Name,
		ProviderID:      req.ProviderID,
		Username:        username,
		UserUID:         userUID,
		Amount:          req.Amount,
		BillingCycle:    req.BillingCycle,
		NextPaymentDate: nextPaymentDate,
		Notes:           req.Notes,
		Tags:            req.Tags,
	}

	id, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return 0, err
	}

	s.log.Info("created new subscription", slog.Int("id", id))

	sub.ID = id
	if err := s.cache.Set(cacheKey(username, id), sub, time.Hour); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", cacheKey(username, id)), slog.Any("err", err))
	}

	return id, nil
}

// Read возвращает подписку по ID, используя кеш или репозиторий.
func (s *SubscriptionService) Read(ctx context.Context, id int, username string) (*models.Subscription, error) {
	var result *models.Subscription
	key := cacheKey(username, id)
	found, err := s.cache.Get(key, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ReadSubscription(ctx, id, username)
	if err != nil {
		return nil, err
	}

	if result != nil {
		if err := s.cache.Set(key, result, time.Hour); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", key), slog.Any("err", err))
		}
	}
	return result, nil
}

// Update обновляет подписку и обновляет кеш. Смена биллингового цикла
// всегда пересчитывает дату следующего списания от текущей даты,
// отбрасывая переданное в запросе значение.
func (s *SubscriptionService) Update(ctx context.Context, req models.DummySubscription, id int, username string) (int, error) {
	cycle, err := billing.ParseCycle(req.BillingCycle)
	if err != nil {
		return 0, err
	}

	exists, err := s.repo.ProviderExists(ctx, req.ProviderID)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, ErrProviderNotFound
	}

	current, err := s.repo.ReadSubscription(ctx, id, username)
	if err != nil {
		return 0, err
	}

	var nextPaymentDate time.Time
	switch {
	case req.BillingCycle != current.BillingCycle:
		nextPaymentDate = billing.NextPaymentDate(cycle, time.Now())
	case req.NextPaymentDate != "":
		nextPaymentDate, err = time.Parse("2006-01-02", req.NextPaymentDate)
		if err != nil {
			return 0, fmt.Errorf("invalid next payment date: %w", err)
		}
	default:
		nextPaymentDate = current.NextPaymentDate
	}

	sub := models.Subscription{
		Name:            req.Name,
		ProviderID:      req.ProviderID,
		Username:        username,
		UserUID:         current.UserUID,
		Amount:          req.Amount,
		BillingCycle:    req.BillingCycle,
		NextPaymentDate: nextPaymentDate,
		Notes:           req.Notes,
		Tags:            req.Tags,
	}
	res, err := s.repo.UpdateSubscription(ctx, sub, id, username)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated subscription in storage", slog.Int("id", id))

	sub.ID = id
	if err := s.cache.Set(cacheKey(username, id), sub, time.Hour); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", cacheKey(username, id)), slog.Any("err", err))
	}
	return res, nil
}

// Remove удаляет подписку по ID и инвалидирует кеш.
func (s *SubscriptionService) Remove(ctx context.Context, id int, username string) (int, error) {
	key := cacheKey(username, id)
	if err := s.cache.Invalidate(key); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", key), slog.Any("err", err))
	}

	count, err := s.repo.RemoveSubscription(ctx, id, username)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// List возвращает подписки пользователя; администратор видит подписки всех.
func (s *SubscriptionService) List(ctx context.Context, username, role string, limit, offset int) ([]*models.Subscription, error) {
	if role == "admin" {
		return s.repo.ListAllSubscriptions(ctx, limit, offset)
	}
	return s.repo.ListSubscriptions(ctx, username, limit, offset)
}
