// Package services реализует планировщик уведомлений о скорых списаниях.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

const (
	// noticeWindowDays за сколько дней до списания отправляется уведомление.
	noticeWindowDays = 3
	// scanInterval период сканирования подписок.
	scanInterval = time.Hour
	// markerTTL время жизни маркера отправленного уведомления.
	markerTTL = 7 * 24 * time.Hour
)

// SubscriptionRepository определяет выборку подписок с приближающимся списанием.
type SubscriptionRepository interface {
	FindSubscriptionsDueWithin(ctx context.Context, days int) ([]*models.SubscriptionNotice, error)
}

// Cache хранит маркеры уже отправленных уведомлений.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// Publisher публикует уведомление в очередь.
type Publisher interface {
	Publish(message any) error
}

// PublisherFunc адаптирует функцию к интерфейсу Publisher.
type PublisherFunc func(message any) error

// Publish вызывает обёрнутую функцию.
func (f PublisherFunc) Publish(message any) error { return f(message) }

// SchedulerService периодически сканирует подписки и публикует
// уведомления о списаниях в ближайшие дни. Маркер в кеше хранит
// дату списания, о которой уже уведомили: повторное уведомление
// по той же дате не отправляется, но после продления дата меняется
// и подписка уведомляется снова.
type SchedulerService struct {
	repo      SubscriptionRepository
	cache     Cache
	publisher Publisher
	log       *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo SubscriptionRepository, cache Cache,
	publisher Publisher, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		log:       log,
	}
}

// Run запускает цикл сканирования до отмены контекста.
// Первый проход выполняется сразу, не дожидаясь тикера.
func (s *SchedulerService) Run(ctx context.Context) error {
	ticker := time.NewTicker(scanInterval)
	defer ticker.Stop()

	if err := s.ScanOnce(ctx); err != nil {
		s.log.Error("scan failed", sl.Err(err))
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.ScanOnce(ctx); err != nil {
				s.log.Error("scan failed", sl.Err(err))
			}
		}
	}
}

// ScanOnce выполняет один проход: находит подписки со списанием
// в ближайшие дни и публикует уведомления, пропуская уже отправленные.
func (s *SchedulerService) ScanOnce(ctx context.Context) error {
	notices, err := s.repo.FindSubscriptionsDueWithin(ctx, noticeWindowDays)
	if err != nil {
		return err
	}

	var published int
	for _, notice := range notices {
		key := fmt.Sprintf("notified:%d", notice.SubscriptionID)
		dueDate := notice.NextPaymentDate.Format("2006-01-02")

		var marker string
		found, err := s.cache.Get(key, &marker)
		if err != nil {
			s.log.Warn("failed to check notification marker", slog.String("key", key), sl.Err(err))
		}
		if found && marker == dueDate {
			continue
		}

		if err := s.publisher.Publish(notice); err != nil {
			s.log.Error("failed to publish notification",
				slog.Int("subscription_id", notice.SubscriptionID), sl.Err(err))
			continue
		}
		if err := s.cache.Set(key, dueDate, markerTTL); err != nil {
			s.log.Warn("failed to set notification marker", slog.String("key", key), sl.Err(err))
		}
		published++
	}

	s.log.Info("scan finished",
		slog.Int("due", len(notices)),
		slog.Int("published", published))
	return nil
}
