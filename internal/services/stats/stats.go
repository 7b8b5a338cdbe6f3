// Package services считает агрегаты по подпискам для административной панели.
package services

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// pageSize размер страницы при обходе всех подписок.
const pageSize = 500

// SubscriptionRepository определяет методы хранилища, нужные для агрегатов.
type SubscriptionRepository interface {
	ListAllSubscriptions(ctx context.Context, limit, offset int) ([]*models.Subscription, error)
}

// ProviderRepository отдаёт каталог провайдеров для имён в распределении.
type ProviderRepository interface {
	ListProviders(ctx context.Context) ([]*models.Provider, error)
}

// StatsService считает агрегаты по всем подпискам: распределение
// по провайдерам, создание по месяцам и суммарные траты в месячном
// эквиваленте (годовые подписки учитываются как amount/12).
type StatsService struct {
	subs      SubscriptionRepository
	providers ProviderRepository
	log       *slog.Logger
}

// NewStatsService создает новый экземпляр StatsService.
func NewStatsService(subs SubscriptionRepository, providers ProviderRepository, log *slog.Logger) *StatsService {
	return &StatsService{
		subs:      subs,
		providers: providers,
		log:       log,
	}
}

// Collect обходит все подписки постранично и возвращает агрегаты.
func (s *StatsService) Collect(ctx context.Context) (*models.AdminStats, error) {
	providers, err := s.providers.ListProviders(ctx)
	if err != nil {
		return nil, err
	}
	providerNames := make(map[int]string, len(providers))
	for _, p := range providers {
		providerNames[p.ID] = p.Name
	}

	stats := &models.AdminStats{
		ProviderDistribution: make(map[string]int),
	}
	usedProviders := make(map[int]struct{})

	offset := 0
	for {
		page, err := s.subs.ListAllSubscriptions(ctx, pageSize, offset)
		if err != nil {
			return nil, err
		}

		for _, sub := range page {
			stats.SubscriptionCount++
			usedProviders[sub.ProviderID] = struct{}{}

			name, ok := providerNames[sub.ProviderID]
			if !ok {
				name = "unknown"
			}
			stats.ProviderDistribution[name]++

			stats.CreatedByMonth[sub.CreatedAt.Month()-1]++

			if sub.BillingCycle == "yearly" {
				stats.TotalMonthlyAmount += sub.Amount / 12
			} else {
				stats.TotalMonthlyAmount += sub.Amount
			}
		}

		if len(page) < pageSize {
			break
		}
		offset += pageSize
	}

	stats.ProviderCount = len(usedProviders)
	return stats, nil
}
