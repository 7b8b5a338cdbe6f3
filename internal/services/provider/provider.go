// Package services содержит бизнес-логику для управления каталогом провайдеров.
package services

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// ProviderRepository определяет методы для работы с провайдерами в хранилище.
type ProviderRepository interface {
	ListProviders(ctx context.Context) ([]*models.Provider, error)
	CreateProvider(ctx context.Context, provider models.Provider) (int, error)
	UpdateProvider(ctx context.Context, provider models.Provider, id int) (int, error)
	RemoveProvider(ctx context.Context, id int) (int, error)
}

// ProviderService реализует операции над каталогом провайдеров.
// Каталог общий для всех пользователей, изменяет его только администратор.
type ProviderService struct {
	repo ProviderRepository
	log  *slog.Logger
}

// NewProviderService создает новый экземпляр ProviderService.
func NewProviderService(repo ProviderRepository, log *slog.Logger) *ProviderService {
	return &ProviderService{repo: repo, log: log}
}

// List возвращает всех провайдеров.
func (s *ProviderService) List(ctx context.Context) ([]*models.Provider, error) {
	return s.repo.ListProviders(ctx)
}

// Create добавляет провайдера и возвращает его ID.
func (s *ProviderService) Create(ctx context.Context, req models.DummyProvider) (int, error) {
	id, err := s.repo.CreateProvider(ctx, models.Provider{
		Name:     req.Name,
		LogoPath: req.LogoPath,
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("created new provider", slog.Int("id", id))
	return id, nil
}

// Update обновляет провайдера и возвращает количество изменённых записей.
func (s *ProviderService) Update(ctx context.Context, req models.DummyProvider, id int) (int, error) {
	return s.repo.UpdateProvider(ctx, models.Provider{
		Name:     req.Name,
		LogoPath: req.LogoPath,
	}, id)
}

// Remove удаляет провайдера и возвращает количество удалённых записей.
func (s *ProviderService) Remove(ctx context.Context, id int) (int, error) {
	return s.repo.RemoveProvider(ctx, id)
}
