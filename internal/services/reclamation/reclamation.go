// Package services содержит бизнес-логику обращений пользователей в поддержку.
package services

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// ReclamationRepository определяет методы для работы с обращениями в хранилище.
type ReclamationRepository interface {
	CreateReclamation(ctx context.Context, rec models.Reclamation) (int, error)
	ListReclamations(ctx context.Context) ([]*models.Reclamation, error)
	ReadReclamation(ctx context.Context, id int) (*models.Reclamation, error)
	UpdateReclamationStatus(ctx context.Context, id int, status string) (int, error)
	RemoveReclamation(ctx context.Context, id int) (int, error)
}

// ReclamationService реализует работу с обращениями. Создать обращение
// может кто угодно, читает и разбирает их администратор.
type ReclamationService struct {
	repo ReclamationRepository
	log  *slog.Logger
}

// NewReclamationService создает новый экземпляр ReclamationService.
func NewReclamationService(repo ReclamationRepository, log *slog.Logger) *ReclamationService {
	return &ReclamationService{repo: repo, log: log}
}

// Create сохраняет новое обращение со статусом pending и возвращает его ID.
func (s *ReclamationService) Create(ctx context.Context, req models.DummyReclamation) (int, error) {
	id, err := s.repo.CreateReclamation(ctx, models.Reclamation{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
		Status:  models.ReclamationPending,
	})
	if err != nil {
		return 0, err
	}
	s.log.Info("created new reclamation", slog.Int("id", id))
	return id, nil
}

// List возвращает все обращения, новые первыми.
func (s *ReclamationService) List(ctx context.Context) ([]*models.Reclamation, error) {
	return s.repo.ListReclamations(ctx)
}

// Read возвращает обращение по ID.
func (s *ReclamationService) Read(ctx context.Context, id int) (*models.Reclamation, error) {
	return s.repo.ReadReclamation(ctx, id)
}

// UpdateStatus меняет статус обращения.
func (s *ReclamationService) UpdateStatus(ctx context.Context, id int, status string) (int, error) {
	return s.repo.UpdateReclamationStatus(ctx, id, status)
}

// Remove удаляет обращение.
func (s *ReclamationService) Remove(ctx context.Context, id int) (int, error) {
	return s.repo.RemoveReclamation(ctx, id)
}
