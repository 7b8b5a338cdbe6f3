// Package list реализует HTTP-обработчик списка обращений в поддержку.
// Доступен только администратору.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subscription-tracker/internal/http/response"
	"github.com/magabrotheeeer/subscription-tracker/internal/lib/sl"
	"github.com/magabrotheeeer/subscription-tracker/internal/models"
)

// Handler обрабатывает запросы списка обращений.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка обращений.
type Service interface {
	List(ctx context.Context) ([]*models.Reclamation, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список обращений
// @Description Возвращает все обращения, новые первыми. Только для администратора.
// @Tags Reclamations
// @Produce  json
// @Success 200 {object} map[string]any "Список обращений"
// @Failure 403 {object} response.ErrorResponse "Доступ запрещён"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /admin/reclamations [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.reclamation.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list reclamations", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list reclamations"))
		return
	}

	log.Info("list reclamations", "count", len(res))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"reclamations": res,
	}))
}
